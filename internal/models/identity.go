package models

// IdentityKind discriminates the two populations a ledger identity can
// belong to.
type IdentityKind string

const (
	// KindUser marks a registered user identity.
	KindUser IdentityKind = "user"

	// KindDummy marks a book-scoped placeholder identity.
	KindDummy IdentityKind = "dummy"
)

// Identity is a tagged reference to either a registered user or a dummy
// user. Transactions carry one per side so storage and tally computation
// never have to guess which table an id points into.
type Identity struct {
	// Kind is the population the ID belongs to.
	Kind IdentityKind `json:"kind"`

	// ID is the user or dummy-user identifier.
	ID int64 `json:"id"`
}

// UserIdentity builds an Identity for a registered user.
func UserIdentity(id int64) Identity {
	return Identity{Kind: KindUser, ID: id}
}

// DummyIdentity builds an Identity for a dummy user.
func DummyIdentity(id int64) Identity {
	return Identity{Kind: KindDummy, ID: id}
}

// Valid reports whether the identity carries a known kind and a usable id.
func (i Identity) Valid() bool {
	return i.ID > 0 && (i.Kind == KindUser || i.Kind == KindDummy)
}
