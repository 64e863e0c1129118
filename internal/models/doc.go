// Package models defines the core domain models for ApnaKhata.
//
// # Models
//
//   - User: registered account with a hashed credential
//   - DummyUser: book-scoped placeholder participant, no credential
//   - Book: a shared ledger owned by exactly one registered user
//   - Participant: membership of a user or dummy user in a book
//   - Member: a participant resolved with display fields and tally
//   - Transaction: an immutable give/get entry between two identities
//   - Invitation: a pending email invite into a book
//   - Identity: tagged reference to either a user or a dummy user
//
// # Design principles
//
//  1. Identifiers are integers assigned by the store.
//  2. Monetary values use money.Amount; never floating point.
//  3. Transaction endpoints are tagged identities, so a sender or receiver
//     can be resolved to a user or a dummy user without ambiguous joins.
//  4. Relationships use ID fields instead of pointers, avoiding circular
//     references.
package models
