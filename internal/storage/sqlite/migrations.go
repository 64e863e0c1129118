package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: users and books must be created before the tables that
// reference them.
//
// Monetary amounts are stored as INTEGER minor units (paise), never REAL.
// Transaction endpoints carry a kind discriminant per side so a sender or
// receiver resolves to exactly one of users/dummy_users.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS dummy_users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (book_id) REFERENCES books(id)
);

CREATE TABLE IF NOT EXISTS participants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id INTEGER NOT NULL,
    user_id INTEGER,
    dummy_user_id INTEGER,
    FOREIGN KEY (book_id) REFERENCES books(id),
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (dummy_user_id) REFERENCES dummy_users(id),
    CHECK ((user_id IS NULL) <> (dummy_user_id IS NULL)),
    UNIQUE (book_id, user_id),
    UNIQUE (book_id, dummy_user_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id INTEGER NOT NULL,
    sender_kind TEXT NOT NULL CHECK (sender_kind IN ('user', 'dummy')),
    sender_id INTEGER NOT NULL,
    receiver_kind TEXT NOT NULL CHECK (receiver_kind IN ('user', 'dummy')),
    receiver_id INTEGER NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    type TEXT NOT NULL CHECK (type IN ('give', 'get')),
    remarks TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (book_id) REFERENCES books(id)
);

CREATE TABLE IF NOT EXISTS invitations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id INTEGER NOT NULL,
    email TEXT NOT NULL,
    inviter_id INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (book_id) REFERENCES books(id),
    FOREIGN KEY (inviter_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_books_owner_id ON books(owner_id);
CREATE INDEX IF NOT EXISTS idx_dummy_users_book_id ON dummy_users(book_id);
CREATE INDEX IF NOT EXISTS idx_participants_book_id ON participants(book_id);
CREATE INDEX IF NOT EXISTS idx_transactions_book_id ON transactions(book_id);
CREATE INDEX IF NOT EXISTS idx_transactions_sender ON transactions(sender_kind, sender_id);
CREATE INDEX IF NOT EXISTS idx_transactions_receiver ON transactions(receiver_kind, receiver_id);
CREATE INDEX IF NOT EXISTS idx_invitations_book_id ON invitations(book_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
