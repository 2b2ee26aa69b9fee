package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Friend state is relational rather than an array column on users:
// friend_requests rows back both halves of an in-flight request, and
// friendships holds symmetric row pairs. Expenses and messages are
// individually addressable rows so single entries can be updated without
// rewriting their collection.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    uid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    email_verified INTEGER NOT NULL DEFAULT 0,
    name_last_updated_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS friend_requests (
    from_uid TEXT NOT NULL,
    to_uid TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (from_uid, to_uid)
);

CREATE TABLE IF NOT EXISTS friendships (
    user_uid TEXT NOT NULL,
    friend_uid TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (user_uid, friend_uid)
);

CREATE TABLE IF NOT EXISTS pools (
    id TEXT PRIMARY KEY,
    user_a TEXT NOT NULL,
    user_b TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    pool_id TEXT NOT NULL,
    amount REAL NOT NULL,
    reason TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    added_by TEXT NOT NULL,
    added_by_name TEXT NOT NULL,
    FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    user_a TEXT NOT NULL,
    user_b TEXT NOT NULL,
    last_message_text TEXT,
    last_message_sender TEXT,
    last_message_at INTEGER
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    chat_id TEXT NOT NULL,
    text TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    sender_name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS action_tokens (
    token TEXT PRIMARY KEY,
    uid TEXT NOT NULL,
    purpose TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_friend_requests_to ON friend_requests(to_uid);
CREATE INDEX IF NOT EXISTS idx_friendships_user ON friendships(user_uid);
CREATE INDEX IF NOT EXISTS idx_expenses_pool_id ON expenses(pool_id);
CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id, created_at);
CREATE INDEX IF NOT EXISTS idx_action_tokens_uid ON action_tokens(uid);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
