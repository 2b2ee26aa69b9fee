// Package models defines the core domain records for poolpal.
//
// # Records
//
//   - User: a registered account plus its friend-graph state
//   - Pool: a two-party shared expense ledger
//   - Expense: a single entry in a pool
//   - Chat: a two-party message channel with a last-message summary
//   - Message: a single chat message
//
// Pools and chats are keyed by the deterministic pairing id of their two
// member uids (see the pairing package), so both members always resolve the
// same record regardless of who initiates.
//
// # Design Principles
//
//  1. Relationships reference uid strings, never pointers, to avoid
//     circular references.
//  2. Timestamps are Unix seconds (int64) assigned by the server.
//  3. Friend state is stored symmetrically: if A lists B as a friend, B
//     lists A. The storage layer enforces this transactionally.
package models
