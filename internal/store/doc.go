// Package store persists transcript documents in SQLite.
//
// Each row holds one document's full state, undo and redo stacks included,
// so edits made by one CLI invocation can be undone by the next. A file lock
// beside the database keeps a single process writing at a time; SQLite busy
// errors are retried with bounded backoff.
//
// The layout version lives in SQLite's user_version pragma. Databases
// stamped with another version are rejected with ErrSchemaMismatch.
package store
