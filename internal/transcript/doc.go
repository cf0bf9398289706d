// Package transcript holds the editable transcript document.
//
// A Document is an ordered list of word-backed segments plus the current
// selection and a snapshot-based undo/redo history. Segment text is always
// derived from its words, so text and timing cannot drift apart. Every
// mutating operation either succeeds and records one history entry or fails
// and leaves the document untouched.
//
// Document is not safe for concurrent use. Session wraps one Document behind
// a mutex and is the single writer that asynchronous work, such as
// translation responses, must go through.
package transcript
