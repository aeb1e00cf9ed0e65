// Package moderation holds the note workflow rules: the status state machine,
// the per-note capability policy and the listing visibility filter.
//
// Everything here is pure. Callers load a note, ask this package for the
// next value (or a refusal), and persist the result in one write. The acting
// actor is always passed in explicitly; a nil actor is an anonymous caller.
package moderation
