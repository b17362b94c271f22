// Package memdoc is an in-memory document that implements api.Surface.
//
// It keeps a flat list of rectangular nodes in painter order (later nodes
// are drawn on top), supports a small selector language (#id, .class,
// [attr="value"] and tag names, compounded without combinators), and
// dispatches events with bubbling so delegated subscriptions behave like
// their browser counterparts.
//
// memdoc backs the unit tests of the engine and the terminal surface, and
// can be used on its own to dry-run choreography without any UI.
package memdoc
