// Package bridge marshals values between a Go host and the embedded asp
// runtime.
//
// The host side of the boundary is the Value type, a small R-flavored
// data model of typed vectors, optionally named lists and dense numeric
// arrays. The embedded side is *asp.Object. Conversions in either
// direction are deep copies with two deliberate exceptions: opaque
// objects cross the boundary as reference-counted handles, and numeric
// arrays sent into the runtime alias the host's backing slice rather
// than copying it.
//
// # Handles
//
// A Handle owns exactly one reference to an embedded object. Close
// releases that reference; after Close every operation on the handle
// fails with ErrInvalidHandle. Handles are not garbage collected, so a
// host that drops a handle without closing it leaks the embedded object
// for the life of the process.
//
// # Sessions
//
// All operations go through a Session obtained from Initialize. The
// embedded runtime bootstraps at most once per process and is never torn
// down; Finalize exists for symmetry and does nothing. Sessions are not
// safe for concurrent use.
//
// # Errors
//
// When the embedded runtime raises, the pending error is fetched,
// cleared, rendered to text and returned as a *RuntimeError. The error
// slot is always left clean so one failed call cannot poison the next.
package bridge
