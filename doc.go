// Package asp implements a small, embeddable, Python-flavored object
// runtime with explicit reference counting.
//
// # Overview
//
// asp models the object conventions of a classic C scripting-runtime API:
// every constructor returns a new reference, container getters return
// borrowed references, and a handful of setters deliberately steal the
// reference they are given (see [Object]). A pending-error slot on
// [Runtime] carries raised errors until they are fetched, exactly once,
// with [Runtime.FetchError].
//
// The package exists to be driven through the bridge package, which
// marshals values between host code and the runtime:
//
//	rt := asp.NewRuntime(asp.Options{})
//	v := rt.RunString("import math\nmath.sqrt(2)")
//	if v == nil {
//	    log.Fatal(rt.FetchError())
//	}
//	defer v.DecRef()
//
// # Reference counting
//
// The discipline is manual and unforgiving on purpose: releasing the last
// reference frees the object, and any further use panics. Code that holds
// objects across fallible operations should release them on every exit
// path. The runtime tracks its live allocation count ([Runtime.LiveObjects])
// so tests can assert that reference bookkeeping balances.
//
// # Lifecycle
//
// A runtime has no teardown. Once references to its objects have been
// handed out they cannot be revoked, so the runtime stays alive for the
// rest of the process. Create one runtime and keep it.
//
// A runtime is not safe for concurrent use. All calls must come from one
// logical thread at a time.
package asp
