package bridge

import "github.com/asp-lang/asp"

// genericClass is the class tag used when the embedded object exposes no
// class metadata of its own.
const genericClass = "asp_object"

// Handle is the host's owned reference to an opaque embedded object.
//
// A handle owns exactly one reference to the underlying object and
// releases it exactly once, in Close. A closed handle stays safe: every
// operation on it fails with [ErrInvalidHandle] instead of touching the
// freed object.
type Handle struct {
	obj   *asp.Object
	class string
}

// newHandle wraps an owned reference in a handle, taking ownership of that
// reference. The class tag is computed best-effort from the object's class
// metadata, with a generic fallback.
func newHandle(owned *asp.Object) *Handle {
	class := owned.ClassTag()
	if class == "" {
		class = genericClass
	}
	return &Handle{obj: owned, class: class}
}

// Close releases the owned reference. Closing an already closed handle is
// a no-op.
func (h *Handle) Close() {
	if h == nil || h.obj == nil {
		return
	}
	h.obj.DecRef()
	h.obj = nil
}

// Valid reports whether the handle still owns its reference.
func (h *Handle) Valid() bool {
	return h != nil && h.obj != nil
}

// Class returns the module-qualified class tag of the wrapped object, or
// the generic tag when no class metadata was available. The tag survives
// Close.
func (h *Handle) Class() string {
	if h == nil {
		return ""
	}
	return h.class
}

// get returns the wrapped object, or ErrInvalidHandle after Close.
func (h *Handle) get() (*asp.Object, error) {
	if !h.Valid() {
		return nil, ErrInvalidHandle
	}
	return h.obj, nil
}
