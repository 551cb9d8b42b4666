package bridge

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/asp-lang/asp"
)

// Options configures the embedded runtime behind a session.
type Options struct {
	// ProgramName seeds the embedded runtime's argv with a single
	// placeholder program name. Defaults to "asp".
	ProgramName string

	// Output receives embedded print output and Print. Defaults to
	// os.Stdout.
	Output io.Writer
}

// Session is the host's connection to the embedded runtime. All
// marshalling, calls and introspection go through a session.
//
// A session is single-threaded: every operation runs to completion on the
// calling goroutine, and the embedded runtime must not be entered from two
// goroutines at once.
type Session struct {
	rt  *asp.Runtime
	out io.Writer
}

var (
	initMu         sync.Mutex
	defaultSession *Session
)

// Initialize bootstraps the process-wide embedded runtime and returns the
// default session. It may succeed at most once per process: the embedded
// runtime carries global state and cannot be re-bootstrapped safely, so a
// second call returns ErrAlreadyInitialized.
func Initialize(opts Options) (*Session, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if defaultSession != nil {
		return nil, ErrAlreadyInitialized
	}
	defaultSession = newSession(opts)
	return defaultSession, nil
}

// Default returns the session created by Initialize.
func Default() (*Session, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if defaultSession == nil {
		return nil, ErrNotInitialized
	}
	return defaultSession, nil
}

// Finalize is deliberately a no-op. Tearing the embedded runtime down is
// unsafe while other parts of the process may still hold live references
// to its objects, so nothing is released; the runtime lives until the
// process exits.
func Finalize() {}

func newSession(opts Options) *Session {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Session{
		rt: asp.NewRuntime(asp.Options{
			ProgramName: opts.ProgramName,
			Stdout:      out,
		}),
		out: out,
	}
}

// runtimeErr drains the pending embedded error and wraps its rendered
// message. The error state is always cleared before surfacing, never left
// set for a later operation to trip over.
func (s *Session) runtimeErr() error {
	return &RuntimeError{Message: s.rt.FetchError()}
}

// IsNone reports whether the handle wraps the embedded none value.
func (s *Session) IsNone(h *Handle) (bool, error) {
	obj, err := h.get()
	if err != nil {
		return false, err
	}
	return s.rt.IsNone(obj), nil
}

// IsValid reports whether the handle can still be used.
func (s *Session) IsValid(h *Handle) bool {
	return h.Valid()
}

// Str renders the wrapped object the way the embedded str() would.
func (s *Session) Str(h *Handle) (string, error) {
	obj, err := h.get()
	if err != nil {
		return "", err
	}
	return s.rt.Str(obj), nil
}

// Print writes the object's string form and a newline to the session
// output.
func (s *Session) Print(h *Handle) error {
	str, err := s.Str(h)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, str)
	return nil
}

// IsCallable reports whether the wrapped object can be called.
func (s *Session) IsCallable(h *Handle) (bool, error) {
	obj, err := h.get()
	if err != nil {
		return false, err
	}
	return s.rt.IsCallable(obj), nil
}

// Attributes lists the attribute names of the wrapped object in sorted
// order.
func (s *Session) Attributes(h *Handle) ([]string, error) {
	obj, err := h.get()
	if err != nil {
		return nil, err
	}
	return s.rt.Dir(obj), nil
}

// GetAttr resolves an attribute and wraps it in a new handle.
func (s *Session) GetAttr(h *Handle, name string) (*Handle, error) {
	obj, err := h.get()
	if err != nil {
		return nil, err
	}
	attr := s.rt.GetAttr(obj, name)
	if attr == nil {
		return nil, s.runtimeErr()
	}
	return newHandle(attr), nil
}

// AttrKind is the coarse classification of an attribute, used for
// interactive introspection only; the converters never consult it.
type AttrKind int

const (
	AttrUnknown AttrKind = iota
	AttrVector
	AttrArray
	AttrListLike
	AttrCallable
)

// AttrKinds classifies the named attributes of the wrapped object.
// Attributes that are neither callable, container, array nor scalar are
// presumed to be objects and report list-like.
func (s *Session) AttrKinds(h *Handle, names []string) ([]AttrKind, error) {
	obj, err := h.get()
	if err != nil {
		return nil, err
	}
	kinds := make([]AttrKind, len(names))
	for i, name := range names {
		attr := s.rt.GetAttr(obj, name)
		if attr == nil {
			return nil, s.runtimeErr()
		}
		kinds[i] = s.classifyAttr(attr)
		attr.DecRef()
	}
	return kinds, nil
}

func (s *Session) classifyAttr(attr *asp.Object) AttrKind {
	switch {
	case s.rt.IsCallable(attr):
		return AttrCallable
	case attr.Kind() == asp.KindList || attr.Kind() == asp.KindTuple || attr.Kind() == asp.KindDict:
		return AttrListLike
	case attr.Kind() == asp.KindArray:
		return AttrArray
	case classifyScalar(attr) != notScalar:
		return AttrVector
	default:
		return AttrListLike
	}
}

// ToValue converts the wrapped object into a host value.
func (s *Session) ToValue(h *Handle) (Value, error) {
	obj, err := h.get()
	if err != nil {
		return Value{}, err
	}
	return s.toValue(obj)
}

// FromValue converts a host value into an embedded object and wraps it in
// a new handle.
func (s *Session) FromValue(v Value) (*Handle, error) {
	obj, err := s.fromValue(v)
	if err != nil {
		return nil, err
	}
	return newHandle(obj), nil
}

// Call invokes the wrapped callable with the given positional and keyword
// arguments and converts the result back into a host value. Keyword
// arguments are applied in sorted-name order so calls are deterministic.
//
// The call itself is an opaque blocking operation; it may re-enter the
// embedded runtime arbitrarily deep but has no internal suspension point.
func (s *Session) Call(h *Handle, args []Value, kwargs map[string]Value) (Value, error) {
	callable, err := h.get()
	if err != nil {
		return Value{}, err
	}
	rt := s.rt

	tuple := rt.NewTuple(len(args))
	tp := hold(tuple)
	defer tp.release()
	for i, a := range args {
		obj, err := s.fromValue(a)
		if err != nil {
			return Value{}, err
		}
		// the tuple slot steals the reference
		if err := tuple.TupleSetItem(i, obj); err != nil {
			return Value{}, err
		}
	}

	var kw *asp.Object
	if len(kwargs) > 0 {
		kw = rt.NewDict()
		kp := hold(kw)
		defer kp.release()
		names := make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			obj, err := s.fromValue(kwargs[name])
			if err != nil {
				return Value{}, err
			}
			op := hold(obj)
			if err := kw.DictSet(name, obj); err != nil {
				op.release()
				return Value{}, err
			}
			op.release()
		}
	}

	res := rt.Call(callable, tuple, kw)
	if res == nil {
		return Value{}, s.runtimeErr()
	}
	rp := hold(res)
	defer rp.release()
	return s.toValue(res)
}

// Import resolves a module by name and wraps it in a new handle.
func (s *Session) Import(name string) (*Handle, error) {
	mod := s.rt.Import(name)
	if mod == nil {
		return nil, s.runtimeErr()
	}
	return newHandle(mod), nil
}

// Dict builds an embedded mapping from parallel key and value slices.
// Keys are converted and then rendered to their string form.
func (s *Session) Dict(keys, values []Value) (*Handle, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("bridge: %d keys for %d values", len(keys), len(values))
	}
	d := s.rt.NewDict()
	dp := hold(d)
	defer dp.release()

	for i := range keys {
		keyObj, err := s.fromValue(keys[i])
		if err != nil {
			return nil, err
		}
		key := s.rt.Str(keyObj)
		keyObj.DecRef()

		valObj, err := s.fromValue(values[i])
		if err != nil {
			return nil, err
		}
		vp := hold(valObj)
		if err := d.DictSet(key, valObj); err != nil {
			vp.release()
			return nil, err
		}
		vp.release()
	}
	return newHandle(dp.detach()), nil
}

// RunString executes source code in the embedded runtime's main module,
// discarding the result.
func (s *Session) RunString(code string) error {
	res := s.rt.RunString(code)
	if res == nil {
		return s.runtimeErr()
	}
	res.DecRef()
	return nil
}

// Eval executes source code and converts the value of its last expression
// into a host value.
func (s *Session) Eval(code string) (Value, error) {
	res := s.rt.RunString(code)
	if res == nil {
		return Value{}, s.runtimeErr()
	}
	rp := hold(res)
	defer rp.release()
	return s.toValue(res)
}

// RunFile executes the named source file in the embedded runtime.
func (s *Session) RunFile(path string) error {
	res := s.rt.RunFile(path)
	if res == nil {
		return s.runtimeErr()
	}
	res.DecRef()
	return nil
}

// Runtime exposes the underlying embedded runtime for callers that need
// to construct objects or register modules directly.
func (s *Session) Runtime() *asp.Runtime {
	return s.rt
}
