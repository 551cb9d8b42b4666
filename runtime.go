package asp

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
)

// Options configures a new runtime.
type Options struct {
	// ProgramName seeds argv[0]. Defaults to "asp".
	ProgramName string

	// Stdout receives output from print and friends. Defaults to os.Stdout.
	Stdout io.Writer
}

// Runtime is an instance of the embedded object runtime.
//
// A runtime is a single logical thread of execution: none of its methods
// may be called concurrently. There is no teardown; a runtime lives for
// the rest of the process once created, because live references handed out
// to the host cannot be revoked safely.
type Runtime struct {
	none   *Object
	vTrue  *Object
	vFalse *Object

	modules map[string]*Object
	main    *Object // the __main__ module, target of RunString

	// pendingErr is the raised-but-not-yet-fetched error value (owned),
	// nil when no error is pending.
	pendingErr *Object

	stdout io.Writer
	live   int64
}

// NewRuntime creates and bootstraps a runtime: allocates the singletons,
// installs the standard modules and seeds sys.argv with the program name.
func NewRuntime(opts Options) *Runtime {
	if opts.ProgramName == "" {
		opts.ProgramName = "asp"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	rt := &Runtime{
		modules: make(map[string]*Object),
		stdout:  opts.Stdout,
	}
	rt.none = rt.alloc(KindNone)
	rt.none.immortal = true
	rt.vTrue = rt.alloc(KindBool)
	rt.vTrue.b = true
	rt.vTrue.immortal = true
	rt.vFalse = rt.alloc(KindBool)
	rt.vFalse.immortal = true

	rt.installBuiltins()
	rt.installMath()
	rt.installSys(opts.ProgramName)

	rt.main = rt.NewModule("__main__")
	rt.modules["__main__"] = rt.main
	return rt
}

// LiveObjects reports the number of currently allocated objects, including
// the three immortal singletons. Useful for leak checks.
func (rt *Runtime) LiveObjects() int64 {
	return rt.live
}

// Stdout returns the runtime's output writer.
func (rt *Runtime) Stdout() io.Writer {
	return rt.stdout
}

func (rt *Runtime) alloc(kind Kind) *Object {
	rt.live++
	return &Object{rt: rt, kind: kind, refs: 1}
}

// None returns the none singleton as a borrowed reference.
func (rt *Runtime) None() *Object {
	return rt.none
}

// IsNone reports whether o is the none singleton.
func (rt *Runtime) IsNone(o *Object) bool {
	return o == rt.none
}

// NewBool returns a new reference to the boolean singleton for v.
func (rt *Runtime) NewBool(v bool) *Object {
	o := rt.vFalse
	if v {
		o = rt.vTrue
	}
	o.IncRef()
	return o
}

// NewInt returns a new integer object.
func (rt *Runtime) NewInt(v int64) *Object {
	o := rt.alloc(KindInt)
	o.i = big.NewInt(v)
	return o
}

// NewIntBig returns a new integer object holding a copy of v.
func (rt *Runtime) NewIntBig(v *big.Int) *Object {
	o := rt.alloc(KindInt)
	o.i = new(big.Int).Set(v)
	return o
}

// NewFloat returns a new floating-point object.
func (rt *Runtime) NewFloat(v float64) *Object {
	o := rt.alloc(KindFloat)
	o.f = v
	return o
}

// NewStr returns a new string object.
func (rt *Runtime) NewStr(v string) *Object {
	o := rt.alloc(KindStr)
	o.s = v
	return o
}

// NewList returns a new list of n nil slots, to be filled with
// ListSetItem. Unfilled slots are ignored when the list is freed.
func (rt *Runtime) NewList(n int) *Object {
	o := rt.alloc(KindList)
	o.items = make([]*Object, n)
	return o
}

// NewTuple returns a new tuple of n nil slots, to be filled with
// TupleSetItem.
func (rt *Runtime) NewTuple(n int) *Object {
	o := rt.alloc(KindTuple)
	o.items = make([]*Object, n)
	return o
}

// NewNamedTuple returns a new tuple of len(fields) nil slots carrying
// record field names, the namedtuple analogue.
func (rt *Runtime) NewNamedTuple(fields []string) *Object {
	o := rt.NewTuple(len(fields))
	o.fields = make([]string, len(fields))
	copy(o.fields, fields)
	return o
}

// NewDict returns a new empty insertion-ordered mapping.
func (rt *Runtime) NewDict() *Object {
	o := rt.alloc(KindDict)
	o.dict = &dictRep{items: make(map[string]*Object)}
	return o
}

// NewFunc returns a new native callable.
func (rt *Runtime) NewFunc(name string, fn Func) *Object {
	o := rt.alloc(KindFunc)
	o.fn = &funcRep{name: name, fn: fn}
	return o
}

// NewModule returns a new empty module object.
func (rt *Runtime) NewModule(name string) *Object {
	o := rt.alloc(KindModule)
	o.mod = &moduleRep{name: name, members: make(map[string]*Object)}
	return o
}

// NewInstance returns a new attribute-bearing instance of class.
func (rt *Runtime) NewInstance(class *Class) *Object {
	o := rt.alloc(KindInstance)
	o.inst = &instanceRep{class: class, attrs: make(map[string]*Object)}
	return o
}

// RegisterModule makes a module importable under its name, taking its own
// reference to it.
func (rt *Runtime) RegisterModule(mod *Object) error {
	name, err := mod.ModuleName()
	if err != nil {
		return err
	}
	mod.IncRef()
	if old, ok := rt.modules[name]; ok {
		old.DecRef()
	}
	rt.modules[name] = mod
	return nil
}

// Import resolves a registered module and returns a new reference to it.
// On failure the pending error is set and nil is returned.
func (rt *Runtime) Import(name string) *Object {
	mod, ok := rt.modules[name]
	if !ok {
		rt.Raise("no module named '%s'", name)
		return nil
	}
	mod.IncRef()
	return mod
}

// Main returns the __main__ module as a borrowed reference.
func (rt *Runtime) Main() *Object {
	return rt.main
}

// Raise records a pending error built from the format string, replacing
// any previously pending error.
func (rt *Runtime) Raise(format string, args ...any) {
	rt.RaiseObject(rt.NewStr(fmt.Sprintf(format, args...)))
}

// RaiseObject records v as the pending error value, stealing the caller's
// reference to it.
func (rt *Runtime) RaiseObject(v *Object) {
	if rt.pendingErr != nil {
		rt.pendingErr.DecRef()
	}
	rt.pendingErr = v
}

// ErrOccurred reports whether an error is pending.
func (rt *Runtime) ErrOccurred() bool {
	return rt.pendingErr != nil
}

// FetchError returns the string form of the pending error and clears it.
// When no error value is available it returns the fixed placeholder
// "<unknown error>". FetchError never fails.
func (rt *Runtime) FetchError() string {
	msg := "<unknown error>"
	if e := rt.pendingErr; e != nil {
		if s := rt.Str(e); s != "" {
			msg = s
		}
		e.DecRef()
		rt.pendingErr = nil
	}
	return msg
}

// ClearError drops any pending error.
func (rt *Runtime) ClearError() {
	if rt.pendingErr != nil {
		rt.pendingErr.DecRef()
		rt.pendingErr = nil
	}
}

// Str renders an object the way the embedded language's str() would.
// Rendering never fails; unknown payloads degrade to a generic form.
func (rt *Runtime) Str(o *Object) string {
	if o == nil {
		return ""
	}
	switch o.kind {
	case KindNone:
		return "None"
	case KindBool:
		if o.b {
			return "True"
		}
		return "False"
	case KindInt:
		return o.i.String()
	case KindFloat:
		return formatFloat(o.f)
	case KindStr:
		return o.s
	case KindList, KindTuple, KindDict:
		return rt.Repr(o)
	case KindArray:
		return fmt.Sprintf("array(dtype=%s, shape=%v)", o.arr.dtype, o.arr.shape)
	case KindFunc:
		return fmt.Sprintf("<function %s>", o.fn.name)
	case KindModule:
		return fmt.Sprintf("<module '%s'>", o.mod.name)
	case KindInstance:
		return fmt.Sprintf("<%s object>", o.ClassTag())
	default:
		return fmt.Sprintf("<%s>", o.kind)
	}
}

// Repr renders an object the way repr() would: strings get quoted,
// containers render their elements recursively.
func (rt *Runtime) Repr(o *Object) string {
	if o == nil {
		return ""
	}
	switch o.kind {
	case KindStr:
		return "'" + strings.ReplaceAll(o.s, "'", "\\'") + "'"
	case KindList:
		return "[" + rt.reprItems(o.items) + "]"
	case KindTuple:
		inner := rt.reprItems(o.items)
		if len(o.items) == 1 {
			inner += ","
		}
		return "(" + inner + ")"
	case KindDict:
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range o.dict.order {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "'%s': %s", k, rt.Repr(o.dict.items[k]))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return rt.Str(o)
	}
}

func (rt *Runtime) reprItems(items []*Object) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rt.Repr(it))
	}
	return b.String()
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// keep a float marker so 1.0 does not read back as an int
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}
