package asp

import (
	"fmt"
	"math/big"
)

// Kind identifies the runtime type of an Object.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindTuple
	KindDict
	KindArray
	KindFunc
	KindModule
	KindInstance
)

// String returns the lower-case type name, e.g. "int" or "list".
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	case KindArray:
		return "array"
	case KindFunc:
		return "function"
	case KindModule:
		return "module"
	case KindInstance:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Object is a reference-counted runtime value.
//
// Every constructor on [Runtime] returns a new reference (count 1). Callers
// that store an object must hold a reference via IncRef and release it with
// DecRef. Getters on containers return borrowed references. The dedicated
// setters document whether they steal the passed reference (tuple and
// positional list stores) or take their own (append and dict stores); this
// mirrors the conventions of the C object APIs the bridge has to honor.
//
// Objects are not safe for concurrent use. The runtime is a single logical
// thread of execution.
type Object struct {
	rt   *Runtime
	kind Kind
	refs int

	// immortal marks the per-runtime singletons (None, True, False) that
	// are never freed, whatever their reference count does.
	immortal bool

	b      bool
	i      *big.Int
	f      float64
	s      string
	items  []*Object // list and tuple storage
	fields []string  // record field names for named tuples
	dict   *dictRep
	arr    *arrayRep
	fn     *funcRep
	mod    *moduleRep
	inst   *instanceRep
}

// Kind returns the runtime type of the object.
func (o *Object) Kind() Kind {
	return o.kind
}

// IncRef takes an additional reference to the object.
func (o *Object) IncRef() {
	if o.refs <= 0 {
		panic("asp: IncRef on freed object")
	}
	o.refs++
}

// DecRef releases one reference. When the last reference is released the
// object is freed: child references are released and further use panics.
func (o *Object) DecRef() {
	if o.refs <= 0 {
		panic("asp: DecRef on freed object")
	}
	o.refs--
	if o.refs == 0 {
		if o.immortal {
			o.refs = 1
			return
		}
		o.free()
	}
}

// RefCount returns the current reference count.
func (o *Object) RefCount() int {
	return o.refs
}

func (o *Object) free() {
	for _, it := range o.items {
		if it != nil {
			it.DecRef()
		}
	}
	o.items = nil
	if o.dict != nil {
		for _, k := range o.dict.order {
			o.dict.items[k].DecRef()
		}
		o.dict = nil
	}
	if o.inst != nil {
		for _, k := range o.inst.order {
			o.inst.attrs[k].DecRef()
		}
		o.inst = nil
	}
	if o.mod != nil {
		for _, k := range o.mod.order {
			o.mod.members[k].DecRef()
		}
		o.mod = nil
	}
	o.i = nil
	o.s = ""
	o.arr = nil
	o.fn = nil
	o.fields = nil
	o.rt.live--
}

// Bool returns the boolean payload.
func (o *Object) Bool() (bool, error) {
	if o.kind != KindBool {
		return false, fmt.Errorf("expected bool, got %s", o.kind)
	}
	return o.b, nil
}

// Int returns the integer payload. The returned value must not be mutated.
func (o *Object) Int() (*big.Int, error) {
	if o.kind != KindInt {
		return nil, fmt.Errorf("expected int, got %s", o.kind)
	}
	return o.i, nil
}

// Int64 narrows the integer payload to int64. Values outside the int64
// range are an error, not a silent truncation.
func (o *Object) Int64() (int64, error) {
	if o.kind != KindInt {
		return 0, fmt.Errorf("expected int, got %s", o.kind)
	}
	if !o.i.IsInt64() {
		return 0, fmt.Errorf("integer %s overflows int64", o.i)
	}
	return o.i.Int64(), nil
}

// Float returns the floating-point payload.
func (o *Object) Float() (float64, error) {
	if o.kind != KindFloat {
		return 0, fmt.Errorf("expected float, got %s", o.kind)
	}
	return o.f, nil
}

// Str returns the string payload.
func (o *Object) Str() (string, error) {
	if o.kind != KindStr {
		return "", fmt.Errorf("expected str, got %s", o.kind)
	}
	return o.s, nil
}

// Len returns the element count of a list, tuple, dict or string.
func (o *Object) Len() (int, error) {
	switch o.kind {
	case KindList, KindTuple:
		return len(o.items), nil
	case KindDict:
		return len(o.dict.order), nil
	case KindStr:
		return len(o.s), nil
	case KindArray:
		return o.arr.size(), nil
	default:
		return 0, fmt.Errorf("object of type %s has no len()", o.kind)
	}
}

// Item returns the element at index i of a list or tuple as a borrowed
// reference.
func (o *Object) Item(i int) (*Object, error) {
	if o.kind != KindList && o.kind != KindTuple {
		return nil, fmt.Errorf("expected list or tuple, got %s", o.kind)
	}
	if i < 0 || i >= len(o.items) {
		return nil, fmt.Errorf("index %d out of range", i)
	}
	return o.items[i], nil
}

// Items returns the backing element slice of a list or tuple. The elements
// are borrowed references and the slice must not be mutated.
func (o *Object) Items() ([]*Object, error) {
	if o.kind != KindList && o.kind != KindTuple {
		return nil, fmt.Errorf("expected list or tuple, got %s", o.kind)
	}
	return o.items, nil
}

// ListSetItem stores v at index i of a list, stealing the caller's
// reference to v. A previously stored element is released.
func (o *Object) ListSetItem(i int, v *Object) error {
	if o.kind != KindList {
		v.DecRef()
		return fmt.Errorf("expected list, got %s", o.kind)
	}
	if i < 0 || i >= len(o.items) {
		v.DecRef()
		return fmt.Errorf("list index %d out of range", i)
	}
	if old := o.items[i]; old != nil {
		old.DecRef()
	}
	o.items[i] = v
	return nil
}

// ListAppend appends v to a list, taking its own reference to v.
func (o *Object) ListAppend(v *Object) error {
	if o.kind != KindList {
		return fmt.Errorf("expected list, got %s", o.kind)
	}
	v.IncRef()
	o.items = append(o.items, v)
	return nil
}

// TupleSetItem stores v at index i of a tuple, stealing the caller's
// reference to v. Tuples are write-once per slot during construction.
func (o *Object) TupleSetItem(i int, v *Object) error {
	if o.kind != KindTuple {
		v.DecRef()
		return fmt.Errorf("expected tuple, got %s", o.kind)
	}
	if i < 0 || i >= len(o.items) {
		v.DecRef()
		return fmt.Errorf("tuple index %d out of range", i)
	}
	if old := o.items[i]; old != nil {
		old.DecRef()
	}
	o.items[i] = v
	return nil
}

// Fields returns the record field names of a named tuple, or nil for a
// plain tuple.
func (o *Object) Fields() []string {
	if o.kind != KindTuple {
		return nil
	}
	return o.fields
}

// ClassTag returns the module-qualified class name of the object, or ""
// when the object exposes no class metadata.
func (o *Object) ClassTag() string {
	switch o.kind {
	case KindInstance:
		return o.inst.class.Module + "." + o.inst.class.Name
	case KindFunc:
		return "builtins.function"
	case KindModule:
		return "builtins.module"
	default:
		return ""
	}
}
