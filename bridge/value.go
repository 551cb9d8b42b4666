package bridge

import (
	"fmt"

	"fortio.org/safecast"
)

// Kind identifies the host representation of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
)

// String returns the host-side type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBool:
		return "logical"
	case KindInt:
		return "integer"
	case KindFloat:
		return "double"
	case KindString:
		return "character"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a host-side value: a typed vector (scalars are length-1
// vectors), an ordered list with optional element names, an opaque handle
// to an embedded object, or NULL.
//
// A vector carrying a dim shape is a multi-dimensional array stored in
// column-major order. Values are immutable once constructed; the backing
// slices returned by the accessors are borrowed and must not be mutated.
type Value struct {
	kind  Kind
	bools []bool
	ints  []int64
	reals []float64
	strs  []string
	items []Value
	names []string
	dim   []int
	h     *Handle
}

// Null returns the NULL value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a logical scalar.
func Bool(v bool) Value {
	return Value{kind: KindBool, bools: []bool{v}}
}

// BoolVector returns a logical vector over vs.
func BoolVector(vs []bool) Value {
	return Value{kind: KindBool, bools: vs}
}

// Int returns an integer scalar.
func Int(v int64) Value {
	return Value{kind: KindInt, ints: []int64{v}}
}

// IntVector returns an integer vector over vs.
func IntVector(vs []int64) Value {
	return Value{kind: KindInt, ints: vs}
}

// Float returns a double scalar.
func Float(v float64) Value {
	return Value{kind: KindFloat, reals: []float64{v}}
}

// FloatVector returns a double vector over vs.
func FloatVector(vs []float64) Value {
	return Value{kind: KindFloat, reals: vs}
}

// Str returns a character scalar.
func Str(v string) Value {
	return Value{kind: KindString, strs: []string{v}}
}

// StrVector returns a character vector over vs.
func StrVector(vs []string) Value {
	return Value{kind: KindString, strs: vs}
}

// List returns an ordered heterogeneous list.
func List(items ...Value) Value {
	return Value{kind: KindList, items: items}
}

// NamedList returns a list whose elements carry names. Elements without a
// name use "". It panics when the slices disagree in length; that is a
// programming error, not a data error.
func NamedList(names []string, items ...Value) Value {
	if len(names) != len(items) {
		panic(fmt.Sprintf("bridge.NamedList: %d names for %d items", len(names), len(items)))
	}
	return Value{kind: KindList, items: items, names: names}
}

// Object wraps a handle to an embedded object.
func Object(h *Handle) Value {
	return Value{kind: KindObject, h: h}
}

// BoolArray returns a logical array over data in column-major order with
// the given dimensions.
func BoolArray(data []bool, dim []int) (Value, error) {
	if err := checkDim(dim, len(data)); err != nil {
		return Value{}, err
	}
	return Value{kind: KindBool, bools: data, dim: dim}, nil
}

// IntArray returns an integer array over data in column-major order.
func IntArray(data []int64, dim []int) (Value, error) {
	if err := checkDim(dim, len(data)); err != nil {
		return Value{}, err
	}
	return Value{kind: KindInt, ints: data, dim: dim}, nil
}

// FloatArray returns a double array over data in column-major order.
func FloatArray(data []float64, dim []int) (Value, error) {
	if err := checkDim(dim, len(data)); err != nil {
		return Value{}, err
	}
	return Value{kind: KindFloat, reals: data, dim: dim}, nil
}

func checkDim(dim []int, n int) error {
	total := int64(1)
	for _, d := range dim {
		if d < 0 {
			return fmt.Errorf("negative dimension %d in dim %v", d, dim)
		}
		total *= int64(d)
	}
	size, err := safecast.Conv[int](total)
	if err != nil {
		return fmt.Errorf("dim %v too large: %w", dim, err)
	}
	if size != n {
		return fmt.Errorf("dim %v implies %d elements, data has %d", dim, size, n)
	}
	return nil
}

// Kind returns the host representation kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Len returns the element count of a vector or list; 0 for NULL and 1 for
// an object handle.
func (v Value) Len() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return len(v.bools)
	case KindInt:
		return len(v.ints)
	case KindFloat:
		return len(v.reals)
	case KindString:
		return len(v.strs)
	case KindList:
		return len(v.items)
	default:
		return 1
	}
}

// IsScalar reports whether the value is a length-1 vector without a dim
// shape.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return v.Len() == 1 && v.dim == nil
	default:
		return false
	}
}

// Dim returns the array shape, or nil for plain vectors.
func (v Value) Dim() []int {
	return v.dim
}

// Names returns the element names of a list, or nil when unnamed.
func (v Value) Names() []string {
	return v.names
}

// Bool returns the logical scalar payload.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool || len(v.bools) != 1 {
		return false, fmt.Errorf("expected logical scalar, got %s of length %d", v.kind, v.Len())
	}
	return v.bools[0], nil
}

// Int returns the integer scalar payload.
func (v Value) Int() (int64, error) {
	if v.kind != KindInt || len(v.ints) != 1 {
		return 0, fmt.Errorf("expected integer scalar, got %s of length %d", v.kind, v.Len())
	}
	return v.ints[0], nil
}

// Float returns the double scalar payload.
func (v Value) Float() (float64, error) {
	if v.kind != KindFloat || len(v.reals) != 1 {
		return 0, fmt.Errorf("expected double scalar, got %s of length %d", v.kind, v.Len())
	}
	return v.reals[0], nil
}

// Str returns the character scalar payload.
func (v Value) Str() (string, error) {
	if v.kind != KindString || len(v.strs) != 1 {
		return "", fmt.Errorf("expected character scalar, got %s of length %d", v.kind, v.Len())
	}
	return v.strs[0], nil
}

// Bools returns the logical vector payload.
func (v Value) Bools() ([]bool, error) {
	if v.kind != KindBool {
		return nil, fmt.Errorf("expected logical vector, got %s", v.kind)
	}
	return v.bools, nil
}

// Ints returns the integer vector payload.
func (v Value) Ints() ([]int64, error) {
	if v.kind != KindInt {
		return nil, fmt.Errorf("expected integer vector, got %s", v.kind)
	}
	return v.ints, nil
}

// Floats returns the double vector payload.
func (v Value) Floats() ([]float64, error) {
	if v.kind != KindFloat {
		return nil, fmt.Errorf("expected double vector, got %s", v.kind)
	}
	return v.reals, nil
}

// Strs returns the character vector payload.
func (v Value) Strs() ([]string, error) {
	if v.kind != KindString {
		return nil, fmt.Errorf("expected character vector, got %s", v.kind)
	}
	return v.strs, nil
}

// Items returns the elements of a list.
func (v Value) Items() ([]Value, error) {
	if v.kind != KindList {
		return nil, fmt.Errorf("expected list, got %s", v.kind)
	}
	return v.items, nil
}

// Handle returns the embedded-object handle of an object value.
func (v Value) Handle() (*Handle, error) {
	if v.kind != KindObject {
		return nil, fmt.Errorf("expected object, got %s", v.kind)
	}
	return v.h, nil
}
