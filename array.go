package asp

import (
	"fmt"

	"fortio.org/safecast"
)

// DType identifies the element type of an Array object.
type DType int

const (
	DTypeBool DType = iota
	DTypeInt32
	DTypeInt64
	DTypeFloat32
	DTypeFloat64
	DTypeComplex128
)

// String returns the numpy-style dtype name.
func (d DType) String() string {
	switch d {
	case DTypeBool:
		return "bool"
	case DTypeInt32:
		return "int32"
	case DTypeInt64:
		return "int64"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	case DTypeComplex128:
		return "complex128"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// arrayRep is an N-dimensional homogeneous array. Data is stored flat in
// row-major order unless colMajor is set. Exactly one backing slice is
// non-nil, matching dtype.
type arrayRep struct {
	dtype    DType
	shape    []int
	colMajor bool

	bools []bool
	i32   []int32
	i64   []int64
	f32   []float32
	f64   []float64
	c128  []complex128
}

func (a *arrayRep) size() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// checkShape validates that shape is well formed and its element count
// matches n. The product is accumulated in 64 bits and narrowed with a
// checked conversion.
func checkShape(shape []int, n int) error {
	total := int64(1)
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		total *= int64(d)
	}
	size, err := safecast.Conv[int](total)
	if err != nil {
		return fmt.Errorf("array shape %v too large: %w", shape, err)
	}
	if size != n {
		return fmt.Errorf("shape %v implies %d elements, data has %d", shape, size, n)
	}
	return nil
}

func (rt *Runtime) newArray(rep *arrayRep) *Object {
	o := rt.alloc(KindArray)
	o.arr = rep
	return o
}

// NewArrayBool returns a new row-major bool array copying data.
func (rt *Runtime) NewArrayBool(data []bool, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]bool, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeBool, shape: cloneShape(shape), bools: d}), nil
}

// NewArrayInt32 returns a new row-major int32 array copying data.
func (rt *Runtime) NewArrayInt32(data []int32, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]int32, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeInt32, shape: cloneShape(shape), i32: d}), nil
}

// NewArrayInt64 returns a new row-major int64 array copying data.
func (rt *Runtime) NewArrayInt64(data []int64, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]int64, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeInt64, shape: cloneShape(shape), i64: d}), nil
}

// NewArrayFloat32 returns a new row-major float32 array copying data.
func (rt *Runtime) NewArrayFloat32(data []float32, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]float32, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeFloat32, shape: cloneShape(shape), f32: d}), nil
}

// NewArrayFloat64 returns a new row-major float64 array copying data.
func (rt *Runtime) NewArrayFloat64(data []float64, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]float64, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeFloat64, shape: cloneShape(shape), f64: d}), nil
}

// NewArrayComplex128 returns a new row-major complex array copying data.
func (rt *Runtime) NewArrayComplex128(data []complex128, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	d := make([]complex128, len(data))
	copy(d, data)
	return rt.newArray(&arrayRep{dtype: DTypeComplex128, shape: cloneShape(shape), c128: d}), nil
}

// NewViewBool returns a column-major bool array aliasing data. The caller
// must keep data alive and unmutated for as long as the view is used.
func (rt *Runtime) NewViewBool(data []bool, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return rt.newArray(&arrayRep{dtype: DTypeBool, shape: cloneShape(shape), colMajor: true, bools: data}), nil
}

// NewViewInt64 returns a column-major int64 array aliasing data.
func (rt *Runtime) NewViewInt64(data []int64, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return rt.newArray(&arrayRep{dtype: DTypeInt64, shape: cloneShape(shape), colMajor: true, i64: data}), nil
}

// NewViewFloat64 returns a column-major float64 array aliasing data.
func (rt *Runtime) NewViewFloat64(data []float64, shape []int) (*Object, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return rt.newArray(&arrayRep{dtype: DTypeFloat64, shape: cloneShape(shape), colMajor: true, f64: data}), nil
}

func cloneShape(shape []int) []int {
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}

// ArrayDType returns the element type of an array object.
func (o *Object) ArrayDType() (DType, error) {
	if o.kind != KindArray {
		return 0, fmt.Errorf("expected array, got %s", o.kind)
	}
	return o.arr.dtype, nil
}

// ArrayShape returns a copy of the array's dimensions.
func (o *Object) ArrayShape() ([]int, error) {
	if o.kind != KindArray {
		return nil, fmt.Errorf("expected array, got %s", o.kind)
	}
	return cloneShape(o.arr.shape), nil
}

// ArrayBools returns the flat bool backing of the array. The slice is
// borrowed and must not be mutated.
func (o *Object) ArrayBools() ([]bool, error) {
	if o.kind != KindArray || o.arr.dtype != DTypeBool {
		return nil, fmt.Errorf("expected bool array")
	}
	return o.arr.bools, nil
}

// ArrayInt64s returns the flat int64 backing of the array.
func (o *Object) ArrayInt64s() ([]int64, error) {
	if o.kind != KindArray || o.arr.dtype != DTypeInt64 {
		return nil, fmt.Errorf("expected int64 array")
	}
	return o.arr.i64, nil
}

// ArrayFloat64s returns the flat float64 backing of the array.
func (o *Object) ArrayFloat64s() ([]float64, error) {
	if o.kind != KindArray || o.arr.dtype != DTypeFloat64 {
		return nil, fmt.Errorf("expected float64 array")
	}
	return o.arr.f64, nil
}

// FortranCast returns a new array object holding a column-major contiguous
// copy of the receiver cast to the target element type. The receiver is
// never mutated; the result is a fresh allocation even when the layout and
// type already match.
func (o *Object) FortranCast(target DType) (*Object, error) {
	if o.kind != KindArray {
		return nil, fmt.Errorf("expected array, got %s", o.kind)
	}
	src := o.arr
	n := src.size()
	dst := &arrayRep{dtype: target, shape: cloneShape(src.shape), colMajor: true}
	switch target {
	case DTypeBool:
		dst.bools = make([]bool, n)
	case DTypeInt64:
		dst.i64 = make([]int64, n)
	case DTypeFloat64:
		dst.f64 = make([]float64, n)
	default:
		return nil, fmt.Errorf("cannot cast array to %s", target)
	}

	for j := 0; j < n; j++ {
		off := j
		if !src.colMajor {
			off = src.rowMajorOffset(j)
		}
		switch target {
		case DTypeBool:
			v, err := src.boolAt(off)
			if err != nil {
				return nil, err
			}
			dst.bools[j] = v
		case DTypeInt64:
			v, err := src.int64At(off)
			if err != nil {
				return nil, err
			}
			dst.i64[j] = v
		case DTypeFloat64:
			v, err := src.float64At(off)
			if err != nil {
				return nil, err
			}
			dst.f64[j] = v
		}
	}
	return o.rt.newArray(dst), nil
}

// rowMajorOffset translates a linear column-major position into the
// corresponding flat offset of a row-major buffer with the same shape.
func (a *arrayRep) rowMajorOffset(colPos int) int {
	idx := make([]int, len(a.shape))
	rem := colPos
	for d := 0; d < len(a.shape); d++ {
		if a.shape[d] == 0 {
			return 0
		}
		idx[d] = rem % a.shape[d]
		rem /= a.shape[d]
	}
	off := 0
	stride := 1
	for d := len(a.shape) - 1; d >= 0; d-- {
		off += idx[d] * stride
		stride *= a.shape[d]
	}
	return off
}

func (a *arrayRep) boolAt(off int) (bool, error) {
	if a.dtype != DTypeBool {
		return false, fmt.Errorf("cannot cast %s array to bool", a.dtype)
	}
	return a.bools[off], nil
}

func (a *arrayRep) int64At(off int) (int64, error) {
	switch a.dtype {
	case DTypeInt32:
		return int64(a.i32[off]), nil
	case DTypeInt64:
		return a.i64[off], nil
	default:
		return 0, fmt.Errorf("cannot cast %s array to int64", a.dtype)
	}
}

func (a *arrayRep) float64At(off int) (float64, error) {
	switch a.dtype {
	case DTypeFloat32:
		return float64(a.f32[off]), nil
	case DTypeFloat64:
		return a.f64[off], nil
	case DTypeInt32:
		return float64(a.i32[off]), nil
	case DTypeInt64:
		return float64(a.i64[off]), nil
	default:
		return 0, fmt.Errorf("cannot cast %s array to float64", a.dtype)
	}
}
