package bridge

import "github.com/asp-lang/asp"

// toValue converts an embedded object into a host value.
//
// The dispatch order is significant and must not be reordered: none, then
// scalar, then list, tuple, dict and array, and finally the opaque-handle
// fallback. Each branch is unreachable once an earlier one matched.
func (s *Session) toValue(o *asp.Object) (Value, error) {
	rt := s.rt

	// NULL for the embedded none
	if rt.IsNone(o) {
		return Null(), nil
	}

	// scalars
	switch classifyScalar(o) {
	case scalarBool:
		b, err := o.Bool()
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case scalarInt:
		n, err := o.Int64()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case scalarFloat:
		f, err := o.Float()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case scalarStr:
		str, err := o.Str()
		if err != nil {
			return Value{}, err
		}
		return Str(str), nil
	}

	switch o.Kind() {
	case asp.KindList:
		items, err := o.Items()
		if err != nil {
			return Value{}, err
		}
		return s.listToValue(items)

	case asp.KindTuple:
		items, err := o.Items()
		if err != nil {
			return Value{}, err
		}
		out := make([]Value, len(items))
		for i, it := range items {
			v, err := s.toValue(it)
			if err != nil {
				releaseValues(out[:i])
				return Value{}, err
			}
			out[i] = v
		}
		// a record-like tuple whose field names match its length becomes
		// a named list
		if fields := o.Fields(); len(fields) == len(items) && fields != nil {
			names := make([]string, len(fields))
			copy(names, fields)
			return NamedList(names, out...), nil
		}
		return List(out...), nil

	case asp.KindDict:
		keys := o.DictKeys()
		names := make([]string, 0, len(keys))
		out := make([]Value, 0, len(keys))
		for _, k := range keys {
			item, ok := o.DictGet(k)
			if !ok {
				continue
			}
			v, err := s.toValue(item)
			if err != nil {
				releaseValues(out)
				return Value{}, err
			}
			names = append(names, k)
			out = append(out, v)
		}
		return NamedList(names, out...), nil

	case asp.KindArray:
		return s.arrayToValue(o)

	default:
		// opaque wrapper: the host receives its own owned reference,
		// distinct from the one the caller holds
		o.IncRef()
		return Object(newHandle(o)), nil
	}
}

// listToValue converts a mutable sequence: a uniform sequence of one
// scalar kind flattens into a typed vector, anything else becomes a
// generic list with recursively converted elements.
func (s *Session) listToValue(items []*asp.Object) (Value, error) {
	switch classifySequence(items) {
	case scalarBool:
		vec := make([]bool, len(items))
		for i, it := range items {
			b, err := it.Bool()
			if err != nil {
				return Value{}, err
			}
			vec[i] = b
		}
		return BoolVector(vec), nil
	case scalarInt:
		vec := make([]int64, len(items))
		for i, it := range items {
			n, err := it.Int64()
			if err != nil {
				return Value{}, err
			}
			vec[i] = n
		}
		return IntVector(vec), nil
	case scalarFloat:
		vec := make([]float64, len(items))
		for i, it := range items {
			f, err := it.Float()
			if err != nil {
				return Value{}, err
			}
			vec[i] = f
		}
		return FloatVector(vec), nil
	case scalarStr:
		vec := make([]string, len(items))
		for i, it := range items {
			str, err := it.Str()
			if err != nil {
				return Value{}, err
			}
			vec[i] = str
		}
		return StrVector(vec), nil
	default:
		out := make([]Value, len(items))
		for i, it := range items {
			v, err := s.toValue(it)
			if err != nil {
				releaseValues(out[:i])
				return Value{}, err
			}
			out[i] = v
		}
		return List(out...), nil
	}
}

// arrayToValue copy-converts an embedded array: the element type is
// normalized to bool, int64 or float64, the array is cast to a fresh
// column-major copy (the caller's array is never mutated), and the flat
// buffer is copied into a newly allocated host array with the source's
// dimensions preserved in order.
func (s *Session) arrayToValue(o *asp.Object) (Value, error) {
	dt, err := o.ArrayDType()
	if err != nil {
		return Value{}, err
	}

	var target asp.DType
	switch dt {
	case asp.DTypeBool:
		target = asp.DTypeBool
	case asp.DTypeInt32, asp.DTypeInt64:
		target = asp.DTypeInt64
	case asp.DTypeFloat32, asp.DTypeFloat64:
		target = asp.DTypeFloat64
	default:
		return Value{}, &UnsupportedArrayTypeError{DType: dt}
	}

	fc, err := o.FortranCast(target)
	if err != nil {
		return Value{}, err
	}
	p := hold(fc)
	defer p.release()

	dim, err := fc.ArrayShape()
	if err != nil {
		return Value{}, err
	}

	switch target {
	case asp.DTypeBool:
		src, err := fc.ArrayBools()
		if err != nil {
			return Value{}, err
		}
		data := make([]bool, len(src))
		copy(data, src)
		return BoolArray(data, dim)
	case asp.DTypeInt64:
		src, err := fc.ArrayInt64s()
		if err != nil {
			return Value{}, err
		}
		data := make([]int64, len(src))
		copy(data, src)
		return IntArray(data, dim)
	default:
		src, err := fc.ArrayFloat64s()
		if err != nil {
			return Value{}, err
		}
		data := make([]float64, len(src))
		copy(data, src)
		return FloatArray(data, dim)
	}
}

// releaseValues closes any handles held by already-converted elements of
// an aborted container conversion, so no owned reference leaks on the
// error path.
func releaseValues(vs []Value) {
	for _, v := range vs {
		releaseValue(v)
	}
}

func releaseValue(v Value) {
	switch v.kind {
	case KindObject:
		v.h.Close()
	case KindList:
		releaseValues(v.items)
	}
}
