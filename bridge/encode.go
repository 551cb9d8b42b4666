package bridge

import (
	"fmt"

	"github.com/asp-lang/asp"
)

// fromValue converts a host value into a new owned reference to an
// embedded object.
//
// Dispatch order mirrors toValue's in reverse: NULL, opaque handle
// pass-through, array shapes, scalars, vectors, lists. Every intermediate
// reference is pinned so it is released on each exit path.
func (s *Session) fromValue(v Value) (*asp.Object, error) {
	rt := s.rt

	// NULL becomes the embedded none, as a fresh owned reference
	if v.kind == KindNull {
		n := rt.None()
		n.IncRef()
		return n, nil
	}

	// embedded objects pass straight through: a new reference to the
	// same underlying object, never a copy
	if v.kind == KindObject {
		obj, err := v.h.get()
		if err != nil {
			return nil, err
		}
		obj.IncRef()
		return obj, nil
	}

	// a dim shape makes an array view backed by the host's own memory
	if v.dim != nil {
		return s.arrayView(v)
	}

	switch v.kind {
	case KindBool:
		if len(v.bools) == 1 {
			return rt.NewBool(v.bools[0]), nil
		}
		list := rt.NewList(len(v.bools))
		for i, b := range v.bools {
			list.ListSetItem(i, rt.NewBool(b))
		}
		return list, nil

	case KindInt:
		if len(v.ints) == 1 {
			return rt.NewInt(v.ints[0]), nil
		}
		list := rt.NewList(len(v.ints))
		for i, n := range v.ints {
			list.ListSetItem(i, rt.NewInt(n))
		}
		return list, nil

	case KindFloat:
		if len(v.reals) == 1 {
			return rt.NewFloat(v.reals[0]), nil
		}
		list := rt.NewList(len(v.reals))
		for i, f := range v.reals {
			list.ListSetItem(i, rt.NewFloat(f))
		}
		return list, nil

	case KindString:
		if len(v.strs) == 1 {
			return rt.NewStr(v.strs[0]), nil
		}
		list := rt.NewList(len(v.strs))
		for i, str := range v.strs {
			list.ListSetItem(i, rt.NewStr(str))
		}
		return list, nil

	case KindList:
		if v.names != nil {
			return s.listToDict(v)
		}
		return s.listToTuple(v)

	default:
		return nil, &UnconvertibleTypeError{Kind: v.kind.String()}
	}
}

// arrayView builds an embedded array aliasing the host vector's backing
// memory in column-major order. No copy is made: the host value must
// outlive every use of the view by the embedded side.
func (s *Session) arrayView(v Value) (*asp.Object, error) {
	rt := s.rt
	switch v.kind {
	case KindInt:
		return rt.NewViewInt64(v.ints, v.dim)
	case KindFloat:
		return rt.NewViewFloat64(v.reals, v.dim)
	case KindBool:
		return rt.NewViewBool(v.bools, v.dim)
	default:
		return nil, &UnsupportedMatrixTypeError{Kind: v.kind}
	}
}

// listToDict converts a named list into an embedded mapping, inserting in
// list order. An element without a name gets a positional fallback key;
// the presence of any names is what selects mapping conversion.
func (s *Session) listToDict(v Value) (*asp.Object, error) {
	d := s.rt.NewDict()
	dp := hold(d)
	defer dp.release()

	for i, item := range v.items {
		key := v.names[i]
		if key == "" {
			key = fmt.Sprintf("_%d", i)
		}
		obj, err := s.fromValue(item)
		if err != nil {
			return nil, err
		}
		op := hold(obj)
		if err := d.DictSet(key, obj); err != nil {
			op.release()
			return nil, err
		}
		op.release()
	}
	return dp.detach(), nil
}

// listToTuple converts an unnamed list into an embedded tuple of
// recursively converted elements.
func (s *Session) listToTuple(v Value) (*asp.Object, error) {
	t := s.rt.NewTuple(len(v.items))
	tp := hold(t)
	defer tp.release()

	for i, item := range v.items {
		obj, err := s.fromValue(item)
		if err != nil {
			return nil, err
		}
		// the tuple slot steals the reference
		if err := t.TupleSetItem(i, obj); err != nil {
			return nil, err
		}
	}
	return tp.detach(), nil
}
