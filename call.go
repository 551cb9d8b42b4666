package asp

// Func is the signature of a native callable. args and kwargs are borrowed
// references; the returned object must be a new reference. Returning an
// error raises it in the runtime; a nil result with a nil error yields
// None.
type Func func(rt *Runtime, args []*Object, kwargs map[string]*Object) (*Object, error)

type funcRep struct {
	name string
	fn   Func
}

// IsCallable reports whether o can be invoked with Call.
func (rt *Runtime) IsCallable(o *Object) bool {
	return o != nil && o.kind == KindFunc
}

// Call invokes callable with a tuple of positional arguments and a dict of
// keyword arguments (either may be nil). It returns a new reference to the
// result, or nil with the pending error set. The call is an opaque
// blocking operation: it runs to completion on the calling thread.
func (rt *Runtime) Call(callable, args, kwargs *Object) *Object {
	if !rt.IsCallable(callable) {
		kind := KindNone
		if callable != nil {
			kind = callable.kind
		}
		rt.Raise("'%s' object is not callable", kind)
		return nil
	}

	var pos []*Object
	if args != nil {
		items, err := args.Items()
		if err != nil {
			rt.Raise("argument list must be a tuple, got %s", args.kind)
			return nil
		}
		pos = items
	}

	var kw map[string]*Object
	if kwargs != nil {
		if kwargs.kind != KindDict {
			rt.Raise("keyword argument list must be a dict, got %s", kwargs.kind)
			return nil
		}
		if len(kwargs.dict.order) > 0 {
			kw = make(map[string]*Object, len(kwargs.dict.order))
			for _, k := range kwargs.dict.order {
				kw[k] = kwargs.dict.items[k]
			}
		}
	}

	res, err := callable.fn.fn(rt, pos, kw)
	if err != nil {
		if res != nil {
			res.DecRef()
		}
		rt.Raise("%s", err.Error())
		return nil
	}
	if res == nil {
		rt.none.IncRef()
		return rt.none
	}
	return res
}
