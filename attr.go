package asp

import "sort"

// GetAttr resolves an attribute by name and returns a new reference to it.
// On failure the pending error is set and nil is returned.
//
// Modules expose their members, instances their attributes. Named tuples
// expose each field by name plus "_fields", a tuple of the field names in
// positional order.
func (rt *Runtime) GetAttr(o *Object, name string) *Object {
	switch o.kind {
	case KindModule:
		if v, ok := o.mod.members[name]; ok {
			v.IncRef()
			return v
		}
	case KindInstance:
		if v, ok := o.inst.attrs[name]; ok {
			v.IncRef()
			return v
		}
	case KindTuple:
		if o.fields != nil {
			if name == "_fields" {
				t := rt.NewTuple(len(o.fields))
				for i, f := range o.fields {
					// reference stolen by the tuple slot
					t.TupleSetItem(i, rt.NewStr(f))
				}
				return t
			}
			for i, f := range o.fields {
				if f == name && o.items[i] != nil {
					o.items[i].IncRef()
					return o.items[i]
				}
			}
		}
	}
	rt.Raise("'%s' object has no attribute '%s'", o.kind, name)
	return nil
}

// HasAttr reports whether GetAttr would succeed. Never raises.
func (rt *Runtime) HasAttr(o *Object, name string) bool {
	switch o.kind {
	case KindModule:
		_, ok := o.mod.members[name]
		return ok
	case KindInstance:
		_, ok := o.inst.attrs[name]
		return ok
	case KindTuple:
		if o.fields == nil {
			return false
		}
		if name == "_fields" {
			return true
		}
		for _, f := range o.fields {
			if f == name {
				return true
			}
		}
	}
	return false
}

// Dir returns the attribute names of o in sorted order.
func (rt *Runtime) Dir(o *Object) []string {
	var names []string
	switch o.kind {
	case KindModule:
		names = append(names, o.mod.order...)
	case KindInstance:
		names = append(names, o.inst.order...)
	case KindTuple:
		if o.fields != nil {
			names = append(names, o.fields...)
			names = append(names, "_fields")
		}
	}
	sort.Strings(names)
	return names
}
