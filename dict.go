package asp

import "fmt"

// dictRep is an insertion-ordered string-keyed mapping.
// Iteration order is the order keys were first inserted; storing an
// existing key overwrites its value in place.
type dictRep struct {
	items map[string]*Object
	order []string
}

// instanceRep holds the attributes of an arbitrary object instance.
type instanceRep struct {
	class *Class
	attrs map[string]*Object
	order []string
}

// moduleRep holds the members of a module.
type moduleRep struct {
	name    string
	members map[string]*Object
	order   []string
}

// Class names an instance type. Tag form is "Module.Name".
type Class struct {
	Module string
	Name   string
}

// DictSet stores v under key, taking its own reference to v. An existing
// entry is overwritten and its old value released; insertion order of the
// key is preserved from its first store.
func (o *Object) DictSet(key string, v *Object) error {
	if o.kind != KindDict {
		return fmt.Errorf("expected dict, got %s", o.kind)
	}
	v.IncRef()
	if old, ok := o.dict.items[key]; ok {
		old.DecRef()
	} else {
		o.dict.order = append(o.dict.order, key)
	}
	o.dict.items[key] = v
	return nil
}

// DictGet returns the value stored under key as a borrowed reference.
func (o *Object) DictGet(key string) (*Object, bool) {
	if o.kind != KindDict {
		return nil, false
	}
	v, ok := o.dict.items[key]
	return v, ok
}

// DictKeys returns the keys in insertion order.
func (o *Object) DictKeys() []string {
	if o.kind != KindDict {
		return nil
	}
	keys := make([]string, len(o.dict.order))
	copy(keys, o.dict.order)
	return keys
}

// DictDelete removes key and releases its value. Missing keys are ignored.
func (o *Object) DictDelete(key string) {
	if o.kind != KindDict {
		return
	}
	v, ok := o.dict.items[key]
	if !ok {
		return
	}
	delete(o.dict.items, key)
	for i, k := range o.dict.order {
		if k == key {
			o.dict.order = append(o.dict.order[:i], o.dict.order[i+1:]...)
			break
		}
	}
	v.DecRef()
}

// SetAttr stores an attribute on an instance or module, taking its own
// reference to v.
func (o *Object) SetAttr(name string, v *Object) error {
	switch o.kind {
	case KindInstance:
		v.IncRef()
		if old, ok := o.inst.attrs[name]; ok {
			old.DecRef()
		} else {
			o.inst.order = append(o.inst.order, name)
		}
		o.inst.attrs[name] = v
		return nil
	case KindModule:
		v.IncRef()
		if old, ok := o.mod.members[name]; ok {
			old.DecRef()
		} else {
			o.mod.order = append(o.mod.order, name)
		}
		o.mod.members[name] = v
		return nil
	default:
		return fmt.Errorf("cannot set attribute on %s object", o.kind)
	}
}

// ModuleName returns the name of a module object.
func (o *Object) ModuleName() (string, error) {
	if o.kind != KindModule {
		return "", fmt.Errorf("expected module, got %s", o.kind)
	}
	return o.mod.name, nil
}
