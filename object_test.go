package asp

import (
	"io"
	"math/big"
	"testing"
)

func newTestRuntime() *Runtime {
	return NewRuntime(Options{Stdout: io.Discard})
}

func TestRefCounting(t *testing.T) {
	rt := newTestRuntime()

	t.Run("new object starts with one reference", func(t *testing.T) {
		o := rt.NewInt(42)
		if got := o.RefCount(); got != 1 {
			t.Fatalf("RefCount() = %d, want 1", got)
		}
		o.IncRef()
		if got := o.RefCount(); got != 2 {
			t.Fatalf("after IncRef, RefCount() = %d, want 2", got)
		}
		o.DecRef()
		o.DecRef()
	})

	t.Run("drop to zero frees the object", func(t *testing.T) {
		before := rt.LiveObjects()
		o := rt.NewStr("transient")
		if rt.LiveObjects() != before+1 {
			t.Fatalf("LiveObjects() = %d, want %d", rt.LiveObjects(), before+1)
		}
		o.DecRef()
		if rt.LiveObjects() != before {
			t.Fatalf("after DecRef, LiveObjects() = %d, want %d", rt.LiveObjects(), before)
		}
	})

	t.Run("use after free panics", func(t *testing.T) {
		o := rt.NewInt(1)
		o.DecRef()
		defer func() {
			if recover() == nil {
				t.Fatalf("IncRef on freed object did not panic")
			}
		}()
		o.IncRef()
	})

	t.Run("container free releases children", func(t *testing.T) {
		before := rt.LiveObjects()
		list := rt.NewList(2)
		list.ListSetItem(0, rt.NewInt(1))
		list.ListSetItem(1, rt.NewStr("two"))
		list.DecRef()
		if rt.LiveObjects() != before {
			t.Fatalf("LiveObjects() = %d, want %d", rt.LiveObjects(), before)
		}
	})
}

func TestImmortalSingletons(t *testing.T) {
	rt := newTestRuntime()

	none := rt.None()
	for i := 0; i < 100; i++ {
		none.IncRef()
		none.DecRef()
		none.DecRef() // over-release must not free an immortal
	}
	if !rt.IsNone(rt.None()) {
		t.Fatalf("none singleton lost after repeated releases")
	}

	a := rt.NewBool(true)
	b := rt.NewBool(true)
	if a != b {
		t.Fatalf("NewBool(true) returned distinct objects")
	}
	a.DecRef()
	b.DecRef()
	v, err := rt.NewBool(true).Bool()
	if err != nil || !v {
		t.Fatalf("Bool() = %v, %v, want true, nil", v, err)
	}
}

func TestStealAndBorrowConventions(t *testing.T) {
	rt := newTestRuntime()

	t.Run("tuple slot steals", func(t *testing.T) {
		before := rt.LiveObjects()
		tup := rt.NewTuple(1)
		tup.TupleSetItem(0, rt.NewInt(7)) // no DecRef by the caller
		tup.DecRef()
		if rt.LiveObjects() != before {
			t.Fatalf("LiveObjects() = %d, want %d", rt.LiveObjects(), before)
		}
	})

	t.Run("tuple slot releases on error", func(t *testing.T) {
		before := rt.LiveObjects()
		tup := rt.NewTuple(1)
		if err := tup.TupleSetItem(5, rt.NewInt(7)); err == nil {
			t.Fatalf("TupleSetItem out of range did not fail")
		}
		tup.DecRef()
		if rt.LiveObjects() != before {
			t.Fatalf("stolen reference leaked on error path: LiveObjects() = %d, want %d", rt.LiveObjects(), before)
		}
	})

	t.Run("list append takes its own reference", func(t *testing.T) {
		list := rt.NewList(0)
		v := rt.NewInt(3)
		if err := list.ListAppend(v); err != nil {
			t.Fatalf("ListAppend: %v", err)
		}
		if got := v.RefCount(); got != 2 {
			t.Fatalf("RefCount() = %d, want 2", got)
		}
		v.DecRef()
		list.DecRef()
	})

	t.Run("dict set takes its own reference", func(t *testing.T) {
		d := rt.NewDict()
		v := rt.NewStr("x")
		if err := d.DictSet("k", v); err != nil {
			t.Fatalf("DictSet: %v", err)
		}
		if got := v.RefCount(); got != 2 {
			t.Fatalf("RefCount() = %d, want 2", got)
		}
		v.DecRef()
		d.DecRef()
	})
}

func TestDictOrder(t *testing.T) {
	rt := newTestRuntime()
	d := rt.NewDict()
	defer d.DecRef()

	for _, k := range []string{"zebra", "apple", "mango"} {
		v := rt.NewInt(int64(len(k)))
		d.DictSet(k, v)
		v.DecRef()
	}
	// overwriting keeps the original position
	v := rt.NewInt(99)
	d.DictSet("apple", v)
	v.DecRef()

	got := d.DictKeys()
	want := []string{"zebra", "apple", "mango"}
	if len(got) != len(want) {
		t.Fatalf("DictKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DictKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	item, ok := d.DictGet("apple")
	if !ok {
		t.Fatalf("DictGet(apple) not found")
	}
	if n, _ := item.Int64(); n != 99 {
		t.Fatalf("apple = %d, want 99", n)
	}
}

func TestInt64Overflow(t *testing.T) {
	rt := newTestRuntime()
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	o := rt.NewIntBig(huge)
	defer o.DecRef()

	if _, err := o.Int64(); err == nil {
		t.Fatalf("Int64() on 2^80 did not fail")
	}
	got, err := o.Int()
	if err != nil {
		t.Fatalf("Int(): %v", err)
	}
	if got.Cmp(huge) != 0 {
		t.Fatalf("Int() = %s, want %s", got, huge)
	}
}

func TestNamedTupleFields(t *testing.T) {
	rt := newTestRuntime()
	nt := rt.NewNamedTuple([]string{"x", "y"})
	defer nt.DecRef()
	nt.TupleSetItem(0, rt.NewInt(1))
	nt.TupleSetItem(1, rt.NewInt(2))

	fields := nt.Fields()
	if len(fields) != 2 || fields[0] != "x" || fields[1] != "y" {
		t.Fatalf("Fields() = %v, want [x y]", fields)
	}

	attr := rt.GetAttr(nt, "y")
	if attr == nil {
		t.Fatalf("GetAttr(y): %s", rt.FetchError())
	}
	if n, _ := attr.Int64(); n != 2 {
		t.Fatalf("y = %d, want 2", n)
	}
	attr.DecRef()

	ff := rt.GetAttr(nt, "_fields")
	if ff == nil {
		t.Fatalf("GetAttr(_fields): %s", rt.FetchError())
	}
	items, err := ff.Items()
	if err != nil || len(items) != 2 {
		t.Fatalf("_fields Items() = %v, %v", items, err)
	}
	if s, _ := items[0].Str(); s != "x" {
		t.Fatalf("_fields[0] = %q, want \"x\"", s)
	}
	ff.DecRef()
}
