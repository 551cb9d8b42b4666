package asp

import (
	"reflect"
	"testing"
)

func TestFortranCast(t *testing.T) {
	rt := newTestRuntime()

	t.Run("row-major 2x3 to column-major", func(t *testing.T) {
		// [[1 2 3]
		//  [4 5 6]]
		a, err := rt.NewArrayInt64([]int64{1, 2, 3, 4, 5, 6}, []int{2, 3})
		if err != nil {
			t.Fatalf("NewArrayInt64: %v", err)
		}
		defer a.DecRef()

		fc, err := a.FortranCast(DTypeInt64)
		if err != nil {
			t.Fatalf("FortranCast: %v", err)
		}
		defer fc.DecRef()

		got, err := fc.ArrayInt64s()
		if err != nil {
			t.Fatalf("ArrayInt64s: %v", err)
		}
		want := []int64{1, 4, 2, 5, 3, 6}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("column-major data = %v, want %v", got, want)
		}
		shape, _ := fc.ArrayShape()
		if !reflect.DeepEqual(shape, []int{2, 3}) {
			t.Fatalf("shape = %v, want [2 3]", shape)
		}

		// the source buffer must be untouched
		src, _ := a.ArrayInt64s()
		if !reflect.DeepEqual(src, []int64{1, 2, 3, 4, 5, 6}) {
			t.Fatalf("source mutated: %v", src)
		}
	})

	t.Run("column-major source copies straight through", func(t *testing.T) {
		v, err := rt.NewViewFloat64([]float64{1, 4, 2, 5, 3, 6}, []int{2, 3})
		if err != nil {
			t.Fatalf("NewViewFloat64: %v", err)
		}
		defer v.DecRef()

		fc, err := v.FortranCast(DTypeFloat64)
		if err != nil {
			t.Fatalf("FortranCast: %v", err)
		}
		defer fc.DecRef()

		got, _ := fc.ArrayFloat64s()
		if !reflect.DeepEqual(got, []float64{1, 4, 2, 5, 3, 6}) {
			t.Fatalf("data = %v", got)
		}
	})

	t.Run("widening casts", func(t *testing.T) {
		a, err := rt.NewArrayInt32([]int32{1, 2, 3}, []int{3})
		if err != nil {
			t.Fatalf("NewArrayInt32: %v", err)
		}
		defer a.DecRef()

		fc, err := a.FortranCast(DTypeFloat64)
		if err != nil {
			t.Fatalf("FortranCast to float64: %v", err)
		}
		defer fc.DecRef()
		got, _ := fc.ArrayFloat64s()
		if !reflect.DeepEqual(got, []float64{1, 2, 3}) {
			t.Fatalf("data = %v", got)
		}
	})

	t.Run("unsupported target", func(t *testing.T) {
		a, err := rt.NewArrayInt64([]int64{1}, []int{1})
		if err != nil {
			t.Fatalf("NewArrayInt64: %v", err)
		}
		defer a.DecRef()
		if _, err := a.FortranCast(DTypeComplex128); err == nil {
			t.Fatalf("FortranCast to complex128 did not fail")
		}
	})
}

func TestArrayShapeChecks(t *testing.T) {
	rt := newTestRuntime()
	if _, err := rt.NewArrayInt64([]int64{1, 2, 3}, []int{2, 2}); err == nil {
		t.Fatalf("shape [2 2] over 3 elements did not fail")
	}
	if _, err := rt.NewViewFloat64([]float64{}, []int{0, 3}); err != nil {
		t.Fatalf("zero-extent shape rejected: %v", err)
	}
}

func TestViewAliasesCallerData(t *testing.T) {
	rt := newTestRuntime()
	data := []float64{1, 2, 3, 4}
	v, err := rt.NewViewFloat64(data, []int{2, 2})
	if err != nil {
		t.Fatalf("NewViewFloat64: %v", err)
	}
	defer v.DecRef()

	data[0] = 100
	got, _ := v.ArrayFloat64s()
	if got[0] != 100 {
		t.Fatalf("view did not alias caller data: got[0] = %v", got[0])
	}
}
