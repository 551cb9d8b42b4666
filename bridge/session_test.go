package bridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/asp-lang/asp"
)

func TestInitializeOnce(t *testing.T) {
	s, err := Initialize(Options{ProgramName: "bridge.test"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s == nil {
		t.Fatalf("Initialize returned nil session")
	}

	if _, err := Initialize(Options{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize err = %v, want ErrAlreadyInitialized", err)
	}

	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if d != s {
		t.Fatalf("Default returned a different session")
	}

	// teardown is documented as a no-op: the session stays usable
	Finalize()
	if err := s.RunString("1 + 1"); err != nil {
		t.Fatalf("RunString after Finalize: %v", err)
	}
}

func TestSessionCall(t *testing.T) {
	s := testSession()

	mathMod, err := s.Import("math")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer mathMod.Close()

	sqrt, err := s.GetAttr(mathMod, "sqrt")
	if err != nil {
		t.Fatalf("GetAttr: %v", err)
	}
	defer sqrt.Close()

	t.Run("positional call", func(t *testing.T) {
		v, err := s.Call(sqrt, []Value{Float(16)}, nil)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		got, err := v.Float()
		if err != nil || got != 4 {
			t.Fatalf("got %v, %v", got, err)
		}
	})

	t.Run("arguments convert on the way in", func(t *testing.T) {
		pow, err := s.GetAttr(mathMod, "pow")
		if err != nil {
			t.Fatalf("GetAttr: %v", err)
		}
		defer pow.Close()
		v, err := s.Call(pow, []Value{Float(2), Float(10)}, nil)
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		if got, _ := v.Float(); got != 1024 {
			t.Fatalf("pow(2, 10) = %v", got)
		}
	})

	t.Run("not callable", func(t *testing.T) {
		pi, err := s.GetAttr(mathMod, "pi")
		if err != nil {
			t.Fatalf("GetAttr: %v", err)
		}
		defer pi.Close()
		_, err = s.Call(pi, nil, nil)
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Fatalf("err = %v, want RuntimeError", err)
		}
		if !strings.Contains(rtErr.Message, "not callable") {
			t.Fatalf("message = %q", rtErr.Message)
		}
	})
}

func TestSessionCallKwargs(t *testing.T) {
	s := testSession()
	rt := s.rt

	// a host-registered function that records how it was called
	var gotArgs []string
	var gotKwargs map[string]string
	fn := rt.NewFunc("probe", func(rt *asp.Runtime, args []*asp.Object, kwargs map[string]*asp.Object) (*asp.Object, error) {
		gotArgs = nil
		for _, a := range args {
			gotArgs = append(gotArgs, rt.Str(a))
		}
		gotKwargs = make(map[string]string)
		for k, v := range kwargs {
			gotKwargs[k] = rt.Str(v)
		}
		return rt.NewInt(int64(len(args) + len(kwargs))), nil
	})
	h := newHandle(fn)
	defer h.Close()

	v, err := s.Call(h, []Value{Int(1), Str("two")}, map[string]Value{
		"beta":  Float(2.5),
		"alpha": Bool(true),
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if n, _ := v.Int(); n != 4 {
		t.Fatalf("result = %d, want 4", n)
	}
	if !reflect.DeepEqual(gotArgs, []string{"1", "two"}) {
		t.Fatalf("args = %v", gotArgs)
	}
	want := map[string]string{"alpha": "True", "beta": "2.5"}
	if !reflect.DeepEqual(gotKwargs, want) {
		t.Fatalf("kwargs = %v, want %v", gotKwargs, want)
	}
}

func TestCallsDoNotLeakReferences(t *testing.T) {
	s := testSession()
	rt := s.rt

	mathMod, err := s.Import("math")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer mathMod.Close()
	sqrt, err := s.GetAttr(mathMod, "sqrt")
	if err != nil {
		t.Fatalf("GetAttr: %v", err)
	}
	defer sqrt.Close()

	before := rt.LiveObjects()
	for i := 0; i < 10000; i++ {
		v, err := s.Call(sqrt, []Value{Float(2)}, nil)
		if err != nil {
			t.Fatalf("Call %d: %v", i, err)
		}
		if _, err := v.Float(); err != nil {
			t.Fatalf("result %d: %v", i, err)
		}
	}
	if got := rt.LiveObjects(); got != before {
		t.Fatalf("LiveObjects() = %d after 10000 calls, want %d", got, before)
	}

	t.Run("failing calls do not leak either", func(t *testing.T) {
		before := rt.LiveObjects()
		for i := 0; i < 1000; i++ {
			if _, err := s.Call(sqrt, []Value{Float(-1)}, nil); err == nil {
				t.Fatalf("sqrt(-1) succeeded")
			}
		}
		if got := rt.LiveObjects(); got != before {
			t.Fatalf("LiveObjects() = %d after error loop, want %d", got, before)
		}
	})
}

func TestErrorsSurfaceAndClear(t *testing.T) {
	s := testSession()

	_, err := s.Eval("no_such_name")
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
	if !strings.Contains(rtErr.Message, "name 'no_such_name' is not defined") {
		t.Fatalf("message = %q", rtErr.Message)
	}

	// the error slot must be clean: the next operation works and reports
	// nothing stale
	if s.rt.ErrOccurred() {
		t.Fatalf("error still pending after it was surfaced")
	}
	v, err := s.Eval("40 + 2")
	if err != nil {
		t.Fatalf("Eval after failure: %v", err)
	}
	if n, _ := v.Int(); n != 42 {
		t.Fatalf("got %d, want 42", n)
	}
}

func TestSessionIntrospection(t *testing.T) {
	s := testSession()

	mathMod, err := s.Import("math")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer mathMod.Close()

	t.Run("attributes are sorted", func(t *testing.T) {
		names, err := s.Attributes(mathMod)
		if err != nil {
			t.Fatalf("Attributes: %v", err)
		}
		if !sort.StringsAreSorted(names) {
			t.Fatalf("names not sorted: %v", names)
		}
		for _, want := range []string{"e", "floor", "pi", "pow", "sqrt"} {
			found := false
			for _, n := range names {
				if n == want {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("missing %q in %v", want, names)
			}
		}
	})

	t.Run("attribute kinds", func(t *testing.T) {
		kinds, err := s.AttrKinds(mathMod, []string{"pi", "sqrt"})
		if err != nil {
			t.Fatalf("AttrKinds: %v", err)
		}
		if kinds[0] != AttrVector {
			t.Errorf("pi kind = %v, want AttrVector", kinds[0])
		}
		if kinds[1] != AttrCallable {
			t.Errorf("sqrt kind = %v, want AttrCallable", kinds[1])
		}
	})

	t.Run("callable predicate", func(t *testing.T) {
		sqrt, err := s.GetAttr(mathMod, "sqrt")
		if err != nil {
			t.Fatal(err)
		}
		defer sqrt.Close()
		ok, err := s.IsCallable(sqrt)
		if err != nil || !ok {
			t.Fatalf("IsCallable(sqrt) = %v, %v", ok, err)
		}
		ok, err = s.IsCallable(mathMod)
		if err != nil || ok {
			t.Fatalf("IsCallable(module) = %v, %v", ok, err)
		}
	})

	t.Run("missing attribute", func(t *testing.T) {
		_, err := s.GetAttr(mathMod, "tau")
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Fatalf("err = %v, want RuntimeError", err)
		}
	})

	t.Run("missing module", func(t *testing.T) {
		_, err := s.Import("nosuch")
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Fatalf("err = %v, want RuntimeError", err)
		}
		if !strings.Contains(rtErr.Message, "no module named 'nosuch'") {
			t.Fatalf("message = %q", rtErr.Message)
		}
	})
}

func TestSessionDict(t *testing.T) {
	s := testSession()

	h, err := s.Dict(
		[]Value{Str("name"), Int(2)},
		[]Value{Str("asp"), FloatVector([]float64{1, 2})},
	)
	if err != nil {
		t.Fatalf("Dict: %v", err)
	}
	defer h.Close()

	v, err := s.ToValue(h)
	if err != nil {
		t.Fatalf("ToValue: %v", err)
	}
	// non-string keys are rendered to text
	if !reflect.DeepEqual(v.Names(), []string{"name", "2"}) {
		t.Fatalf("names = %v", v.Names())
	}

	if _, err := s.Dict([]Value{Str("a")}, nil); err == nil {
		t.Fatalf("mismatched key/value lengths did not fail")
	}
}

func TestSessionOutput(t *testing.T) {
	var buf strings.Builder
	s := newSession(Options{Output: &buf})

	if err := s.RunString("print('from', 'embedded')"); err != nil {
		t.Fatalf("RunString: %v", err)
	}

	h, err := s.FromValue(IntVector([]int64{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if err := s.Print(h); err != nil {
		t.Fatalf("Print: %v", err)
	}

	want := "from embedded\n[1, 2]\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestSessionIsNone(t *testing.T) {
	s := testSession()

	h, err := s.FromValue(Null())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ok, err := s.IsNone(h)
	if err != nil || !ok {
		t.Fatalf("IsNone = %v, %v", ok, err)
	}

	h2, err := s.FromValue(Int(0))
	if err != nil {
		t.Fatal(err)
	}
	defer h2.Close()
	ok, err = s.IsNone(h2)
	if err != nil || ok {
		t.Fatalf("IsNone(0) = %v, %v", ok, err)
	}
}

func TestSessionRunFile(t *testing.T) {
	s := testSession()

	path := filepath.Join(t.TempDir(), "boot.asp")
	if err := os.WriteFile(path, []byte("greeting = 'hello'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.RunFile(path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	v, err := s.Eval("greeting")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got, _ := v.Str(); got != "hello" {
		t.Fatalf("greeting = %q", got)
	}

	missing := filepath.Join(t.TempDir(), "absent.asp")
	err = s.RunFile(missing)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
	want := fmt.Sprintf("unable to read script file '%s' (does the file exist?)", missing)
	if rtErr.Message != want {
		t.Fatalf("message = %q, want %q", rtErr.Message, want)
	}
}
