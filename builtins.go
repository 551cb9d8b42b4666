package asp

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

func (rt *Runtime) installModule(name string, fill func(def func(string, Func), set func(string, *Object))) {
	mod := rt.NewModule(name)
	def := func(fname string, fn Func) {
		f := rt.NewFunc(fname, fn)
		mod.SetAttr(fname, f)
		f.DecRef()
	}
	set := func(mname string, v *Object) {
		mod.SetAttr(mname, v)
		v.DecRef()
	}
	fill(def, set)
	rt.modules[name] = mod
}

func (rt *Runtime) installBuiltins() {
	rt.installModule("builtins", func(def func(string, Func), set func(string, *Object)) {
		def("len", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("len() takes exactly one argument (%d given)", len(args))
			}
			n, err := args[0].Len()
			if err != nil {
				return nil, err
			}
			return rt.NewInt(int64(n)), nil
		})
		def("str", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("str() takes exactly one argument (%d given)", len(args))
			}
			return rt.NewStr(rt.Str(args[0])), nil
		})
		def("repr", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("repr() takes exactly one argument (%d given)", len(args))
			}
			return rt.NewStr(rt.Repr(args[0])), nil
		})
		def("type", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("type() takes exactly one argument (%d given)", len(args))
			}
			return rt.NewStr(args[0].Kind().String()), nil
		})
		def("abs", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("abs() takes exactly one argument (%d given)", len(args))
			}
			switch args[0].kind {
			case KindInt:
				return rt.NewIntBig(new(big.Int).Abs(args[0].i)), nil
			case KindFloat:
				return rt.NewFloat(math.Abs(args[0].f)), nil
			default:
				return nil, fmt.Errorf("bad operand type for abs(): '%s'", args[0].kind)
			}
		})
		def("range", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("range() takes exactly one argument (%d given)", len(args))
			}
			n, err := args[0].Int64()
			if err != nil {
				return nil, err
			}
			if n < 0 {
				n = 0
			}
			list := rt.NewList(int(n))
			for i := int64(0); i < n; i++ {
				list.ListSetItem(int(i), rt.NewInt(i))
			}
			return list, nil
		})
		def("print", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = rt.Str(a)
			}
			fmt.Fprintln(rt.stdout, strings.Join(parts, " "))
			return nil, nil
		})
	})
}

func (rt *Runtime) installMath() {
	rt.installModule("math", func(def func(string, Func), set func(string, *Object)) {
		set("pi", rt.NewFloat(math.Pi))
		set("e", rt.NewFloat(math.E))
		def("sqrt", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			x, err := argFloat("sqrt", args)
			if err != nil {
				return nil, err
			}
			if x < 0 {
				return nil, fmt.Errorf("math domain error")
			}
			return rt.NewFloat(math.Sqrt(x)), nil
		})
		def("floor", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			x, err := argFloat("floor", args)
			if err != nil {
				return nil, err
			}
			return rt.NewInt(int64(math.Floor(x))), nil
		})
		def("pow", func(rt *Runtime, args []*Object, _ map[string]*Object) (*Object, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("pow() takes exactly 2 arguments (%d given)", len(args))
			}
			x, err := asFloat(args[0])
			if err != nil {
				return nil, err
			}
			y, err := asFloat(args[1])
			if err != nil {
				return nil, err
			}
			return rt.NewFloat(math.Pow(x, y)), nil
		})
	})
}

func (rt *Runtime) installSys(program string) {
	rt.installModule("sys", func(def func(string, Func), set func(string, *Object)) {
		argv := rt.NewList(1)
		argv.ListSetItem(0, rt.NewStr(program))
		set("argv", argv)
		set("version", rt.NewStr("asp 0.1"))
	})
}

func argFloat(name string, args []*Object) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s() takes exactly one argument (%d given)", name, len(args))
	}
	return asFloat(args[0])
}

// asFloat widens an int or float operand to float64.
func asFloat(o *Object) (float64, error) {
	switch o.kind {
	case KindFloat:
		return o.f, nil
	case KindInt:
		f, _ := new(big.Float).SetInt(o.i).Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("a number is required, got %s", o.kind)
	}
}
