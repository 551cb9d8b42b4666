package asp

import (
	"errors"
	"fmt"
	"math/big"
	"os"
)

// errRaised signals that the pending error slot already holds the failure,
// so RunString must not raise again.
var errRaised = errors.New("asp: error already raised")

// RunString parses and executes src in the __main__ module and returns a
// new reference to the value of the last expression statement (None when
// the source ends with a non-expression statement). On failure it returns
// nil with the pending error set.
func (rt *Runtime) RunString(src string) *Object {
	stmts, err := parseSource(src)
	if err != nil {
		rt.Raise("%s", err.Error())
		return nil
	}
	var last *Object
	for _, stmt := range stmts {
		v, err := rt.execStmt(stmt)
		if err != nil {
			if last != nil {
				last.DecRef()
			}
			if !errors.Is(err, errRaised) {
				rt.Raise("%s", err.Error())
			}
			return nil
		}
		if v != nil {
			if last != nil {
				last.DecRef()
			}
			last = v
		}
	}
	if last == nil {
		rt.none.IncRef()
		return rt.none
	}
	return last
}

// RunFile executes the named source file in the __main__ module. On
// failure it returns nil with the pending error set.
func (rt *Runtime) RunFile(path string) *Object {
	src, err := os.ReadFile(path)
	if err != nil {
		rt.Raise("unable to read script file '%s' (does the file exist?)", path)
		return nil
	}
	return rt.RunString(string(src))
}

// execStmt returns an owned value for expression statements and nil for
// the others.
func (rt *Runtime) execStmt(stmt node) (*Object, error) {
	switch s := stmt.(type) {
	case importStmt:
		mod := rt.Import(s.name)
		if mod == nil {
			return nil, errRaised
		}
		err := rt.main.SetAttr(s.name, mod)
		mod.DecRef()
		return nil, err
	case assignStmt:
		v, err := rt.evalExpr(s.expr)
		if err != nil {
			return nil, err
		}
		err = rt.main.SetAttr(s.name, v)
		v.DecRef()
		return nil, err
	case exprStmt:
		return rt.evalExpr(s.x)
	default:
		return nil, fmt.Errorf("unknown statement %T", stmt)
	}
}

// evalExpr returns a new reference to the expression's value.
func (rt *Runtime) evalExpr(expr node) (*Object, error) {
	switch e := expr.(type) {
	case intLit:
		return rt.NewIntBig(e.v), nil
	case floatLit:
		return rt.NewFloat(e.v), nil
	case strLit:
		return rt.NewStr(e.v), nil
	case boolLit:
		return rt.NewBool(e.v), nil
	case noneLit:
		rt.none.IncRef()
		return rt.none, nil
	case nameRef:
		return rt.lookupName(e.name)
	case attrRef:
		recv, err := rt.evalExpr(e.recv)
		if err != nil {
			return nil, err
		}
		attr := rt.GetAttr(recv, e.name)
		recv.DecRef()
		if attr == nil {
			return nil, errRaised
		}
		return attr, nil
	case listLit:
		list := rt.NewList(len(e.elems))
		for i, el := range e.elems {
			v, err := rt.evalExpr(el)
			if err != nil {
				list.DecRef()
				return nil, err
			}
			list.ListSetItem(i, v)
		}
		return list, nil
	case tupleLit:
		t := rt.NewTuple(len(e.elems))
		for i, el := range e.elems {
			v, err := rt.evalExpr(el)
			if err != nil {
				t.DecRef()
				return nil, err
			}
			t.TupleSetItem(i, v)
		}
		return t, nil
	case dictLit:
		d := rt.NewDict()
		for i := range e.keys {
			k, err := rt.evalExpr(e.keys[i])
			if err != nil {
				d.DecRef()
				return nil, err
			}
			key := rt.Str(k)
			k.DecRef()
			v, err := rt.evalExpr(e.vals[i])
			if err != nil {
				d.DecRef()
				return nil, err
			}
			d.DictSet(key, v)
			v.DecRef()
		}
		return d, nil
	case unaryNeg:
		v, err := rt.evalExpr(e.x)
		if err != nil {
			return nil, err
		}
		defer v.DecRef()
		switch v.kind {
		case KindInt:
			return rt.NewIntBig(new(big.Int).Neg(v.i)), nil
		case KindFloat:
			return rt.NewFloat(-v.f), nil
		default:
			return nil, fmt.Errorf("bad operand type for unary -: '%s'", v.kind)
		}
	case binOp:
		return rt.evalBinOp(e)
	case callExpr:
		return rt.evalCall(e)
	default:
		return nil, fmt.Errorf("unknown expression %T", expr)
	}
}

func (rt *Runtime) lookupName(name string) (*Object, error) {
	if v, ok := rt.main.mod.members[name]; ok {
		v.IncRef()
		return v, nil
	}
	if b, ok := rt.modules["builtins"]; ok {
		if v, ok := b.mod.members[name]; ok {
			v.IncRef()
			return v, nil
		}
	}
	return nil, fmt.Errorf("name '%s' is not defined", name)
}

func (rt *Runtime) evalBinOp(e binOp) (*Object, error) {
	l, err := rt.evalExpr(e.l)
	if err != nil {
		return nil, err
	}
	defer l.DecRef()
	r, err := rt.evalExpr(e.r)
	if err != nil {
		return nil, err
	}
	defer r.DecRef()

	if e.op == '+' && l.kind == KindStr && r.kind == KindStr {
		return rt.NewStr(l.s + r.s), nil
	}

	// integer arithmetic stays exact; division always yields a float
	if l.kind == KindInt && r.kind == KindInt && e.op != '/' {
		z := new(big.Int)
		switch e.op {
		case '+':
			z.Add(l.i, r.i)
		case '-':
			z.Sub(l.i, r.i)
		case '*':
			z.Mul(l.i, r.i)
		}
		return rt.NewIntBig(z), nil
	}

	lf, err := asFloat(l)
	if err != nil {
		return nil, fmt.Errorf("unsupported operand type(s) for %c: '%s' and '%s'", e.op, l.kind, r.kind)
	}
	rf, err := asFloat(r)
	if err != nil {
		return nil, fmt.Errorf("unsupported operand type(s) for %c: '%s' and '%s'", e.op, l.kind, r.kind)
	}
	switch e.op {
	case '+':
		return rt.NewFloat(lf + rf), nil
	case '-':
		return rt.NewFloat(lf - rf), nil
	case '*':
		return rt.NewFloat(lf * rf), nil
	case '/':
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return rt.NewFloat(lf / rf), nil
	default:
		return nil, fmt.Errorf("unknown operator %c", e.op)
	}
}

func (rt *Runtime) evalCall(e callExpr) (*Object, error) {
	fn, err := rt.evalExpr(e.fn)
	if err != nil {
		return nil, err
	}
	defer fn.DecRef()

	args := rt.NewTuple(len(e.args))
	defer args.DecRef()
	for i, a := range e.args {
		v, err := rt.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args.TupleSetItem(i, v)
	}

	var kwargs *Object
	if len(e.kwNames) > 0 {
		kwargs = rt.NewDict()
		defer kwargs.DecRef()
		for i, name := range e.kwNames {
			v, err := rt.evalExpr(e.kwVals[i])
			if err != nil {
				return nil, err
			}
			kwargs.DictSet(name, v)
			v.DecRef()
		}
	}

	res := rt.Call(fn, args, kwargs)
	if res == nil {
		return nil, errRaised
	}
	return res, nil
}
