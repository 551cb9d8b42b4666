package asp

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// The source evaluator accepts a compact expression-and-statement subset:
// literals, lists, tuples, dicts, names, attribute paths, calls with
// positional and keyword arguments, assignment to a name, import, unary
// minus and the four arithmetic operators.

type node any

type (
	intLit    struct{ v *big.Int }
	floatLit  struct{ v float64 }
	strLit    struct{ v string }
	boolLit   struct{ v bool }
	noneLit   struct{}
	nameRef   struct{ name string }
	attrRef   struct {
		recv node
		name string
	}
	callExpr struct {
		fn      node
		args    []node
		kwNames []string
		kwVals  []node
	}
	listLit  struct{ elems []node }
	tupleLit struct{ elems []node }
	dictLit  struct {
		keys []node
		vals []node
	}
	unaryNeg struct{ x node }
	binOp    struct {
		op   byte
		l, r node
	}
	assignStmt struct {
		name string
		expr node
	}
	importStmt struct{ name string }
	exprStmt   struct{ x node }
)

type token struct {
	kind tokenKind
	text string
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokName
	tokNumber
	tokString
	tokPunct
)

type parser struct {
	toks []token
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	depth := 0
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '\n' || c == ';':
			if depth == 0 && c == '\n' {
				toks = append(toks, token{kind: tokNewline})
			} else if c == ';' {
				toks = append(toks, token{kind: tokNewline})
			}
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			var b strings.Builder
			for j < len(src) && src[j] != quote {
				if src[j] == '\\' && j+1 < len(src) {
					j++
					switch src[j] {
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					case '\\', '\'', '"':
						b.WriteByte(src[j])
					default:
						b.WriteByte('\\')
						b.WriteByte(src[j])
					}
				} else {
					b.WriteByte(src[j])
				}
				j++
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, token{kind: tokString, text: b.String()})
			i = j + 1
		case c >= '0' && c <= '9' || c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			j := i
			for j < len(src) && (isDigit(src[j]) || src[j] == '.' || src[j] == 'e' || src[j] == 'E' ||
				((src[j] == '+' || src[j] == '-') && j > i && (src[j-1] == 'e' || src[j-1] == 'E'))) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j]})
			i = j
		case isNameStart(c):
			j := i
			for j < len(src) && isNameChar(src[j]) {
				j++
			}
			toks = append(toks, token{kind: tokName, text: src[i:j]})
			i = j
		default:
			switch c {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
			switch c {
			case '(', ')', '[', ']', '{', '}', ',', ':', '.', '=', '+', '-', '*', '/':
				toks = append(toks, token{kind: tokPunct, text: string(c)})
				i++
			default:
				return nil, fmt.Errorf("unexpected character %q", c)
			}
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isNameStart(c byte) bool { return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNameChar(c byte) bool  { return isNameStart(c) || isDigit(c) }

func parseSource(src string) ([]node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []node
	for {
		p.skipNewlines()
		if p.at(tokEOF) {
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.at(tokEOF) && !p.at(tokNewline) {
			return nil, fmt.Errorf("invalid syntax near %q", p.cur().text)
		}
	}
}

func (p *parser) cur() token   { return p.toks[p.pos] }
func (p *parser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *parser) atPunct(s string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) eat() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return fmt.Errorf("expected %q near %q", s, p.cur().text)
	}
	p.eat()
	return nil
}

func (p *parser) skipNewlines() {
	for p.at(tokNewline) {
		p.eat()
	}
}

func (p *parser) statement() (node, error) {
	if p.at(tokName) && p.cur().text == "import" {
		p.eat()
		if !p.at(tokName) {
			return nil, fmt.Errorf("expected module name after import")
		}
		return importStmt{name: p.eat().text}, nil
	}
	// lookahead for "NAME = expr" (but not "==", which we do not support)
	if p.at(tokName) && p.toks[p.pos+1].kind == tokPunct && p.toks[p.pos+1].text == "=" {
		name := p.eat().text
		p.eat()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		return assignStmt{name: name, expr: expr}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return exprStmt{x: expr}, nil
}

func (p *parser) expression() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := p.eat().text[0]
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binOp{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") {
		op := p.eat().text[0]
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = binOp{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) factor() (node, error) {
	if p.atPunct("-") {
		p.eat()
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return unaryNeg{x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (node, error) {
	x, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("."):
			p.eat()
			if !p.at(tokName) {
				return nil, fmt.Errorf("expected attribute name after '.'")
			}
			x = attrRef{recv: x, name: p.eat().text}
		case p.atPunct("("):
			p.eat()
			call := callExpr{fn: x}
			for !p.atPunct(")") {
				// keyword argument: NAME = expr
				if p.at(tokName) && p.toks[p.pos+1].kind == tokPunct && p.toks[p.pos+1].text == "=" {
					name := p.eat().text
					p.eat()
					v, err := p.expression()
					if err != nil {
						return nil, err
					}
					call.kwNames = append(call.kwNames, name)
					call.kwVals = append(call.kwVals, v)
				} else {
					if len(call.kwNames) > 0 {
						return nil, fmt.Errorf("positional argument follows keyword argument")
					}
					v, err := p.expression()
					if err != nil {
						return nil, err
					}
					call.args = append(call.args, v)
				}
				if p.atPunct(",") {
					p.eat()
					continue
				}
				break
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			x = call
		default:
			return x, nil
		}
	}
}

func (p *parser) atom() (node, error) {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.eat()
		if strings.ContainsAny(t.text, ".eE") {
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", t.text)
			}
			return floatLit{v: f}, nil
		}
		v, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", t.text)
		}
		return intLit{v: v}, nil
	case tokString:
		p.eat()
		return strLit{v: t.text}, nil
	case tokName:
		p.eat()
		switch t.text {
		case "True":
			return boolLit{v: true}, nil
		case "False":
			return boolLit{v: false}, nil
		case "None":
			return noneLit{}, nil
		}
		return nameRef{name: t.text}, nil
	case tokPunct:
		switch t.text {
		case "(":
			p.eat()
			if p.atPunct(")") {
				p.eat()
				return tupleLit{}, nil
			}
			first, err := p.expression()
			if err != nil {
				return nil, err
			}
			if p.atPunct(",") {
				elems := []node{first}
				for p.atPunct(",") {
					p.eat()
					if p.atPunct(")") {
						break
					}
					e, err := p.expression()
					if err != nil {
						return nil, err
					}
					elems = append(elems, e)
				}
				if err := p.expectPunct(")"); err != nil {
					return nil, err
				}
				return tupleLit{elems: elems}, nil
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return first, nil
		case "[":
			p.eat()
			var elems []node
			for !p.atPunct("]") {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if p.atPunct(",") {
					p.eat()
					continue
				}
				break
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			return listLit{elems: elems}, nil
		case "{":
			p.eat()
			var lit dictLit
			for !p.atPunct("}") {
				k, err := p.expression()
				if err != nil {
					return nil, err
				}
				if err := p.expectPunct(":"); err != nil {
					return nil, err
				}
				v, err := p.expression()
				if err != nil {
					return nil, err
				}
				lit.keys = append(lit.keys, k)
				lit.vals = append(lit.vals, v)
				if p.atPunct(",") {
					p.eat()
					continue
				}
				break
			}
			if err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			return lit, nil
		}
	}
	return nil, fmt.Errorf("invalid syntax near %q", t.text)
}
