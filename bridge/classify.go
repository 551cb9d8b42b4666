package bridge

import "github.com/asp-lang/asp"

// scalarKind is the finest host classification of an embedded value.
type scalarKind int

const (
	notScalar scalarKind = iota
	scalarBool
	scalarInt
	scalarFloat
	scalarStr
)

// classifyScalar reports which host scalar kind can represent o, or
// notScalar. Bool must be checked before Int: in the embedded type system
// booleans are integer-compatible, and testing Int first would swallow
// them.
func classifyScalar(o *asp.Object) scalarKind {
	switch o.Kind() {
	case asp.KindBool:
		return scalarBool
	case asp.KindInt:
		return scalarInt
	case asp.KindFloat:
		return scalarFloat
	case asp.KindStr:
		return scalarStr
	default:
		return notScalar
	}
}

// classifySequence reports the single scalar kind shared by every element
// of items, or notScalar when the sequence is empty or mixes kinds. Kinds
// must match exactly; one int next to one float makes the sequence
// heterogeneous, there is no widening.
func classifySequence(items []*asp.Object) scalarKind {
	if len(items) == 0 {
		return notScalar
	}
	kind := classifyScalar(items[0])
	if kind == notScalar {
		return notScalar
	}
	for _, it := range items[1:] {
		if classifyScalar(it) != kind {
			return notScalar
		}
	}
	return kind
}
