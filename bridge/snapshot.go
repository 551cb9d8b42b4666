package bridge

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotSchema is bumped whenever the encoded node layout changes; a
// reader refuses snapshots written with a different schema.
const snapshotSchema uint16 = 1

// snapshotNode is the wire form of one Value. Object handles are bound to
// a live runtime and cannot be serialized.
type snapshotNode struct {
	Kind  int            `msgpack:"k"`
	Bools []bool         `msgpack:"b,omitempty"`
	Ints  []int64        `msgpack:"i,omitempty"`
	Reals []float64      `msgpack:"r,omitempty"`
	Strs  []string       `msgpack:"s,omitempty"`
	Items []snapshotNode `msgpack:"l,omitempty"`
	Names []string       `msgpack:"n,omitempty"`
	Dim   []int64        `msgpack:"d,omitempty"`
}

type snapshotFile struct {
	Schema uint16       `msgpack:"v"`
	Root   snapshotNode `msgpack:"root"`
}

// WriteSnapshot serializes a host value to w. Values containing object
// handles cannot be written.
func WriteSnapshot(w io.Writer, v Value) error {
	root, err := toNode(v)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(snapshotFile{Schema: snapshotSchema, Root: root})
}

// ReadSnapshot deserializes a host value from w.
func ReadSnapshot(r io.Reader) (Value, error) {
	var f snapshotFile
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return Value{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if f.Schema != snapshotSchema {
		return Value{}, fmt.Errorf("snapshot schema %d not supported (want %d)", f.Schema, snapshotSchema)
	}
	return fromNode(f.Root)
}

func toNode(v Value) (snapshotNode, error) {
	n := snapshotNode{Kind: int(v.kind)}
	switch v.kind {
	case KindNull:
	case KindBool:
		n.Bools = v.bools
	case KindInt:
		n.Ints = v.ints
	case KindFloat:
		n.Reals = v.reals
	case KindString:
		n.Strs = v.strs
	case KindList:
		n.Names = v.names
		n.Items = make([]snapshotNode, len(v.items))
		for i, item := range v.items {
			child, err := toNode(item)
			if err != nil {
				return snapshotNode{}, err
			}
			n.Items[i] = child
		}
	case KindObject:
		return snapshotNode{}, fmt.Errorf("object handles cannot be snapshotted")
	default:
		return snapshotNode{}, fmt.Errorf("cannot snapshot %s value", v.kind)
	}
	for _, d := range v.dim {
		n.Dim = append(n.Dim, int64(d))
	}
	return n, nil
}

func fromNode(n snapshotNode) (Value, error) {
	var dim []int
	for _, d := range n.Dim {
		di, err := safecast.Conv[int](d)
		if err != nil {
			return Value{}, fmt.Errorf("snapshot dim %d: %w", d, err)
		}
		dim = append(dim, di)
	}
	switch Kind(n.Kind) {
	case KindNull:
		return Null(), nil
	case KindBool:
		if dim != nil {
			return BoolArray(n.Bools, dim)
		}
		return BoolVector(n.Bools), nil
	case KindInt:
		if dim != nil {
			return IntArray(n.Ints, dim)
		}
		return IntVector(n.Ints), nil
	case KindFloat:
		if dim != nil {
			return FloatArray(n.Reals, dim)
		}
		return FloatVector(n.Reals), nil
	case KindString:
		return StrVector(n.Strs), nil
	case KindList:
		items := make([]Value, len(n.Items))
		for i, child := range n.Items {
			item, err := fromNode(child)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		if n.Names != nil {
			if len(n.Names) != len(items) {
				return Value{}, fmt.Errorf("snapshot list has %d names for %d items", len(n.Names), len(items))
			}
			return NamedList(n.Names, items...), nil
		}
		return List(items...), nil
	default:
		return Value{}, fmt.Errorf("snapshot kind %d not supported", n.Kind)
	}
}
