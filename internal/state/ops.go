package state

import "fmt"

type OpType string

const (
	OpInsert OpType = "insert"
	OpDelete OpType = "delete"
	OpClear  OpType = "clear"
)

// Op is one canvas mutation as seen by other peers.
type Op struct {
	Type    OpType  `json:"type"`
	Stroke  *Stroke `json:"stroke,omitempty"`
	Shape   *Shape  `json:"shape,omitempty"`
	Target  string  `json:"target,omitempty"` // ID of the item to delete
	Lamport uint64  `json:"lamport"`
	Site    string  `json:"site"`
}

// Item returns the inserted item, or nil.
func (o Op) Item() Item {
	switch {
	case o.Stroke != nil:
		return o.Stroke
	case o.Shape != nil:
		return o.Shape
	}
	return nil
}

// Validate checks the op carries what its type needs.
func (o Op) Validate() error {
	switch o.Type {
	case OpInsert:
		if (o.Stroke == nil) == (o.Shape == nil) {
			return fmt.Errorf("%w: insert needs exactly one of stroke or shape", ErrInvalidOp)
		}
		if s := o.Stroke; s != nil {
			if s.ID == "" || len(s.Points) == 0 {
				return fmt.Errorf("%w: stroke needs an id and at least one point", ErrInvalidOp)
			}
			if s.Width <= 0 {
				return fmt.Errorf("%w: stroke %s: %w", ErrInvalidOp, s.ID, ErrInvalidWidth)
			}
		}
		if s := o.Shape; s != nil {
			if s.ID == "" || !s.Kind.IsShape() {
				return fmt.Errorf("%w: shape needs an id and a shape kind", ErrInvalidOp)
			}
		}
	case OpDelete:
		if o.Target == "" {
			return fmt.Errorf("%w: delete without target", ErrInvalidOp)
		}
	case OpClear:
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidOp, o.Type)
	}
	return nil
}

func insertOp(it Item) Op {
	op := Op{Type: OpInsert}
	switch v := it.(type) {
	case *Stroke:
		op.Stroke = v.clone()
	case *Shape:
		op.Shape = v.clone()
	}
	return op
}
