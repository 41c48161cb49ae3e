package hom

import (
	"fmt"

	"github.com/matzehuels/homcount/pkg/edges"
	apperrors "github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/intfunc"
	"github.com/matzehuels/homcount/pkg/ntd"
)

// InvariantViolation reports a node that the dynamic program cannot process
// because the decomposition is not nice or a table entry is missing. It
// unwraps to an INVARIANT_VIOLATION error.
type InvariantViolation struct {
	Node    ntd.NodeID
	Type    ntd.NodeType
	WantBag int // expected bag size, -1 if not applicable
	GotBag  int
	Mask    edges.Mask
	Mapping intfunc.Mapping
	Reason  string
}

func (e *InvariantViolation) Error() string {
	msg := fmt.Sprintf("%s: node %d (%s): %s", apperrors.ErrCodeInvariant, e.Node, e.Type, e.Reason)
	if e.WantBag >= 0 {
		msg += fmt.Sprintf(" (bag size %d, want %d)", e.GotBag, e.WantBag)
	}
	if e.Mask != 0 || e.Mapping != 0 {
		msg += fmt.Sprintf(" [mask %b, mapping %d]", e.Mask, e.Mapping)
	}
	return msg
}

func (e *InvariantViolation) Unwrap() error {
	return apperrors.New(apperrors.ErrCodeInvariant, "node %d: %s", e.Node, e.Reason)
}

func (e *Engine) violation(p ntd.NodeID, reason string, args ...any) *InvariantViolation {
	return &InvariantViolation{
		Node:    p,
		Type:    e.t.Type(p),
		WantBag: -1,
		GotBag:  len(e.t.Bag(p)),
		Reason:  fmt.Sprintf(reason, args...),
	}
}

func (e *Engine) bagViolation(p ntd.NodeID, want int, reason string, args ...any) *InvariantViolation {
	v := e.violation(p, reason, args...)
	v.WantBag = want
	return v
}

func (e *Engine) missing(p, child ntd.NodeID, mask edges.Mask) *InvariantViolation {
	v := e.violation(p, "no table entries for child %d", child)
	v.Mask = mask
	return v
}

func overflow(p ntd.NodeID, f intfunc.Mapping) error {
	return apperrors.New(apperrors.ErrCodeArithmeticRange, "node %d: count for mapping %d overflows uint64", p, f)
}
