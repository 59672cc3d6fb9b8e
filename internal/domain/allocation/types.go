package allocation

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPolicy   = errors.New("invalid allocation policy")
	ErrInvalidQuantity = errors.New("allocation quantity must be positive")
)

type Policy string

const (
	// PolicyParallel spreads tickets across staff within the same period.
	PolicyParallel Policy = "parallel"
	// PolicyConsecutive keeps one staff member across back-to-back periods.
	PolicyConsecutive Policy = "consecutive"
)

func (p Policy) String() string {
	return string(p)
}

func (p Policy) IsValid() bool {
	switch p {
	case PolicyParallel, PolicyConsecutive:
		return true
	default:
		return false
	}
}

func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPolicy
	}
	return p, nil
}

// Unit is one employee-owned block of capacity in a period.
type Unit struct {
	UnitID            uuid.UUID
	Start             time.Time
	End               time.Time
	OwnerID           uuid.UUID
	AvailableCapacity int
}

// Window anchors an allocation; units starting before Start are ignored.
type Window struct {
	Start time.Time
	End   time.Time
}

type Request struct {
	Units    []Unit
	Quantity int
	Anchor   *Window
	Policy   Policy
}

// Result is a negative result, not an error, when Satisfied is false.
type Result struct {
	Units     []Unit
	Satisfied bool
}

func Allocate(req Request) (Result, error) {
	if req.Quantity <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	switch req.Policy {
	case PolicyParallel:
		units := Parallel(req.Units, req.Quantity, req.Anchor)
		return Result{Units: units, Satisfied: len(units) == req.Quantity}, nil
	case PolicyConsecutive:
		units, found := Consecutive(req.Units, req.Quantity, req.Anchor)
		return Result{Units: units, Satisfied: found}, nil
	default:
		return Result{}, ErrInvalidPolicy
	}
}

func eligible(units []Unit, anchor *Window) []Unit {
	out := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.AvailableCapacity <= 0 {
			continue
		}
		if anchor != nil && u.Start.Before(anchor.Start) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func compareOwner(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
