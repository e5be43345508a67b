// Package params implements the parameter-tree core: composable nodes that
// describe the search space of a function's arguments and map bidirectionally
// between structured values and the flat standardized-data vectors consumed
// by derivative-free optimizers.
package params

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/varspace/varspace-go/pkg/errors"
)

// Constraint is a cheap feasibility predicate evaluated against a node's
// structured value. It must be inexpensive relative to the objective
// function.
type Constraint func(value any) bool

// Descriptors are derived boolean flags describing a node's search space.
type Descriptors struct {
	// Continuous is true when the node's standardized data varies smoothly.
	Continuous bool
	// Deterministic is true when reconstruction from standardized data
	// never draws from the random source.
	Deterministic bool
}

// Parameter is a node in a parametrization tree. A node owns its subtree
// exclusively: no node is safe to mutate from more than one logical owner at
// a time. SpawnChild is the sole mechanism for obtaining an independently
// mutable candidate.
type Parameter interface {
	// Name returns a human-readable name derived from the node and its
	// children. It is for diagnostics only and plays no role in value
	// assembly.
	Name() string

	// UID returns the unique identity of this node.
	UID() string

	// ParentUIDs returns the UIDs of the nodes this one was spawned from.
	ParentUIDs() []string

	// Value assembles the node's structured payload from its own stored
	// state and its children's current values.
	Value() any

	// SetValue is the exact left-inverse of Value. It rejects values whose
	// structure disagrees with the node's fixed topology.
	SetValue(value any) error

	// Dimension is the fixed length of the node's standardized data,
	// determined at construction and immutable afterwards.
	Dimension() int

	// StandardizedData projects the node's current state into a flat vector
	// of length Dimension, applying any leaf-local inverse scaling.
	StandardizedData() ([]float64, error)

	// SetStandardizedData is the inverse of StandardizedData. For stochastic
	// leaves, deterministic selects the most likely outcome instead of
	// drawing a sample. Containers pass the flag through unchanged.
	SetStandardizedData(data []float64, deterministic bool) error

	// SpawnChild returns a new node of the same topology with the current
	// value copied in. No storage is shared below the copy boundary.
	SpawnChild() Parameter

	// Recombine blends the standardized data of this node and the others
	// into this node, following the node's recombination policy.
	Recombine(others ...Parameter) error

	// SatisfiesConstraint reports whether every registered cheap constraint
	// accepts the node's current structured value. With no constraints
	// registered it is vacuously true.
	SatisfiesConstraint() bool

	// RegisterCheapConstraint appends a feasibility predicate to the node.
	RegisterCheapConstraint(c Constraint)

	// Descriptors returns the node's derived search-space flags.
	Descriptors() Descriptors

	// Rand returns the node's seedable random source, creating one seeded
	// from the clock on first use.
	Rand() *rand.Rand

	// SetRand replaces the node's random source.
	SetRand(r *rand.Rand)
}

// node carries the state shared by every Parameter implementation: identity,
// heritage, constraints and the random source.
type node struct {
	uid         string
	parentUIDs  []string
	constraints []Constraint
	rng         *rand.Rand
}

func newNode() node {
	return node{uid: uuid.NewString()}
}

func (n *node) UID() string {
	return n.uid
}

func (n *node) ParentUIDs() []string {
	out := make([]string, len(n.parentUIDs))
	copy(out, n.parentUIDs)
	return out
}

func (n *node) RegisterCheapConstraint(c Constraint) {
	n.constraints = append(n.constraints, c)
}

// satisfies evaluates the registered constraints against the given value.
func (n *node) satisfies(value any) bool {
	for _, c := range n.constraints {
		if !c(value) {
			return false
		}
	}
	return true
}

func (n *node) Rand() *rand.Rand {
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return n.rng
}

func (n *node) SetRand(r *rand.Rand) {
	n.rng = r
}

// child derives the node state for a spawned copy: fresh identity, heritage
// recorded, constraints carried over. A seeded parent hands the child its own
// private source, seeded from the parent's stream; *rand.Rand is not safe for
// concurrent use, and spawned children must be mutable in parallel.
func (n *node) child() node {
	constraints := make([]Constraint, len(n.constraints))
	copy(constraints, n.constraints)
	var rng *rand.Rand
	if n.rng != nil {
		rng = rand.New(rand.NewSource(n.rng.Int63()))
	}
	return node{
		uid:         uuid.NewString(),
		parentUIDs:  []string{n.uid},
		constraints: constraints,
		rng:         rng,
	}
}

// checkDataLength rejects standardized data whose length disagrees with the
// node's fixed dimension.
func checkDataLength(p Parameter, got int) error {
	if got != p.Dimension() {
		return errors.WithFields(
			errors.New(errors.LengthMismatch, "standardized data length does not match node dimension"),
			errors.Fields{"got": got, "want": p.Dimension(), "node": p.Name()},
		)
	}
	return nil
}

// AsParameter returns v itself when it is already a Parameter, and wraps it
// in a Constant otherwise. Containers use it so mixed Parameter/raw-constant
// construction never needs a type check at value-assembly time.
func AsParameter(v any) Parameter {
	if p, ok := v.(Parameter); ok {
		return p
	}
	return NewConstant(v)
}
