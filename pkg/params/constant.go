package params

import "fmt"

// Constant is a leaf holding a raw payload that contributes nothing to the
// standardized data. Containers wrap non-Parameter children in Constants so
// positional assembly stays uniform.
type Constant struct {
	node
	val any
}

// NewConstant wraps a raw value in a zero-dimension leaf.
func NewConstant(v any) *Constant {
	return &Constant{node: newNode(), val: v}
}

func (c *Constant) Name() string {
	return fmt.Sprint(c.val)
}

func (c *Constant) Value() any {
	return c.val
}

// SetValue replaces the stored payload outright. Constants hold whatever the
// caller assigns; there is no topology to validate.
func (c *Constant) SetValue(value any) error {
	c.val = value
	return nil
}

func (c *Constant) Dimension() int {
	return 0
}

func (c *Constant) StandardizedData() ([]float64, error) {
	return []float64{}, nil
}

func (c *Constant) SetStandardizedData(data []float64, deterministic bool) error {
	return checkDataLength(c, len(data))
}

func (c *Constant) SpawnChild() Parameter {
	return &Constant{node: c.node.child(), val: c.val}
}

// Recombine is a no-op: a constant carries no standardized data to blend.
func (c *Constant) Recombine(others ...Parameter) error {
	return nil
}

func (c *Constant) SatisfiesConstraint() bool {
	return c.satisfies(c.Value())
}

func (c *Constant) Descriptors() Descriptors {
	return Descriptors{Continuous: true, Deterministic: true}
}
