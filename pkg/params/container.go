package params

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/varspace/varspace-go/pkg/errors"
)

// Dict is a container mapping names to child Parameters. Its key order is
// fixed at construction (sorted lexicographically) and used for both name
// building and standardized-data assembly.
type Dict struct {
	node
	keys     []string
	children map[string]Parameter
}

// NewDict creates a Dict over the given children. Raw constants are wrapped
// in Constant leaves. The topology (key set) is fixed afterwards.
func NewDict(entries map[string]any) *Dict {
	keys := make([]string, 0, len(entries))
	children := make(map[string]Parameter, len(entries))
	for k, v := range entries {
		keys = append(keys, k)
		children[k] = AsParameter(v)
	}
	sort.Strings(keys)
	return &Dict{node: newNode(), keys: keys, children: children}
}

func (d *Dict) Name() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = k + ":" + d.children[k].Name()
	}
	return "Dict(" + strings.Join(parts, ",") + ")"
}

// Keys returns the fixed key order.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Child returns the child registered under key, or nil.
func (d *Dict) Child(key string) Parameter {
	return d.children[key]
}

func (d *Dict) Value() any {
	out := make(map[string]any, len(d.keys))
	for _, k := range d.keys {
		out[k] = d.children[k].Value()
	}
	return out
}

// SetValue assigns child values from a map whose key set must match the
// topology exactly.
func (d *Dict) SetValue(value any) error {
	v, ok := value.(map[string]any)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of a map[string]any", value)
	}
	if len(v) != len(d.children) {
		return errors.WithFields(
			errors.New(errors.KeyMismatch, "value key set does not match the dict topology"),
			errors.Fields{"got": len(v), "want": len(d.children)},
		)
	}
	for k := range v {
		if _, ok := d.children[k]; !ok {
			return errors.Newf(errors.KeyMismatch, "unexpected key %q", k)
		}
	}
	for _, k := range d.keys {
		if err := d.children[k].SetValue(v[k]); err != nil {
			return errors.Wrap(err, errors.InvalidInput, "setting key "+k)
		}
	}
	return nil
}

func (d *Dict) Dimension() int {
	total := 0
	for _, k := range d.keys {
		total += d.children[k].Dimension()
	}
	return total
}

func (d *Dict) StandardizedData() ([]float64, error) {
	out := make([]float64, 0, d.Dimension())
	for _, k := range d.keys {
		data, err := d.children[k].StandardizedData()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func (d *Dict) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(d, len(data)); err != nil {
		return err
	}
	offset := 0
	for _, k := range d.keys {
		child := d.children[k]
		chunk := data[offset : offset+child.Dimension()]
		if err := child.SetStandardizedData(chunk, deterministic); err != nil {
			return err
		}
		offset += child.Dimension()
	}
	return nil
}

func (d *Dict) SpawnChild() Parameter {
	children := make(map[string]Parameter, len(d.children))
	for _, k := range d.keys {
		children[k] = d.children[k].SpawnChild()
	}
	return &Dict{
		node:     d.node.child(),
		keys:     append([]string(nil), d.keys...),
		children: children,
	}
}

// Recombine blends child-by-child with the corresponding children of the
// other participants, which must share the topology.
func (d *Dict) Recombine(others ...Parameter) error {
	peers := make([]*Dict, len(others))
	for i, other := range others {
		o, ok := other.(*Dict)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine a Dict with a %T", other)
		}
		if len(o.keys) != len(d.keys) {
			return errors.New(errors.KeyMismatch, "recombination participants must share the dict topology")
		}
		for _, k := range d.keys {
			if _, ok := o.children[k]; !ok {
				return errors.Newf(errors.KeyMismatch, "participant is missing key %q", k)
			}
		}
		peers[i] = o
	}
	for _, k := range d.keys {
		counterparts := make([]Parameter, len(peers))
		for i, o := range peers {
			counterparts[i] = o.children[k]
		}
		if err := d.children[k].Recombine(counterparts...); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dict) SatisfiesConstraint() bool {
	return d.satisfies(d.Value())
}

func (d *Dict) Descriptors() Descriptors {
	out := Descriptors{Continuous: true, Deterministic: true}
	for _, k := range d.keys {
		cd := d.children[k].Descriptors()
		out.Continuous = out.Continuous && cd.Continuous
		out.Deterministic = out.Deterministic && cd.Deterministic
	}
	return out
}

// SetRand propagates the random source to every child.
func (d *Dict) SetRand(r *rand.Rand) {
	d.node.SetRand(r)
	for _, k := range d.keys {
		d.children[k].SetRand(r)
	}
}

// Tuple is a fixed-arity, index-addressed container. Position k of the value
// always corresponds to the k-th constructor argument, whatever the children
// are.
type Tuple struct {
	node
	children []Parameter
}

// NewTuple creates a Tuple over the given items. Raw constants are wrapped
// in Constant leaves; the arity is fixed afterwards.
func NewTuple(items ...any) *Tuple {
	children := make([]Parameter, len(items))
	for i, item := range items {
		children[i] = AsParameter(item)
	}
	return &Tuple{node: newNode(), children: children}
}

func (t *Tuple) Name() string {
	parts := make([]string, len(t.children))
	for i, child := range t.children {
		parts[i] = child.Name()
	}
	return "Tuple(" + strings.Join(parts, ",") + ")"
}

// Len returns the tuple's fixed arity.
func (t *Tuple) Len() int {
	return len(t.children)
}

// Child returns the child at position k, or nil when out of range.
func (t *Tuple) Child(k int) Parameter {
	if k < 0 || k >= len(t.children) {
		return nil
	}
	return t.children[k]
}

func (t *Tuple) Value() any {
	out := make([]any, len(t.children))
	for i, child := range t.children {
		out[i] = child.Value()
	}
	return out
}

// SetValue assigns child values positionally from a slice of the tuple's
// arity. Constant children have their payload replaced outright.
func (t *Tuple) SetValue(value any) error {
	v, ok := value.([]any)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of a []any", value)
	}
	if len(v) != len(t.children) {
		return errors.WithFields(
			errors.New(errors.LengthMismatch, "value length does not match the tuple arity"),
			errors.Fields{"got": len(v), "want": len(t.children)},
		)
	}
	for i, item := range v {
		if err := t.children[i].SetValue(item); err != nil {
			return errors.Wrap(err, errors.InvalidInput, "setting position "+strconv.Itoa(i))
		}
	}
	return nil
}

func (t *Tuple) Dimension() int {
	total := 0
	for _, child := range t.children {
		total += child.Dimension()
	}
	return total
}

func (t *Tuple) StandardizedData() ([]float64, error) {
	out := make([]float64, 0, t.Dimension())
	for _, child := range t.children {
		data, err := child.StandardizedData()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func (t *Tuple) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(t, len(data)); err != nil {
		return err
	}
	offset := 0
	for _, child := range t.children {
		chunk := data[offset : offset+child.Dimension()]
		if err := child.SetStandardizedData(chunk, deterministic); err != nil {
			return err
		}
		offset += child.Dimension()
	}
	return nil
}

func (t *Tuple) SpawnChild() Parameter {
	children := make([]Parameter, len(t.children))
	for i, child := range t.children {
		children[i] = child.SpawnChild()
	}
	return &Tuple{node: t.node.child(), children: children}
}

// Recombine blends child-by-child with the corresponding children of the
// other participants, which must share the arity.
func (t *Tuple) Recombine(others ...Parameter) error {
	peers := make([]*Tuple, len(others))
	for i, other := range others {
		o, ok := other.(*Tuple)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine a Tuple with a %T", other)
		}
		if len(o.children) != len(t.children) {
			return errors.New(errors.LengthMismatch, "recombination participants must share the tuple arity")
		}
		peers[i] = o
	}
	for k, child := range t.children {
		counterparts := make([]Parameter, len(peers))
		for i, o := range peers {
			counterparts[i] = o.children[k]
		}
		if err := child.Recombine(counterparts...); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tuple) SatisfiesConstraint() bool {
	return t.satisfies(t.Value())
}

func (t *Tuple) Descriptors() Descriptors {
	out := Descriptors{Continuous: true, Deterministic: true}
	for _, child := range t.children {
		cd := child.Descriptors()
		out.Continuous = out.Continuous && cd.Continuous
		out.Deterministic = out.Deterministic && cd.Deterministic
	}
	return out
}

// SetRand propagates the random source to every child.
func (t *Tuple) SetRand(r *rand.Rand) {
	t.node.SetRand(r)
	for _, child := range t.children {
		child.SetRand(r)
	}
}
