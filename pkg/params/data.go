package params

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/varspace/varspace-go/pkg/config"
	"github.com/varspace/varspace-go/pkg/errors"
)

// Distribution and recombination policy tags.
const (
	DistributionLinear = "linear"
	DistributionLog    = "log"

	RecombinationAverage = "average"
)

// Array is a leaf holding a dense numeric array of a fixed shape. Sigma
// scaling is applied only at the standardized-data boundary, never baked into
// the stored value.
type Array struct {
	node
	shape         []int
	value         []float64 // flattened, row-major
	sigma         FloatHyper
	distribution  PolicyHyper
	recombination PolicyHyper
}

// ArrayOption configures an Array at construction.
type ArrayOption func(*Array)

// WithSigma sets a fixed mutation standard deviation.
func WithSigma(v float64) ArrayOption {
	return func(a *Array) { a.sigma = FixedFloat(v) }
}

// WithSigmaParam backs sigma with a Parameter, enabling self-adaptive step
// sizes. The parameter's value must broadcast over the array.
func WithSigmaParam(p Parameter) ArrayOption {
	return func(a *Array) { a.sigma = ParamFloat(p) }
}

// WithDistribution sets the distribution tag ("linear" or "log").
func WithDistribution(tag string) ArrayOption {
	return func(a *Array) { a.distribution = FixedPolicy(tag) }
}

// WithRecombination sets the recombination policy tag.
func WithRecombination(tag string) ArrayOption {
	return func(a *Array) { a.recombination = FixedPolicy(tag) }
}

// WithRecombinationParam backs the recombination policy with a Parameter.
func WithRecombinationParam(p Parameter) ArrayOption {
	return func(a *Array) { a.recombination = ParamPolicy(p) }
}

// NewArray creates an Array of the given shape, initialized to zeros. The
// shape must be a non-empty list of positive integers and is fixed for the
// life of the node.
func NewArray(shape []int, opts ...ArrayOption) (*Array, error) {
	if len(shape) == 0 {
		return nil, errors.New(errors.InvalidInput, "array shape must not be empty")
	}
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, errors.Newf(errors.InvalidInput, "array shape must hold positive integers, got %v", shape)
		}
		size *= d
	}

	defaults := config.Default()
	a := &Array{
		node:          newNode(),
		shape:         append([]int(nil), shape...),
		value:         make([]float64, size),
		sigma:         FixedFloat(defaults.Sigma),
		distribution:  FixedPolicy(defaults.Distribution),
		recombination: FixedPolicy(defaults.Recombination),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// MustArray is NewArray for statically known shapes; it panics on a bad
// shape.
func MustArray(shape []int, opts ...ArrayOption) *Array {
	a, err := NewArray(shape, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Array) Name() string {
	dims := make([]string, len(a.shape))
	for i, d := range a.shape {
		dims[i] = fmt.Sprint(d)
	}
	return "Array(" + strings.Join(dims, ",") + ")"
}

// Shape returns a copy of the declared shape.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Sigma returns the sigma hyper-parameter field.
func (a *Array) Sigma() FloatHyper {
	return a.sigma
}

// Value returns the stored array, flattened row-major. No rescaling is
// applied here; scaling happens only through the standardized-data
// transform.
func (a *Array) Value() any {
	out := make([]float64, len(a.value))
	copy(out, a.value)
	return out
}

// SetValue assigns a new array. Non-array input and shape mismatches are
// rejected, never coerced.
func (a *Array) SetValue(value any) error {
	v, ok := value.([]float64)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of a []float64", value)
	}
	if len(v) != len(a.value) {
		return errors.WithFields(
			errors.New(errors.ShapeMismatch, "cannot set array with value of a different size"),
			errors.Fields{"shape": a.shape, "got": len(v), "want": len(a.value)},
		)
	}
	copy(a.value, v)
	return nil
}

func (a *Array) Dimension() int {
	return len(a.value)
}

// StandardizedData divides the flattened value elementwise by sigma.
func (a *Array) StandardizedData() ([]float64, error) {
	sigma, err := a.sigma.Values(len(a.value))
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "resolving sigma")
	}
	out := make([]float64, len(a.value))
	for i, v := range a.value {
		out[i] = v / sigma[i]
	}
	return out, nil
}

// SetStandardizedData multiplies the flat vector elementwise by sigma and
// stores the result. The deterministic flag is irrelevant for arrays.
func (a *Array) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(a, len(data)); err != nil {
		return err
	}
	sigma, err := a.sigma.Values(len(a.value))
	if err != nil {
		return errors.Wrap(err, errors.InvalidInput, "resolving sigma")
	}
	for i, d := range data {
		a.value[i] = sigma[i] * d
	}
	return nil
}

func (a *Array) SpawnChild() Parameter {
	child := &Array{
		node:          a.node.child(),
		shape:         append([]int(nil), a.shape...),
		value:         append([]float64(nil), a.value...),
		sigma:         a.sigma.spawn(),
		distribution:  a.distribution.spawn(),
		recombination: a.recombination.spawn(),
	}
	return child
}

// Recombine blends this array with the others according to the node's
// recombination policy. Only "average" is supported: the elementwise
// arithmetic mean of all participants' standardized data, reconstructed
// deterministically.
func (a *Array) Recombine(others ...Parameter) error {
	tag, err := a.recombination.Tag()
	if err != nil {
		return err
	}
	switch tag {
	case RecombinationAverage:
		mean, err := meanStandardizedData(a, others)
		if err != nil {
			return err
		}
		return a.SetStandardizedData(mean, true)
	default:
		return errors.Newf(errors.UnknownPolicy, "unknown recombination %q", tag)
	}
}

func (a *Array) SatisfiesConstraint() bool {
	return a.satisfies(a.Value())
}

func (a *Array) Descriptors() Descriptors {
	return Descriptors{Continuous: true, Deterministic: true}
}

// meanStandardizedData averages the standardized data of self and others,
// rejecting participants with a different dimension.
func meanStandardizedData(self Parameter, others []Parameter) ([]float64, error) {
	mean, err := self.StandardizedData()
	if err != nil {
		return nil, err
	}
	for _, other := range others {
		data, err := other.StandardizedData()
		if err != nil {
			return nil, err
		}
		if len(data) != len(mean) {
			return nil, errors.WithFields(
				errors.New(errors.LengthMismatch, "recombination participants must share a dimension"),
				errors.Fields{"got": len(data), "want": len(mean)},
			)
		}
		for i, d := range data {
			mean[i] += d
		}
	}
	n := float64(len(others) + 1)
	for i := range mean {
		mean[i] /= n
	}
	return mean, nil
}

// Scalar is a single-float convenience leaf built on the Array transform.
type Scalar struct {
	arr *Array
}

// NewScalar creates a Scalar initialized to zero.
func NewScalar(opts ...ArrayOption) *Scalar {
	return &Scalar{arr: MustArray([]int{1}, opts...)}
}

func (s *Scalar) Name() string { return "Scalar" }

func (s *Scalar) UID() string { return s.arr.UID() }

func (s *Scalar) ParentUIDs() []string { return s.arr.ParentUIDs() }

func (s *Scalar) Dimension() int { return 1 }

func (s *Scalar) Descriptors() Descriptors { return s.arr.Descriptors() }

func (s *Scalar) Value() any {
	return s.arr.value[0]
}

// Float returns the scalar's value without boxing.
func (s *Scalar) Float() float64 {
	return s.arr.value[0]
}

func (s *Scalar) SetValue(value any) error {
	v, ok := value.(float64)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of a float64", value)
	}
	s.arr.value[0] = v
	return nil
}

// SetFloat assigns the scalar's value without boxing.
func (s *Scalar) SetFloat(v float64) {
	s.arr.value[0] = v
}

func (s *Scalar) StandardizedData() ([]float64, error) {
	return s.arr.StandardizedData()
}

func (s *Scalar) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(s, len(data)); err != nil {
		return err
	}
	return s.arr.SetStandardizedData(data, deterministic)
}

func (s *Scalar) SpawnChild() Parameter {
	return &Scalar{arr: s.arr.SpawnChild().(*Array)}
}

func (s *Scalar) Recombine(others ...Parameter) error {
	inner := make([]Parameter, len(others))
	for i, other := range others {
		o, ok := other.(*Scalar)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine a Scalar with a %T", other)
		}
		inner[i] = o.arr
	}
	return s.arr.Recombine(inner...)
}

func (s *Scalar) SatisfiesConstraint() bool {
	return s.arr.satisfies(s.Value())
}

func (s *Scalar) RegisterCheapConstraint(c Constraint) {
	s.arr.RegisterCheapConstraint(c)
}

func (s *Scalar) Rand() *rand.Rand { return s.arr.Rand() }

func (s *Scalar) SetRand(r *rand.Rand) { s.arr.SetRand(r) }

// Log is a positive scalar leaf with exponential scaling: one standardized
// coordinate d maps to init * exponent^d, so optimizer steps are
// multiplicative in value space.
type Log struct {
	node
	init          float64
	exponent      float64
	value         float64
	recombination PolicyHyper
}

// NewLog creates a Log leaf. init must be positive and exponent greater
// than 1.
func NewLog(init, exponent float64) (*Log, error) {
	if init <= 0 {
		return nil, errors.Newf(errors.InvalidInput, "log init must be positive, got %v", init)
	}
	if exponent <= 1 {
		return nil, errors.Newf(errors.InvalidInput, "log exponent must be greater than 1, got %v", exponent)
	}
	return &Log{
		node:          newNode(),
		init:          init,
		exponent:      exponent,
		value:         init,
		recombination: FixedPolicy(config.Default().Recombination),
	}, nil
}

func (l *Log) Name() string {
	return "Log"
}

func (l *Log) Value() any {
	return l.value
}

func (l *Log) SetValue(value any) error {
	v, ok := value.(float64)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of a float64", value)
	}
	if v <= 0 {
		return errors.Newf(errors.InvalidInput, "log value must be positive, got %v", v)
	}
	l.value = v
	return nil
}

func (l *Log) Dimension() int {
	return 1
}

func (l *Log) StandardizedData() ([]float64, error) {
	return []float64{math.Log(l.value/l.init) / math.Log(l.exponent)}, nil
}

func (l *Log) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(l, len(data)); err != nil {
		return err
	}
	l.value = l.init * math.Pow(l.exponent, data[0])
	return nil
}

func (l *Log) SpawnChild() Parameter {
	return &Log{
		node:          l.node.child(),
		init:          l.init,
		exponent:      l.exponent,
		value:         l.value,
		recombination: l.recombination.spawn(),
	}
}

func (l *Log) Recombine(others ...Parameter) error {
	tag, err := l.recombination.Tag()
	if err != nil {
		return err
	}
	switch tag {
	case RecombinationAverage:
		mean, err := meanStandardizedData(l, others)
		if err != nil {
			return err
		}
		return l.SetStandardizedData(mean, true)
	default:
		return errors.Newf(errors.UnknownPolicy, "unknown recombination %q", tag)
	}
}

func (l *Log) SatisfiesConstraint() bool {
	return l.satisfies(l.Value())
}

func (l *Log) Descriptors() Descriptors {
	return Descriptors{Continuous: true, Deterministic: true}
}
