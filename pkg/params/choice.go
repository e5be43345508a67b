package params

import (
	"math"
	"reflect"

	"github.com/varspace/varspace-go/pkg/config"
	"github.com/varspace/varspace-go/pkg/errors"
)

// Choice is an unordered categorical leaf. Its standardized data is a weight
// per option; reconstruction either takes the argmax (deterministic) or
// draws from the softmax of the weights using the node's random source.
type Choice struct {
	node
	options       []any
	weights       []float64
	index         int
	temperature   float64
	recombination PolicyHyper
}

// ChoiceOption configures a Choice at construction.
type ChoiceOption func(*Choice)

// WithTemperature sets the softmax temperature used for stochastic
// reconstruction.
func WithTemperature(t float64) ChoiceOption {
	return func(c *Choice) { c.temperature = t }
}

// WithChoiceRecombination sets the recombination policy tag.
func WithChoiceRecombination(tag string) ChoiceOption {
	return func(c *Choice) { c.recombination = FixedPolicy(tag) }
}

// NewChoice creates a Choice over the given options with uniform weights.
func NewChoice(options []any, opts ...ChoiceOption) (*Choice, error) {
	if len(options) == 0 {
		return nil, errors.New(errors.InvalidInput, "choice requires at least one option")
	}
	defaults := config.Default()
	c := &Choice{
		node:          newNode(),
		options:       append([]any(nil), options...),
		weights:       make([]float64, len(options)),
		temperature:   defaults.SoftmaxTemperature,
		recombination: FixedPolicy(defaults.Recombination),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.temperature <= 0 {
		return nil, errors.Newf(errors.InvalidInput, "softmax temperature must be positive, got %v", c.temperature)
	}
	return c, nil
}

func (c *Choice) Name() string {
	return "Choice"
}

// Options returns a copy of the option list.
func (c *Choice) Options() []any {
	return append([]any(nil), c.options...)
}

// Index returns the currently selected option index.
func (c *Choice) Index() int {
	return c.index
}

func (c *Choice) Value() any {
	return c.options[c.index]
}

// SetValue selects the option equal to the given value and lifts its weight
// above the current maximum so a deterministic reconstruction keeps the
// selection.
func (c *Choice) SetValue(value any) error {
	for i, opt := range c.options {
		if reflect.DeepEqual(opt, value) {
			c.index = i
			c.weights[i] = maxFloat(c.weights) + 1
			return nil
		}
	}
	return errors.Newf(errors.InvalidInput, "value %v is not among the options", value)
}

func (c *Choice) Dimension() int {
	return len(c.options)
}

func (c *Choice) StandardizedData() ([]float64, error) {
	return append([]float64(nil), c.weights...), nil
}

// SetStandardizedData stores the weights and reselects the option: argmax
// when deterministic, a softmax draw otherwise.
func (c *Choice) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(c, len(data)); err != nil {
		return err
	}
	copy(c.weights, data)
	if deterministic {
		c.index = argmax(c.weights)
		return nil
	}
	c.index = c.softmaxSample()
	return nil
}

func (c *Choice) softmaxSample() int {
	// Shift by the max weight for numeric stability.
	max := maxFloat(c.weights)
	total := 0.0
	probs := make([]float64, len(c.weights))
	for i, w := range c.weights {
		probs[i] = math.Exp((w - max) / c.temperature)
		total += probs[i]
	}
	draw := c.Rand().Float64() * total
	acc := 0.0
	for i, p := range probs {
		acc += p
		if draw <= acc {
			return i
		}
	}
	return len(probs) - 1
}

func (c *Choice) SpawnChild() Parameter {
	return &Choice{
		node:          c.node.child(),
		options:       append([]any(nil), c.options...),
		weights:       append([]float64(nil), c.weights...),
		index:         c.index,
		temperature:   c.temperature,
		recombination: c.recombination.spawn(),
	}
}

// Recombine averages the participants' weights and reselects
// deterministically. Participants must be Choices over the same option set.
func (c *Choice) Recombine(others ...Parameter) error {
	for _, other := range others {
		o, ok := other.(*Choice)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine a Choice with a %T", other)
		}
		if !reflect.DeepEqual(o.options, c.options) {
			return errors.New(errors.InvalidInput, "recombination participants must share the option set")
		}
	}
	tag, err := c.recombination.Tag()
	if err != nil {
		return err
	}
	switch tag {
	case RecombinationAverage:
		mean, err := meanStandardizedData(c, others)
		if err != nil {
			return err
		}
		return c.SetStandardizedData(mean, true)
	default:
		return errors.Newf(errors.UnknownPolicy, "unknown recombination %q", tag)
	}
}

func (c *Choice) SatisfiesConstraint() bool {
	return c.satisfies(c.Value())
}

func (c *Choice) Descriptors() Descriptors {
	return Descriptors{Continuous: true, Deterministic: false}
}

// TransitionChoice is an ordered categorical leaf driven by a single
// position coordinate: the value is the option nearest the position, clamped
// to the valid range. Reconstruction is deterministic regardless of the
// flag.
type TransitionChoice struct {
	node
	options     []any
	position    float64
	transitions []float64
}

// NewTransitionChoice creates a TransitionChoice over ordered options,
// positioned at the first one. transitions weights the mutation step sizes
// between neighboring options; it defaults to [1, 1].
func NewTransitionChoice(options []any, transitions ...float64) (*TransitionChoice, error) {
	if len(options) == 0 {
		return nil, errors.New(errors.InvalidInput, "transition choice requires at least one option")
	}
	if len(transitions) == 0 {
		transitions = []float64{1, 1}
	}
	return &TransitionChoice{
		node:        newNode(),
		options:     append([]any(nil), options...),
		transitions: append([]float64(nil), transitions...),
	}, nil
}

func (t *TransitionChoice) Name() string {
	return "TransitionChoice"
}

// Options returns a copy of the ordered option list.
func (t *TransitionChoice) Options() []any {
	return append([]any(nil), t.options...)
}

// Transitions returns a copy of the transition weights.
func (t *TransitionChoice) Transitions() []float64 {
	return append([]float64(nil), t.transitions...)
}

func (t *TransitionChoice) Value() any {
	idx := int(math.Round(t.position))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.options) {
		idx = len(t.options) - 1
	}
	return t.options[idx]
}

func (t *TransitionChoice) SetValue(value any) error {
	for i, opt := range t.options {
		if reflect.DeepEqual(opt, value) {
			t.position = float64(i)
			return nil
		}
	}
	return errors.Newf(errors.InvalidInput, "value %v is not among the options", value)
}

func (t *TransitionChoice) Dimension() int {
	return 1
}

func (t *TransitionChoice) StandardizedData() ([]float64, error) {
	return []float64{t.position}, nil
}

func (t *TransitionChoice) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(t, len(data)); err != nil {
		return err
	}
	t.position = data[0]
	return nil
}

func (t *TransitionChoice) SpawnChild() Parameter {
	return &TransitionChoice{
		node:        t.node.child(),
		options:     append([]any(nil), t.options...),
		position:    t.position,
		transitions: append([]float64(nil), t.transitions...),
	}
}

// Recombine averages the participants' positions. Participants must be
// TransitionChoices over the same ordered option set.
func (t *TransitionChoice) Recombine(others ...Parameter) error {
	for _, other := range others {
		o, ok := other.(*TransitionChoice)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine a TransitionChoice with a %T", other)
		}
		if !reflect.DeepEqual(o.options, t.options) {
			return errors.New(errors.InvalidInput, "recombination participants must share the option set")
		}
	}
	mean, err := meanStandardizedData(t, others)
	if err != nil {
		return err
	}
	return t.SetStandardizedData(mean, true)
}

func (t *TransitionChoice) SatisfiesConstraint() bool {
	return t.satisfies(t.Value())
}

func (t *TransitionChoice) Descriptors() Descriptors {
	return Descriptors{Continuous: false, Deterministic: true}
}

func maxFloat(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
