package params

import (
	"context"
	"math/rand"

	"github.com/sourcegraph/conc/pool"

	"github.com/varspace/varspace-go/pkg/config"
	"github.com/varspace/varspace-go/pkg/errors"
	"github.com/varspace/varspace-go/pkg/logging"
)

// ArgsKwargs is the structured value of an Instrumentation: the positional
// and keyword arguments the wrapped objective function will be called with.
type ArgsKwargs struct {
	Args   []any
	Kwargs map[string]any
}

// ArgsPredicate is a user feasibility predicate with the same signature
// shape as the objective function.
type ArgsPredicate func(args []any, kwargs map[string]any) bool

// PackArguments adapts a predicate over (args, kwargs) into a Constraint
// over the ArgsKwargs structured value. A value of any other type fails the
// constraint.
func PackArguments(pred ArgsPredicate) Constraint {
	return func(value any) bool {
		ak, ok := value.(ArgsKwargs)
		if !ok {
			return false
		}
		return pred(ak.Args, ak.Kwargs)
	}
}

// Instrumentation is the root container pairing a Tuple of positional
// parameters with a Dict of keyword parameters. Its value is the
// (args, kwargs) pair.
type Instrumentation struct {
	node
	args   *Tuple
	kwargs *Dict

	// converter is the sole cached node: a detached spawned copy, created
	// lazily at most once and reused by ArgumentsToData/DataToArguments. It
	// is never exposed; constraint checks spawn an independent fresh child
	// instead.
	converter *Instrumentation

	batchWorkers int
}

// InstrumentationOption configures an Instrumentation at construction.
type InstrumentationOption func(*Instrumentation)

// WithDefaults applies loaded library defaults: the batch worker bound, and
// a seeded random source for the whole tree when Seed is non-zero.
func WithDefaults(cfg *config.Defaults) InstrumentationOption {
	return func(ik *Instrumentation) {
		ik.batchWorkers = cfg.BatchWorkers
		if cfg.Seed != 0 {
			ik.SetRand(rand.New(rand.NewSource(cfg.Seed)))
		}
	}
}

// NewInstrumentation builds the two-child topology from positional and
// keyword declarations. Raw constants are allowed on both sides.
func NewInstrumentation(args []any, kwargs map[string]any, opts ...InstrumentationOption) *Instrumentation {
	ik := &Instrumentation{
		node:         newNode(),
		args:         NewTuple(args...),
		kwargs:       NewDict(kwargs),
		batchWorkers: config.Default().BatchWorkers,
	}
	for _, opt := range opts {
		opt(ik)
	}
	return ik
}

func (ik *Instrumentation) Name() string {
	return "Instrumentation(" + ik.args.Name() + "," + ik.kwargs.Name() + ")"
}

// Args returns the current positional-argument values.
func (ik *Instrumentation) Args() []any {
	return ik.args.Value().([]any)
}

// Kwargs returns the current keyword-argument values.
func (ik *Instrumentation) Kwargs() map[string]any {
	return ik.kwargs.Value().(map[string]any)
}

func (ik *Instrumentation) Value() any {
	return ArgsKwargs{Args: ik.Args(), Kwargs: ik.Kwargs()}
}

func (ik *Instrumentation) SetValue(value any) error {
	ak, ok := value.(ArgsKwargs)
	if !ok {
		return errors.Newf(errors.InvalidInput, "received a %T in place of an ArgsKwargs", value)
	}
	if err := ik.args.SetValue(ak.Args); err != nil {
		return err
	}
	return ik.kwargs.SetValue(ak.Kwargs)
}

func (ik *Instrumentation) Dimension() int {
	return ik.args.Dimension() + ik.kwargs.Dimension()
}

func (ik *Instrumentation) StandardizedData() ([]float64, error) {
	argsData, err := ik.args.StandardizedData()
	if err != nil {
		return nil, err
	}
	kwargsData, err := ik.kwargs.StandardizedData()
	if err != nil {
		return nil, err
	}
	return append(argsData, kwargsData...), nil
}

func (ik *Instrumentation) SetStandardizedData(data []float64, deterministic bool) error {
	if err := checkDataLength(ik, len(data)); err != nil {
		return err
	}
	split := ik.args.Dimension()
	if err := ik.args.SetStandardizedData(data[:split], deterministic); err != nil {
		return err
	}
	return ik.kwargs.SetStandardizedData(data[split:], deterministic)
}

// SpawnChild clones the topology. The cached converter is not inherited;
// each instance materializes its own on first use.
func (ik *Instrumentation) SpawnChild() Parameter {
	return &Instrumentation{
		node:         ik.node.child(),
		args:         ik.args.SpawnChild().(*Tuple),
		kwargs:       ik.kwargs.SpawnChild().(*Dict),
		batchWorkers: ik.batchWorkers,
	}
}

func (ik *Instrumentation) Recombine(others ...Parameter) error {
	argPeers := make([]Parameter, len(others))
	kwargPeers := make([]Parameter, len(others))
	for i, other := range others {
		o, ok := other.(*Instrumentation)
		if !ok {
			return errors.Newf(errors.InvalidInput, "cannot recombine an Instrumentation with a %T", other)
		}
		argPeers[i] = o.args
		kwargPeers[i] = o.kwargs
	}
	if err := ik.args.Recombine(argPeers...); err != nil {
		return err
	}
	return ik.kwargs.Recombine(kwargPeers...)
}

func (ik *Instrumentation) SatisfiesConstraint() bool {
	return ik.satisfies(ik.Value())
}

func (ik *Instrumentation) Descriptors() Descriptors {
	ad := ik.args.Descriptors()
	kd := ik.kwargs.Descriptors()
	return Descriptors{
		Continuous:    ad.Continuous && kd.Continuous,
		Deterministic: ad.Deterministic && kd.Deterministic,
	}
}

// SetRand propagates the random source to both sub-trees.
func (ik *Instrumentation) SetRand(r *rand.Rand) {
	ik.node.SetRand(r)
	ik.args.SetRand(r)
	ik.kwargs.SetRand(r)
}

// conv returns the memoized detached copy used for data conversions,
// creating it on first use. Conversions mutate this copy instead of the
// canonical instance.
func (ik *Instrumentation) conv() *Instrumentation {
	if ik.converter == nil {
		ik.converter = ik.SpawnChild().(*Instrumentation)
	}
	return ik.converter
}

// ArgumentsToData converts an (args, kwargs) pair into its standardized
// data. The canonical instance is left untouched.
func (ik *Instrumentation) ArgumentsToData(args []any, kwargs map[string]any) ([]float64, error) {
	c := ik.conv()
	if err := c.SetValue(ArgsKwargs{Args: args, Kwargs: kwargs}); err != nil {
		return nil, err
	}
	return c.StandardizedData()
}

// DataToArguments converts standardized data into an (args, kwargs) pair.
// When deterministic is false, stochastic leaves draw a sample instead of
// taking their most likely outcome.
func (ik *Instrumentation) DataToArguments(data []float64, deterministic bool) (ArgsKwargs, error) {
	c := ik.conv()
	if err := c.SetStandardizedData(data, deterministic); err != nil {
		return ArgsKwargs{}, err
	}
	return c.Value().(ArgsKwargs), nil
}

// CheapConstraintCheck evaluates the registered constraints against the
// given (args, kwargs) pair on a fresh spawned child, isolating the check
// from both the canonical instance and the conversion copy.
func (ik *Instrumentation) CheapConstraintCheck(args []any, kwargs map[string]any) (bool, error) {
	child := ik.SpawnChild().(*Instrumentation)
	if err := child.SetValue(ArgsKwargs{Args: args, Kwargs: kwargs}); err != nil {
		return false, err
	}
	return child.SatisfiesConstraint(), nil
}

// RegisterArgumentsConstraint registers a user predicate of the objective
// function's signature shape, adapted through PackArguments.
func (ik *Instrumentation) RegisterArgumentsConstraint(pred ArgsPredicate) {
	ik.RegisterCheapConstraint(PackArguments(pred))
}

// Summary is no longer supported: the structured value and standardized
// data are the supported inspection surfaces. It fails unconditionally so
// callers migrate instead of consuming a degraded report.
func (ik *Instrumentation) Summary(data []float64) (string, error) {
	return "", errors.New(errors.NotSupported, "summary is suppressed: inspect the structured value or standardized data instead")
}

// SetBatchWorkers bounds the worker pool used by ConvertBatch.
func (ik *Instrumentation) SetBatchWorkers(n int) error {
	if n < 1 {
		return errors.Newf(errors.InvalidInput, "batch workers must be at least 1, got %d", n)
	}
	ik.batchWorkers = n
	return nil
}

// ConvertBatch converts many standardized-data rows into (args, kwargs)
// pairs concurrently. Children are spawned up front on the calling
// goroutine (spawning draws a child seed from the parent's random source,
// which is not safe to touch from workers); each worker then mutates only
// its own child.
func (ik *Instrumentation) ConvertBatch(ctx context.Context, rows [][]float64, deterministic bool) ([]ArgsKwargs, error) {
	if err := errors.CheckContext(ctx, "batch conversion"); err != nil {
		return nil, err
	}

	logger := logging.GetLogger()
	logger.Debug(logging.WithNodeUID(ctx, ik.UID()), "converting batch of %d rows with %d workers", len(rows), ik.batchWorkers)

	results := make([]ArgsKwargs, len(rows))
	errs := make([]error, len(rows))

	p := pool.New().WithMaxGoroutines(ik.batchWorkers)
	for i, row := range rows {
		i, row := i, row
		child := ik.SpawnChild().(*Instrumentation)
		p.Go(func() {
			if err := errors.CheckContext(ctx, "batch conversion"); err != nil {
				errs[i] = err
				return
			}
			if err := child.SetStandardizedData(row, deterministic); err != nil {
				errs[i] = err
				return
			}
			results[i] = child.Value().(ArgsKwargs)
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
