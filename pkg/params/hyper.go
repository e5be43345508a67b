package params

import (
	"github.com/varspace/varspace-go/pkg/errors"
)

// Hyper-parameters of a leaf are typed record fields rather than an open
// attribute mapping. Each field is a tagged union: either a fixed value or a
// full Parameter, so the hyper-parameter itself can be optimized.

type hyperKind int

const (
	hyperUnset hyperKind = iota
	hyperFixed
	hyperParam
)

// FloatHyper is a float-valued hyper-parameter field: a fixed float or a
// Parameter whose value supplies it (a Scalar, or an Array for per-coordinate
// values).
type FloatHyper struct {
	kind  hyperKind
	fixed float64
	param Parameter
}

// FixedFloat builds a FloatHyper holding a plain float.
func FixedFloat(v float64) FloatHyper {
	return FloatHyper{kind: hyperFixed, fixed: v}
}

// ParamFloat builds a FloatHyper backed by a Parameter.
func ParamFloat(p Parameter) FloatHyper {
	return FloatHyper{kind: hyperParam, param: p}
}

// IsSet reports whether the field was explicitly provided.
func (h FloatHyper) IsSet() bool {
	return h.kind != hyperUnset
}

// Param returns the backing Parameter, or nil for fixed fields.
func (h FloatHyper) Param() Parameter {
	return h.param
}

// Values resolves the field to n coordinates, broadcasting a single value
// across all of them. A Parameter-backed field must yield a float64 or a
// []float64 of length 1 or n.
func (h FloatHyper) Values(n int) ([]float64, error) {
	broadcast := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	switch h.kind {
	case hyperFixed:
		return broadcast(h.fixed), nil
	case hyperParam:
		switch v := h.param.Value().(type) {
		case float64:
			return broadcast(v), nil
		case []float64:
			if len(v) == 1 {
				return broadcast(v[0]), nil
			}
			if len(v) == n {
				out := make([]float64, n)
				copy(out, v)
				return out, nil
			}
			return nil, errors.WithFields(
				errors.New(errors.ShapeMismatch, "hyper-parameter is not broadcastable"),
				errors.Fields{"got": len(v), "want": n},
			)
		default:
			return nil, errors.Newf(errors.InvalidInput, "hyper-parameter value has type %T, want float64 or []float64", v)
		}
	default:
		return nil, errors.New(errors.InvalidInput, "hyper-parameter is unset")
	}
}

// spawn clones the field for a spawned child so no Parameter storage is
// shared across the copy boundary.
func (h FloatHyper) spawn() FloatHyper {
	if h.kind == hyperParam {
		return FloatHyper{kind: hyperParam, param: h.param.SpawnChild()}
	}
	return h
}

// PolicyHyper is a string-tag hyper-parameter field (distribution kind,
// recombination policy). Tags are not validated eagerly: an unknown policy
// fails at the point it is invoked.
type PolicyHyper struct {
	kind  hyperKind
	fixed string
	param Parameter
}

// FixedPolicy builds a PolicyHyper holding a plain tag.
func FixedPolicy(tag string) PolicyHyper {
	return PolicyHyper{kind: hyperFixed, fixed: tag}
}

// ParamPolicy builds a PolicyHyper backed by a Parameter (typically a Choice
// over tags).
func ParamPolicy(p Parameter) PolicyHyper {
	return PolicyHyper{kind: hyperParam, param: p}
}

// IsSet reports whether the field was explicitly provided.
func (h PolicyHyper) IsSet() bool {
	return h.kind != hyperUnset
}

// Tag resolves the field to its current tag.
func (h PolicyHyper) Tag() (string, error) {
	switch h.kind {
	case hyperFixed:
		return h.fixed, nil
	case hyperParam:
		tag, ok := h.param.Value().(string)
		if !ok {
			return "", errors.Newf(errors.InvalidInput, "policy value has type %T, want string", h.param.Value())
		}
		return tag, nil
	default:
		return "", errors.New(errors.InvalidInput, "policy is unset")
	}
}

func (h PolicyHyper) spawn() PolicyHyper {
	if h.kind == hyperParam {
		return PolicyHyper{kind: hyperParam, param: h.param.SpawnChild()}
	}
	return h
}
