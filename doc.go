// Package varspace is a parametrization layer for black-box and
// derivative-free optimization. It lets callers describe the search space of
// a function's arguments (arrays, scalars, categorical choices, and nested
// structures of these) as a tree of composable Parameter nodes, and provides
// the bidirectional mapping between that structured space and the flat
// real-valued vector an optimizer actually manipulates.
//
// Key Components:
//
//   - Params: the parameter-tree core. Leaf types (Array, Scalar, Log,
//     Choice, TransitionChoice) hold concrete values plus node-local
//     hyper-parameters; container types (Dict, Tuple) compose nodes; and
//     Instrumentation pairs positional and keyword sub-trees so a wrapped
//     objective can be called with (args, kwargs).
//
//   - Standardized data: every node projects its state into a fixed-length
//     flat vector and reconstructs itself from one, applying leaf-local
//     scaling (sigma, log transforms) only at that boundary.
//
//   - Candidate generation: SpawnChild clones a node into an independently
//     owned candidate, and Recombine blends the standardized data of several
//     parents into offspring state.
//
//   - Cheap constraints: inexpensive feasibility predicates evaluated on a
//     candidate's structured value, registered per node and aggregated.
//
// Simple Example:
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/varspace/varspace-go/pkg/params"
//	)
//
//	func main() {
//	    ik := params.NewInstrumentation(
//	        []any{params.MustArray([]int{2})},
//	        map[string]any{"label": params.MustArray([]int{1})},
//	    )
//
//	    data, err := ik.ArgumentsToData([]any{[]float64{1, 2}}, map[string]any{"label": []float64{0.5}})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ak, err := ik.DataToArguments(data, true)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ak.Args, ak.Kwargs)
//	}
//
// The optimization algorithms that consume the flat vector, the benchmark
// functions evaluated through a Parameter instance, and any plotting or
// persistence layers are external collaborators and live outside this module.
//
// varspace-go is released under the MIT License.
package varspace
