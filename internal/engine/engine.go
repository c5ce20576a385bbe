// Package engine orchestrates C5 through C8 into the single synchronous
// Optimize call spec.md §6 names: filter and rank the inventory, generate
// candidate combinations, allocate and score each one, and return the
// top-scoring valid solutions.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/downblend/blendopt/internal/article"
	"github.com/downblend/blendopt/internal/blendscore"
	"github.com/downblend/blendopt/internal/candidates"
	"github.com/downblend/blendopt/internal/combination"
	"github.com/downblend/blendopt/internal/telemetry"
	"github.com/downblend/blendopt/pkg/blend"
)

var validate = validator.New()

// Options configures a single Optimize call (§6, §9's determinism and
// concurrency knobs).
type Options struct {
	Seed     uint64
	Parallel bool
	Telemetry telemetry.Sink
}

// Result is the successful response from Optimize: the top-num_solutions
// valid solutions, highest score first, plus whether the search
// was cut short by cancellation.
type Result struct {
	Solutions []blend.Solution
	Cancelled bool
}

// Kind enumerates the §7 error kinds Optimize can return.
type Kind int

const (
	InvalidRequest Kind = iota
	NoCandidates
	NoFeasibleBlend
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid_request"
	case NoCandidates:
		return "no_candidates"
	case NoFeasibleBlend:
		return "no_feasible_blend"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OptimizerError is the single error type Optimize returns, carrying
// kind-specific diagnostic payload (§7).
type OptimizerError struct {
	Kind Kind

	// ValidationErr is set only for InvalidRequest.
	ValidationErr error

	// CandidatesWithEstimated and CandidatesWithoutEstimated categorize the
	// failure per spec.md §4.8's failure-reporting note. NoCandidates sets
	// both: the number of admissible lots with allow_estimated forced on and
	// forced off. NoFeasibleBlend sets only CandidatesWithoutEstimated, to the
	// size of the candidate set the run used.
	CandidatesWithEstimated    int
	CandidatesWithoutEstimated int

	// WouldSucceedWithEstimated is true when the request had allow_estimated
	// off and turning it on admits more lots: any lot at all for
	// NoCandidates, more lots than the run used for NoFeasibleBlend.
	WouldSucceedWithEstimated bool
}

func (e *OptimizerError) Error() string {
	switch e.Kind {
	case InvalidRequest:
		return fmt.Sprintf("invalid request: %v", e.ValidationErr)
	case NoCandidates:
		return fmt.Sprintf("no candidate lots (estimated allowed: %d, without: %d)",
			e.CandidatesWithEstimated, e.CandidatesWithoutEstimated)
	case NoFeasibleBlend:
		msg := fmt.Sprintf("no feasible blend among %d candidates", e.CandidatesWithoutEstimated)
		if e.WouldSucceedWithEstimated {
			msg += " (would likely succeed with allow_estimated)"
		}
		return msg
	case Cancelled:
		return "optimize cancelled"
	default:
		return "optimizer error"
	}
}

func (e *OptimizerError) Unwrap() error {
	return e.ValidationErr
}

// Optimize runs the full C5->C7->C6->C8 pipeline against req and the given
// inventory, returning the top req.NumSolutions valid solutions by score.
func Optimize(ctx context.Context, req blend.Requirement, inventory []blend.Lot, opts Options) (Result, error) {
	sink := opts.Telemetry
	if sink == nil {
		sink = telemetry.NopSink{}
	}

	if req.ProductCode != "" {
		code := article.Parse(req.ProductCode)
		req.Species, req.Color, req.State = code.Species, code.Color, code.State
	}

	if err := validate.Struct(req); err != nil {
		return Result{}, &OptimizerError{Kind: InvalidRequest, ValidationErr: err}
	}

	filtered := candidates.Filter(req, inventory)
	if len(filtered) == 0 {
		return Result{}, noCandidatesError(req, inventory)
	}

	candidates.Rank(req, filtered)

	genOpts := combination.Options{Seed: opts.Seed, MaxLots: req.MaxLots, Telemetry: sink}
	var pool []combination.Candidate
	if opts.Parallel {
		pool = combination.GenerateParallel(ctx, req, filtered, req.NumSolutions, genOpts)
	} else {
		pool = combination.Generate(ctx, req, filtered, req.NumSolutions, genOpts)
	}

	scored := make([]blend.Solution, 0, len(pool))
	for _, cand := range pool {
		sol := blendscore.Build(req, cand.Allocations)
		if sol.IsValid(req.QuantityKg) {
			scored = append(scored, sol)
		}
	}

	cancelledRun := cancelled(ctx)

	if len(scored) == 0 {
		if cancelledRun {
			return Result{Cancelled: true}, &OptimizerError{Kind: Cancelled}
		}
		return Result{}, noFeasibleBlendError(req, inventory, len(filtered))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > req.NumSolutions {
		scored = scored[:req.NumSolutions]
	}

	if cancelledRun {
		sink.Warn("optimize_cancelled", map[string]any{"solutions_found": len(scored)})
		return Result{Solutions: scored, Cancelled: true}, nil
	}

	return Result{Solutions: scored}, nil
}

// noCandidatesError reruns the filter with allow_estimated flipped, per
// spec.md §4.8's failure-reporting note, to categorize why the filter
// produced nothing.
func noCandidatesError(req blend.Requirement, inventory []blend.Lot) *OptimizerError {
	relaxed := req
	relaxed.AllowEstimated = true
	withEstimated := candidates.Filter(relaxed, inventory)

	strict := req
	strict.AllowEstimated = false
	withoutEstimated := candidates.Filter(strict, inventory)

	return &OptimizerError{
		Kind:                       NoCandidates,
		CandidatesWithEstimated:    len(withEstimated),
		CandidatesWithoutEstimated: len(withoutEstimated),
		WouldSucceedWithEstimated:  !req.AllowEstimated && len(withEstimated) > 0,
	}
}

// noFeasibleBlendError reports candidates existed but no allocation passed
// validity, flagging whether relaxing allow_estimated would have widened the
// candidate pool — the best cheap signal available without rerunning the
// full combination search a second time.
func noFeasibleBlendError(req blend.Requirement, inventory []blend.Lot, candidateCount int) *OptimizerError {
	wouldSucceed := false
	if !req.AllowEstimated {
		relaxed := req
		relaxed.AllowEstimated = true
		wouldSucceed = len(candidates.Filter(relaxed, inventory)) > candidateCount
	}
	return &OptimizerError{
		Kind:                       NoFeasibleBlend,
		CandidatesWithoutEstimated: candidateCount,
		WouldSucceedWithEstimated:  wouldSucceed,
	}
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
