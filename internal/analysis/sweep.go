package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/bvsim-dev/bvsim/internal/team"
)

const (
	// maxSweepWorkers caps the worker pool regardless of core count.
	maxSweepWorkers = 8
	// parallelTrialThreshold is the per-test trial count below which the
	// pool overhead is not worth it and evaluation stays sequential.
	parallelTrialThreshold = 50000
)

// ParameterResult holds the outcome of perturbing one leaf probability.
type ParameterResult struct {
	WinRate      float64 `json:"win_rate"`
	Improvement  float64 `json:"improvement"`
	CurrentValue float64 `json:"current_value"`
	ChangeValue  float64 `json:"change_value"`
	NewValue     float64 `json:"new_value"`
}

// SweepResult is a full skill sweep: baseline plus every parameter's
// perturbed win rate.
type SweepResult struct {
	BaselineWinRate       float64                    `json:"baseline_win_rate"`
	ChangeValue           float64                    `json:"change_value"`
	TotalParameters       int                        `json:"total_parameters"`
	ParameterImprovements map[string]ParameterResult `json:"parameter_improvements"`
}

// Delta is one leaf override inside a variant.
type Delta struct {
	Path   string
	Amount float64
}

// VariantSet is a named group of leaf overrides applied together as one
// test scenario.
type VariantSet struct {
	Name   string
	Deltas []Delta
}

// VariantResult holds the outcome of applying one variant set.
type VariantResult struct {
	WinRate     float64 `json:"win_rate"`
	Improvement float64 `json:"improvement"`
	DeltasCount int     `json:"deltas_count"`
}

// VariantSweepResult is a sweep over named variant sets.
type VariantSweepResult struct {
	BaselineWinRate float64                  `json:"baseline_win_rate"`
	FileResults     map[string]VariantResult `json:"file_results"`
}

// LoadVariantFile reads a YAML file of dot-path deltas, preserving the
// file's declaration order. The variant's name is the file stem.
func LoadVariantFile(path string) (VariantSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VariantSet{}, fmt.Errorf("deltas file not found: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return VariantSet{}, fmt.Errorf("failed to parse deltas file %s: %w", path, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return VariantSet{}, fmt.Errorf("empty or invalid deltas file: %s", path)
	}

	doc := node.Content[0]
	variant := VariantSet{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	for i := 0; i < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valNode := doc.Content[i+1]
		var amount float64
		if err := valNode.Decode(&amount); err != nil {
			return VariantSet{}, fmt.Errorf("delta for %q must be a number: %w", keyNode.Value, err)
		}
		variant.Deltas = append(variant.Deltas, Delta{Path: keyNode.Value, Amount: amount})
	}
	if len(variant.Deltas) == 0 {
		return VariantSet{}, fmt.Errorf("empty or invalid deltas file: %s", path)
	}
	return variant, nil
}

// Engine runs skill-impact sweeps against an opponent.
type Engine struct {
	log         *logrus.Logger
	trials      int
	baseServing string
	parallel    bool
}

func NewEngine(log *logrus.Logger, trials int, baseServing string, parallel bool) *Engine {
	return &Engine{
		log:         log,
		trials:      trials,
		baseServing: baseServing,
		parallel:    parallel,
	}
}

func workerCount(workload int) int {
	n := runtime.NumCPU()
	if workload < n {
		n = workload
	}
	if n > maxSweepWorkers {
		n = maxSweepWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// evaluateParameter perturbs one leaf on a clone of the base team,
// renormalizes, and measures the resulting win rate. Panics from a bad
// parameter are isolated so one failure never aborts the sweep.
func (e *Engine) evaluateParameter(base, opponent *team.Team, param team.Parameter, change, baseline float64) (result ParameterResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic evaluating parameter: %v", r)
		}
	}()

	modified := base.Clone()
	newValue := param.Value + change
	if err := modified.AdjustDistribution(param.Path, newValue); err != nil {
		return ParameterResult{}, err
	}

	winRate, err := WinRate(modified, opponent, e.trials, e.baseServing)
	if err != nil {
		return ParameterResult{}, err
	}

	return ParameterResult{
		WinRate:      winRate,
		Improvement:  winRate - baseline,
		CurrentValue: param.Value,
		ChangeValue:  change,
		NewValue:     newValue,
	}, nil
}

// FullSkillAnalysis perturbs every numeric leaf probability by change and
// measures the impact of each against the baseline win rate.
func (e *Engine) FullSkillAnalysis(ctx context.Context, base, opponent *team.Team, change float64) (*SweepResult, error) {
	baseline, err := WinRate(base, opponent, e.trials, e.baseServing)
	if err != nil {
		return nil, err
	}

	params := base.Parameters()
	result := &SweepResult{
		BaselineWinRate:       baseline,
		ChangeValue:           change,
		TotalParameters:       len(params),
		ParameterImprovements: make(map[string]ParameterResult, len(params)),
	}

	evaluate := func(p team.Parameter) (ParameterResult, error) {
		return e.evaluateParameter(base, opponent, p, change, baseline)
	}

	if e.parallel && len(params) > 1 && e.trials >= parallelTrialThreshold {
		merged, err := e.runParameterPool(ctx, params, evaluate)
		if err == nil {
			result.ParameterImprovements = merged
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.log.WithError(err).Warn("Parallel processing failed, falling back to sequential")
	}

	for _, p := range params {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := evaluate(p)
		if err != nil {
			e.log.WithError(err).WithField("parameter", p.Path).Warn("Skipping parameter")
			continue
		}
		result.ParameterImprovements[p.Path] = res
	}
	return result, nil
}

type parameterOutcome struct {
	path   string
	result ParameterResult
	err    error
}

// runParameterPool distributes whole parameter evaluations across a bounded
// worker pool. Results are merged by key as they complete, so final output
// is independent of completion order.
func (e *Engine) runParameterPool(
	ctx context.Context,
	params []team.Parameter,
	evaluate func(team.Parameter) (ParameterResult, error),
) (map[string]ParameterResult, error) {
	numWorkers := workerCount(len(params))
	jobs := make(chan team.Parameter, len(params))
	outcomes := make(chan parameterOutcome, len(params))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				res, err := evaluate(p)
				outcomes <- parameterOutcome{path: p.Path, result: res, err: err}
			}
		}()
	}

	dispatched := 0
dispatch:
	for _, p := range params {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- p:
			dispatched++
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	merged := make(map[string]ParameterResult, dispatched)
	for outcome := range outcomes {
		if outcome.err != nil {
			e.log.WithError(outcome.err).WithField("parameter", outcome.path).Warn("Skipping parameter")
			continue
		}
		merged[outcome.path] = outcome.result
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return merged, nil
}

// evaluateVariant applies all of a variant's deltas to a clone of the base
// team, then measures the win rate. Deltas addressing missing paths are
// logged and skipped; a variant with no applicable deltas is an error and
// gets omitted by the caller.
func (e *Engine) evaluateVariant(base, opponent *team.Team, variant VariantSet, baseline float64) (VariantResult, error) {
	modified := base.Clone()
	applied := 0
	for _, delta := range variant.Deltas {
		current, err := modified.GetValue(delta.Path)
		if err != nil {
			e.log.WithFields(logrus.Fields{
				"parameter": delta.Path,
				"variant":   variant.Name,
			}).Warn("Parameter not found in team configuration")
			continue
		}
		if err := modified.AdjustDistribution(delta.Path, current+delta.Amount); err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"parameter": delta.Path,
				"variant":   variant.Name,
			}).Warn("Skipping delta")
			continue
		}
		applied++
	}
	if applied == 0 {
		return VariantResult{}, fmt.Errorf("variant %s has no applicable deltas", variant.Name)
	}

	winRate, err := WinRate(modified, opponent, e.trials, e.baseServing)
	if err != nil {
		return VariantResult{}, err
	}
	return VariantResult{
		WinRate:     winRate,
		Improvement: winRate - baseline,
		DeltasCount: len(variant.Deltas),
	}, nil
}

// VariantAnalysis evaluates each named variant set as one scenario.
func (e *Engine) VariantAnalysis(ctx context.Context, base, opponent *team.Team, variants []VariantSet) (*VariantSweepResult, error) {
	baseline, err := WinRate(base, opponent, e.trials, e.baseServing)
	if err != nil {
		return nil, err
	}

	result := &VariantSweepResult{
		BaselineWinRate: baseline,
		FileResults:     make(map[string]VariantResult, len(variants)),
	}

	if e.parallel && len(variants) > 1 && e.trials >= parallelTrialThreshold {
		merged, err := e.runVariantPool(ctx, variants, base, opponent, baseline)
		if err == nil {
			result.FileResults = merged
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.log.WithError(err).Warn("Parallel processing failed, falling back to sequential")
	}

	for _, v := range variants {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := e.evaluateVariant(base, opponent, v, baseline)
		if err != nil {
			e.log.WithError(err).WithField("variant", v.Name).Warn("Skipping variant")
			continue
		}
		result.FileResults[v.Name] = res
	}
	return result, nil
}

type variantOutcome struct {
	name   string
	result VariantResult
	err    error
}

func (e *Engine) runVariantPool(
	ctx context.Context,
	variants []VariantSet,
	base, opponent *team.Team,
	baseline float64,
) (map[string]VariantResult, error) {
	numWorkers := workerCount(len(variants))
	jobs := make(chan VariantSet, len(variants))
	outcomes := make(chan variantOutcome, len(variants))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				res, err := e.evaluateVariant(base, opponent, v, baseline)
				outcomes <- variantOutcome{name: v.Name, result: res, err: err}
			}
		}()
	}

dispatch:
	for _, v := range variants {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- v:
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	merged := make(map[string]VariantResult, len(variants))
	for outcome := range outcomes {
		if outcome.err != nil {
			e.log.WithError(outcome.err).WithField("variant", outcome.name).Warn("Skipping variant")
			continue
		}
		merged[outcome.name] = outcome.result
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return merged, nil
}
