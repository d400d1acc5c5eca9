package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/lavy-dev/lavy/internal/i18n"
	"github.com/lavy-dev/lavy/pkg/logger"
)

// ErrChecksFailed is returned by Run when at least one error-severity check fails.
var ErrChecksFailed = errors.New("health checks failed")

// Runner orchestrates health checks and fixes
type Runner struct {
	registry *Registry
	reporter Reporter
	out      io.Writer
	tr       *i18n.Translator
	logger   logger.Logger
}

// RunOptions configures the doctor run behavior
type RunOptions struct {
	// Verbose enables detailed output
	Verbose bool

	// AutoFix applies the available fixes (--fix flag)
	AutoFix bool

	// Categories filters checks by category
	Categories []Category
}

// NewRunner creates a new Runner. Fix progress and suggestions go to out.
func NewRunner(
	registry *Registry,
	reporter Reporter,
	out io.Writer,
	tr *i18n.Translator,
	logger logger.Logger,
) *Runner {
	return &Runner{
		registry: registry,
		reporter: reporter,
		out:      out,
		tr:       tr,
		logger:   logger,
	}
}

// Run executes health checks and applies fixes if requested
func (r *Runner) Run(ctx context.Context, opts RunOptions) error {
	r.logger.Debug("starting doctor run", "verbose", opts.Verbose, "autoFix", opts.AutoFix)

	var results []CheckResult

	if len(opts.Categories) > 0 {
		for _, category := range opts.Categories {
			results = append(results, r.registry.RunCategory(ctx, category)...)
		}
	} else {
		results = r.registry.RunAll(ctx)
	}

	r.logger.Debug("checks completed", "total", len(results))

	r.reporter.Report(results, opts.Verbose)

	fixable := r.collectFixableResults(results)
	if len(fixable) == 0 {
		return r.determineExitError(results)
	}

	if !opts.AutoFix {
		r.suggestFixes(fixable)

		return r.determineExitError(results)
	}

	r.logger.Info("applying fixes", "count", len(fixable))

	if err := r.applyFixes(ctx, fixable); err != nil {
		return errors.Wrap(err, "failed to apply fixes")
	}

	rerun := r.rerunChecks(ctx, fixable)
	fmt.Fprintln(r.out)
	r.reporter.Report(rerun, opts.Verbose)

	return r.determineExitError(r.combineResults(results, rerun))
}

// collectFixableResults returns failed results that have a registered fixer
func (r *Runner) collectFixableResults(results []CheckResult) []CheckResult {
	var fixable []CheckResult

	for _, result := range results {
		if result.Status != StatusFail || !result.HasFix() {
			continue
		}

		if fixer, ok := r.registry.GetFixer(result.FixID); ok && fixer.CanFix(result) {
			fixable = append(fixable, result)
		}
	}

	return fixable
}

// applyFixes applies fixes for the given results. Each fixer runs at most once.
func (r *Runner) applyFixes(ctx context.Context, results []CheckResult) error {
	applied := make(map[string]bool)

	for _, result := range results {
		if applied[result.FixID] {
			continue
		}

		fixer, ok := r.registry.GetFixer(result.FixID)
		if !ok {
			r.logger.Error("fixer not found", "fixID", result.FixID)
			continue
		}

		applied[result.FixID] = true

		fmt.Fprintln(r.out, r.tr.T("doctor_fixing", i18n.Data{"Fix": fixer.Description()}))
		r.logger.Info("applying fix", "check", result.Name, "fixer", fixer.ID())

		if err := fixer.Fix(ctx); err != nil {
			fmt.Fprintln(r.out, r.tr.T("doctor_fix_failed", i18n.Data{"Fix": fixer.Description()}))

			return errors.Wrapf(err, "failed to fix %q", result.Name)
		}
	}

	return nil
}

// suggestFixes prints the available fixes
func (r *Runner) suggestFixes(results []CheckResult) {
	fmt.Fprintln(r.out)

	for _, result := range results {
		fixer, ok := r.registry.GetFixer(result.FixID)
		if !ok {
			continue
		}

		fmt.Fprintf(r.out, "  → %s: %s\n", result.Name, fixer.Description())
	}

	fmt.Fprintln(r.out, "  → "+r.tr.T("doctor_suggest_fix"))
}

// rerunChecks re-runs the checks that produced results
func (r *Runner) rerunChecks(ctx context.Context, results []CheckResult) []CheckResult {
	names := make(map[string]bool)
	for _, result := range results {
		names[result.Name] = true
	}

	var rerun []CheckResult

	for _, result := range r.registry.RunAll(ctx) {
		if names[result.Name] {
			rerun = append(rerun, result)
		}
	}

	return rerun
}

// combineResults replaces original results with their rerun counterparts
func (*Runner) combineResults(original, rerun []CheckResult) []CheckResult {
	rerunMap := make(map[string]CheckResult, len(rerun))
	for _, result := range rerun {
		rerunMap[result.Name] = result
	}

	combined := make([]CheckResult, 0, len(original))

	for _, result := range original {
		if rerunResult, ok := rerunMap[result.Name]; ok {
			combined = append(combined, rerunResult)
		} else {
			combined = append(combined, result)
		}
	}

	return combined
}

// determineExitError returns ErrChecksFailed when any error-severity check failed
func (r *Runner) determineExitError(results []CheckResult) error {
	counts := Count(results)

	r.logger.Debug("final status",
		"errors", counts.Errors,
		"warnings", counts.Warnings,
		"total", len(results),
	)

	if counts.Errors > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", counts.Errors)
	}

	return nil
}
