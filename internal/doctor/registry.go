package doctor

import (
	"context"
	"maps"
)

// Registry manages health checkers and fixers. Checkers run one after the
// other in registration order.
type Registry struct {
	checkers []HealthChecker
	fixers   map[string]Fixer
}

// NewRegistry creates a new Registry
func NewRegistry() *Registry {
	return &Registry{
		fixers: make(map[string]Fixer),
	}
}

// RegisterChecker registers a health checker
func (r *Registry) RegisterChecker(checker HealthChecker) {
	r.checkers = append(r.checkers, checker)
}

// RegisterFixer registers a fixer
func (r *Registry) RegisterFixer(fixer Fixer) {
	r.fixers[fixer.ID()] = fixer
}

// RunAll executes all registered health checkers
func (r *Registry) RunAll(ctx context.Context) []CheckResult {
	return runCheckers(ctx, r.checkers)
}

// RunCategory executes the health checkers of one category
func (r *Registry) RunCategory(ctx context.Context, category Category) []CheckResult {
	var checkers []HealthChecker

	for _, c := range r.checkers {
		if c.Category() == category {
			checkers = append(checkers, c)
		}
	}

	return runCheckers(ctx, checkers)
}

func runCheckers(ctx context.Context, checkers []HealthChecker) []CheckResult {
	results := make([]CheckResult, 0, len(checkers))

	for _, checker := range checkers {
		if ctx.Err() != nil {
			results = append(results, Skip(checker.Name(), ctx.Err().Error()))

			continue
		}

		result := checker.Check(ctx)
		result.Category = checker.Category()
		results = append(results, result)
	}

	return results
}

// GetFixer retrieves a fixer by ID.
//
//nolint:ireturn // Fixer interface for polymorphism
func (r *Registry) GetFixer(fixID string) (Fixer, bool) {
	fixer, ok := r.fixers[fixID]

	return fixer, ok
}

// GetFixers returns a copy of the registered fixers
func (r *Registry) GetFixers() map[string]Fixer {
	return maps.Clone(r.fixers)
}

// CheckerCount returns the total number of registered checkers
func (r *Registry) CheckerCount() int {
	return len(r.checkers)
}

// FixerCount returns the total number of registered fixers
func (r *Registry) FixerCount() int {
	return len(r.fixers)
}
