package constraint

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Config holds Service configuration.
type Config struct {
	// Source resolves archive tables (required)
	Source mms.Source
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Now overrides the clock used for default search bounds (optional)
	Now func() time.Time
}

// Service is the query surface over the archive. Queries are sequential
// and share no state.
type Service struct {
	searcher  *Searcher
	resolver  *Resolver
	assembler *Assembler
	logger    *slog.Logger
}

// New creates a Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resolver := NewResolver(cfg.Source, logger)
	return &Service{
		searcher:  NewSearcher(cfg.Source, logger, cfg.Now),
		resolver:  resolver,
		assembler: NewAssembler(cfg.Source, resolver, logger),
		logger:    logger,
	}
}

// ListConstraints returns a period's constraints, optionally filtered by
// ID prefix.
func (s *Service) ListConstraints(ctx context.Context, p mms.Period, prefix string) ([]*Descriptor, error) {
	return s.assembler.List(ctx, p, prefix)
}

// FindConstraint finds the most recent month defining a constraint whose ID
// starts with prefix.
func (s *Service) FindConstraint(ctx context.Context, prefix string, opts SearchOptions) (*SearchResult, error) {
	return s.searcher.Search(ctx, prefix, KindConstraint, opts)
}

// FindGenericFunction finds the most recent month defining a generic RHS
// function whose ID starts with prefix.
func (s *Service) FindGenericFunction(ctx context.Context, prefix string, opts SearchOptions) (*SearchResult, error) {
	return s.searcher.Search(ctx, prefix, KindGenericFunction, opts)
}

// LHSTerms returns the LHS terms of a constraint.
func (s *Service) LHSTerms(ctx context.Context, constraintID string, p mms.Period) ([]LHSTerm, error) {
	return s.resolver.ResolveLHS(ctx, constraintID, p)
}

// RHSTerms returns the RHS terms of a constraint.
func (s *Service) RHSTerms(ctx context.Context, constraintID string, p mms.Period) ([]RHSTerm, error) {
	return s.resolver.ResolveRHS(ctx, constraintID, p, RegistryConstraintRHS)
}

// Details returns the full view of a constraint.
func (s *Service) Details(ctx context.Context, constraintID string, p mms.Period) (*Details, error) {
	return s.assembler.Details(ctx, constraintID, p)
}

// GenericFunction returns the terms of a generic RHS function.
func (s *Service) GenericFunction(ctx context.Context, equationID string, p mms.Period) ([]RHSTerm, error) {
	return s.assembler.GenericFunction(ctx, equationID, p)
}

// GenericExpansion is a generic RHS function referenced by a constraint,
// resolved in the month it was last defined.
type GenericExpansion struct {
	EquationID string        `json:"equation_id" yaml:"equation_id"`
	Search     *SearchResult `json:"search" yaml:"search"`
	Terms      []RHSTerm     `json:"terms" yaml:"terms"`
}

// Found reports whether the function definition was located.
func (g GenericExpansion) Found() bool {
	return g.Search != nil && g.Search.Found
}

// ExpandGenericFunctions resolves every generic function referenced by the
// RHS of d. Each function is searched backward from d.Period by exact ID
// (opts.End and opts.Exact are ignored) and its terms are resolved in the
// month it was found. Each distinct function is expanded once, in RHS order.
func (s *Service) ExpandGenericFunctions(ctx context.Context, d *Details, opts SearchOptions) ([]GenericExpansion, error) {
	opts.End = d.Period
	opts.Exact = true
	seen := make(map[string]bool)
	out := []GenericExpansion{}

	for _, term := range d.RHS {
		if !term.IsGeneric() || seen[term.SPDID] {
			continue
		}
		seen[term.SPDID] = true

		res, err := s.searcher.Search(ctx, term.SPDID, KindGenericFunction, opts)
		if err != nil {
			return nil, err
		}

		exp := GenericExpansion{EquationID: term.SPDID, Search: res, Terms: []RHSTerm{}}
		if res.Found {
			exp.Terms, err = s.GenericFunction(ctx, res.Record.ID, res.Period)
			if err != nil {
				return nil, err
			}
		} else {
			s.logger.Warn("generic RHS function not found", "equation", term.SPDID)
		}
		out = append(out, exp)
	}
	return out, nil
}
