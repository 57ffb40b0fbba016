package constraint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Assembler builds the three-part view of a constraint for one period.
type Assembler struct {
	src      mms.Source
	resolver *Resolver
	logger   *slog.Logger
}

// NewAssembler creates an Assembler over src. A nil logger discards output.
func NewAssembler(src mms.Source, resolver *Resolver, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if resolver == nil {
		resolver = NewResolver(src, logger)
	}
	return &Assembler{src: src, resolver: resolver, logger: logger}
}

// Details returns the descriptor, LHS terms and RHS terms of a constraint.
// LHS and RHS are resolved even when the constraint is absent from the
// registry; callers inspect Found and the term counts.
func (a *Assembler) Details(ctx context.Context, constraintID string, p mms.Period) (*Details, error) {
	desc, err := a.descriptor(ctx, constraintID, p)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		a.logger.Info("constraint not in registry", "constraint", constraintID, "month", p.Label())
	}

	lhs, err := a.resolver.ResolveLHS(ctx, constraintID, p)
	if err != nil {
		return nil, err
	}
	rhs, err := a.resolver.ResolveRHS(ctx, constraintID, p, RegistryConstraintRHS)
	if err != nil {
		return nil, err
	}

	return &Details{
		ConstraintID: constraintID,
		Period:       p,
		Descriptor:   desc,
		LHS:          lhs,
		RHS:          rhs,
	}, nil
}

// GenericFunction returns the terms of a generic RHS function.
func (a *Assembler) GenericFunction(ctx context.Context, equationID string, p mms.Period) ([]RHSTerm, error) {
	return a.resolver.ResolveRHS(ctx, equationID, p, RegistryGenericEquationRHS)
}

// descriptor returns the exact registry match for id, or nil.
func (a *Assembler) descriptor(ctx context.Context, id string, p mms.Period) (*Descriptor, error) {
	records, err := mms.Fetch(ctx, a.src, p, mms.GenConDataSchema)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", id, err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return newDescriptor(rec, p), nil
		}
	}
	return nil, nil
}

// List returns the registry entries for a period whose ID starts with
// prefix, in source order. An empty prefix returns every entry.
func (a *Assembler) List(ctx context.Context, p mms.Period, prefix string) ([]*Descriptor, error) {
	records, err := mms.Fetch(ctx, a.src, p, mms.GenConDataSchema)
	if err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}

	out := []*Descriptor{}
	for _, rec := range records {
		if strings.HasPrefix(rec.ID, prefix) {
			out = append(out, newDescriptor(rec, p))
		}
	}
	return out, nil
}
