package constraint

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Registry selects the RHS term table.
type Registry int

const (
	// RegistryConstraintRHS is GENERICCONSTRAINTRHS keyed by constraint ID.
	RegistryConstraintRHS Registry = iota
	// RegistryGenericEquationRHS is GENERICEQUATIONRHS keyed by equation ID.
	RegistryGenericEquationRHS
)

func (r Registry) schema() (mms.Schema[mms.RHSRow], error) {
	switch r {
	case RegistryConstraintRHS:
		return mms.GenericConstraintRHSSchema, nil
	case RegistryGenericEquationRHS:
		return mms.GenericEquationRHSSchema, nil
	default:
		return mms.Schema[mms.RHSRow]{}, fmt.Errorf("unknown RHS registry %d", int(r))
	}
}

// Resolver joins term tables against their lookup tables for one period.
// Every call fetches its tables afresh.
type Resolver struct {
	src    mms.Source
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(src mms.Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{src: src, logger: logger}
}

// ResolveLHS returns the LHS terms of a constraint: connection points,
// then interconnectors, then regions, each in source order. An unknown
// constraint yields an empty slice.
func (r *Resolver) ResolveLHS(ctx context.Context, constraintID string, p mms.Period) ([]LHSTerm, error) {
	terms := []LHSTerm{}

	cps, err := mms.Fetch(ctx, r.src, p, mms.ConnectionPointConstraintSchema)
	if err != nil {
		return nil, fmt.Errorf("resolve LHS of %s: %w", constraintID, err)
	}
	cps = slices.DeleteFunc(cps, func(c mms.ConnectionPointTerm) bool { return c.GenConID != constraintID })

	if len(cps) > 0 {
		units, err := mms.Fetch(ctx, r.src, p, mms.DUDetailSchema)
		if err != nil {
			return nil, fmt.Errorf("resolve LHS of %s: %w", constraintID, err)
		}
		for _, c := range cps {
			terms = append(terms, LHSTerm{
				Kind:    KindConnectionPoint,
				ID:      c.ConnectionPointID,
				DUID:    lookupDUID(units, c.ConnectionPointID),
				Factor:  c.Factor,
				BidType: c.BidType,
			})
		}
	}

	ics, err := mms.Fetch(ctx, r.src, p, mms.InterconnectorConstraintSchema)
	if err != nil {
		return nil, fmt.Errorf("resolve LHS of %s: %w", constraintID, err)
	}
	for _, ic := range ics {
		if ic.GenConID != constraintID {
			continue
		}
		terms = append(terms, LHSTerm{
			Kind:    KindInterconnector,
			ID:      ic.InterconnectorID,
			DUID:    ic.InterconnectorID,
			Factor:  ic.Factor,
			BidType: NotApplicable,
		})
	}

	regions, err := mms.Fetch(ctx, r.src, p, mms.RegionConstraintSchema)
	if err != nil {
		return nil, fmt.Errorf("resolve LHS of %s: %w", constraintID, err)
	}
	for _, rg := range regions {
		if rg.GenConID != constraintID {
			continue
		}
		terms = append(terms, LHSTerm{
			Kind:    KindRegion,
			ID:      rg.RegionID,
			DUID:    rg.RegionID,
			Factor:  rg.Factor,
			BidType: NotApplicable,
		})
	}

	r.logger.Debug("resolved LHS", "constraint", constraintID, "period", p.String(), "terms", len(terms))
	return terms, nil
}

func lookupDUID(units []mms.DispatchUnit, connectionPointID string) string {
	for _, u := range units {
		if u.ConnectionPointID == connectionPointID {
			return u.DUID
		}
	}
	return DUIDNotFound
}

// ResolveRHS returns the RHS terms owned by id in the chosen registry,
// sorted by term ID. SCADA terms are described from EMSMASTER; generic
// function references are only recognised in the constraint registry.
// An unknown id yields an empty slice.
func (r *Resolver) ResolveRHS(ctx context.Context, id string, p mms.Period, registry Registry) ([]RHSTerm, error) {
	schema, err := registry.schema()
	if err != nil {
		return nil, err
	}

	rows, err := mms.Fetch(ctx, r.src, p, schema)
	if err != nil {
		return nil, fmt.Errorf("resolve RHS of %s: %w", id, err)
	}
	rows = slices.DeleteFunc(rows, func(row mms.RHSRow) bool { return row.OwnerID != id })
	if len(rows) == 0 {
		r.logger.Debug("no RHS terms", "id", id, "period", p.String(), "table", schema.Table)
		return []RHSTerm{}, nil
	}

	points, err := mms.Fetch(ctx, r.src, p, mms.EMSMasterSchema)
	if err != nil {
		return nil, fmt.Errorf("resolve RHS of %s: %w", id, err)
	}

	terms := make([]RHSTerm, 0, len(rows))
	for _, row := range rows {
		op := Placeholder
		if row.HasOp {
			op = row.Operation
		}
		terms = append(terms, RHSTerm{
			TermID:      row.TermID,
			SPDID:       row.SPDID,
			SPDType:     row.SPDType,
			Description: describe(row, points, registry),
			Factor:      row.Factor,
			Operation:   op,
		})
	}

	slices.SortStableFunc(terms, func(a, b RHSTerm) int { return cmp.Compare(a.TermID, b.TermID) })

	r.logger.Debug("resolved RHS", "id", id, "period", p.String(), "table", schema.Table, "terms", len(terms))
	return terms, nil
}

func describe(row mms.RHSRow, points []mms.SCADAPoint, registry Registry) string {
	switch {
	case IsSCADAType(row.SPDType):
		for _, pt := range points {
			if pt.SPDID == row.SPDID {
				return pt.Description
			}
		}
		return Placeholder
	case row.SPDType == SPDTypeGeneric && registry == RegistryConstraintRHS:
		return GenericRHSFunction
	default:
		return Placeholder
	}
}
