package mms

import (
	"context"
	"errors"
)

// Schema declares how one archive table maps onto a typed record.
type Schema[T any] struct {
	// Table is the archive table name.
	Table string
	// Required columns must be present in the header.
	Required []string
	// Decode converts one row using named-field access.
	Decode func(Row) (T, error)
}

// Decode converts every row of t. Missing required columns and malformed
// cells are reported as *DecodeError.
func Decode[T any](t *Table, s Schema[T]) ([]T, error) {
	for _, c := range s.Required {
		if !t.Has(c) {
			return nil, &DecodeError{Table: t.Name, Row: -1, Column: c, Err: ErrMissingColumn}
		}
	}

	out := make([]T, 0, t.Len())
	for _, row := range t.Rows() {
		v, err := s.Decode(row)
		if err != nil {
			var de *DecodeError
			if !errors.As(err, &de) {
				err = &DecodeError{Table: t.Name, Row: row.Index(), Err: err}
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Fetch retrieves a table from src and decodes it with s.
func Fetch[T any](ctx context.Context, src Source, p Period, s Schema[T]) ([]T, error) {
	t, err := src.FetchTable(ctx, p, s.Table)
	if err != nil {
		return nil, err
	}
	return Decode(t, s)
}

// RegistryRecord is a GENCONDATA or GENERICEQUATIONDESC entry.
type RegistryRecord struct {
	ID          string
	Description string
	Fields      []Field
}

// ConnectionPointTerm is an SPDCONNECTIONPOINTCONSTRAINT row.
type ConnectionPointTerm struct {
	GenConID          string
	ConnectionPointID string
	Factor            float64
	BidType           string
}

// InterconnectorTerm is an SPDINTERCONNECTORCONSTRAINT row.
type InterconnectorTerm struct {
	GenConID         string
	InterconnectorID string
	Factor           float64
}

// RegionTerm is an SPDREGIONCONSTRAINT row.
type RegionTerm struct {
	GenConID string
	RegionID string
	Factor   float64
}

// DispatchUnit is a DUDETAIL row.
type DispatchUnit struct {
	DUID              string
	ConnectionPointID string
}

// RHSRow is a GENERICCONSTRAINTRHS or GENERICEQUATIONRHS row. OwnerID is
// the constraint ID or the equation ID respectively.
type RHSRow struct {
	OwnerID   string
	TermID    int
	SPDID     string
	SPDType   string
	Factor    float64
	Operation string
	HasOp     bool
}

// SCADAPoint is an EMSMASTER row.
type SCADAPoint struct {
	SPDID       string
	SPDType     string
	Description string
}

func registrySchema(table, idColumn string) Schema[RegistryRecord] {
	return Schema[RegistryRecord]{
		Table:    table,
		Required: []string{idColumn},
		Decode: func(r Row) (RegistryRecord, error) {
			return RegistryRecord{
				ID:          r.String(idColumn),
				Description: r.String("DESCRIPTION"),
				Fields:      r.Fields(),
			}, nil
		},
	}
}

// GenConDataSchema decodes the constraint registry.
var GenConDataSchema = registrySchema(TableGenConData, "GENCONID")

// GenericEquationDescSchema decodes the generic RHS function registry.
var GenericEquationDescSchema = registrySchema(TableGenericEquationDesc, "EQUATIONID")

// ConnectionPointConstraintSchema decodes connection point LHS terms.
var ConnectionPointConstraintSchema = Schema[ConnectionPointTerm]{
	Table:    TableConnectionPointConstraint,
	Required: []string{"GENCONID", "CONNECTIONPOINTID", "FACTOR", "BIDTYPE"},
	Decode: func(r Row) (ConnectionPointTerm, error) {
		f, err := r.Float("FACTOR")
		if err != nil {
			return ConnectionPointTerm{}, err
		}
		return ConnectionPointTerm{
			GenConID:          r.String("GENCONID"),
			ConnectionPointID: r.String("CONNECTIONPOINTID"),
			Factor:            f,
			BidType:           r.String("BIDTYPE"),
		}, nil
	},
}

// InterconnectorConstraintSchema decodes interconnector LHS terms.
var InterconnectorConstraintSchema = Schema[InterconnectorTerm]{
	Table:    TableInterconnectorConstraint,
	Required: []string{"GENCONID", "INTERCONNECTORID", "FACTOR"},
	Decode: func(r Row) (InterconnectorTerm, error) {
		f, err := r.Float("FACTOR")
		if err != nil {
			return InterconnectorTerm{}, err
		}
		return InterconnectorTerm{
			GenConID:         r.String("GENCONID"),
			InterconnectorID: r.String("INTERCONNECTORID"),
			Factor:           f,
		}, nil
	},
}

// RegionConstraintSchema decodes region LHS terms.
var RegionConstraintSchema = Schema[RegionTerm]{
	Table:    TableRegionConstraint,
	Required: []string{"GENCONID", "REGIONID", "FACTOR"},
	Decode: func(r Row) (RegionTerm, error) {
		f, err := r.Float("FACTOR")
		if err != nil {
			return RegionTerm{}, err
		}
		return RegionTerm{
			GenConID: r.String("GENCONID"),
			RegionID: r.String("REGIONID"),
			Factor:   f,
		}, nil
	},
}

// DUDetailSchema decodes the dispatchable unit lookup.
var DUDetailSchema = Schema[DispatchUnit]{
	Table:    TableDUDetail,
	Required: []string{"DUID", "CONNECTIONPOINTID"},
	Decode: func(r Row) (DispatchUnit, error) {
		return DispatchUnit{
			DUID:              r.String("DUID"),
			ConnectionPointID: r.String("CONNECTIONPOINTID"),
		}, nil
	},
}

func rhsSchema(table, ownerColumn string) Schema[RHSRow] {
	return Schema[RHSRow]{
		Table:    table,
		Required: []string{ownerColumn, "TERMID", "SPD_ID", "SPD_TYPE", "FACTOR"},
		Decode: func(r Row) (RHSRow, error) {
			id, err := r.Int("TERMID")
			if err != nil {
				return RHSRow{}, err
			}
			f, err := r.Float("FACTOR")
			if err != nil {
				return RHSRow{}, err
			}
			op, hasOp := r.Optional("OPERATION")
			return RHSRow{
				OwnerID:   r.String(ownerColumn),
				TermID:    id,
				SPDID:     r.String("SPD_ID"),
				SPDType:   r.String("SPD_TYPE"),
				Factor:    f,
				Operation: op,
				HasOp:     hasOp,
			}, nil
		},
	}
}

// GenericConstraintRHSSchema decodes constraint RHS terms.
var GenericConstraintRHSSchema = rhsSchema(TableGenericConstraintRHS, "GENCONID")

// GenericEquationRHSSchema decodes generic RHS function terms.
var GenericEquationRHSSchema = rhsSchema(TableGenericEquationRHS, "EQUATIONID")

// EMSMasterSchema decodes the SCADA point master table.
var EMSMasterSchema = Schema[SCADAPoint]{
	Table:    TableEMSMaster,
	Required: []string{"SPD_ID", "DESCRIPTION"},
	Decode: func(r Row) (SCADAPoint, error) {
		return SCADAPoint{
			SPDID:       r.String("SPD_ID"),
			SPDType:     r.String("SPD_TYPE"),
			Description: r.String("DESCRIPTION"),
		}, nil
	},
}
