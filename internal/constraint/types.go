// Package constraint reconstructs market constraint equations from the
// monthly MMSDM registry tables.
//
// A query joins the constraint registry, the three LHS term tables, the
// dispatchable unit lookup, the RHS term table and the SCADA master table
// for a single period. Generic RHS functions referenced by a constraint may
// be defined in an earlier month; BackwardSearch locates them.
package constraint

import (
	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Placeholders used in place of missing lookups.
const (
	// Placeholder marks an absent description or operation.
	Placeholder = "-"
	// DUIDNotFound is used when no unit maps to a connection point.
	DUIDNotFound = "DUID not found"
	// NotApplicable is the bid type of interconnector and region terms.
	NotApplicable = "N/A"
	// GenericRHSFunction marks an RHS term that refers to a generic function.
	GenericRHSFunction = "Generic RHS function"
)

// TermKind classifies an LHS term.
type TermKind string

// LHS term kinds, in resolution order.
const (
	KindConnectionPoint TermKind = "CONNECTIONPOINT"
	KindInterconnector  TermKind = "INTERCONNECTOR"
	KindRegion          TermKind = "REGION"
)

// SPD types.
const (
	SPDTypeGeneric = "X"
)

// scadaTypes are SPD types described by the EMSMASTER table.
var scadaTypes = map[string]bool{"A": true, "S": true, "I": true, "T": true, "R": true}

// IsSCADAType reports whether t is described by the SCADA master table.
func IsSCADAType(t string) bool {
	return scadaTypes[t]
}

// Descriptor is a constraint or generic function registry entry. Fields
// holds every published column with the envelope columns removed.
type Descriptor struct {
	ID          string      `json:"id" yaml:"id"`
	Description string      `json:"description" yaml:"description"`
	Period      mms.Period  `json:"period" yaml:"period"`
	Fields      []mms.Field `json:"fields" yaml:"fields"`
}

// Field returns the value of a named column.
func (d *Descriptor) Field(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func newDescriptor(rec mms.RegistryRecord, p mms.Period) *Descriptor {
	return &Descriptor{
		ID:          rec.ID,
		Description: rec.Description,
		Period:      p,
		Fields:      rec.Fields,
	}
}

// LHSTerm is one left-hand-side term of a constraint equation.
type LHSTerm struct {
	Kind    TermKind `json:"kind" yaml:"kind"`
	ID      string   `json:"id" yaml:"id"`
	DUID    string   `json:"duid" yaml:"duid"`
	Factor  float64  `json:"factor" yaml:"factor"`
	BidType string   `json:"bid_type" yaml:"bid_type"`
}

// RHSTerm is one right-hand-side term of a constraint equation or of a
// generic RHS function.
type RHSTerm struct {
	TermID      int     `json:"term_id" yaml:"term_id"`
	SPDID       string  `json:"spd_id" yaml:"spd_id"`
	SPDType     string  `json:"spd_type" yaml:"spd_type"`
	Description string  `json:"description" yaml:"description"`
	Factor      float64 `json:"factor" yaml:"factor"`
	Operation   string  `json:"operation" yaml:"operation"`
}

// IsGeneric reports whether the term refers to a generic RHS function.
func (t RHSTerm) IsGeneric() bool {
	return t.SPDType == SPDTypeGeneric
}

// Details is the full view of a constraint for one period. Descriptor is
// nil when the constraint is not in that month's registry.
type Details struct {
	ConstraintID string      `json:"constraint_id" yaml:"constraint_id"`
	Period       mms.Period  `json:"period" yaml:"period"`
	Descriptor   *Descriptor `json:"descriptor" yaml:"descriptor"`
	LHS          []LHSTerm   `json:"lhs" yaml:"lhs"`
	RHS          []RHSTerm   `json:"rhs" yaml:"rhs"`
}

// Found reports whether the constraint exists in the registry.
func (d *Details) Found() bool {
	return d.Descriptor != nil
}
