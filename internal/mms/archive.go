// Package mms retrieves monthly MMSDM archive tables published on NEMweb
// and decodes them into typed records.
//
// Every archive is a zipped CSV extract. The first line is a preamble, the
// second line is the column header and the final record is a trailer row.
// Each record is prefixed by four bookkeeping columns (record type, report
// name, sub-report name and report version) that carry no table data.
package mms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the root of the public MMSDM monthly archive.
const DefaultBaseURL = "https://nemweb.com.au/Data_Archive/Wholesale_Electricity/MMSDM"

// Table names consumed by the constraint tooling.
const (
	TableGenConData                = "GENCONDATA"
	TableConnectionPointConstraint = "SPDCONNECTIONPOINTCONSTRAINT"
	TableInterconnectorConstraint  = "SPDINTERCONNECTORCONSTRAINT"
	TableRegionConstraint          = "SPDREGIONCONSTRAINT"
	TableDUDetail                  = "DUDETAIL"
	TableGenericConstraintRHS      = "GENERICCONSTRAINTRHS"
	TableEMSMaster                 = "EMSMASTER"
	TableGenericEquationDesc       = "GENERICEQUATIONDESC"
	TableGenericEquationRHS        = "GENERICEQUATIONRHS"
)

// Period identifies one monthly archive.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod returns a validated Period.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: time.Month(month)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "YYYY-MM", "YYYY/MM" or "YYYYMM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	var y, m string
	switch {
	case len(s) == 7 && (s[4] == '-' || s[4] == '/'):
		y, m = s[:4], s[5:]
	case len(s) == 6:
		y, m = s[:4], s[4:]
	default:
		return Period{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidPeriod, s)
	}

	year, err := strconv.Atoi(y)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidPeriod, s)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidPeriod, s)
	}
	return NewPeriod(year, month)
}

// Validate checks the month is in [1,12] and the year is positive.
func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidPeriod, int(p.Month))
	}
	if p.Year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// AddMonths returns p shifted by n months.
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + int(p.Month) - 1 + n
	return Period{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	return p.AddMonths(-1)
}

// After reports whether p is strictly later than o.
func (p Period) After(o Period) bool {
	if p.Year != o.Year {
		return p.Year > o.Year
	}
	return p.Month > o.Month
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label formats the period for humans, e.g. "June 2022".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ArchivePath returns the archive path of a table relative to the base URL.
// The month is always zero-padded to two digits.
func ArchivePath(p Period, table string) string {
	ym := fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
	return fmt.Sprintf("/%04d/MMSDM_%04d_%02d/MMSDM_Historical_Data_SQLLoader/DATA/PUBLIC_DVD_%s_%s010000.zip",
		p.Year, p.Year, int(p.Month), table, ym)
}

// ArchiveURL joins base and ArchivePath.
func ArchiveURL(base string, p Period, table string) string {
	return strings.TrimRight(base, "/") + ArchivePath(p, table)
}
