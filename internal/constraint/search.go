package constraint

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// RegistryKind selects the registry a backward search scans.
type RegistryKind int

const (
	// KindConstraint scans GENCONDATA by GENCONID.
	KindConstraint RegistryKind = iota
	// KindGenericFunction scans GENERICEQUATIONDESC by EQUATIONID.
	KindGenericFunction
)

func (k RegistryKind) String() string {
	switch k {
	case KindConstraint:
		return "constraint"
	case KindGenericFunction:
		return "generic RHS function"
	default:
		return fmt.Sprintf("RegistryKind(%d)", int(k))
	}
}

func (k RegistryKind) schema() (mms.Schema[mms.RegistryRecord], error) {
	switch k {
	case KindConstraint:
		return mms.GenConDataSchema, nil
	case KindGenericFunction:
		return mms.GenericEquationDescSchema, nil
	default:
		return mms.Schema[mms.RegistryRecord]{}, fmt.Errorf("unknown registry kind %d", int(k))
	}
}

// DefaultSearchStart is the earliest month of the public archive. It is
// an exclusive boundary.
var DefaultSearchStart = mms.Period{Year: 2009, Month: time.July}

// defaultEndLag is how far behind the current month the archive is assumed
// to be complete.
const defaultEndLag = 2

// SearchOptions bounds a backward search. Zero values take the defaults:
// End is two months before now, Start is DefaultSearchStart. Exact matches
// the whole ID instead of a prefix.
type SearchOptions struct {
	Start mms.Period
	End   mms.Period
	Exact bool
}

func (o SearchOptions) matches(id, prefix string) bool {
	if o.Exact {
		return id == prefix
	}
	return strings.HasPrefix(id, prefix)
}

// SkippedMonth records a probed month whose archive was unavailable.
type SkippedMonth struct {
	Period mms.Period `json:"period" yaml:"period"`
	Reason string     `json:"reason" yaml:"reason"`
}

// SearchResult is the outcome of a backward search.
type SearchResult struct {
	Found  bool        `json:"found" yaml:"found"`
	Record *Descriptor `json:"record,omitempty" yaml:"record,omitempty"`
	// Period is the month the record was found in.
	Period mms.Period `json:"period,omitzero" yaml:"period,omitempty"`
	Start  mms.Period `json:"start" yaml:"start"`
	End    mms.Period `json:"end" yaml:"end"`
	Probed int        `json:"probed" yaml:"probed"`
	// Skipped lists months treated as "no match" because the archive was
	// missing, distinct from months that were searched and had no match.
	Skipped []SkippedMonth `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Months yields probe periods from end backward, one month at a time,
// while the probe is strictly after start.
func Months(end, start mms.Period) iter.Seq[mms.Period] {
	return func(yield func(mms.Period) bool) {
		for p := end; p.After(start); p = p.Prev() {
			if !yield(p) {
				return
			}
		}
	}
}

// Searcher locates the most recent month in which a registry holds an
// identifier with a given prefix.
type Searcher struct {
	src    mms.Source
	logger *slog.Logger
	now    func() time.Time
}

// NewSearcher creates a Searcher. A nil logger discards output and a nil
// now uses time.Now.
func NewSearcher(src mms.Source, logger *slog.Logger, now func() time.Time) *Searcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if now == nil {
		now = time.Now
	}
	return &Searcher{src: src, logger: logger, now: now}
}

// Resolve fills in defaulted bounds.
func (s *Searcher) Resolve(opts SearchOptions) SearchOptions {
	if opts.End.IsZero() {
		opts.End = mms.PeriodOf(s.now()).AddMonths(-defaultEndLag)
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultSearchStart
	}
	return opts
}

// Search walks months backward from opts.End until a registry record whose
// ID starts with prefix (or equals it, with opts.Exact) is found or
// opts.Start is reached. The first match in source order wins. A month
// whose archive is missing is skipped; any other fetch error aborts the
// search.
func (s *Searcher) Search(ctx context.Context, prefix string, kind RegistryKind, opts SearchOptions) (*SearchResult, error) {
	schema, err := kind.schema()
	if err != nil {
		return nil, err
	}
	opts = s.Resolve(opts)

	result := &SearchResult{Start: opts.Start, End: opts.End}

	for p := range Months(opts.End, opts.Start) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Info("searching archive", "kind", kind.String(), "prefix", prefix, "month", p.Label())
		result.Probed++

		records, err := mms.Fetch(ctx, s.src, p, schema)
		if err != nil {
			if mms.IsNotFound(err) {
				s.logger.Warn("archive missing, skipping month", "month", p.Label(), "error", err)
				result.Skipped = append(result.Skipped, SkippedMonth{Period: p, Reason: err.Error()})
				continue
			}
			return nil, fmt.Errorf("search %s %q at %s: %w", kind, prefix, p, err)
		}

		for _, rec := range records {
			if opts.matches(rec.ID, prefix) {
				result.Found = true
				result.Record = newDescriptor(rec, p)
				result.Period = p
				s.logger.Info("found", "kind", kind.String(), "id", rec.ID, "month", p.Label())
				return result, nil
			}
		}
	}

	s.logger.Info("not found",
		"kind", kind.String(),
		"prefix", prefix,
		"from", opts.Start.Label(),
		"to", opts.End.Label())
	return result, nil
}
