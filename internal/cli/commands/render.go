package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/nemcon/internal/cli/output"
	"github.com/leapstack-labs/nemcon/internal/constraint"
)

func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func lhsTable(title string, terms []constraint.LHSTerm) *output.Table {
	t := output.NewTable(title, "Kind", "ID", "DUID", "Factor", "Bid type")
	t.Empty = "No LHS terms"
	for _, term := range terms {
		t.Append(string(term.Kind), term.ID, term.DUID, formatFactor(term.Factor), term.BidType)
	}
	return t
}

func rhsTable(title string, terms []constraint.RHSTerm) *output.Table {
	t := output.NewTable(title, "Term", "SPD ID", "SPD type", "Description", "Factor", "Operation")
	t.Empty = "No RHS terms"
	for _, term := range terms {
		t.Append(term.TermID, term.SPDID, term.SPDType, term.Description, formatFactor(term.Factor), term.Operation)
	}
	return t
}

func descriptorTable(title string, descs []*constraint.Descriptor) *output.Table {
	t := output.NewTable(title, "ID", "Description")
	t.Empty = "No matching entries"
	for _, d := range descs {
		t.Append(d.ID, d.Description)
	}
	return t
}

// renderDescriptor writes every registry field of d.
func renderDescriptor(r *output.Renderer, title string, d *constraint.Descriptor) {
	r.Header(1, title)
	for _, f := range d.Fields {
		if f.Value == "" {
			continue
		}
		r.KeyValue(f.Name, f.Value)
	}
	r.Println("")
}

// renderSearch writes the outcome of a backward search.
func renderSearch(r *output.Renderer, kind constraint.RegistryKind, prefix string, res *constraint.SearchResult) error {
	if r.EffectiveMode() == output.ModeCSV {
		t := output.NewTable("", "Prefix", "Found", "ID", "Month", "Description")
		if res.Found {
			t.Append(prefix, true, res.Record.ID, res.Period.String(), res.Record.Description)
		} else {
			t.Append(prefix, false, "", "", "")
		}
		return r.Table(t)
	}

	if !res.Found {
		r.Muted(fmt.Sprintf("No %s matching %q from %s back to %s",
			kind, prefix, res.End.Label(), res.Start.AddMonths(1).Label()))
	} else {
		r.Header(1, res.Record.ID)
		r.KeyValue("Month", res.Period.Label())
		r.KeyValue("Description", res.Record.Description)
	}
	r.KeyValue("Months searched", strconv.Itoa(res.Probed))

	if len(res.Skipped) > 0 {
		months := make([]string, len(res.Skipped))
		for i, s := range res.Skipped {
			months[i] = s.Period.String()
		}
		r.KeyValue("Months without archive", strings.Join(months, ", "))
	}
	return nil
}
