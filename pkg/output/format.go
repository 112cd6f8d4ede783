// Package output provides utilities for formatting and displaying simulated snapshots.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind selects how a headline value is rendered.
type Kind int

const (
	// KindCount is a plain integer count.
	KindCount Kind = iota
	// KindAmount is a whole-dollar amount.
	KindAmount
	// KindPercent is a whole percentage.
	KindPercent
)

// Headline is one summary figure of a dashboard.
type Headline struct {
	Dashboard snapshot.Dashboard
	Name      string
	Value     int64
	Kind      Kind
}

// Render formats the value for humans.
func (h Headline) Render() string {
	switch h.Kind {
	case KindAmount:
		return format.Currency(h.Value)
	case KindPercent:
		return format.Percentage(h.Value)
	}
	return format.Count(h.Value)
}

// Headlines lists the summary figures of one dashboard in display order.
func Headlines(s *snapshot.Snapshot, d snapshot.Dashboard) []Headline {
	switch d {
	case snapshot.DashboardTax:
		t := s.Tax.Summary
		return []Headline{
			{d, "Total flags", t.TotalFlags, KindCount},
			{d, "Critical issues", t.CriticalIssues, KindCount},
			{d, "High risk", t.HighRiskFlags, KindCount},
			{d, "Medium risk", t.MediumRiskFlags, KindCount},
			{d, "Low risk", t.LowRiskFlags, KindCount},
			{d, "Exposure", t.ExposureAmount, KindAmount},
			{d, "Flagged transactions", t.FlaggedTransactions, KindCount},
			{d, "Total transactions", t.TotalTransactions, KindCount},
		}
	case snapshot.DashboardRevenue:
		r := s.Revenue
		return []Headline{
			{d, "Total revenue", r.Summary.TotalRevenue, KindAmount},
			{d, "Recognized revenue", r.Summary.RecognizedRevenue, KindAmount},
			{d, "Deferred revenue", r.Summary.DeferredRevenue, KindAmount},
			{d, "Contracts", r.Summary.ContractsCount, KindCount},
			{d, "Pending review", r.Summary.PendingReview, KindCount},
			{d, "Compliant", r.Compliance.Share, KindPercent},
		}
	case snapshot.DashboardLeases:
		l := s.Leases
		return []Headline{
			{d, "Total leases", l.Summary.TotalLeases, KindCount},
			{d, "Active leases", l.Summary.ActiveLeases, KindCount},
			{d, "Expiring leases", l.Summary.ExpiringLeases, KindCount},
			{d, "Total liability", l.Summary.TotalLiability, KindAmount},
			{d, "Total assets", l.Summary.TotalAssets, KindAmount},
			{d, "Finance leases", l.Classification.Share, KindPercent},
		}
	}
	return nil
}

// PrettyFormat writes a human-readable rather than machine-readable table
// per snapshot.
func PrettyFormat(w io.Writer, snapshots []*snapshot.Snapshot, dashboards []snapshot.Dashboard) {
	p := message.NewPrinter(language.English)
	for i, s := range snapshots {
		_, _ = p.Fprintf(w, "--- Cycle %d (%s) at %s ---\n", s.Sequence, s.ID, s.GeneratedAt.UTC().Format(time.RFC3339))
		_, _ = fmt.Fprintf(w, "%-9s | %-21s | %s\n", "Dashboard", "Metric", "Value")
		_, _ = fmt.Fprintf(w, "%-9s | %-21s | %s\n", "_________", "______", "_____")
		for _, d := range dashboards {
			for _, h := range Headlines(s, d) {
				_, _ = p.Fprintf(w, "%-9s | %-21s | %s\n", d, h.Name, h.Render())
			}
		}
		if i < len(snapshots)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one row per headline figure in comma-separated value format.
func CsvFormat(w io.Writer, snapshots []*snapshot.Snapshot, dashboards []snapshot.Dashboard) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"sequence", "id", "generatedAt", "dashboard", "metric", "value"}); err != nil {
		return err
	}
	for _, s := range snapshots {
		for _, d := range dashboards {
			for _, h := range Headlines(s, d) {
				record := []string{
					strconv.FormatUint(s.Sequence, 10),
					s.ID,
					s.GeneratedAt.UTC().Format(time.RFC3339),
					string(d),
					h.Name,
					strconv.FormatInt(h.Value, 10),
				}
				if err := out.Write(record); err != nil {
					return err
				}
			}
		}
	}
	out.Flush()
	return out.Error()
}
