package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/resell-valuator/internal/api/client"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printBatchReport(w io.Writer, rep *domain.BatchReport) error {
	tw := newTabWriter(w)
	tw.writef("#\tBRAND\tPREDICTED\tADJUSTED\tSTATUS\n")
	for i := range rep.Items {
		it := &rep.Items[i]
		if it.OK() {
			tw.writef("%d\t%s\t%d\t%d\tok\n",
				it.Index+1,
				it.Result.Input.Brand,
				it.Result.PredictedPrice,
				it.Result.AdjustedPrice,
			)
			continue
		}
		msg := "not valued"
		if it.Error != nil {
			msg = string(it.Error.Kind)
			if it.Error.Field != "" {
				msg += " (" + it.Error.Field + ")"
			}
		}
		tw.writef("%d\t-\t-\t-\t%s\n", it.Index+1, msg)
	}
	tw.writef("\n")

	s := &rep.Summary
	tw.writef("Succeeded:\t%d/%d\n", s.Succeeded, s.Total)
	if len(s.FailedKinds) > 0 {
		kinds := make([]string, 0, len(s.FailedKinds))
		for _, k := range slices.Sorted(maps.Keys(s.FailedKinds)) {
			kinds = append(kinds, fmt.Sprintf("%s=%d", k, s.FailedKinds[k]))
		}
		tw.writef("Failures:\t%s\n", strings.Join(kinds, ", "))
	}
	if s.Succeeded > 0 {
		tw.writef("Median price:\t%.0f\n", s.MedianPrice)
	}
	return tw.finish()
}

func printReferencesTable(entries []domain.ReferencePriceEntry) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("BRAND\tMRP\tSTORAGE\tSOURCE\tUPDATED\n")
	for i := range entries {
		e := &entries[i]
		updated := "-"
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%d\t%s\t%s\t%s\n", e.Brand, e.MRP, storageList(e.ValidStorage), e.Source, updated)
	}
	return tw.finish()
}

func printReferenceDetail(e *domain.ReferencePriceEntry) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Brand:\t%s\n", e.Brand)
	tw.writef("MRP:\t%d\n", e.MRP)
	tw.writef("Storage:\t%s\n", storageList(e.ValidStorage))
	tw.writef("Source:\t%s\n", e.Source)
	if !e.UpdatedAt.IsZero() {
		tw.writef("Updated:\t%s\n", e.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printRunsTable(runs []domain.ValuationRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSOURCE\tTOTAL\tFAILED\tMEDIAN\tSTARTED\tDURATION\n")
	for i := range runs {
		r := &runs[i]
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		tw.writef("%s\t%s\t%d\t%d\t%.0f\t%s\t%s\n",
			truncate(r.ID, 8),
			r.Source,
			r.Total,
			r.Failed,
			r.MedianPrice,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
		)
	}
	return tw.finish()
}

func printModel(m *apiclient.ModelInfo) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Backend:\t%s\n", m.Model.Backend)
	tw.writef("Schema:\t%s\n", m.Model.Schema)
	tw.writef("Trees:\t%d\n", m.Model.Trees)
	tw.writef("Features:\t%s\n", strings.Join(m.Model.FeatureNames, ", "))
	if m.Model.Source != "" {
		tw.writef("Source:\t%s\n", m.Model.Source)
	}
	tw.writef("Margin:\t%.3f\n", m.Pricing.Margin)
	for _, level := range []string{"None", "Minor", "Moderate", "Significant"} {
		tw.writef("Damage %s:\t%.2f\n", level, m.Pricing.DamageMultipliers[level])
	}
	if m.Pricing.StoragePerGB > 0 {
		tw.writef("Storage premium:\t%d per GB above 64GB\n", m.Pricing.StoragePerGB)
	}
	for _, gb := range slices.Sorted(maps.Keys(m.Pricing.StorageBrackets)) {
		tw.writef("Storage %sGB:\t+%d\n", gb, m.Pricing.StorageBrackets[gb])
	}
	return tw.finish()
}

func storageList(gbs []int) string {
	if len(gbs) == 0 {
		return "-"
	}
	parts := make([]string, len(gbs))
	for i, gb := range gbs {
		parts[i] = fmt.Sprintf("%dGB", gb)
	}
	return strings.Join(parts, ",")
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func printWatchTable(w io.Writer, watches []domain.PriceWatch) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tDEVICE\tTARGET\tLAST\tSTATE\n")
	for i := range watches {
		pw := &watches[i]
		last := "-"
		if pw.LastPrice != nil {
			last = fmt.Sprintf("%d", *pw.LastPrice)
		}
		tw.writef("%s\t%s\t%s %dGB %s\t%d\t%s\t%s\n",
			truncate(pw.ID, 8),
			pw.Name,
			pw.Brand, pw.StorageGB, pw.Condition,
			pw.TargetPrice,
			last,
			watchState(pw),
		)
	}
	return tw.finish()
}

func watchState(pw *domain.PriceWatch) string {
	switch {
	case !pw.Enabled:
		return "disabled"
	case pw.Triggered:
		return "triggered"
	default:
		return "watching"
	}
}

func printWatchDetail(w io.Writer, pw *domain.PriceWatch) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", pw.ID)
	tw.writef("Name:\t%s\n", pw.Name)
	tw.writef("Device:\t%s %dGB %s\n", pw.Brand, pw.StorageGB, pw.Condition)
	tw.writef("Age:\t%d months\n", pw.AgeMonths)
	tw.writef("Battery:\t%d%%\n", pw.BatteryHealth)
	if pw.DamageLevel != "" {
		tw.writef("Damage:\t%s\n", pw.DamageLevel)
	}
	tw.writef("Target:\t%d\n", pw.TargetPrice)
	tw.writef("State:\t%s\n", watchState(pw))
	if pw.LastPrice != nil {
		tw.writef("Last price:\t%d\n", *pw.LastPrice)
	}
	if pw.LastCheckedAt != nil {
		tw.writef("Last checked:\t%s\n", pw.LastCheckedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printAlertTable(w io.Writer, alerts []domain.WatchAlert) error {
	tw := newTabWriter(w)
	tw.writef("ID\tPRICE\tTARGET\tNOTIFIED\tCREATED\n")
	for i := range alerts {
		a := &alerts[i]
		notified := "pending"
		if a.Notified {
			notified = "yes"
		}
		tw.writef("%s\t%d\t%d\t%s\t%s\n",
			truncate(a.ID, 8), a.Price, a.TargetPrice, notified,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func printMarketSummary(w io.Writer, m *domain.MarketSummary) error {
	tw := newTabWriter(w)
	tw.writef("Sales:\t%d\n", m.Count)
	tw.writef("Brands:\t%d (%d with reference prices)\n", m.Brands, m.ReferenceBrands)
	if m.Count > 0 {
		tw.writef("Price range:\t%d - %d\n", m.Min, m.Max)
		tw.writef("Average price:\t%.0f\n", m.Avg)
		tw.writef("Median price:\t%.0f\n", m.Median)
		tw.writef("Std dev:\t%.0f\n", m.StdDev)
		tw.writef("Average age:\t%.1f months\n", m.AvgAgeMonths)
		tw.writef("Average battery:\t%.1f%%\n", m.AvgBatteryHealth)
		tw.writef("Conditions:\t%s\n", strings.Join(m.Conditions, ", "))
	}
	return tw.finish()
}

func printBrandTrend(w io.Writer, t *domain.BrandTrend) error {
	tw := newTabWriter(w)
	tw.writef("Brand:\t%s\n", t.Brand)
	tw.writef("Sales:\t%d\n", t.Count)
	tw.writef("Average price:\t%.0f\n", t.Avg)
	tw.writef("Median price:\t%.0f\n", t.Median)
	tw.writef("Range:\t%d - %d\n", t.Min, t.Max)
	tw.writef("Std dev:\t%.0f\n", t.StdDev)
	if t.MRP != nil {
		tw.writef("MRP:\t%d\n", *t.MRP)
	}
	if t.RetentionPct != nil {
		tw.writef("Retention:\t%.1f%%\n", *t.RetentionPct)
	}
	return tw.finish()
}

func printStoragePremium(w io.Writer, p *domain.StoragePremium) error {
	tw := newTabWriter(w)
	tw.writef("STORAGE\tAVG PRICE\tPREMIUM\tSALES\n")
	tw.writef("%dGB\t%.0f\t-\t-\n", p.BaseSize, p.BaseAvg)
	for _, t := range p.Tiers {
		tw.writef("%dGB\t%.0f\t%+.0f\t%d\n", t.StorageGB, t.AvgPrice, t.Premium, t.Count)
	}
	return tw.finish()
}

func printBreakdown(w io.Writer, b *domain.Breakdown) error {
	tw := newTabWriter(w)
	tw.writef("%s\tAVG PRICE\tRANGE\tIMPACT\tSALES\n", strings.ToUpper(b.Dimension))
	for i := range b.Segments {
		s := &b.Segments[i]
		tw.writef("%s\t%.0f\t%d - %d\t%+.1f%%\t%d\n", s.Segment, s.Avg, s.Min, s.Max, s.ImpactPct, s.Count)
	}
	tw.writef("\nOverall average:\t%.0f\n", b.OverallAvg)
	return tw.finish()
}

func printRetention(w io.Writer, r []domain.BrandRetention) error {
	tw := newTabWriter(w)
	tw.writef("BRAND\tAVG USED\tMRP\tRETENTION\tSALES\n")
	for i := range r {
		e := &r[i]
		tw.writef("%s\t%.0f\t%d\t%.1f%%\t%d\n", e.Brand, e.AvgPrice, e.MRP, e.RetentionPct, e.Samples)
	}
	return tw.finish()
}

func printSales(w io.Writer, sales []domain.SaleRecord) error {
	tw := newTabWriter(w)
	tw.writef("BRAND\tSTORAGE\tCONDITION\tAGE\tBATTERY\tPRICE\n")
	for i := range sales {
		s := &sales[i]
		tw.writef("%s\t%dGB\t%s\t%dmo\t%d%%\t%d\n",
			s.Brand, s.StorageGB, s.Condition, s.AgeMonths, s.BatteryHealth, s.Price)
	}
	return tw.finish()
}
