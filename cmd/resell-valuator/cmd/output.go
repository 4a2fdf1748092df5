package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

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

func printSummary(w io.Writer, s *domain.BatchSummary) error {
	tw := newTabWriter(w)
	tw.writef("Total:\t%d\n", s.Total)
	tw.writef("Succeeded:\t%d\n", s.Succeeded)
	tw.writef("Failed:\t%d\n", s.Failed)
	if len(s.FailedKinds) > 0 {
		kinds := make([]string, 0, len(s.FailedKinds))
		for _, k := range slices.Sorted(maps.Keys(s.FailedKinds)) {
			kinds = append(kinds, fmt.Sprintf("%s=%d", k, s.FailedKinds[k]))
		}
		tw.writef("Failure kinds:\t%s\n", strings.Join(kinds, ", "))
	}
	if s.Succeeded > 0 {
		tw.writef("Min price:\t%d\n", s.MinPrice)
		tw.writef("Max price:\t%d\n", s.MaxPrice)
		tw.writef("Mean price:\t%.2f\n", s.MeanPrice)
		tw.writef("Median price:\t%.2f\n", s.MedianPrice)
	}
	return tw.finish()
}

func printReferences(w io.Writer, entries []domain.ReferencePriceEntry) error {
	tw := newTabWriter(w)
	tw.writef("BRAND\tMRP\tSTORAGE\tSOURCE\n")
	for i := range entries {
		e := &entries[i]
		tw.writef("%s\t%d\t%s\t%s\n", e.Brand, e.MRP, storageList(e.ValidStorage), e.Source)
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
