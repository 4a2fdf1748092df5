// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/resell-valuator/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings are
// informational.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// panelJSON is the subset of the dashboard JSON model the checks read.
type panelJSON struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Panels  []panelJSON `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

// Dashboard validates every panel query in dash against known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshaling dashboard: %v", err)
		return res
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	for _, p := range doc.Panels {
		checkPanel(&res, p, known)
	}
	return res
}

func checkPanel(res *Result, p panelJSON, known map[string]bool) {
	if p.Type == "row" {
		for _, inner := range p.Panels {
			checkPanel(res, inner, known)
		}
		return
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no queries", p.Title)
		return
	}
	for _, t := range p.Targets {
		checkExpr(res, "panel "+p.Title, t.Expr, known)
	}
}

// Rules validates every expression in pr against known.
func Rules(pr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, r := range pr.Rules() {
		if (r.Record == "") == (r.Alert == "") {
			res.errorf("rule %q: exactly one of record and alert must be set", r.Name())
			continue
		}
		checkExpr(&res, "rule "+r.Name(), r.Expr, known)
		if r.Record != "" && !known[r.Record] {
			res.warnf("recording rule %s is not listed as a known metric", r.Record)
		}
	}
	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: %v", where, err)
		return
	}
	for _, name := range MetricNames(node) {
		if !known[name] {
			res.errorf("%s: unknown metric %s", where, name)
		}
	}
}

// MetricNames returns the metric names selected by node, with histogram
// series suffixes stripped.
func MetricNames(node parser.Node) []string {
	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, baseName(vs.Name))
		}
		return nil
	})
	return names
}

func baseName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			return trimmed
		}
	}
	return name
}
