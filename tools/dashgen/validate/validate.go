// Package validate checks generated dashboards and rules before they are
// written: every expression must parse as PromQL and reference only known
// metrics.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/dealhound/tools/dashgen/rules"
)

// Result collects problems. Errors fail generation; warnings do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Merge appends the problems of other.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Expr parses expr and checks the metric names it selects.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	if expr == "" {
		res.Errors = append(res.Errors, where+": empty expression")
		return res
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", where, err))
		return res
	}

	//nolint:errcheck // the inspector never returns an error
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[vs.Name] {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})

	return res
}

// Dashboard validates every query expression in d, a built Grafana
// dashboard. The dashboard is inspected through its JSON form, which is what
// Grafana loads.
func Dashboard(d any, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(d)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("encoding dashboard: %v", err))
		return res
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	exprs := collectExprs(tree, "", nil)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no queries")
	}
	for _, e := range exprs {
		res.Merge(Expr(e.where, e.expr, known))
	}
	return res
}

// Rules validates the expressions of every rule in cr. Recording rule
// names become known metrics for the rules after them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	names := make(map[string]bool, len(known))
	for k, v := range known {
		names[k] = v
	}

	for _, g := range cr.Spec.Groups {
		if len(g.Rules) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("group %s has no rules", g.Name))
		}
		for _, r := range g.Rules {
			where := cr.Metadata.Name + "/" + r.Name()
			if r.Record == "" && r.Alert == "" {
				res.Errors = append(res.Errors, where+": rule has neither record nor alert")
				continue
			}
			res.Merge(Expr(where, r.Expr, names))
			if r.Alert != "" && r.Annotations["summary"] == "" {
				res.Warnings = append(res.Warnings, where+": alert has no summary")
			}
			if r.Record != "" {
				names[r.Record] = true
			}
		}
	}
	return res
}

type located struct {
	where string
	expr  string
}

// collectExprs walks decoded JSON and returns every "expr" string, tagged
// with the title of the panel it belongs to.
func collectExprs(node any, title string, out []located) []located {
	switch v := node.(type) {
	case map[string]any:
		if t, ok := v["title"].(string); ok {
			title = t
		}
		if e, ok := v["expr"].(string); ok {
			out = append(out, located{where: "panel " + title, expr: e})
		}
		for key, child := range v {
			if key == "expr" {
				continue
			}
			out = collectExprs(child, title, out)
		}
	case []any:
		for _, child := range v {
			out = collectExprs(child, title, out)
		}
	}
	return out
}
