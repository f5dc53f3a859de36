// Package stats computes dashboard chart counts over already loaded records.
package stats

import (
	"sort"
	"strings"

	"surveydesk/internal/domain/branch"
	"surveydesk/internal/domain/survey"
)

// Questions aggregated for the dashboard charts.
const (
	FieldSatisfaction   = "ما مدى رضاك عن العمل؟"
	FieldSupervision    = "الرقابة عادلة؟"
	FieldSalary         = "الراتب كافٍ؟"
	FieldHours          = "ساعات العمل مناسبة؟"
	FieldAppreciation   = "هل تشعر بالتقدير؟"
	FieldStability      = "هل تشعر بالاستقرار الوظيفي؟"
	FieldRecommendation = "هل تنصح غيرك بالعمل لدينا؟"
	FieldViolations     = "أسباب المخالفات"

	// NeverSatisfied is the satisfaction answer broken down per branch.
	NeverSatisfied = "غير راضٍ أبداً"
	// UnknownBranch labels records without a branch value.
	UnknownBranch = "غير محدد"
)

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Report struct {
	Total                  int     `json:"total"`
	Branch                 string  `json:"branch,omitempty"`
	Satisfaction           []Count `json:"satisfaction"`
	Supervision            []Count `json:"supervision"`
	Salary                 []Count `json:"salary"`
	Hours                  []Count `json:"hours"`
	Appreciation           []Count `json:"appreciation"`
	Stability              []Count `json:"stability"`
	Recommendation         []Count `json:"recommendation"`
	Violations             []Count `json:"violations"`
	NeverSatisfiedByBranch []Count `json:"neverSatisfiedByBranch"`
	Daily                  []Count `json:"daily"`
}

type counter map[string]int

func (c counter) add(label string) {
	if label = strings.TrimSpace(label); label != "" {
		c[label]++
	}
}

// byCount orders by descending count, ties by label.
func (c counter) byCount() []Count {
	out := c.list()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (c counter) byLabel() []Count {
	out := c.list()
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (c counter) list() []Count {
	out := make([]Count, 0, len(c))
	for label, n := range c {
		out = append(out, Count{Label: label, Count: n})
	}
	return out
}

// Aggregator is stateless apart from its branch normalizer.
type Aggregator struct {
	branches *branch.Normalizer
}

func NewAggregator() *Aggregator {
	return &Aggregator{branches: branch.NewNormalizer()}
}

// Aggregate counts answers over records. A non-empty branchFilter keeps only
// records of that branch; raw and canonical spellings both match.
func (a *Aggregator) Aggregate(records []survey.Record, branchFilter string) Report {
	branchFilter = strings.TrimSpace(branchFilter)

	single := map[string]counter{
		FieldSatisfaction:   {},
		FieldSupervision:    {},
		FieldSalary:         {},
		FieldHours:          {},
		FieldAppreciation:   {},
		FieldStability:      {},
		FieldRecommendation: {},
	}
	violations := counter{}
	never := counter{}
	daily := counter{}
	neverKey := branch.Normalize(NeverSatisfied)

	report := Report{Branch: branchFilter}
	for _, rec := range records {
		name := a.branchOf(rec.Payload)
		if branchFilter != "" && !a.sameBranch(name, branchFilter) {
			continue
		}
		report.Total++

		for field, c := range single {
			c.add(survey.StringValue(rec.Payload[field]))
		}
		for _, reason := range splitList(rec.Payload[FieldViolations]) {
			violations.add(reason)
		}
		if branch.Normalize(survey.StringValue(rec.Payload[FieldSatisfaction])) == neverKey {
			never.add(name)
		}
		if len(rec.ReceivedAt) >= 10 {
			daily.add(rec.ReceivedAt[:10])
		}
	}

	report.Satisfaction = single[FieldSatisfaction].byCount()
	report.Supervision = single[FieldSupervision].byCount()
	report.Salary = single[FieldSalary].byCount()
	report.Hours = single[FieldHours].byCount()
	report.Appreciation = single[FieldAppreciation].byCount()
	report.Stability = single[FieldStability].byCount()
	report.Recommendation = single[FieldRecommendation].byCount()
	report.Violations = violations.byCount()
	report.NeverSatisfiedByBranch = never.byCount()
	report.Daily = daily.byLabel()
	return report
}

// branchOf returns the canonical branch, the raw value when no city matches,
// or UnknownBranch.
func (a *Aggregator) branchOf(p survey.Payload) string {
	field, ok := a.branches.FindField(p)
	if !ok {
		return UnknownBranch
	}
	raw := strings.TrimSpace(survey.StringValue(p[field]))
	if canonical, ok := a.branches.Canonical(raw); ok {
		return canonical
	}
	return raw
}

func (a *Aggregator) sameBranch(name, filter string) bool {
	if name == filter {
		return true
	}
	canonical, ok := a.branches.Canonical(filter)
	return ok && canonical == name
}

// splitList accepts a JSON list or a comma separated string (Latin or Arabic comma).
func splitList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, splitList(item)...)
		}
		return out
	default:
		return strings.FieldsFunc(survey.StringValue(t), func(r rune) bool {
			return r == ',' || r == '،'
		})
	}
}
