package service

import (
	"regexp"
	"strings"

	"github.com/metrically/metrically-backend/internal/generation/domain"
)

// FormatResult tags the outcome of best-effort metric extraction from
// raw generation text: either metrics parsed out of the text, or the
// fixed default set when the text had no recognizable shape.
type FormatResult struct {
	Metrics  []domain.Metric
	Fallback bool
}

var (
	metricsSectionRe = regexp.MustCompile(`(?i)\d+\.\s+METRICS|METRICS:`)
	sqlSectionRe     = regexp.MustCompile(`(?i)\d+\.\s+SQL QUERIES|SQL QUERIES:`)
	boldHeadingRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// FormatMetrics extracts metrics from unstructured generation output.
// The heuristic locates the METRICS section, finds bold-marked headings
// and slices the description text between consecutive headings. It is a
// best-effort formatter, not a parser: any text shape it does not
// recognize degrades to DefaultMetrics, and it never fails.
func FormatMetrics(raw string) FormatResult {
	section := metricsSection(raw)
	if section == "" {
		return FormatResult{Metrics: DefaultMetrics(), Fallback: true}
	}

	headings := boldHeadingRe.FindAllStringSubmatchIndex(section, -1)
	if len(headings) == 0 {
		return FormatResult{Metrics: DefaultMetrics(), Fallback: true}
	}

	metrics := make([]domain.Metric, 0, len(headings))
	for i, h := range headings {
		name := strings.TrimSpace(strings.TrimSuffix(section[h[2]:h[3]], ":"))
		if name == "" {
			continue
		}

		descStart := h[1]
		descEnd := len(section)
		if i+1 < len(headings) {
			descEnd = headings[i+1][0]
		}
		desc := strings.TrimSpace(strings.Trim(section[descStart:descEnd], ":-– \n\t"))

		metrics = append(metrics, domain.Metric{
			Name:          name,
			Description:   desc,
			Calculation:   "Extracted from AI response",
			Importance:    "Extracted from AI response",
			Visualization: "Line Chart",
		})
	}

	if len(metrics) == 0 {
		return FormatResult{Metrics: DefaultMetrics(), Fallback: true}
	}
	return FormatResult{Metrics: metrics}
}

// metricsSection returns the text between the METRICS heading and the
// SQL QUERIES heading (or end of text), or "" when no METRICS heading
// exists.
func metricsSection(raw string) string {
	loc := metricsSectionRe.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	section := raw[loc[1]:]
	if end := sqlSectionRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}
	return section
}

// DefaultMetrics is the fixed example set shown when extraction finds
// nothing usable.
func DefaultMetrics() []domain.Metric {
	return []domain.Metric{
		{
			Name:          "Monthly Recurring Revenue (MRR)",
			Description:   "The predictable revenue generated from subscriptions on a monthly basis.",
			Calculation:   "Sum of all monthly subscription revenue",
			Importance:    "Core financial metric that indicates business health and growth",
			Visualization: "Line Chart",
			Benchmark:     "15-20% MoM growth for early-stage startups",
		},
		{
			Name:          "Customer Acquisition Cost (CAC)",
			Description:   "The cost to acquire a new customer",
			Calculation:   "Total marketing & sales spend / Number of new customers acquired",
			Importance:    "Indicates marketing efficiency and unit economics",
			Visualization: "Bar Chart",
			Benchmark:     "Should recover CAC within 12 months",
		},
	}
}
