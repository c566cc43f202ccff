package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

func rate(count, total int) string {
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(count) / float64(total)
	}
	return fmt.Sprintf("%.1f%% (%d/%d)", pct, count, total)
}

// RenderComparison produces the side-by-side summary table across
// configurations.
func RenderComparison(results []ConfigResult) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONFIG\tACTIVATION\tACCURACY\tERRORS\tAVG LAT(ms)")
	for _, cr := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			cr.ConfigID,
			rate(cr.ActivatedCount, cr.TotalTests),
			rate(cr.CorrectCount, cr.TotalTests),
			cr.ErrorCount,
			cr.AvgLatencyMs)
	}
	_ = tw.Flush()
	return buf.String()
}

// RenderBreakdown produces the per-skill and negative-case detail for one
// configuration.
func RenderBreakdown(cr ConfigResult) string {
	var buf bytes.Buffer
	label := cr.Label
	if strings.TrimSpace(label) == "" {
		label = cr.ConfigID
	}
	fmt.Fprintf(&buf, "Config: %s (%s)\n", cr.ConfigID, label)
	fmt.Fprintf(&buf, "Cases: %d activation=%s accuracy=%s errors=%d avg_latency_ms=%d\n",
		cr.TotalTests,
		rate(cr.ActivatedCount, cr.TotalTests),
		rate(cr.CorrectCount, cr.TotalTests),
		cr.ErrorCount,
		cr.AvgLatencyMs)

	if len(cr.Categories) > 0 {
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SKILL\tACCURACY")
		for _, cs := range cr.Categories {
			fmt.Fprintf(tw, "%s\t%s\n", cs.ExpectedSkill, rate(cs.Correct, cs.Total))
		}
		_ = tw.Flush()
	}

	if cr.Negatives.Total > 0 {
		fmt.Fprintf(&buf, "Negatives: %d true_negative=%d false_positive=%d\n",
			cr.Negatives.Total, cr.Negatives.TrueNegatives, cr.Negatives.FalsePositives)
	}
	return buf.String()
}

// RenderCategoryBreakdown pivots positive-case accuracy by expected skill,
// one row per skill and one column per configuration, so the same category
// can be read side by side across configurations. Empty when no
// configuration has positive cases.
func RenderCategoryBreakdown(results []ConfigResult) string {
	var skills []string
	seen := make(map[string]bool)
	for _, cr := range results {
		for _, cs := range cr.Categories {
			if !seen[cs.ExpectedSkill] {
				seen[cs.ExpectedSkill] = true
				skills = append(skills, cs.ExpectedSkill)
			}
		}
	}
	if len(skills) == 0 {
		return ""
	}
	sort.Strings(skills)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "SKILL")
	for _, cr := range results {
		fmt.Fprintf(tw, "\t%s", cr.ConfigID)
	}
	fmt.Fprintln(tw)
	for _, skill := range skills {
		fmt.Fprint(tw, skill)
		for _, cr := range results {
			cell := "-"
			for _, cs := range cr.Categories {
				if cs.ExpectedSkill == skill {
					cell = rate(cs.Correct, cs.Total)
					break
				}
			}
			fmt.Fprintf(tw, "\t%s", cell)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
	return buf.String()
}

// RenderNegativeAnalysis tabulates true-negative and false-positive counts
// per configuration. Empty when no configuration ran negative cases.
func RenderNegativeAnalysis(results []ConfigResult) string {
	any := false
	for _, cr := range results {
		if cr.Negatives.Total > 0 {
			any = true
			break
		}
	}
	if !any {
		return ""
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONFIG\tNEGATIVES\tTRUE NEG\tFALSE POS")
	for _, cr := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
			cr.ConfigID, cr.Negatives.Total, cr.Negatives.TrueNegatives, cr.Negatives.FalsePositives)
	}
	_ = tw.Flush()
	return buf.String()
}

// RenderDiff produces the head-to-head summary of a paired comparison.
func RenderDiff(d Diff) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Head-to-head: %s vs %s (compared=%d)\n", d.AConfigID, d.BConfigID, d.Compared)
	fmt.Fprintf(&buf, "Ties: %d\n", d.Ties)
	fmt.Fprintf(&buf, "%s wins: %d", d.AConfigID, d.AWins)
	if len(d.AWinCases) > 0 {
		fmt.Fprintf(&buf, " (%s)", strings.Join(d.AWinCases, ","))
	}
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "%s wins: %d", d.BConfigID, d.BWins)
	if len(d.BWinCases) > 0 {
		fmt.Fprintf(&buf, " (%s)", strings.Join(d.BWinCases, ","))
	}
	buf.WriteByte('\n')
	if len(d.Skipped) > 0 {
		fmt.Fprintf(&buf, "Skipped (present on one side only): %s\n", strings.Join(d.Skipped, ","))
	}
	return buf.String()
}
