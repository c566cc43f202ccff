package report

import (
	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/runner"
)

// PairedDiff compares two configurations case by case over positive cases
// only; negative-sentinel cases are excluded from the head-to-head. A case
// counts as a win for one side only when that side scored it correct and
// the other did not; everything else is a tie. Positive case ids present on
// only one side are skipped and reported, never guessed at.
func PairedDiff(a, b ConfigResult) Diff {
	d := Diff{
		AConfigID: a.ConfigID,
		BConfigID: b.ConfigID,
	}

	bByID := make(map[string]runner.TestResult, len(b.Results))
	for _, r := range b.Results {
		bByID[r.CaseID] = r
	}
	seenInA := make(map[string]struct{}, len(a.Results))

	for _, ra := range a.Results {
		if ra.ExpectedSkill == battery.ExpectNone {
			continue
		}
		seenInA[ra.CaseID] = struct{}{}
		rb, ok := bByID[ra.CaseID]
		if !ok {
			d.Skipped = append(d.Skipped, ra.CaseID)
			continue
		}
		d.Compared++
		switch {
		case ra.Correct && !rb.Correct:
			d.AWins++
			d.AWinCases = append(d.AWinCases, ra.CaseID)
		case !ra.Correct && rb.Correct:
			d.BWins++
			d.BWinCases = append(d.BWinCases, ra.CaseID)
		default:
			d.Ties++
		}
	}
	for _, rb := range b.Results {
		if rb.ExpectedSkill == battery.ExpectNone {
			continue
		}
		if _, ok := seenInA[rb.CaseID]; !ok {
			d.Skipped = append(d.Skipped, rb.CaseID)
		}
	}

	return d
}
