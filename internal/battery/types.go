// Package battery defines the canonical test-case lists the harness runs
// against each hook configuration.
package battery

// ExpectNone is the expected_skill value for negative cases: the correct
// outcome is that no skill activates at all.
const ExpectNone = "none"

// Case is a single activation test: one query with one expected skill.
// Authored as fixed test data; immutable.
type Case struct {
	ID            string `yaml:"id" json:"id"`
	Query         string `yaml:"query" json:"query"`
	ExpectedSkill string `yaml:"expected_skill" json:"expected_skill"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
}

// IsNegative reports whether the correct outcome for this case is an empty
// activation set. All negative-sentinel checks go through here.
func (c Case) IsNegative() bool {
	return c.ExpectedSkill == ExpectNone
}

// Battery is a named, ordered list of cases.
type Battery struct {
	Name  string `yaml:"battery" json:"battery"`
	Cases []Case `yaml:"cases" json:"cases"`
}
