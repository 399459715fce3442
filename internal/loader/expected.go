package loader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/isncsci-mcp-server/pkg/isncsci"
)

// ExpectedTotal is one expected sum. Determinable is false when the document
// gave no number (for example "UTD"); the value is then not compared.
type ExpectedTotal struct {
	Value                    int
	HasImpairmentNotDueToSCI bool
	ContainsNT               bool
	Determinable             bool
}

// ExpectedTotals is the totals block of a test case. Level lists are held
// ordered rostral to caudal and grades alphabetically.
type ExpectedTotals struct {
	RightTouch      ExpectedTotal
	LeftTouch       ExpectedTotal
	RightPrick      ExpectedTotal
	LeftPrick       ExpectedTotal
	RightUpperMotor ExpectedTotal
	LeftUpperMotor  ExpectedTotal
	RightLowerMotor ExpectedTotal
	LeftLowerMotor  ExpectedTotal

	TouchTotal      ExpectedTotal
	PrickTotal      ExpectedTotal
	UpperMotorTotal ExpectedTotal
	LowerMotorTotal ExpectedTotal

	RightSensory              []string
	LeftSensory               []string
	RightMotor                []string
	LeftMotor                 []string
	NeurologicalLevelOfInjury []string
	RightSensoryZPP           []string
	LeftSensoryZPP            []string
	RightMotorZPP             []string
	LeftMotorZPP              []string

	ASIA []string
}

// Mismatch is a single field that differs from the expectation
type Mismatch struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %q, got %q", m.Field, m.Expected, m.Actual)
}

// Compare checks computed totals against the expectation and returns every
// differing field. An empty result means the totals match.
func (e *ExpectedTotals) Compare(t *isncsci.Totals) []Mismatch {
	var out []Mismatch

	check := func(field, expected, actual string) {
		if expected != actual {
			out = append(out, Mismatch{Field: field, Expected: expected, Actual: actual})
		}
	}

	sideSums := []struct {
		name     string
		expected ExpectedTotal
		actual   isncsci.Total
	}{
		{"RightTouchTotal", e.RightTouch, t.Touch(isncsci.Right)},
		{"LeftTouchTotal", e.LeftTouch, t.Touch(isncsci.Left)},
		{"RightPrickTotal", e.RightPrick, t.Prick(isncsci.Right)},
		{"LeftPrickTotal", e.LeftPrick, t.Prick(isncsci.Left)},
		{"RightUpperMotorTotal", e.RightUpperMotor, t.UpperMotor(isncsci.Right)},
		{"LeftUpperMotorTotal", e.LeftUpperMotor, t.UpperMotor(isncsci.Left)},
		{"RightLowerMotorTotal", e.RightLowerMotor, t.LowerMotor(isncsci.Right)},
		{"LeftLowerMotorTotal", e.LeftLowerMotor, t.LowerMotor(isncsci.Left)},
	}
	for _, s := range sideSums {
		if s.expected.Determinable {
			check(s.name, strconv.Itoa(s.expected.Value), strconv.Itoa(s.actual.Value))
		}
		check(s.name+"HasImpairmentNotDueToSci",
			strconv.FormatBool(s.expected.HasImpairmentNotDueToSCI), strconv.FormatBool(s.actual.HasImpairmentNotDueToSCI))
		check(s.name+"ContainsNt",
			strconv.FormatBool(s.expected.ContainsNT), strconv.FormatBool(s.actual.ContainsNT))
	}

	combined := []struct {
		name     string
		expected ExpectedTotal
		actual   isncsci.Total
	}{
		{"TouchTotal", e.TouchTotal, t.TouchTotal()},
		{"PrickTotal", e.PrickTotal, t.PrickTotal()},
		{"UpperMotorTotal", e.UpperMotorTotal, t.UpperMotorTotal()},
		{"LowerMotorTotal", e.LowerMotorTotal, t.LowerMotorTotal()},
	}
	for _, c := range combined {
		if c.expected.Determinable {
			check(c.name, strconv.Itoa(c.expected.Value), strconv.Itoa(c.actual.Value))
		}
	}

	sets := []struct {
		name     string
		expected []string
		actual   isncsci.LevelSet
	}{
		{"RightSensory", e.RightSensory, t.SensoryLevels(isncsci.Right)},
		{"LeftSensory", e.LeftSensory, t.SensoryLevels(isncsci.Left)},
		{"RightMotor", e.RightMotor, t.MotorLevels(isncsci.Right)},
		{"LeftMotor", e.LeftMotor, t.MotorLevels(isncsci.Left)},
		{"NeurologicalLevelOfInjury", e.NeurologicalLevelOfInjury, t.NeurologicalLevels()},
		{"RightSensoryZpp", e.RightSensoryZPP, t.SensoryZPP(isncsci.Right)},
		{"LeftSensoryZpp", e.LeftSensoryZPP, t.SensoryZPP(isncsci.Left)},
		{"RightMotorZpp", e.RightMotorZPP, t.MotorZPP(isncsci.Right)},
		{"LeftMotorZpp", e.LeftMotorZPP, t.MotorZPP(isncsci.Left)},
	}
	for _, s := range sets {
		check(s.name, strings.Join(s.expected, ","), strings.Join(s.actual.SortedNames(), ","))
	}

	check("AsiaImpairmentScale", strings.Join(e.ASIA, ","), t.ASIAString())

	return out
}

func parseGradeList(s string) []string {
	seen := map[string]bool{}
	var grades []string
	for _, part := range strings.Split(s, ",") {
		g := strings.ToUpper(strings.TrimSpace(part))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		grades = append(grades, g)
	}
	sort.Strings(grades)
	return grades
}

// CaseResult is the outcome of running one test case
type CaseResult struct {
	Name       string
	Totals     *isncsci.Totals
	Mismatches []Mismatch
}

// Passed reports whether every compared field matched
func (r *CaseResult) Passed() bool {
	return len(r.Mismatches) == 0
}

// RunCase classifies a test case and compares the result with its expected
// totals. A case without expected totals only has to classify.
func RunCase(tc *TestCase) (*CaseResult, error) {
	exam, err := BuildExam(tc.Request)
	if err != nil {
		return nil, fmt.Errorf("test case %s: %w", tc.Name, err)
	}

	result := &CaseResult{Name: tc.Name, Totals: isncsci.Classify(exam)}
	if tc.Expected != nil {
		result.Mismatches = tc.Expected.Compare(result.Totals)
	}

	return result, nil
}
