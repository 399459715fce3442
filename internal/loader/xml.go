package loader

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

// TestCase is an exam together with the totals it is expected to produce
type TestCase struct {
	Name     string
	Request  *domain.ExamRequest
	Expected *ExpectedTotals // nil when the document has no totals block
}

type xmlDocument struct {
	Form   *xmlForm   `xml:"NeurologyForm"`
	Totals *xmlTotals `xml:"NeurologyFormTotals"`
}

type xmlForm struct {
	AnalContraction         string         `xml:"AnalContraction"`
	AnalSensation           string         `xml:"AnalSensation"`
	RightLowestNonKeyMuscle string         `xml:"RightLowestNonKeyMuscleWithMotorFunction"`
	LeftLowestNonKeyMuscle  string         `xml:"LeftLowestNonKeyMuscleWithMotorFunction"`
	Dermatomes              []xmlDermatome `xml:"Dermatome"`
	GroupedDermatomes       []xmlDermatome `xml:"Dermatomes>Dermatome"`
}

type xmlDermatome struct {
	Name       string  `xml:"name,attr"`
	RightTouch string  `xml:"RightTouch"`
	LeftTouch  string  `xml:"LeftTouch"`
	RightPrick string  `xml:"RightPrick"`
	LeftPrick  string  `xml:"LeftPrick"`
	RightMotor *string `xml:"RightMotor"`
	LeftMotor  *string `xml:"LeftMotor"`
}

type xmlTotals struct {
	RightTouchTotal      string `xml:"RightTouchTotal"`
	LeftTouchTotal       string `xml:"LeftTouchTotal"`
	RightPrickTotal      string `xml:"RightPrickTotal"`
	LeftPrickTotal       string `xml:"LeftPrickTotal"`
	RightUpperMotorTotal string `xml:"RightUpperMotorTotal"`
	LeftUpperMotorTotal  string `xml:"LeftUpperMotorTotal"`
	RightLowerMotorTotal string `xml:"RightLowerMotorTotal"`
	LeftLowerMotorTotal  string `xml:"LeftLowerMotorTotal"`
	TouchTotal           string `xml:"TouchTotal"`
	PrickTotal           string `xml:"PrickTotal"`
	UpperMotorTotal      string `xml:"UpperMotorTotal"`
	LowerMotorTotal      string `xml:"LowerMotorTotal"`

	RightTouchContainsNt      string `xml:"RightTouchContainsNt"`
	LeftTouchContainsNt       string `xml:"LeftTouchContainsNt"`
	RightPrickContainsNt      string `xml:"RightPrickContainsNt"`
	LeftPrickContainsNt       string `xml:"LeftPrickContainsNt"`
	RightUpperMotorContainsNt string `xml:"RightUpperMotorContainsNt"`
	LeftUpperMotorContainsNt  string `xml:"LeftUpperMotorContainsNt"`
	RightLowerMotorContainsNt string `xml:"RightLowerMotorContainsNt"`
	LeftLowerMotorContainsNt  string `xml:"LeftLowerMotorContainsNt"`

	RightSensory              string `xml:"RightSensory"`
	LeftSensory               string `xml:"LeftSensory"`
	RightMotor                string `xml:"RightMotor"`
	LeftMotor                 string `xml:"LeftMotor"`
	NeurologicalLevelOfInjury string `xml:"NeurologicalLevelOfInjury"`
	RightSensoryZpp           string `xml:"RightSensoryZpp"`
	LeftSensoryZpp            string `xml:"LeftSensoryZpp"`
	RightMotorZpp             string `xml:"RightMotorZpp"`
	LeftMotorZpp              string `xml:"LeftMotorZpp"`
	AsiaImpairmentScale       string `xml:"AsiaImpairmentScale"`
}

// LoadTestCase reads an XML test case from disk
func LoadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test case: %w", err)
	}

	tc, err := DecodeTestCase(data)
	if err != nil {
		return nil, err
	}

	tc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return tc, nil
}

// DecodeTestCase parses an XML test case. The document root may have any
// name; it must contain a NeurologyForm element.
func DecodeTestCase(data []byte) (*TestCase, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, parseError("invalid XML exam document", err)
	}
	if doc.Form == nil {
		return nil, domain.NewValidationError("NeurologyForm", "element is required", nil)
	}

	tc := &TestCase{Request: doc.Form.request()}

	if doc.Totals != nil {
		expected, err := doc.Totals.expected()
		if err != nil {
			return nil, err
		}
		tc.Expected = expected
	}

	return tc, nil
}

func (f *xmlForm) request() *domain.ExamRequest {
	req := &domain.ExamRequest{
		AnalContraction:         strings.TrimSpace(f.AnalContraction),
		AnalSensation:           strings.TrimSpace(f.AnalSensation),
		RightLowestNonKeyMuscle: strings.TrimSpace(f.RightLowestNonKeyMuscle),
		LeftLowestNonKeyMuscle:  strings.TrimSpace(f.LeftLowestNonKeyMuscle),
	}

	dermatomes := append(append([]xmlDermatome{}, f.Dermatomes...), f.GroupedDermatomes...)
	for _, d := range dermatomes {
		req.Levels = append(req.Levels, domain.LevelInput{
			Name:       strings.TrimSpace(d.Name),
			RightTouch: strings.TrimSpace(d.RightTouch),
			LeftTouch:  strings.TrimSpace(d.LeftTouch),
			RightPrick: strings.TrimSpace(d.RightPrick),
			LeftPrick:  strings.TrimSpace(d.LeftPrick),
			RightMotor: optionalMotor(d.RightMotor),
			LeftMotor:  optionalMotor(d.LeftMotor),
		})
	}

	return req
}

func optionalMotor(v *string) string {
	if v == nil {
		return "0"
	}
	return strings.TrimSpace(*v)
}

func (x *xmlTotals) expected() (*ExpectedTotals, error) {
	e := &ExpectedTotals{}

	sums := []struct {
		dst        *ExpectedTotal
		value      string
		containsNT string
		field      string
	}{
		{&e.RightTouch, x.RightTouchTotal, x.RightTouchContainsNt, "RightTouchContainsNt"},
		{&e.LeftTouch, x.LeftTouchTotal, x.LeftTouchContainsNt, "LeftTouchContainsNt"},
		{&e.RightPrick, x.RightPrickTotal, x.RightPrickContainsNt, "RightPrickContainsNt"},
		{&e.LeftPrick, x.LeftPrickTotal, x.LeftPrickContainsNt, "LeftPrickContainsNt"},
		{&e.RightUpperMotor, x.RightUpperMotorTotal, x.RightUpperMotorContainsNt, "RightUpperMotorContainsNt"},
		{&e.LeftUpperMotor, x.LeftUpperMotorTotal, x.LeftUpperMotorContainsNt, "LeftUpperMotorContainsNt"},
		{&e.RightLowerMotor, x.RightLowerMotorTotal, x.RightLowerMotorContainsNt, "RightLowerMotorContainsNt"},
		{&e.LeftLowerMotor, x.LeftLowerMotorTotal, x.LeftLowerMotorContainsNt, "LeftLowerMotorContainsNt"},
	}
	for _, s := range sums {
		*s.dst = parseExpectedTotal(s.value)
		nt, err := parseFlag(s.containsNT)
		if err != nil {
			return nil, domain.NewValidationError(s.field, err.Error(), s.containsNT)
		}
		s.dst.ContainsNT = nt
	}

	e.TouchTotal = parseExpectedTotal(x.TouchTotal)
	e.PrickTotal = parseExpectedTotal(x.PrickTotal)
	e.UpperMotorTotal = parseExpectedTotal(x.UpperMotorTotal)
	e.LowerMotorTotal = parseExpectedTotal(x.LowerMotorTotal)

	lists := []struct {
		dst   *[]string
		value string
		field string
	}{
		{&e.RightSensory, x.RightSensory, "RightSensory"},
		{&e.LeftSensory, x.LeftSensory, "LeftSensory"},
		{&e.RightMotor, x.RightMotor, "RightMotor"},
		{&e.LeftMotor, x.LeftMotor, "LeftMotor"},
		{&e.NeurologicalLevelOfInjury, x.NeurologicalLevelOfInjury, "NeurologicalLevelOfInjury"},
		{&e.RightSensoryZPP, x.RightSensoryZpp, "RightSensoryZpp"},
		{&e.LeftSensoryZPP, x.LeftSensoryZpp, "LeftSensoryZpp"},
		{&e.RightMotorZPP, x.RightMotorZpp, "RightMotorZpp"},
		{&e.LeftMotorZPP, x.LeftMotorZpp, "LeftMotorZpp"},
	}
	for _, l := range lists {
		names, err := parseLevelList(l.value)
		if err != nil {
			return nil, domain.NewValidationError(l.field, err.Error(), l.value)
		}
		*l.dst = names
	}

	e.ASIA = parseGradeList(x.AsiaImpairmentScale)

	return e, nil
}

// parseExpectedTotal reads "12" or "12!". Anything else, such as "UTD",
// is kept as not determinable and its value is not compared.
func parseExpectedTotal(s string) ExpectedTotal {
	s = strings.TrimSpace(s)
	t := ExpectedTotal{HasImpairmentNotDueToSCI: strings.HasSuffix(s, "!")}

	v, err := strconv.Atoi(strings.TrimSuffix(s, "!"))
	if err != nil {
		return t
	}
	t.Value = v
	t.Determinable = true
	return t
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// parseLevelList reads a comma-separated list of level names and returns them
// ordered rostral to caudal. Empty entries are skipped.
func parseLevelList(s string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}

	set, err := isncsci.LevelSetOf(names...)
	if err != nil {
		return nil, err
	}
	return set.SortedNames(), nil
}
