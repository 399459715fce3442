package isncsci

import (
	"sort"
	"strconv"
	"strings"
)

// Display tokens
const (
	NotDeterminable = "UTD"
	NotApplicable   = "NA"
	Intact          = "INT"
)

// Summary is the display form of a Totals
type Summary struct {
	AsiaImpairmentScale       string `json:"asia_impairment_scale" yaml:"asia_impairment_scale"`
	Completeness              string `json:"completeness" yaml:"completeness"`
	NeurologicalLevelOfInjury string `json:"neurological_level_of_injury" yaml:"neurological_level_of_injury"`

	RightSensory    string `json:"right_sensory" yaml:"right_sensory"`
	LeftSensory     string `json:"left_sensory" yaml:"left_sensory"`
	RightMotor      string `json:"right_motor" yaml:"right_motor"`
	LeftMotor       string `json:"left_motor" yaml:"left_motor"`
	RightSensoryZPP string `json:"right_sensory_zpp" yaml:"right_sensory_zpp"`
	LeftSensoryZPP  string `json:"left_sensory_zpp" yaml:"left_sensory_zpp"`
	RightMotorZPP   string `json:"right_motor_zpp" yaml:"right_motor_zpp"`
	LeftMotorZPP    string `json:"left_motor_zpp" yaml:"left_motor_zpp"`

	RightTouchTotal      string `json:"right_touch_total" yaml:"right_touch_total"`
	LeftTouchTotal       string `json:"left_touch_total" yaml:"left_touch_total"`
	RightPrickTotal      string `json:"right_prick_total" yaml:"right_prick_total"`
	LeftPrickTotal       string `json:"left_prick_total" yaml:"left_prick_total"`
	RightUpperMotorTotal string `json:"right_upper_motor_total" yaml:"right_upper_motor_total"`
	LeftUpperMotorTotal  string `json:"left_upper_motor_total" yaml:"left_upper_motor_total"`
	RightLowerMotorTotal string `json:"right_lower_motor_total" yaml:"right_lower_motor_total"`
	LeftLowerMotorTotal  string `json:"left_lower_motor_total" yaml:"left_lower_motor_total"`
	RightMotorTotal      string `json:"right_motor_total" yaml:"right_motor_total"`
	LeftMotorTotal       string `json:"left_motor_total" yaml:"left_motor_total"`
	UpperMotorTotal      string `json:"upper_motor_total" yaml:"upper_motor_total"`
	LowerMotorTotal      string `json:"lower_motor_total" yaml:"lower_motor_total"`
	TouchTotal           string `json:"touch_total" yaml:"touch_total"`
	PrickTotal           string `json:"prick_total" yaml:"prick_total"`
}

// Summarize renders totals for display
func Summarize(t *Totals) Summary {
	ais := t.ASIAString()
	isA := t.HasASIA(GradeA)
	couldBeOther := !isA || len(t.asia) > 1

	completeness := "I"
	if isA {
		completeness = "C"
		if couldBeOther {
			completeness = "C,I"
		}
	}

	// A zone of partial preservation only exists for a complete injury, and
	// never alongside a normal exam.
	zpp := func(set LevelSet) string {
		if !isA || t.HasASIA(GradeE) {
			return NotApplicable
		}
		return FormatLevels(set, couldBeOther)
	}

	r, l := &t.sides[Right], &t.sides[Left]

	return Summary{
		AsiaImpairmentScale:       ais,
		Completeness:              completeness,
		NeurologicalLevelOfInjury: FormatLevels(t.nli, false),

		RightSensory:    FormatLevels(r.sensory, false),
		LeftSensory:     FormatLevels(l.sensory, false),
		RightMotor:      FormatLevels(r.motor, false),
		LeftMotor:       FormatLevels(l.motor, false),
		RightSensoryZPP: zpp(r.sensoryZPP),
		LeftSensoryZPP:  zpp(l.sensoryZPP),
		RightMotorZPP:   zpp(r.motorZPP),
		LeftMotorZPP:    zpp(l.motorZPP),

		RightTouchTotal:      FormatTotal(r.touch),
		LeftTouchTotal:       FormatTotal(l.touch),
		RightPrickTotal:      FormatTotal(r.prick),
		LeftPrickTotal:       FormatTotal(l.prick),
		RightUpperMotorTotal: FormatTotal(r.upperMotor),
		LeftUpperMotorTotal:  FormatTotal(l.upperMotor),
		RightLowerMotorTotal: FormatTotal(r.lowerMotor),
		LeftLowerMotorTotal:  FormatTotal(l.lowerMotor),
		RightMotorTotal:      FormatTotal(t.Motor(Right)),
		LeftMotorTotal:       FormatTotal(t.Motor(Left)),
		UpperMotorTotal:      FormatTotal(t.upperMotorTotal),
		LowerMotorTotal:      FormatTotal(t.lowerMotorTotal),
		TouchTotal:           FormatTotal(t.touchTotal),
		PrickTotal:           FormatTotal(t.prickTotal),
	}
}

// SummaryFor classifies an exam and renders the result
func SummaryFor(exam *Exam) Summary {
	return Summarize(Classify(exam))
}

// FormatTotal renders a total as "12", "12!" or "UTD"
func FormatTotal(t Total) string {
	if t.ContainsNT {
		return NotDeterminable
	}
	if t.HasImpairmentNotDueToSCI {
		return strconv.Itoa(t.Value) + "!"
	}
	return strconv.Itoa(t.Value)
}

// FormatLevels renders a level set sorted by ordinal with consecutive runs
// compressed, e.g. "C4-C6,T2". S4_5 renders as INT. With addNA the result is
// prefixed by "NA," (or is just "NA" when the set is empty).
func FormatLevels(set LevelSet, addNA bool) string {
	if set.Len() == 0 {
		if addNA {
			return NotApplicable
		}
		return ""
	}

	ordinals := set.Ordinals()
	sort.Ints(ordinals)

	var b strings.Builder
	prev := -1
	inRange := false

	for _, o := range ordinals {
		if prev >= 0 && o <= prev {
			continue
		}

		switch {
		case prev < 0:
			b.WriteString(displayName(o))
		case o == prev+1:
			inRange = true
		default:
			if inRange {
				b.WriteString("-")
				b.WriteString(NameOf(prev))
			}
			b.WriteString(",")
			b.WriteString(displayName(o))
			inRange = false
		}

		prev = o
	}

	if inRange {
		b.WriteString("-")
		b.WriteString(displayName(prev))
	}

	if addNA {
		return NotApplicable + "," + b.String()
	}
	return b.String()
}

func displayName(ordinal int) string {
	if ordinal == ordinalS4_5 {
		return Intact
	}
	return NameOf(ordinal)
}
