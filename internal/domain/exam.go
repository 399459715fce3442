package domain

import (
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

// ExamRequest is the wire form of an exam. Levels that are not listed keep
// their normal values.
type ExamRequest struct {
	AnalContraction string       `json:"anal_contraction" yaml:"anal_contraction"`
	AnalSensation   string       `json:"anal_sensation" yaml:"anal_sensation"`
	Levels          []LevelInput `json:"levels" yaml:"levels"`

	RightLowestNonKeyMuscle string `json:"right_lowest_non_key_muscle,omitempty" yaml:"right_lowest_non_key_muscle,omitempty"`
	LeftLowestNonKeyMuscle  string `json:"left_lowest_non_key_muscle,omitempty" yaml:"left_lowest_non_key_muscle,omitempty"`
}

// LevelInput carries the six raw labels of one level. Motor labels are only
// read for key-muscle levels; a missing motor label counts as "0".
type LevelInput struct {
	Name       string `json:"name" yaml:"name"`
	RightTouch string `json:"right_touch" yaml:"right_touch"`
	LeftTouch  string `json:"left_touch" yaml:"left_touch"`
	RightPrick string `json:"right_prick" yaml:"right_prick"`
	LeftPrick  string `json:"left_prick" yaml:"left_prick"`
	RightMotor string `json:"right_motor,omitempty" yaml:"right_motor,omitempty"`
	LeftMotor  string `json:"left_motor,omitempty" yaml:"left_motor,omitempty"`
}

// ClassificationResponse is returned by the classifier service
type ClassificationResponse struct {
	RequestID      string          `json:"request_id"`
	Summary        isncsci.Summary `json:"summary"`
	Totals         TotalsView      `json:"totals"`
	Cached         bool            `json:"cached"`
	ProcessingTime string          `json:"processing_time"`
}

// TotalView is a single sum with its flags
type TotalView struct {
	Value                    int  `json:"value" yaml:"value"`
	HasImpairmentNotDueToSCI bool `json:"impairment_not_due_to_sci" yaml:"impairment_not_due_to_sci"`
	ContainsNT               bool `json:"contains_nt" yaml:"contains_nt"`
}

// SideView holds the per-side part of a classification
type SideView struct {
	SensoryLevels []string `json:"sensory_levels" yaml:"sensory_levels"`
	MotorLevels   []string `json:"motor_levels" yaml:"motor_levels"`
	SensoryZPP    []string `json:"sensory_zpp" yaml:"sensory_zpp"`
	MotorZPP      []string `json:"motor_zpp" yaml:"motor_zpp"`

	Touch      TotalView `json:"touch" yaml:"touch"`
	Prick      TotalView `json:"prick" yaml:"prick"`
	UpperMotor TotalView `json:"upper_motor" yaml:"upper_motor"`
	LowerMotor TotalView `json:"lower_motor" yaml:"lower_motor"`
	Motor      TotalView `json:"motor" yaml:"motor"`

	HasCollins                        bool   `json:"has_collins" yaml:"has_collins"`
	MostRostralLevelWithMotorFunction string `json:"most_rostral_level_with_motor_function" yaml:"most_rostral_level_with_motor_function"`
	MostCaudalLevelWithMotorFunction  string `json:"most_caudal_level_with_motor_function" yaml:"most_caudal_level_with_motor_function"`
}

// TotalsView is the raw, unformatted classification result. Level lists are
// ordered rostral to caudal.
type TotalsView struct {
	AsiaImpairmentScale []string `json:"asia_impairment_scale" yaml:"asia_impairment_scale"`
	NeurologicalLevels  []string `json:"neurological_levels" yaml:"neurological_levels"`
	SensoryIncomplete   bool     `json:"sensory_incomplete" yaml:"sensory_incomplete"`

	Right SideView `json:"right" yaml:"right"`
	Left  SideView `json:"left" yaml:"left"`

	UpperMotorTotal TotalView `json:"upper_motor_total" yaml:"upper_motor_total"`
	LowerMotorTotal TotalView `json:"lower_motor_total" yaml:"lower_motor_total"`
	TouchTotal      TotalView `json:"touch_total" yaml:"touch_total"`
	PrickTotal      TotalView `json:"prick_total" yaml:"prick_total"`
}

// NewTotalsView copies a classification result into its wire form
func NewTotalsView(t *isncsci.Totals) TotalsView {
	return TotalsView{
		AsiaImpairmentScale: t.ASIA(),
		NeurologicalLevels:  t.NeurologicalLevels().SortedNames(),
		SensoryIncomplete:   t.SensoryIncomplete(),
		Right:               newSideView(t, isncsci.Right),
		Left:                newSideView(t, isncsci.Left),
		UpperMotorTotal:     newTotalView(t.UpperMotorTotal()),
		LowerMotorTotal:     newTotalView(t.LowerMotorTotal()),
		TouchTotal:          newTotalView(t.TouchTotal()),
		PrickTotal:          newTotalView(t.PrickTotal()),
	}
}

func newSideView(t *isncsci.Totals, s isncsci.Side) SideView {
	return SideView{
		SensoryLevels:                     t.SensoryLevels(s).SortedNames(),
		MotorLevels:                       t.MotorLevels(s).SortedNames(),
		SensoryZPP:                        t.SensoryZPP(s).SortedNames(),
		MotorZPP:                          t.MotorZPP(s).SortedNames(),
		Touch:                             newTotalView(t.Touch(s)),
		Prick:                             newTotalView(t.Prick(s)),
		UpperMotor:                        newTotalView(t.UpperMotor(s)),
		LowerMotor:                        newTotalView(t.LowerMotor(s)),
		Motor:                             newTotalView(t.Motor(s)),
		HasCollins:                        t.HasCollins(s),
		MostRostralLevelWithMotorFunction: t.MostRostralLevelWithMotorFunction(s),
		MostCaudalLevelWithMotorFunction:  t.MostCaudalLevelWithMotorFunction(s),
	}
}

func newTotalView(t isncsci.Total) TotalView {
	return TotalView{
		Value:                    t.Value,
		HasImpairmentNotDueToSCI: t.HasImpairmentNotDueToSCI,
		ContainsNT:               t.ContainsNT,
	}
}

// LevelInfo describes one level of the chain
type LevelInfo struct {
	Name        string `json:"name" yaml:"name"`
	Ordinal     int    `json:"ordinal" yaml:"ordinal"`
	KeyMuscle   bool   `json:"key_muscle" yaml:"key_muscle"`
	LowerMuscle bool   `json:"lower_muscle" yaml:"lower_muscle"`
}

// ChainLevels lists the chain from C1 to S4_5
func ChainLevels() []LevelInfo {
	names := isncsci.LevelNames()
	levels := make([]LevelInfo, len(names))
	for i, name := range names {
		levels[i] = LevelInfo{
			Name:        name,
			Ordinal:     i,
			KeyMuscle:   isncsci.IsKeyMuscleOrdinal(i),
			LowerMuscle: isncsci.IsLowerMuscleOrdinal(i),
		}
	}
	return levels
}
