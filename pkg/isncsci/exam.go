package isncsci

import (
	"fmt"
	"strings"
)

// Exam is one neurological exam: the 29 levels, the anal observations and the
// per-side override naming the lowest non-key muscle with motor function.
// A freshly created exam is fully normal.
type Exam struct {
	AnalContraction BinaryObservation
	AnalSensation   BinaryObservation

	levels       chain
	lowestNonKey [2]int
}

// NewExam returns an exam with every level at its normal values
func NewExam() *Exam {
	return &Exam{
		levels:       newChain(),
		lowestNonKey: [2]int{-1, -1},
	}
}

// Level returns a copy of the named level
func (e *Exam) Level(name string) (Level, bool) {
	i, ok := OrdinalOf(name)
	if !ok {
		return Level{}, false
	}
	return e.levels[i], true
}

// LevelAt returns a copy of the level at ordinal i
func (e *Exam) LevelAt(i int) (Level, bool) {
	if i < 0 || i >= LevelCount {
		return Level{}, false
	}
	return e.levels[i], true
}

// UpdateLevel records the six raw values of a level. C1 is fixed and cannot be
// updated. For non-key-muscle levels the motor score is derived from the
// sensory values; only the impairment-not-due-to-SCI flag of the motor label
// is kept.
func (e *Exam) UpdateLevel(name, rightTouch, leftTouch, rightPrick, leftPrick, rightMotor, leftMotor string) error {
	i, ok := OrdinalOf(name)
	if !ok || i == ordinalC1 {
		return fmt.Errorf("updating level: %w %q", ErrUnknownLevel, name)
	}

	level := &e.levels[i]
	level.sides[Right] = newSideValues(level, rightTouch, rightPrick, rightMotor, level.sides[Right].HasOtherMotorFunction)
	level.sides[Left] = newSideValues(level, leftTouch, leftPrick, leftMotor, level.sides[Left].HasOtherMotorFunction)

	return nil
}

func newSideValues(level *Level, touch, prick, motor string, hasOther bool) SideValues {
	v := SideValues{
		Touch:                 ParseScore(touch, NormalSensoryValue),
		Prick:                 ParseScore(prick, NormalSensoryValue),
		Motor:                 ParseScore(motor, NormalMotorValue),
		HasOtherMotorFunction: hasOther,
	}

	if !level.IsKeyMuscle {
		flagged := v.Motor.ImpairmentNotDueToSCI
		v.Motor = derivedMotor(v.Touch, v.Prick)
		v.Motor.ImpairmentNotDueToSCI = flagged
	}

	return v
}

// derivedMotor computes the implied motor score of a non-key-muscle level
func derivedMotor(touch, prick Score) Score {
	if (touch.Value == NormalSensoryValue || touch.ImpairmentNotDueToSCI) &&
		(prick.Value == NormalSensoryValue || prick.ImpairmentNotDueToSCI) {
		return normalScore(NormalMotorValue)
	}

	if (touch.NotTestable || touch.Value == NormalSensoryValue) &&
		(prick.NotTestable || prick.Value == NormalSensoryValue) {
		return Score{Label: "NT", NotTestable: true}
	}

	return normalScore(0)
}

// SetLowestNonKeyMuscleWithMotorFunction designates the lowest non-key muscle
// with motor function on one side. The previous designation, if any, is
// cleared. An empty name leaves the exam unchanged. C1 has no motor and is
// rejected like an unknown name.
func (e *Exam) SetLowestNonKeyMuscleWithMotorFunction(side Side, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	i, ok := OrdinalOf(name)
	if !ok || i == ordinalC1 {
		return fmt.Errorf("setting lowest non-key muscle: %w %q", ErrUnknownLevel, name)
	}

	if prev := e.lowestNonKey[side]; prev >= 0 {
		e.levels[prev].sides[side].HasOtherMotorFunction = false
	}

	e.lowestNonKey[side] = i
	e.levels[i].sides[side].HasOtherMotorFunction = true

	return nil
}

// LowestNonKeyMuscleWithMotorFunction returns the designated level for a side
func (e *Exam) LowestNonKeyMuscleWithMotorFunction(side Side) (string, bool) {
	i := e.lowestNonKey[side]
	if i < 0 {
		return "", false
	}
	return NameOf(i), true
}

// Clone returns an independent copy of the exam
func (e *Exam) Clone() *Exam {
	c := *e
	return &c
}

func (e *Exam) level(i int) *Level {
	return &e.levels[i]
}
