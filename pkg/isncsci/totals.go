package isncsci

import (
	"sort"
	"strings"
)

// Total is a running sum together with its two sticky flags
type Total struct {
	Value                    int
	HasImpairmentNotDueToSCI bool
	ContainsNT               bool
}

// Plus combines two totals, ORing their flags
func (t Total) Plus(o Total) Total {
	return Total{
		Value:                    t.Value + o.Value,
		HasImpairmentNotDueToSCI: t.HasImpairmentNotDueToSCI || o.HasImpairmentNotDueToSCI,
		ContainsNT:               t.ContainsNT || o.ContainsNT,
	}
}

type sideTotals struct {
	touch      Total
	prick      Total
	upperMotor Total
	lowerMotor Total

	sensory    LevelSet
	motor      LevelSet
	sensoryZPP LevelSet
	motorZPP   LevelSet

	hasCollins bool

	mostRostralMotorFunction int
	mostCaudalMotorFunction  int
}

func newSideTotals() sideTotals {
	return sideTotals{
		sensory:                  newLevelSet(),
		motor:                    newLevelSet(),
		sensoryZPP:               newZPPSet(),
		motorZPP:                 newZPPSet(),
		mostRostralMotorFunction: -1,
		mostCaudalMotorFunction:  -1,
	}
}

// Totals is the result of classifying one exam. It is built by Classify and
// never changes afterwards; accessors return copies.
type Totals struct {
	sides [2]sideTotals
	nli   LevelSet

	upperMotorTotal Total
	lowerMotorTotal Total
	touchTotal      Total
	prickTotal      Total

	sensoryIncomplete bool
	asia              []string
}

func newTotals() *Totals {
	return &Totals{
		sides: [2]sideTotals{newSideTotals(), newSideTotals()},
		nli:   newLevelSet(),
	}
}

// Touch returns the light-touch sum for one side
func (t *Totals) Touch(s Side) Total { return t.sides[s].touch }

// Prick returns the pin-prick sum for one side
func (t *Totals) Prick(s Side) Total { return t.sides[s].prick }

// UpperMotor returns the upper-limb (C5..T1) motor sum for one side
func (t *Totals) UpperMotor(s Side) Total { return t.sides[s].upperMotor }

// LowerMotor returns the lower-limb (L2..S1) motor sum for one side
func (t *Totals) LowerMotor(s Side) Total { return t.sides[s].lowerMotor }

// Motor returns the combined motor sum for one side
func (t *Totals) Motor(s Side) Total {
	return t.sides[s].upperMotor.Plus(t.sides[s].lowerMotor)
}

// UpperMotorTotal returns the upper motor sum of both sides
func (t *Totals) UpperMotorTotal() Total { return t.upperMotorTotal }

// LowerMotorTotal returns the lower motor sum of both sides
func (t *Totals) LowerMotorTotal() Total { return t.lowerMotorTotal }

// TouchTotal returns the light-touch sum of both sides
func (t *Totals) TouchTotal() Total { return t.touchTotal }

// PrickTotal returns the pin-prick sum of both sides
func (t *Totals) PrickTotal() Total { return t.prickTotal }

// SensoryLevels returns the sensory level candidates for one side
func (t *Totals) SensoryLevels(s Side) LevelSet { return t.sides[s].sensory.clone() }

// MotorLevels returns the motor level candidates for one side
func (t *Totals) MotorLevels(s Side) LevelSet { return t.sides[s].motor.clone() }

// SensoryZPP returns the sensory zone of partial preservation for one side
func (t *Totals) SensoryZPP(s Side) LevelSet { return t.sides[s].sensoryZPP.clone() }

// MotorZPP returns the motor zone of partial preservation for one side
func (t *Totals) MotorZPP(s Side) LevelSet { return t.sides[s].motorZPP.clone() }

// NeurologicalLevels returns the neurological level of injury candidates
func (t *Totals) NeurologicalLevels() LevelSet { return t.nli.clone() }

// HasCollins reports whether the sensory level on a side was found at a key muscle
func (t *Totals) HasCollins(s Side) bool { return t.sides[s].hasCollins }

// MostRostralLevelWithMotorFunction returns the name of the level recorded as
// the most rostral with motor function on one side (C1 when none qualified).
func (t *Totals) MostRostralLevelWithMotorFunction(s Side) string {
	return NameOf(t.sides[s].mostRostralMotorFunction)
}

// MostCaudalLevelWithMotorFunction returns the name of the level recorded as
// the most caudal with motor function on one side (C1 when none qualified).
func (t *Totals) MostCaudalLevelWithMotorFunction(s Side) string {
	return NameOf(t.sides[s].mostCaudalMotorFunction)
}

// SensoryIncomplete reports sacral sparing of sensory function
func (t *Totals) SensoryIncomplete() bool { return t.sensoryIncomplete }

// ASIA returns the ASIA Impairment Scale candidates in alphabetical order
func (t *Totals) ASIA() []string {
	out := make([]string, len(t.asia))
	copy(out, t.asia)
	sort.Strings(out)
	return out
}

// ASIAString returns the ASIA candidates joined by commas, e.g. "A,D"
func (t *Totals) ASIAString() string {
	return strings.Join(t.ASIA(), ",")
}

// HasASIA reports whether a grade is among the candidates
func (t *Totals) HasASIA(grade string) bool {
	for _, g := range t.asia {
		if strings.EqualFold(g, grade) {
			return true
		}
	}
	return false
}

func (t *Totals) addASIA(grade string) {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	if grade == "" || t.HasASIA(grade) {
		return
	}
	t.asia = append(t.asia, grade)
}
