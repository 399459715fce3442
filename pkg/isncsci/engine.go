// Package isncsci classifies spinal cord injury exams following the
// International Standards for Neurological Classification of Spinal Cord Injury.
//
// Classification walks the level chain twice. The forward pass (C2 to S4_5)
// accumulates sensory sums and finds the sensory, motor and neurological level
// candidates. The reverse pass (S4_5 back to C2) resolves intact exams, the
// zones of partial preservation, the motor-function pointers and the motor
// sums. Pointers written in the reverse pass keep the first value written, so
// the most caudal qualifying level wins.
package isncsci

// classifier holds the frontiers of a single classification run. A frontier
// stays open while every value seen so far on that side and modality could
// still be normal.
type classifier struct {
	exam   *Exam
	totals *Totals

	sensoryOpen    [2]bool
	motorOpen      [2]bool
	sensoryZPPOpen [2]bool
	motorZPPOpen   [2]bool
	nliOpen        bool
}

// Classify computes the totals of an exam. The exam is not modified and no
// state is shared between calls.
func Classify(exam *Exam) *Totals {
	c := &classifier{
		exam:           exam,
		totals:         newTotals(),
		sensoryOpen:    [2]bool{true, true},
		motorOpen:      [2]bool{true, true},
		sensoryZPPOpen: [2]bool{true, true},
		motorZPPOpen:   [2]bool{true, true},
		nliOpen:        true,
	}

	c.forward()
	c.reverse()
	c.finalize()

	return c.totals
}

func (c *classifier) forward() {
	// Raised when the sensory level lands on a key muscle: the next non-key
	// level then records the level above it as a motor candidate.
	var nextNonKeyIsMotor [2]bool

	for i := ordinalC1 + 1; i < LevelCount; i++ {
		c.visit(c.exam.level(i), &nextNonKeyIsMotor)

		for _, s := range sides {
			nextNonKeyIsMotor[s] = nextNonKeyIsMotor[s] && c.motorOpen[s]
		}
	}
}

func (c *classifier) visit(level *Level, nextNonKeyIsMotor *[2]bool) {
	prev := c.exam.levels.previous(level)

	for _, s := range sides {
		st := &c.totals.sides[s]
		v := level.sides[s]

		st.touch.Value += v.Touch.Value
		st.prick.Value += v.Prick.Value

		if level.IsKeyMuscle {
			region := &st.upperMotor
			if level.IsLowerMuscle {
				region = &st.lowerMotor
			}
			if v.Motor.ImpairmentNotDueToSCI {
				region.HasImpairmentNotDueToSCI = true
			}
			if v.Motor.NotTestable && !v.Motor.ImpairmentNotDueToSCI {
				region.ContainsNT = true
			}
		} else if nextNonKeyIsMotor[s] {
			nextNonKeyIsMotor[s] = false
			st.motor.add(prev.Ordinal)
			if !c.sensoryOpen[s] {
				c.motorOpen[s] = false
			}
		}

		markSensoryFlags(&st.touch, v.Touch)
		markSensoryFlags(&st.prick, v.Prick)
	}

	for _, s := range sides {
		c.detectSensoryLevel(level, prev, s, nextNonKeyIsMotor)
	}
	for _, s := range sides {
		c.detectMotorLevel(level, prev, s)
	}
}

func markSensoryFlags(t *Total, score Score) {
	if score.ImpairmentNotDueToSCI {
		t.HasImpairmentNotDueToSCI = true
	}
	if score.NotTestable && !score.ImpairmentNotDueToSCI {
		t.ContainsNT = true
	}
}

// abnormal: below normal without an explanation unrelated to the injury
func abnormal(s Score, normal int) bool {
	return s.Value != normal && !s.ImpairmentNotDueToSCI
}

// definitelyAbnormal: below normal and actually tested
func definitelyAbnormal(s Score, normal int) bool {
	return s.Value != normal && !s.NotTestable
}

func normalOrNT(s Score, normal int) bool {
	return s.Value == normal || s.NotTestable
}

func (c *classifier) detectSensoryLevel(level, prev *Level, s Side, nextNonKeyIsMotor *[2]bool) {
	v := level.sides[s]
	if !c.sensoryOpen[s] ||
		!(abnormal(v.Touch, NormalSensoryValue) || abnormal(v.Prick, NormalSensoryValue)) {
		return
	}

	st := &c.totals.sides[s]
	st.sensory.add(prev.Ordinal)

	if level.Ordinal == ordinalS4_5 &&
		normalOrNT(v.Touch, NormalSensoryValue) && normalOrNT(v.Prick, NormalSensoryValue) {
		st.sensory.add(level.Ordinal)
		if c.nliOpen {
			c.totals.nli.add(level.Ordinal)
		}
	}

	if c.nliOpen {
		c.totals.nli.add(prev.Ordinal)
	}

	if definitelyAbnormal(v.Touch, NormalSensoryValue) || definitelyAbnormal(v.Prick, NormalSensoryValue) {
		c.sensoryOpen[s] = false
		c.nliOpen = false
	}

	if level.IsKeyMuscle {
		nextNonKeyIsMotor[s] = true
		st.hasCollins = true
	}
}

// detectMotorLevel records motor level candidates. The right side only claims
// the current level as NLI when the left side is not below grade 3 there;
// otherwise the left side decides. The left side closes the NLI frontier
// together with its own.
func (c *classifier) detectMotorLevel(level, prev *Level, s Side) {
	m := level.sides[s].Motor
	if !c.motorOpen[s] || m.Value == NormalMotorValue || m.ImpairmentNotDueToSCI {
		return
	}

	st := &c.totals.sides[s]
	right := s == Right

	if level.IsKeyMuscle && (m.Value >= 3 || m.NotTestable) {
		st.motor.add(level.Ordinal)

		if right {
			left := level.sides[Left].Motor
			if c.nliOpen && (left.Value > 2 || left.ImpairmentNotDueToSCI || left.NotTestable) {
				c.totals.nli.add(level.Ordinal)
				if !m.NotTestable {
					c.nliOpen = false
				}
			}
		} else if c.nliOpen {
			c.totals.nli.add(level.Ordinal)
		}
	}

	if m.Value < 3 || m.NotTestable {
		st.motor.add(prev.Ordinal)

		if c.nliOpen {
			c.totals.nli.add(prev.Ordinal)
			if right && !m.NotTestable {
				c.nliOpen = false
			}
		}
	}

	if !m.NotTestable {
		c.motorOpen[s] = false
		if !right {
			c.nliOpen = false
		}
	}
}

func (c *classifier) reverse() {
	for i := ordinalS4_5; i > ordinalC1; i-- {
		c.unwind(c.exam.level(i))
	}
}

func (c *classifier) unwind(level *Level) {
	t := c.totals

	if level.Ordinal == ordinalS4_5 {
		if c.sensoryOpen[Right] && c.sensoryOpen[Left] && c.motorOpen[Right] && c.motorOpen[Left] {
			t.nli.add(level.Ordinal)
		}
		for _, s := range sides {
			if c.sensoryOpen[s] {
				t.sides[s].sensory.add(level.Ordinal)
				c.sensoryOpen[s] = false
			}
		}
		for _, s := range sides {
			if c.motorOpen[s] {
				t.sides[s].motor.add(level.Ordinal)
				c.motorOpen[s] = false
			}
		}
	}

	for _, s := range sides {
		c.detectSensoryZPP(level, s)
	}
	for _, s := range sides {
		c.detectMotorZPP(level, s)
	}

	for _, s := range sides {
		st := &t.sides[s]
		v := level.sides[s]
		if !level.IsKeyMuscle && !v.HasOtherMotorFunction {
			continue
		}

		if st.mostRostralMotorFunction < 0 && hasMotorFunction(level, s) {
			st.mostRostralMotorFunction = level.Ordinal
		}
		if st.mostCaudalMotorFunction < 0 && (!v.Motor.IsZeroLabel() || v.HasOtherMotorFunction) {
			st.mostCaudalMotorFunction = level.Ordinal
		}
	}

	if !level.IsKeyMuscle {
		return
	}

	for _, s := range sides {
		st := &t.sides[s]
		if level.IsLowerMuscle {
			st.lowerMotor.Value += level.sides[s].Motor.Value
		} else {
			st.upperMotor.Value += level.sides[s].Motor.Value
		}
	}
}

// hasMotorFunction: impaired for an unrelated reason, designated as the lowest
// non-key muscle, or a key muscle with any contraction
func hasMotorFunction(level *Level, s Side) bool {
	v := level.sides[s]
	return v.Motor.ImpairmentNotDueToSCI || v.HasOtherMotorFunction ||
		(v.Motor.Value != 0 && level.IsKeyMuscle)
}

func (c *classifier) detectSensoryZPP(level *Level, s Side) {
	v := level.sides[s]
	if !c.sensoryZPPOpen[s] || (v.Touch.IsZeroLabel() && v.Prick.IsZeroLabel()) {
		return
	}

	if v.Touch.Value > 0 || v.Touch.ImpairmentNotDueToSCI ||
		v.Prick.Value > 0 || v.Prick.ImpairmentNotDueToSCI {
		c.sensoryZPPOpen[s] = false
	}

	c.totals.sides[s].sensoryZPP.add(level.Ordinal)
}

func (c *classifier) detectMotorZPP(level *Level, s Side) {
	st := &c.totals.sides[s]
	v := level.sides[s]
	m := v.Motor

	if !c.motorZPPOpen[s] {
		return
	}
	if !v.HasOtherMotorFunction &&
		(m.IsZeroLabel() || !(level.IsKeyMuscle || st.motor.containsOrdinal(level.Ordinal))) {
		return
	}

	definite := m.ImpairmentNotDueToSCI || v.HasOtherMotorFunction || !m.NotTestable
	eligible := level.IsKeyMuscle ||
		level.Ordinal < ordinalC5 ||
		(level.Ordinal > ordinalS1 && !st.upperMotor.ContainsNT && !st.lowerMotor.ContainsNT && !st.hasCollins) ||
		(level.Ordinal > ordinalT1 && level.Ordinal < ordinalL2 && !st.upperMotor.ContainsNT)

	if definite && eligible {
		c.motorZPPOpen[s] = false
	}

	st.motorZPP.add(level.Ordinal)
}

func (c *classifier) finalize() {
	t := c.totals
	r, l := &t.sides[Right], &t.sides[Left]

	t.upperMotorTotal = r.upperMotor.Plus(l.upperMotor)
	t.lowerMotorTotal = r.lowerMotor.Plus(l.lowerMotor)
	t.touchTotal = r.touch.Plus(l.touch)
	t.prickTotal = r.prick.Plus(l.prick)

	for _, s := range sides {
		st := &t.sides[s]
		if c.sensoryZPPOpen[s] {
			st.sensoryZPP.add(ordinalC1)
		}
		if c.motorZPPOpen[s] {
			st.motorZPP.add(ordinalC1)
		}
		if st.mostRostralMotorFunction < 0 {
			st.mostRostralMotorFunction = ordinalC1
		}
		if st.mostCaudalMotorFunction < 0 {
			st.mostCaudalMotorFunction = ordinalC1
		}
	}

	c.grade()
}
