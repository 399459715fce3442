package isncsci

// ASIA Impairment Scale grades
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeE = "E"
)

// grade derives the ASIA Impairment Scale candidates once the walk is done
func (c *classifier) grade() {
	t := c.totals
	exam := c.exam
	s45 := exam.level(ordinalS4_5)
	r45, l45 := s45.sides[Right], s45.sides[Left]

	t.sensoryIncomplete = exam.AnalSensation.YesOrNT() ||
		!r45.Touch.IsZeroLabel() || !l45.Touch.IsZeroLabel() ||
		!r45.Prick.IsZeroLabel() || !l45.Prick.IsZeroLabel()

	couldNotBeMotorIncomplete := exam.AnalContraction.NoOrNT() &&
		t.sensoryIncomplete && c.noMotorFunctionMoreThanThreeBelowMotorLevel()

	if exam.AnalContraction.NoOrNT() && exam.AnalSensation.NoOrNT() &&
		absentSacralSensation(r45) && absentSacralSensation(l45) {
		t.addASIA(GradeA)
	}

	_, rostralNLI, ok := t.nli.MostRostral()
	nliIsIntact := ok && rostralNLI == ordinalS4_5

	if couldNotBeMotorIncomplete && !nliIsIntact {
		t.addASIA(GradeB)
	}

	if !nliIsIntact && (t.sensoryIncomplete || exam.AnalContraction.YesOrNT()) {
		couldBeC, couldBeD := c.motorIncompleteGrades()
		if couldBeC {
			t.addASIA(GradeC)
		}
		if couldBeD {
			t.addASIA(GradeD)
		}
	}

	if t.sides[Right].sensory.containsOrdinal(ordinalS4_5) && t.sides[Left].sensory.containsOrdinal(ordinalS4_5) &&
		t.sides[Right].motor.containsOrdinal(ordinalS4_5) && t.sides[Left].motor.containsOrdinal(ordinalS4_5) {
		t.addASIA(GradeE)
	}
}

func absentSacralSensation(v SideValues) bool {
	return v.Touch.Value == 0 && !v.Touch.ImpairmentNotDueToSCI &&
		v.Prick.Value == 0 && !v.Prick.ImpairmentNotDueToSCI
}

// noMotorFunctionMoreThanThreeBelowMotorLevel walks up from S1 to the most
// caudal NLI candidate and finds, per side, the most caudal level with motor
// function. The check fails when that level lies more than three levels below
// the side's most caudal motor level.
func (c *classifier) noMotorFunctionMoreThanThreeBelowMotorLevel() bool {
	t := c.totals

	_, stop, ok := t.nli.MostCaudal()
	if !ok {
		stop = ordinalC1
	}

	found := [2]int{-1, -1}
	for i := ordinalS1; i >= ordinalC1 && i >= stop && (found[Right] < 0 || found[Left] < 0); i-- {
		level := c.exam.level(i)
		for _, s := range sides {
			if found[s] < 0 && hasMotorFunction(level, s) {
				found[s] = i
			}
		}
	}

	for _, s := range sides {
		if found[s] < 0 {
			continue
		}
		_, motorLevel, ok := t.sides[s].motor.MostCaudal()
		if !ok {
			motorLevel = ordinalC1
		}
		if found[s]-motorLevel > 3 {
			return false
		}
	}

	return true
}

// motorIncompleteGrades checks every NLI candidate, in the order they were
// found, for grades C and D. Without anal contraction a candidate only counts
// when some motor function lies more than three levels below the motor level.
// Grade C needs more than half of the key muscles below the NLI under grade 3;
// grade D needs at least half at grade 3 or more.
func (c *classifier) motorIncompleteGrades() (couldBeC, couldBeD bool) {
	t := c.totals
	analContraction := c.exam.AnalContraction.YesOrNT()
	motorLevel := [2]int{-1, -1}

	for _, nli := range t.nli.ordinals {
		if couldBeC && couldBeD {
			break
		}

		if !analContraction {
			for _, s := range sides {
				if motorLevel[s] < nli {
					motorLevel[s] = firstAtOrBelow(t.sides[s].motor, nli)
				}
			}

			if c.withinThreeLevels(Right, motorLevel[Right]) && c.withinThreeLevels(Left, motorLevel[Left]) {
				continue
			}
		}

		if nli > ordinalL5 {
			couldBeD = true
			break
		}

		eligible, atLeastThree, belowThree := 0, 0, 0
		for i := nli + 1; i < LevelCount; i++ {
			level := c.exam.level(i)
			if !level.IsKeyMuscle {
				continue
			}

			eligible += 2
			for _, s := range sides {
				m := level.sides[s].Motor
				if m.Value > 2 || m.ImpairmentNotDueToSCI || m.NotTestable {
					atLeastThree++
				}
				if (m.Value < 3 || m.NotTestable) && !m.ImpairmentNotDueToSCI {
					belowThree++
				}
			}
		}

		if belowThree > eligible/2 {
			couldBeC = true
		}
		if atLeastThree >= eligible/2 {
			couldBeD = true
		}
	}

	return couldBeC, couldBeD
}

// firstAtOrBelow returns the first candidate, in insertion order, whose ordinal
// is at or below the given one, or -1
func firstAtOrBelow(set LevelSet, ordinal int) int {
	for _, o := range set.ordinals {
		if o >= ordinal {
			return o
		}
	}
	return -1
}

// withinThreeLevels reports whether the most caudal level with motor function
// lies no more than three levels below motorLevel. A missing motor level never
// qualifies.
func (c *classifier) withinThreeLevels(s Side, motorLevel int) bool {
	if motorLevel < 0 {
		return false
	}
	return c.totals.sides[s].mostCaudalMotorFunction-motorLevel <= 3
}
