package isncsci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTable(t *testing.T) {
	require.NoError(t, validateLevelTable())

	names := LevelNames()
	require.Len(t, names, LevelCount)
	assert.Equal(t, "C1", names[0])
	assert.Equal(t, "C2", names[1])
	assert.Equal(t, "S4_5", names[28])

	var keyMuscles []string
	for i, name := range names {
		if IsKeyMuscleOrdinal(i) {
			keyMuscles = append(keyMuscles, name)
		}
	}
	assert.Equal(t, []string{"C5", "C6", "C7", "C8", "T1", "L2", "L3", "L4", "L5", "S1"}, keyMuscles)

	for i := range names {
		assert.Equal(t, i >= 21 && i <= 25, IsLowerMuscleOrdinal(i), names[i])
	}

	o, ok := OrdinalOf("s4_5")
	assert.True(t, ok)
	assert.Equal(t, 28, o)

	_, ok = OrdinalOf("T13")
	assert.False(t, ok)
	assert.Equal(t, "", NameOf(29))
}

func TestChainLinks(t *testing.T) {
	c := newChain()

	assert.Nil(t, c.previous(&c[0]))
	assert.Nil(t, c.next(&c[28]))

	for i := 1; i < LevelCount; i++ {
		assert.Equal(t, i-1, c.previous(&c[i]).Ordinal)
		assert.Equal(t, i, c.next(&c[i-1]).Ordinal)
	}
}

func TestNewExam_IsNormal(t *testing.T) {
	exam := NewExam()

	for i := 0; i < LevelCount; i++ {
		level, ok := exam.LevelAt(i)
		require.True(t, ok)
		for _, s := range sides {
			v := level.Side(s)
			assert.Equal(t, 2, v.Touch.Value)
			assert.Equal(t, 2, v.Prick.Value)
			assert.Equal(t, 5, v.Motor.Value)
			assert.False(t, v.HasOtherMotorFunction)
		}
	}
}

func TestExam_UpdateLevel(t *testing.T) {
	exam := NewExam()

	require.NoError(t, exam.UpdateLevel("c5", "1", "2", "0", "NT", "3!", "NT"))

	level, ok := exam.Level("C5")
	require.True(t, ok)
	assert.Equal(t, 1, level.Right().Touch.Value)
	assert.Equal(t, 2, level.Left().Touch.Value)
	assert.Equal(t, 0, level.Right().Prick.Value)
	assert.True(t, level.Left().Prick.NotTestable)
	assert.Equal(t, 3, level.Right().Motor.Value)
	assert.True(t, level.Right().Motor.ImpairmentNotDueToSCI)
	assert.True(t, level.Left().Motor.NotTestable)
}

func TestExam_UpdateLevelErrors(t *testing.T) {
	exam := NewExam()

	err := exam.UpdateLevel("C1", "0", "0", "0", "0", "0", "0")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	err = exam.UpdateLevel("X9", "0", "0", "0", "0", "0", "0")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	c1, _ := exam.LevelAt(0)
	assert.Equal(t, 2, c1.Right().Touch.Value)
	assert.Equal(t, 5, c1.Left().Motor.Value)
}

func TestExam_DerivedNonKeyMotor(t *testing.T) {
	tests := []struct {
		name  string
		touch string
		prick string
		label string
		value int
	}{
		{name: "normal sensation", touch: "2", prick: "2", label: "5", value: 5},
		{name: "impaired not due to SCI", touch: "1!", prick: "2", label: "5", value: 5},
		{name: "absent sensation", touch: "0", prick: "0", label: "0", value: 0},
		{name: "partial sensation", touch: "1", prick: "2", label: "0", value: 0},
		{name: "not testable", touch: "NT", prick: "2", label: "NT", value: 0},
		{name: "both not testable", touch: "NT", prick: "NT", label: "NT", value: 0},
		{name: "not testable with absent", touch: "NT", prick: "0", label: "0", value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := NewExam()
			require.NoError(t, exam.UpdateLevel("T6", tt.touch, tt.touch, tt.prick, tt.prick, "4", "4"))

			level, _ := exam.Level("T6")
			for _, s := range sides {
				assert.Equal(t, tt.label, level.Side(s).Motor.Label)
				assert.Equal(t, tt.value, level.Side(s).Motor.Value)
			}
		})
	}
}

func TestExam_NonKeyMotorKeepsImpairmentFlag(t *testing.T) {
	exam := NewExam()
	require.NoError(t, exam.UpdateLevel("T6", "0", "0", "0", "0", "0!", "0"))

	level, _ := exam.Level("T6")
	right, left := level.Right().Motor, level.Left().Motor
	assert.True(t, right.ImpairmentNotDueToSCI)
	assert.Equal(t, "0", right.Label)
	assert.Equal(t, 0, right.Value)
	assert.False(t, left.ImpairmentNotDueToSCI)

	require.NoError(t, exam.UpdateLevel("T6", "2", "2", "2", "2", "NT!", "NT!"))
	level, _ = exam.Level("T6")
	assert.Equal(t, "5", level.Right().Motor.Label)
	assert.True(t, level.Right().Motor.ImpairmentNotDueToSCI)
}

func TestExam_KeyMuscleMotorIsKept(t *testing.T) {
	exam := NewExam()
	require.NoError(t, exam.UpdateLevel("L3", "0", "0", "0", "0", "4", "1"))

	level, _ := exam.Level("L3")
	assert.Equal(t, 4, level.Right().Motor.Value)
	assert.Equal(t, 1, level.Left().Motor.Value)
}

func TestExam_LowestNonKeyMuscle(t *testing.T) {
	exam := NewExam()

	require.NoError(t, exam.SetLowestNonKeyMuscleWithMotorFunction(Right, "T8"))
	name, ok := exam.LowestNonKeyMuscleWithMotorFunction(Right)
	assert.True(t, ok)
	assert.Equal(t, "T8", name)

	require.NoError(t, exam.SetLowestNonKeyMuscleWithMotorFunction(Right, "t10"))
	t8, _ := exam.Level("T8")
	t10, _ := exam.Level("T10")
	assert.False(t, t8.Right().HasOtherMotorFunction)
	assert.True(t, t10.Right().HasOtherMotorFunction)
	assert.False(t, t10.Left().HasOtherMotorFunction)

	// updating scores keeps the designation
	require.NoError(t, exam.UpdateLevel("T10", "0", "0", "0", "0", "0", "0"))
	t10, _ = exam.Level("T10")
	assert.True(t, t10.Right().HasOtherMotorFunction)

	require.NoError(t, exam.SetLowestNonKeyMuscleWithMotorFunction(Left, ""))
	_, ok = exam.LowestNonKeyMuscleWithMotorFunction(Left)
	assert.False(t, ok)

	err := exam.SetLowestNonKeyMuscleWithMotorFunction(Left, "nowhere")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	err = exam.SetLowestNonKeyMuscleWithMotorFunction(Left, "C1")
	assert.ErrorIs(t, err, ErrUnknownLevel)
	c1, _ := exam.LevelAt(ordinalC1)
	assert.False(t, c1.Left().HasOtherMotorFunction)
	_, ok = exam.LowestNonKeyMuscleWithMotorFunction(Left)
	assert.False(t, ok)
}

func TestExam_Clone(t *testing.T) {
	exam := NewExam()
	exam.AnalSensation = ObservationYes

	clone := exam.Clone()
	require.NoError(t, clone.UpdateLevel("C6", "0", "0", "0", "0", "0", "0"))

	original, _ := exam.Level("C6")
	assert.Equal(t, 2, original.Right().Touch.Value)
	assert.Equal(t, ObservationYes, clone.AnalSensation)
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("Left")
	require.NoError(t, err)
	assert.Equal(t, Left, s)
	assert.Equal(t, "left", s.String())

	s, err = ParseSide("r")
	require.NoError(t, err)
	assert.Equal(t, Right, s)

	_, err = ParseSide("middle")
	assert.Error(t, err)
}
