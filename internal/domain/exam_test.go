package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isncsci-mcp-server/pkg/isncsci"
)

func TestNewTotalsView(t *testing.T) {
	exam := isncsci.NewExam()
	exam.AnalContraction = isncsci.ObservationNo
	exam.AnalSensation = isncsci.ObservationNo
	for _, name := range isncsci.LevelNames()[5:] {
		require.NoError(t, exam.UpdateLevel(name, "0", "0", "0", "0", "0", "0"))
	}

	view := NewTotalsView(isncsci.Classify(exam))

	assert.Equal(t, []string{"A"}, view.AsiaImpairmentScale)
	assert.Equal(t, []string{"C5"}, view.NeurologicalLevels)
	assert.False(t, view.SensoryIncomplete)

	for _, side := range []SideView{view.Right, view.Left} {
		assert.Equal(t, []string{"C5"}, side.SensoryLevels)
		assert.Equal(t, []string{"C5"}, side.MotorLevels)
		assert.Equal(t, []string{"C5"}, side.SensoryZPP)
		assert.Equal(t, TotalView{Value: 8}, side.Touch)
		assert.Equal(t, TotalView{Value: 5}, side.Motor)
		assert.Equal(t, "C5", side.MostCaudalLevelWithMotorFunction)
	}

	assert.Equal(t, 10, view.UpperMotorTotal.Value)
	assert.Equal(t, 16, view.TouchTotal.Value)
}
