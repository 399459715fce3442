package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

func TestConformanceCases(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.xml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			tc, err := LoadTestCase(path)
			require.NoError(t, err)
			require.NotNil(t, tc.Expected, "test case carries expected totals")

			result, err := RunCase(tc)
			require.NoError(t, err)
			for _, m := range result.Mismatches {
				t.Error(m.String())
			}
			assert.True(t, result.Passed())
		})
	}
}

func TestConformanceCases_PublishedSummaries(t *testing.T) {
	tests := []struct {
		file         string
		asia         string
		completeness string
		nli          string
		sensoryZPP   string
		motorZPP     string
		upperMotor   string
		lowerMotor   string
		touch        string
	}{
		{"nt_case_2.xml", "B,C,D", "I", "C5", "NA", "NA", "12", "UTD", "UTD"},
		{"nt_case_4.xml", "A,D", "C,I", "C4", "NA,S2-S3", "NA,S1", "20", "32", "UTD"},
		{"ambiguous_motor_level.xml", "C,D", "I", "C4-C6", "NA", "NA", "UTD", "20", "66"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tc, err := LoadTestCase(filepath.Join("testdata", tt.file))
			require.NoError(t, err)

			result, err := RunCase(tc)
			require.NoError(t, err)
			require.True(t, result.Passed(), "%v", result.Mismatches)

			s := isncsci.Summarize(result.Totals)
			assert.Equal(t, tt.asia, s.AsiaImpairmentScale)
			assert.Equal(t, tt.completeness, s.Completeness)
			assert.Equal(t, tt.nli, s.NeurologicalLevelOfInjury)
			assert.Equal(t, tt.sensoryZPP, s.LeftSensoryZPP)
			assert.Equal(t, tt.motorZPP, s.RightMotorZPP)
			assert.Equal(t, tt.upperMotor, s.UpperMotorTotal)
			assert.Equal(t, tt.lowerMotor, s.LowerMotorTotal)
			assert.Equal(t, tt.touch, s.TouchTotal)
		})
	}
}

func TestLoadTestCase_Fields(t *testing.T) {
	tc, err := LoadTestCase("testdata/nt_sacral.xml")
	require.NoError(t, err)

	assert.Equal(t, "nt_sacral", tc.Name)
	assert.Equal(t, "NT", tc.Request.AnalContraction)
	assert.Len(t, tc.Request.Levels, isncsci.LevelCount-1)

	e := tc.Expected
	assert.False(t, e.RightTouch.Determinable)
	assert.True(t, e.RightTouch.ContainsNT)
	assert.True(t, e.RightUpperMotor.Determinable)
	assert.Equal(t, 25, e.RightUpperMotor.Value)
	assert.Equal(t, []string{"S3", "S4_5"}, e.NeurologicalLevelOfInjury)
	assert.Equal(t, []string{"A", "B", "D", "E"}, e.ASIA)
}

func TestDecodeTestCase(t *testing.T) {
	t.Run("flat dermatomes and missing motors", func(t *testing.T) {
		doc := `<Case><NeurologyForm>
			<AnalContraction>No</AnalContraction><AnalSensation>Yes</AnalSensation>
			<RightLowestNonKeyMuscleWithMotorFunction>T8</RightLowestNonKeyMuscleWithMotorFunction>
			<Dermatome name="C6"><RightTouch>1</RightTouch><LeftTouch>2</LeftTouch><RightPrick>2</RightPrick><LeftPrick>2</LeftPrick><RightMotor>3</RightMotor></Dermatome>
		</NeurologyForm></Case>`

		tc, err := DecodeTestCase([]byte(doc))
		require.NoError(t, err)
		assert.Nil(t, tc.Expected)
		assert.Equal(t, "T8", tc.Request.RightLowestNonKeyMuscle)
		require.Len(t, tc.Request.Levels, 1)
		assert.Equal(t, domain.LevelInput{
			Name: "C6", RightTouch: "1", LeftTouch: "2", RightPrick: "2", LeftPrick: "2",
			RightMotor: "3", LeftMotor: "0",
		}, tc.Request.Levels[0])
	})

	t.Run("no form", func(t *testing.T) {
		_, err := DecodeTestCase([]byte(`<Case><Other/></Case>`))
		require.Error(t, err)
		assert.Equal(t, domain.ErrValidation, domain.ErrorCode(err))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeTestCase([]byte(`<Case><NeurologyForm>`))
		require.Error(t, err)
		assert.Equal(t, domain.ErrExamParsing, domain.ErrorCode(err))
	})

	t.Run("bad level list", func(t *testing.T) {
		doc := `<Case><NeurologyForm><AnalContraction>No</AnalContraction><AnalSensation>No</AnalSensation></NeurologyForm>
			<NeurologyFormTotals><RightSensory>C5,Q2</RightSensory></NeurologyFormTotals></Case>`
		_, err := DecodeTestCase([]byte(doc))
		require.Error(t, err)
		assert.Equal(t, domain.ErrValidation, domain.ErrorCode(err))
	})

	t.Run("bad flag", func(t *testing.T) {
		doc := `<Case><NeurologyForm><AnalContraction>No</AnalContraction><AnalSensation>No</AnalSensation></NeurologyForm>
			<NeurologyFormTotals><LeftPrickContainsNt>sometimes</LeftPrickContainsNt></NeurologyFormTotals></Case>`
		_, err := DecodeTestCase([]byte(doc))
		require.Error(t, err)
	})
}

func TestParseExpectedTotal(t *testing.T) {
	tests := []struct {
		in   string
		want ExpectedTotal
	}{
		{"12", ExpectedTotal{Value: 12, Determinable: true}},
		{" 24! ", ExpectedTotal{Value: 24, HasImpairmentNotDueToSCI: true, Determinable: true}},
		{"UTD", ExpectedTotal{}},
		{"", ExpectedTotal{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpectedTotal(tt.in))
		})
	}
}

func TestParseGradeList(t *testing.T) {
	assert.Equal(t, []string{"A", "C", "D"}, parseGradeList(" d,a, ,C,a"))
	assert.Nil(t, parseGradeList(""))
}

func TestCompare_ReportsMismatches(t *testing.T) {
	tc, err := LoadTestCase("testdata/complete_c5.xml")
	require.NoError(t, err)

	tc.Expected.RightTouch.Value = 9
	tc.Expected.LeftMotorZPP = []string{"C6"}
	tc.Expected.ASIA = []string{"B"}
	tc.Expected.TouchTotal = ExpectedTotal{} // not determinable, not compared

	result, err := RunCase(tc)
	require.NoError(t, err)
	assert.False(t, result.Passed())

	fields := map[string]Mismatch{}
	for _, m := range result.Mismatches {
		fields[m.Field] = m
	}
	assert.Len(t, fields, 3)
	assert.Equal(t, Mismatch{Field: "RightTouchTotal", Expected: "9", Actual: "8"}, fields["RightTouchTotal"])
	assert.Equal(t, "C6", fields["LeftMotorZpp"].Expected)
	assert.Equal(t, "C5", fields["LeftMotorZpp"].Actual)
	assert.Equal(t, "A", fields["AsiaImpairmentScale"].Actual)
}

func TestRunCase_WithoutExpectation(t *testing.T) {
	path := writeFile(t, "bare.xml", `<Case><NeurologyForm><AnalContraction>Yes</AnalContraction><AnalSensation>Yes</AnalSensation></NeurologyForm></Case>`)

	tc, err := LoadTestCase(path)
	require.NoError(t, err)

	result, err := RunCase(tc)
	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Equal(t, "E", result.Totals.ASIAString())
}

func TestRunCase_InvalidExam(t *testing.T) {
	_, err := RunCase(&TestCase{Name: "broken", Request: &domain.ExamRequest{AnalContraction: "?", AnalSensation: "No"}})
	assert.Error(t, err)
}
