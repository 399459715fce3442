package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/isncsci-mcp-server/internal/version"
)

const testdata = "../../internal/loader/testdata"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "isncsci "+version.Version+"\n", out)
}

func TestLevels(t *testing.T) {
	out, err := run(t, "levels")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, lines[0], "KEY MUSCLE")
	assert.Regexp(t, `^4\s+C5\s+true\s+upper$`, lines[5])
	assert.Regexp(t, `^28\s+S4_5\s+false\s*$`, lines[29])
}

func TestClassify_Text(t *testing.T) {
	out, err := run(t, "classify", filepath.Join(testdata, "complete_c5.json"))
	require.NoError(t, err)

	assert.Regexp(t, `ASIA Impairment Scale\s+A\n`, out)
	assert.Regexp(t, `Neurological level of injury\s+C5\n`, out)
	assert.Regexp(t, `Sensory ZPP\s+C5\s+C5\n`, out)
	assert.Regexp(t, `Touch total\s+16\n`, out)
}

func TestClassify_JSON(t *testing.T) {
	out, err := run(t, "classify", "-o", "json", filepath.Join(testdata, "intact.xml"))
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "E", got.Summary.AsiaImpairmentScale)
	assert.Equal(t, "INT", got.Summary.NeurologicalLevelOfInjury)
	assert.Equal(t, []string{"S4_5"}, got.Totals.NeurologicalLevels)
}

func TestClassify_YAMLWithFormatOverride(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(testdata, "complete_c5.yaml"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "exam.txt")
	require.NoError(t, os.WriteFile(path, src, 0o600))

	out, err := run(t, "classify", "--format", "yaml", "--output", "yaml", path)
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "A", got.Summary.AsiaImpairmentScale)
	assert.Equal(t, 16, got.Totals.TouchTotal.Value)
}

func TestClassify_Errors(t *testing.T) {
	_, err := run(t, "classify", filepath.Join(testdata, "complete_c5.json"), "-o", "html")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "classify", "--format", "csv", filepath.Join(testdata, "complete_c5.json"))
	assert.Error(t, err)

	_, err = run(t, "classify", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "classify")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(testdata, "*.xml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	out, err := run(t, append([]string{"verify"}, paths...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "PASS  complete_c5")
	assert.Contains(t, out, "failed")
}

func TestVerify_Failure(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(testdata, "complete_c5.xml"))
	require.NoError(t, err)

	broken := strings.Replace(string(src), "<AsiaImpairmentScale>A</AsiaImpairmentScale>", "<AsiaImpairmentScale>B</AsiaImpairmentScale>", 1)
	path := filepath.Join(t.TempDir(), "wrong_grade.xml")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))

	out, err := run(t, "verify", path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL  wrong_grade")
	assert.Contains(t, out, `AsiaImpairmentScale: expected "B", got "A"`)
	assert.Contains(t, out, "0 passed, 1 failed")
}
