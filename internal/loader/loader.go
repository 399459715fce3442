// Package loader reads exam documents and turns them into exams ready for
// classification. JSON documents are checked against an embedded JSON Schema;
// YAML documents share the same shape; XML documents follow the test-case
// exchange format and may carry expected totals.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/isncsci-mcp-server/internal/domain"
	"github.com/isncsci-mcp-server/pkg/isncsci"
)

// Format identifies an exam document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("unknown exam format %q", s)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer exam format of %q", path)
	}
	return ParseFormat(ext)
}

// ReadFile reads an exam request from disk. An empty format is inferred from
// the file extension.
func ReadFile(path string, format Format) (*domain.ExamRequest, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exam file: %w", err)
	}

	return Decode(data, format)
}

// Decode parses an exam request in the given format
func Decode(data []byte, format Format) (*domain.ExamRequest, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatXML:
		tc, err := DecodeTestCase(data)
		if err != nil {
			return nil, err
		}
		return tc.Request, nil
	}
	return nil, fmt.Errorf("unknown exam format %q", format)
}

// DecodeJSON validates a JSON document against the exam schema and decodes it
func DecodeJSON(data []byte) (*domain.ExamRequest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, parseError("invalid JSON exam document", err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	req := &domain.ExamRequest{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, parseError("invalid JSON exam document", err)
	}

	return req, nil
}

// DecodeYAML decodes a YAML document and validates it against the exam schema
func DecodeYAML(data []byte) (*domain.ExamRequest, error) {
	req := &domain.ExamRequest{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(req); err != nil {
		return nil, parseError("invalid YAML exam document", err)
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return req, nil
}

// BuildExam converts a request into an exam. Levels not present in the request
// keep their normal values. Problems are reported as *domain.ValidationError.
func BuildExam(req *domain.ExamRequest) (*isncsci.Exam, error) {
	if req == nil {
		return nil, domain.NewValidationError("request", "exam request is required", nil)
	}

	exam := isncsci.NewExam()

	var err error
	if exam.AnalContraction, err = isncsci.ParseBinaryObservation(req.AnalContraction); err != nil {
		return nil, domain.NewValidationError("anal_contraction", err.Error(), req.AnalContraction)
	}
	if exam.AnalSensation, err = isncsci.ParseBinaryObservation(req.AnalSensation); err != nil {
		return nil, domain.NewValidationError("anal_sensation", err.Error(), req.AnalSensation)
	}

	for i, l := range req.Levels {
		rightMotor, leftMotor := motorLabel(l.RightMotor), motorLabel(l.LeftMotor)
		if err := exam.UpdateLevel(l.Name, l.RightTouch, l.LeftTouch, l.RightPrick, l.LeftPrick, rightMotor, leftMotor); err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("levels[%d].name", i), unwrapMessage(err), l.Name)
		}
	}

	if err := exam.SetLowestNonKeyMuscleWithMotorFunction(isncsci.Right, req.RightLowestNonKeyMuscle); err != nil {
		return nil, domain.NewValidationError("right_lowest_non_key_muscle", unwrapMessage(err), req.RightLowestNonKeyMuscle)
	}
	if err := exam.SetLowestNonKeyMuscleWithMotorFunction(isncsci.Left, req.LeftLowestNonKeyMuscle); err != nil {
		return nil, domain.NewValidationError("left_lowest_non_key_muscle", unwrapMessage(err), req.LeftLowestNonKeyMuscle)
	}

	return exam, nil
}

// a missing motor label counts as no contraction
func motorLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return "0"
	}
	return label
}

func unwrapMessage(err error) string {
	if errors.Is(err, isncsci.ErrUnknownLevel) {
		return isncsci.ErrUnknownLevel.Error()
	}
	return err.Error()
}

func parseError(message string, err error) error {
	return domain.NewMCPError(domain.ErrExamParsing, message, err.Error(), "")
}
