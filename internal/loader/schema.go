package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/isncsci-mcp-server/internal/domain"
)

const examSchemaURL = "schema://isncsci/exam.json"

//go:embed schema/exam.schema.json
var examSchemaJSON []byte

var (
	examSchemaOnce sync.Once
	examSchema     *jsonschema.Schema
	examSchemaErr  error
)

// ExamSchema returns the raw JSON Schema exam documents are validated against
func ExamSchema() []byte {
	return bytes.Clone(examSchemaJSON)
}

func compiledExamSchema() (*jsonschema.Schema, error) {
	examSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(examSchemaJSON, &def); err != nil {
			examSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(examSchemaURL, def); err != nil {
			examSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}

		examSchema, examSchemaErr = c.Compile(examSchemaURL)
		if examSchemaErr != nil {
			examSchemaErr = fmt.Errorf("compile: %w", examSchemaErr)
		}
	})
	return examSchema, examSchemaErr
}

// validateDocument checks a decoded JSON value against the exam schema
func validateDocument(doc any) error {
	compiled, err := compiledExamSchema()
	if err != nil {
		return fmt.Errorf("exam schema: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return domain.NewValidationError("document", err.Error(), nil)
	}
	return nil
}

// validateRequest round-trips a request through JSON so documents decoded from
// other formats face the same schema
func validateRequest(req *domain.ExamRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	return validateDocument(doc)
}
