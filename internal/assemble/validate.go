// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// ValidationResult lists every problem found in a schema.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Validate checks that the exam name is set, there is at least one
// document, every document has a type and formats, no type repeats, and
// no size range has min above max.
func Validate(s types.ExamSchema) ValidationResult {
	var errs []string
	if strings.TrimSpace(s.Exam) == "" {
		errs = append(errs, "exam name is empty")
	}
	if len(s.Documents) == 0 {
		errs = append(errs, "schema has no document requirements")
	}

	seen := map[string]bool{}
	for i, d := range s.Documents {
		label := d.Type
		if strings.TrimSpace(d.Type) == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Sprintf("document %s has no type", label))
		} else if seen[d.Type] {
			errs = append(errs, fmt.Sprintf("document %s appears more than once", label))
		}
		seen[d.Type] = true

		if len(d.Requirements.Format) == 0 {
			errs = append(errs, fmt.Sprintf("document %s has no formats", label))
		}
		if e := checkRange("size_kb", d.Requirements.SizeKB); e != "" {
			errs = append(errs, fmt.Sprintf("document %s: %s", label, e))
		}
		if e := checkRange("size_mb", d.Requirements.SizeMB); e != "" {
			errs = append(errs, fmt.Sprintf("document %s: %s", label, e))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func checkRange(name string, r *types.SizeRange) string {
	if r == nil || r.Min == nil || r.Max == nil || *r.Min <= *r.Max {
		return ""
	}
	return fmt.Sprintf("%s min %g exceeds max %g", name, *r.Min, *r.Max)
}

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks a serialized schema against the published JSON shape
// and then against Validate.
func ValidateJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}

	var s types.ExamSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	if res := Validate(s); !res.IsValid {
		return fmt.Errorf("invalid schema: %s", strings.Join(res.Errors, "; "))
	}
	return nil
}
