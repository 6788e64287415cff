package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/orbit/internal/utils"
)

// SchemaURL identifies the bundled schema resource.
const SchemaURL = "https://orbit.local/board.schema.json"

// bundledSchema describes the persisted task collection.
const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Orbit Board",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "priority", "status", "tags", "subtasks", "createdAt"],
    "properties": {
      "id": { "type": "string", "minLength": 1 },
      "title": { "type": "string" },
      "priority": { "type": "string", "enum": ["low", "med", "high"] },
      "status": { "type": "string", "enum": ["todo", "doing", "done"] },
      "tags": { "type": "array", "items": { "type": "string" } },
      "subtasks": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["text", "done"],
          "properties": {
            "text": { "type": "string" },
            "done": { "type": "boolean" }
          }
        }
      },
      "createdAt": { "type": "string", "format": "date-time" }
    }
  }
}`

// BundledSchema returns the embedded board schema JSON content.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Decode parses a persisted payload. An empty payload is an empty board.
func Decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return Normalize(tasks), nil
}

// Encode serializes tasks with 2-space indentation and a trailing newline.
func Encode(tasks []Task) ([]byte, error) {
	data, err := json.MarshalIndent(Normalize(Clone(tasks)), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate checks a raw payload against the bundled schema and then checks
// that task ids are unique.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema, err := jsonschema.CompileString(SchemaURL, bundledSchema)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
	} else {
		result.UsedSchema = true
		if err := schema.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
			return result
		}
	}
	warnUnknownFields(doc, result)

	tasks, err := Decode(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return result
	}
	if !result.UsedSchema {
		validateMinimal(tasks, result)
	}
	validateUniqueIDs(tasks, result)
	return result
}

// validateMinimal performs the checks the schema would otherwise cover.
func validateMinimal(tasks []Task, result *ValidationResult) {
	for i, t := range tasks {
		path := fmt.Sprintf("[%d]", i)
		switch {
		case t.ID == "":
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")})
		case !t.Priority.Valid():
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".priority", Err: fmt.Errorf("%w %q", ErrInvalidPriority, t.Priority)})
		case !t.Status.Valid():
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path + ".status", Err: fmt.Errorf("%w %q", ErrInvalidStatus, t.Status)})
		}
	}
}

var (
	taskFields    = fieldSet(Task{})
	subtaskFields = fieldSet(Subtask{})
)

// fieldSet returns the json field names of a struct value.
func fieldSet(v interface{}) map[string]bool {
	data, _ := json.Marshal(v)
	var m map[string]interface{}
	_ = json.Unmarshal(data, &m)
	fields := make(map[string]bool, len(m))
	for k := range m {
		fields[k] = true
	}
	return fields
}

// warnUnknownFields reports fields the board does not know. They do not
// invalidate the payload but are not kept when the board is saved again.
func warnUnknownFields(doc interface{}, result *ValidationResult) {
	items, ok := doc.([]interface{})
	if !ok {
		return
	}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		path := fmt.Sprintf("[%d]", i)
		for _, key := range unknownKeys(obj, taskFields) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s.%s: unknown field, dropped on next save", path, key))
		}
		subtasks, _ := obj["subtasks"].([]interface{})
		for j, sub := range subtasks {
			sobj, ok := sub.(map[string]interface{})
			if !ok {
				continue
			}
			for _, key := range unknownKeys(sobj, subtaskFields) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s.subtasks[%d].%s: unknown field, dropped on next save", path, j, key))
			}
		}
	}
}

func unknownKeys(obj map[string]interface{}, known map[string]bool) []string {
	var keys []string
	for k := range obj {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func validateUniqueIDs(tasks []Task, result *ValidationResult) {
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("%w %q (first at [%d])", ErrDuplicateID, t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
