package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer"}
	}
}`

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeJSON(t, dir, "person.schema.json", personSchema)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{name: "valid", content: `{"name": "Jane", "age": 30}`},
		{name: "missing field", content: `{"age": 30}`, wantError: true},
		{name: "wrong type", content: `{"name": "Jane", "age": "thirty"}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeJSON(t, dir, tt.name+".json", tt.content)
			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeJSON(t, dir, "person.schema.json", personSchema)
	jsonPath := writeJSON(t, dir, "person.json", `{"name": "Jane"}`)

	err := ValidateJSON(filepath.Join(dir, "missing.schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeJSON(t, dir, "person.schema.json", personSchema)
	jsonPath := writeJSON(t, dir, "malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, jsonPath)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSON_ResumeRecordSchemaFile(t *testing.T) {
	schemaPath := ResolveSchemaPath(filepath.Join("schemas", "resume_record.schema.json"))
	require.NotEmpty(t, schemaPath, "schema file should be found from the package directory")

	dir := t.TempDir()
	valid := writeJSON(t, dir, "valid.json", `{"name": "Jane", "skills": ["Go"]}`)
	invalid := writeJSON(t, dir, "invalid.json", `{"name": "Jane", "skills": "Go"}`)

	assert.NoError(t, ValidateJSON(schemaPath, valid))

	err := ValidateJSON(schemaPath, invalid)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields(), "skills")
}

func TestValidateJSONBytes(t *testing.T) {
	assert.NoError(t, ValidateJSONBytes([]byte(personSchema), []byte(`{"name": "test"}`)))

	err := ValidateJSONBytes([]byte(personSchema), []byte(`{"age": 30}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"(root)"}, validationErr.Fields())
}

func TestValidateJSONBytes_InvalidSchema(t *testing.T) {
	err := ValidateJSONBytes([]byte(`{"type": 42}`), []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "(embedded schema)", loadErr.Path)
}

func TestValidateJSONBytes_NestedField(t *testing.T) {
	schema := []byte(`{
		"type": "object",
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {"name": {"type": "string"}}
			}
		}
	}`)

	err := ValidateJSONBytes(schema, []byte(`{"person": {}}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"person"}, validationErr.Fields())
}

func TestValidateResumeRecord(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		wantFields []string
	}{
		{
			name: "complete record",
			document: `{
				"name": "Jane Doe",
				"contact_number": "+1 555 0100",
				"email": "jane@example.com",
				"skills": ["Go", "SQL"],
				"languages": ["English"],
				"education": [{"degree": "BSc", "institution": "MIT", "year": 2020, "cgpa": 3.8}],
				"work_experience": [{
					"company_name": "Acme",
					"duration": "2020-2023",
					"job_title": "Engineer",
					"job_description": ["Built things"],
					"achievements": ["Shipped"]
				}]
			}`,
		},
		{name: "empty object", document: `{}`},
		{name: "unknown fields allowed", document: `{"name": "Jane", "hobbies": ["chess"]}`},
		{name: "skills as string", document: `{"skills": "Go"}`, wantFields: []string{"skills"}},
		{name: "name as number", document: `{"name": 7}`, wantFields: []string{"name"}},
		{
			name:       "job description as string",
			document:   `{"work_experience": [{"company_name": "Acme", "job_description": "Built"}]}`,
			wantFields: []string{"work_experience.0.job_description"},
		},
		{
			name:       "education year as list",
			document:   `{"education": [{"degree": "BSc", "year": [2020]}]}`,
			wantFields: []string{"education.0.year"},
		},
		{name: "root is array", document: `[]`, wantFields: []string{"(root)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResumeRecord([]byte(tt.document))
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantFields, validationErr.Fields())
		})
	}
}

func TestValidateResumeRecordFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "record.json", `{"name": "Jane"}`)
	assert.NoError(t, ValidateResumeRecordFile(path))

	err := ValidateResumeRecordFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "skills", Message: "must be an array"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. skills: must be an array")
}
