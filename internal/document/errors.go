package document

import "fmt"

// TemplateLoadError is returned when a template is missing or is not a readable .docx package
type TemplateLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateLoadError) Error() string {
	msg := fmt.Sprintf("template load error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("template load error (%s): %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TemplateLoadError) Unwrap() error {
	return e.Cause
}

// SaveError is returned when a document cannot be serialized or written
type SaveError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SaveError) Error() string {
	msg := fmt.Sprintf("save error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("save error (%s): %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}
