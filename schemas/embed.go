// Package schemas holds the JSON Schemas for the artifacts the builder reads
// and writes.
package schemas

import _ "embed"

// ResumeRecordFile is the schema file name, relative to this directory
const ResumeRecordFile = "resume_record.schema.json"

// ResumeRecord is the JSON Schema for a resume record
//
//go:embed resume_record.schema.json
var ResumeRecord []byte
