// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ResumeRecord is the field-value record used to fill a resume template
type ResumeRecord struct {
	Name           string           `json:"name"`
	ContactNumber  string           `json:"contact_number"`
	Email          string           `json:"email"`
	Skills         []string         `json:"skills"`
	Languages      []string         `json:"languages"`
	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
}

// Education represents one education entry
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	CGPA        string `json:"cgpa,omitempty"`
}

// WorkExperience represents one work history entry, rendered as one table row
type WorkExperience struct {
	CompanyName    string   `json:"company_name"`
	Duration       string   `json:"duration"`
	JobTitle       string   `json:"job_title"`
	JobDescription []string `json:"job_description"`
	Achievements   []string `json:"achievements,omitempty"`
}

// UnmarshalJSON accepts numbers and booleans for scalar fields and a single
// string for list fields.
func (r *ResumeRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name           flexString               `json:"name"`
		ContactNumber  flexString               `json:"contact_number"`
		Email          flexString               `json:"email"`
		Skills         flexList[flexString]     `json:"skills"`
		Languages      flexList[flexString]     `json:"languages"`
		Education      flexList[Education]      `json:"education"`
		WorkExperience flexList[WorkExperience] `json:"work_experience"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ResumeRecord{
		Name:           string(aux.Name),
		ContactNumber:  string(aux.ContactNumber),
		Email:          string(aux.Email),
		Skills:         toStrings(aux.Skills),
		Languages:      toStrings(aux.Languages),
		Education:      aux.Education,
		WorkExperience: aux.WorkExperience,
	}
	return nil
}

// UnmarshalJSON accepts either an object or a bare string, which is taken as
// the degree.
func (e *Education) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Education{Degree: s}
		return nil
	}
	var aux struct {
		Degree      flexString `json:"degree"`
		Institution flexString `json:"institution"`
		Year        flexString `json:"year"`
		CGPA        flexString `json:"cgpa"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Education{
		Degree:      string(aux.Degree),
		Institution: string(aux.Institution),
		Year:        string(aux.Year),
		CGPA:        string(aux.CGPA),
	}
	return nil
}

// UnmarshalJSON accepts numbers for scalar fields and a single string for the
// bullet lists.
func (w *WorkExperience) UnmarshalJSON(data []byte) error {
	var aux struct {
		CompanyName    flexString           `json:"company_name"`
		Duration       flexString           `json:"duration"`
		JobTitle       flexString           `json:"job_title"`
		JobDescription flexList[flexString] `json:"job_description"`
		Achievements   flexList[flexString] `json:"achievements"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WorkExperience{
		CompanyName:    string(aux.CompanyName),
		Duration:       string(aux.Duration),
		JobTitle:       string(aux.JobTitle),
		JobDescription: toStrings(aux.JobDescription),
		Achievements:   toStrings(aux.Achievements),
	}
	return nil
}

// ParseResumeRecord decodes a resume record from JSON
func ParseResumeRecord(data []byte) (*ResumeRecord, error) {
	var rec ResumeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume record: %w", err)
	}
	return &rec, nil
}

// LoadResumeRecord reads and decodes a resume record JSON file
func LoadResumeRecord(path string) (*ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume record file: %w", err)
	}
	return ParseResumeRecord(data)
}

// Normalize trims every field, drops empty list items and empty entries, and
// normalizes company names. Lists are never left nil.
func (r *ResumeRecord) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Email = strings.TrimSpace(r.Email)
	r.Skills = cleanList(r.Skills)
	r.Languages = cleanList(r.Languages)

	education := make([]Education, 0, len(r.Education))
	for _, e := range r.Education {
		e.Degree = strings.TrimSpace(e.Degree)
		e.Institution = strings.TrimSpace(e.Institution)
		e.Year = strings.TrimSpace(e.Year)
		e.CGPA = strings.TrimSpace(e.CGPA)
		if e == (Education{}) {
			continue
		}
		education = append(education, e)
	}
	r.Education = education

	work := make([]WorkExperience, 0, len(r.WorkExperience))
	for _, w := range r.WorkExperience {
		w.CompanyName = NormalizeCompanyName(w.CompanyName)
		w.Duration = strings.TrimSpace(w.Duration)
		w.JobTitle = strings.TrimSpace(w.JobTitle)
		w.JobDescription = cleanList(w.JobDescription)
		w.Achievements = cleanList(w.Achievements)
		if len(w.Achievements) == 0 {
			w.Achievements = nil
		}
		if w.CompanyName == "" && w.Duration == "" && w.JobTitle == "" &&
			len(w.JobDescription) == 0 && len(w.Achievements) == 0 {
			continue
		}
		work = append(work, w)
	}
	r.WorkExperience = work
}

// NormalizeCompanyName capitalizes the first letter of every word and lowers
// the rest, collapsing runs of whitespace.
func NormalizeCompanyName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ToJSON marshals the record to pretty-printed JSON
func (r *ResumeRecord) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume record: %w", err)
	}
	return data, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
