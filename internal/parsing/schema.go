package parsing

import "github.com/google/generative-ai-go/genai"

// RecordResponseSchema describes a resume record to Gemini so JSON answers
// come back with the record's field names and list shapes. Every field is
// optional; missing values decode as empty.
func RecordResponseSchema() *genai.Schema {
	text := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
	list := func(description string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":           text("Full name of the candidate"),
			"contact_number": text("Phone number as written"),
			"email":          text("Email address"),
			"skills":         list("Technical and professional skills"),
			"languages":      list("Spoken languages"),
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"degree":      text("Degree or qualification"),
						"institution": text("School or university"),
						"year":        text("Graduation year or range"),
						"cgpa":        text("Grade point average, empty when not stated"),
					},
				},
			},
			"work_experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"company_name":    text("Employer name"),
						"duration":        text("Employment period as written"),
						"job_title":       text("Role held"),
						"job_description": list("Responsibilities, one per item"),
						"achievements":    list("Measurable achievements, one per item"),
					},
				},
			},
		},
	}
}
