package templating

// BulletGlyph prefixes every expanded list item.
const BulletGlyph = "• "

// Placeholders names the tokens looked up in a template.
type Placeholders struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Education string `json:"education"`
	Skills    string `json:"skills"`
	Languages string `json:"languages"`

	// Work experience tokens; any of them marks a table row as the per-record template.
	CompanyName    string `json:"company_name"`
	Duration       string `json:"duration"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	Achievements   string `json:"achievements"`
}

// DefaultPlaceholders returns the standard bracketed tokens.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Name:           "{NAME}",
		Contact:        "{CONTACT}",
		Email:          "{EMAIL}",
		Education:      "{EDUCATION}",
		Skills:         "{SKILLS}",
		Languages:      "{LANGUAGES}",
		CompanyName:    "{COMPANYNAME}",
		Duration:       "{DURATION}",
		JobTitle:       "{JOBTITLE}",
		JobDescription: "{JOBDESCRIPTION}",
		Achievements:   "{ACHIEVEMENTS}",
	}
}

// RecordMarkers returns the tokens that identify the work experience template row.
func (p Placeholders) RecordMarkers() []string {
	return nonEmpty(p.CompanyName, p.Duration, p.JobTitle, p.JobDescription, p.Achievements)
}

// All returns every configured token.
func (p Placeholders) All() []string {
	return append(nonEmpty(p.Name, p.Contact, p.Email, p.Education, p.Skills, p.Languages), p.RecordMarkers()...)
}

// withDefaults fills empty tokens from DefaultPlaceholders.
func (p Placeholders) withDefaults() Placeholders {
	d := DefaultPlaceholders()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.Name, d.Name)
	fill(&p.Contact, d.Contact)
	fill(&p.Email, d.Email)
	fill(&p.Education, d.Education)
	fill(&p.Skills, d.Skills)
	fill(&p.Languages, d.Languages)
	fill(&p.CompanyName, d.CompanyName)
	fill(&p.Duration, d.Duration)
	fill(&p.JobTitle, d.JobTitle)
	fill(&p.JobDescription, d.JobDescription)
	fill(&p.Achievements, d.Achievements)
	return p
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
