// Package draft holds the in-memory template being authored and the
// dependency rules between its fields.
package draft

import "strings"

// Question types accepted by the platform.
var Types = []string{"MCQ", "MAQ", "FIB", "TF"}

// Draft is the template under construction. It exists only in client memory
// until a successful save; the backend assigns identity on persistence.
type Draft struct {
	Grade            int
	Topic            string
	SkillName        string
	Format           int
	Type             string
	QuestionTemplate string
	AnswerTemplate   string
	CreatedBy        string
	UpdatedBy        string
}

// New creates an empty draft authored by the given user. The author also
// becomes the updater, matching what the backend expects on create.
func New(author string) *Draft {
	return &Draft{CreatedBy: author, UpdatedBy: author}
}

// fieldLabels pairs each required field with its user-facing name, in form
// order. Grade and format count as missing when zero.
var fieldLabels = []struct {
	label string
	empty func(*Draft) bool
}{
	{"grade", func(d *Draft) bool { return d.Grade == 0 }},
	{"topic", func(d *Draft) bool { return strings.TrimSpace(d.Topic) == "" }},
	{"skill name", func(d *Draft) bool { return strings.TrimSpace(d.SkillName) == "" }},
	{"format", func(d *Draft) bool { return d.Format == 0 }},
	{"type", func(d *Draft) bool { return d.Type == "" }},
	{"question template", func(d *Draft) bool { return strings.TrimSpace(d.QuestionTemplate) == "" }},
	{"answer template", func(d *Draft) bool { return strings.TrimSpace(d.AnswerTemplate) == "" }},
	{"author", func(d *Draft) bool { return d.CreatedBy == "" }},
}

// Missing returns the user-facing names of all required fields that are
// still empty, in form order. An empty result means the draft is complete
// and may be submitted.
func (d *Draft) Missing() []string {
	var missing []string
	for _, f := range fieldLabels {
		if f.empty(d) {
			missing = append(missing, f.label)
		}
	}
	return missing
}

// Complete reports whether every required field is filled.
func (d *Draft) Complete() bool {
	return len(d.Missing()) == 0
}
