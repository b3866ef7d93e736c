package api

import "encoding/json"

// Skill is one row of the skills overview: a (topic, skill) pair and how
// many templates exist for it.
type Skill struct {
	SkillName string `json:"skill_name"`
	Topic     string `json:"topic"`
	Count     int    `json:"count"`
}

// Template is the save payload for POST /templates.
type Template struct {
	Grade            int    `json:"grade"`
	Topic            string `json:"topic"`
	SkillName        string `json:"skill_name"`
	Format           int    `json:"format"`
	Type             string `json:"type"`
	QuestionTemplate string `json:"question_template"`
	AnswerTemplate   string `json:"answer_template"`
	CreatedBy        string `json:"created_by"`
	UpdatedBy        string `json:"updated_by"`
}

// PreviewRequest carries the two template bodies and the type selector to
// the execution sandbox.
type PreviewRequest struct {
	QuestionTemplate string `json:"question_template"`
	AnswerTemplate   string `json:"answer_template"`
	Type             string `json:"type"`
}

// PreviewResult is the sandbox outcome. Exactly one of the two arms is
// populated: question/answer on success, Error (plus ErrorType) when the
// submitted code failed to run. An execution failure is a successful HTTP
// round trip; transport problems surface as errors from Preview instead.
type PreviewResult struct {
	Question  json.RawMessage `json:"question"`
	Answer    json.RawMessage `json:"answer"`
	Error     string          `json:"error"`
	ErrorType string          `json:"error_type"`
}

// Failed reports whether the sandbox rejected the template code.
func (r *PreviewResult) Failed() bool {
	return r.Error != ""
}

type skillsResponse struct {
	Skills []Skill `json:"skills"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type nextFormatResponse struct {
	NextFormat int `json:"next_format"`
}

type saveResponse struct {
	Success bool `json:"success"`
}
