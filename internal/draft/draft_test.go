package draft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func completeDraft() *Draft {
	return &Draft{
		Grade:            4,
		Topic:            "Algebra",
		SkillName:        "Linear Equations",
		Format:           3,
		Type:             "MCQ",
		QuestionTemplate: "question = '2 + 2?'",
		AnswerTemplate:   "answer = 4",
		CreatedBy:        "pat",
		UpdatedBy:        "pat",
	}
}

func TestCompleteDraftHasNoMissingFields(t *testing.T) {
	d := completeDraft()
	if got := d.Missing(); len(got) != 0 {
		t.Errorf("expected no missing fields, got %v", got)
	}
	if !d.Complete() {
		t.Error("expected draft to be complete")
	}
}

func TestMissingReportsAllEmptyFields(t *testing.T) {
	d := New("pat")
	want := []string{
		"grade", "topic", "skill name", "format", "type",
		"question template", "answer template",
	}
	if diff := cmp.Diff(want, d.Missing()); diff != "" {
		t.Errorf("missing fields mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroGradeAndFormatBlockSubmission(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   string
	}{
		{"zero grade", func(d *Draft) { d.Grade = 0 }, "grade"},
		{"zero format", func(d *Draft) { d.Format = 0 }, "format"},
		{"blank topic", func(d *Draft) { d.Topic = "   " }, "topic"},
		{"blank question", func(d *Draft) { d.QuestionTemplate = "\n" }, "question template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft()
			tt.mutate(d)
			missing := d.Missing()
			if len(missing) != 1 || missing[0] != tt.want {
				t.Errorf("expected missing=[%s], got %v", tt.want, missing)
			}
		})
	}
}
