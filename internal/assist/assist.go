// Package assist drafts starter template code with an OpenAI-compatible
// chat model. It is strictly optional: when no API key is configured the
// editor simply has no drafting helper.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

const systemPrompt = `You write Python snippets for a parameterized exercise
platform. Given a topic, skill, grade level and question type, produce two
short scripts:

1. A question template that randomizes its parameters and assigns the final
   text to a variable named "question", e.g.:
   import random
   a = random.randint(1, 10)
   question = f"What is {a} + {a}?"
2. An answer template that computes the correct result from the same
   parameters and assigns it to a variable named "answer".

Respond with a JSON object: {"question_template": "...", "answer_template": "..."}.
Respond with JSON only, no markdown fences.`

// Input describes the template being authored.
type Input struct {
	Topic string
	Skill string
	Grade int
	Type  string
}

// Drafts is a pair of generated code snippets ready to drop into the
// editors.
type Drafts struct {
	QuestionTemplate string `json:"question_template"`
	AnswerTemplate   string `json:"answer_template"`
}

// ErrUnavailable indicates the model endpoint is down or rejecting
// requests.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("assist model unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrBadDraft indicates the model replied with something that is not the
// expected JSON pair.
type ErrBadDraft struct {
	Content string
	Err     error
}

func (e *ErrBadDraft) Error() string {
	return fmt.Sprintf("assist reply unusable: %v", e.Err)
}

func (e *ErrBadDraft) Unwrap() error { return e.Err }

// Generator produces template drafts. Satisfied by Service and by the
// test mock.
type Generator interface {
	GenerateTemplates(ctx context.Context, in Input) (*Drafts, error)
}

// Config holds the assist connection settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Service generates drafts through the OpenAI chat API.
type Service struct {
	client *openai.Client
	model  string
}

// New creates the assist service. The API key is required; model and base
// URL fall back to defaults.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("assist API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Service{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// GenerateTemplates asks the model for a question/answer template pair.
func (s *Service) GenerateTemplates(ctx context.Context, in Input) (*Drafts, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(in)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrBadDraft{Err: errors.New("no choices in response")}
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Skill: %s\n", in.Skill)
	if in.Grade > 0 {
		fmt.Fprintf(&b, "Grade: %d\n", in.Grade)
	}
	if in.Type != "" {
		fmt.Fprintf(&b, "Question type: %s\n", in.Type)
	}
	return b.String()
}

func parseDrafts(content string) (*Drafts, error) {
	var d Drafts
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return nil, &ErrBadDraft{Content: content, Err: err}
	}
	if strings.TrimSpace(d.QuestionTemplate) == "" || strings.TrimSpace(d.AnswerTemplate) == "" {
		return nil, &ErrBadDraft{Content: content, Err: errors.New("missing template field")}
	}
	return &d, nil
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
		return &ErrUnavailable{Err: errors.New("invalid API key")}
	}
	return &ErrUnavailable{Err: err}
}
