// Package api is the REST client for the exercise-generation backend. It
// covers the six endpoints the authoring client consumes: the skills
// overview, topic and skill suggestions, format allocation, sandbox
// preview, and template save.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to the backend. All methods take a context; cancellation of
// superseded lookups happens at the consumer (stale replies are dropped),
// not by aborting requests in flight.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// ListSkills fetches the skills overview.
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var out skillsResponse
	if err := c.getJSON(ctx, "/skills", nil, &out); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return out.Skills, nil
}

// SuggestTopics returns topic suggestions for the query text.
func (c *Client) SuggestTopics(ctx context.Context, q string) ([]string, error) {
	params := url.Values{"q": {q}}
	var out suggestionsResponse
	if err := c.getJSON(ctx, "/topics/suggest", params, &out); err != nil {
		return nil, fmt.Errorf("suggest topics: %w", err)
	}
	return out.Suggestions, nil
}

// SuggestSkills returns skill suggestions for a topic. The query text is
// optional; when empty the backend lists the topic's skills unfiltered, so
// the parameter is omitted entirely.
func (c *Client) SuggestSkills(ctx context.Context, topic, q string) ([]string, error) {
	params := url.Values{"topic": {topic}}
	if q != "" {
		params.Set("q", q)
	}
	var out suggestionsResponse
	if err := c.getJSON(ctx, "/skills/suggest", params, &out); err != nil {
		return nil, fmt.Errorf("suggest skills: %w", err)
	}
	return out.Suggestions, nil
}

// NextFormat asks the backend for the next unused format number for the
// (topic, skill) pair. Pure query; the number is only reserved at save time.
func (c *Client) NextFormat(ctx context.Context, topic, skillName string) (int, error) {
	params := url.Values{"topic": {topic}, "skill_name": {skillName}}
	var out nextFormatResponse
	if err := c.getJSON(ctx, "/templates/next-format", params, &out); err != nil {
		return 0, fmt.Errorf("next format: %w", err)
	}
	return out.NextFormat, nil
}

// Preview executes both template bodies in the backend sandbox. A non-nil
// result with Failed() true means the round trip worked but the code did
// not; a non-nil error means the round trip itself failed.
func (c *Client) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	var out PreviewResult
	if err := c.postJSON(ctx, "/preview", req, &out); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return &out, nil
}

// SaveTemplate persists a completed template. ErrSaveRejected distinguishes
// a declared-but-unsuccessful response from transport failure.
func (c *Client) SaveTemplate(ctx context.Context, tmpl Template) error {
	var out saveResponse
	if err := c.postJSON(ctx, "/templates", tmpl, &out); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	if !out.Success {
		return ErrSaveRejected
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError builds a StatusError, pulling the backend's structured error
// detail out of the body when present.
func statusError(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	detail := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		detail = body.Detail
	}
	return &StatusError{Code: resp.StatusCode, Detail: detail}
}
