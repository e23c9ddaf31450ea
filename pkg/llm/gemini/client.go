// Package gemini adapts the Google Gen AI SDK to llm.ChatModel.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/llm"
)

type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client is a Gemini chat client. A Client built without an API key answers
// every call with llm.ErrNotConfigured.
type Client struct {
	genai *genai.Client
	opts  Options
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.APIKey == "" {
		return &Client{opts: opts}, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{genai: c, opts: opts}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.opts.Model }

func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.Chat(ctx, systemPrompt, nil, userPrompt)
}

func (c *Client) Chat(ctx context.Context, systemPrompt string, history []llm.Message, userPrompt string) (string, error) {
	if c.genai == nil {
		return "", llm.ErrNotConfigured
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.opts.Temperature),
	}
	if c.opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.opts.MaxTokens)
	}
	if strings.TrimSpace(systemPrompt) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.opts.Model, toContents(history, userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty reply")
	}
	return text, nil
}

// toContents maps the transcript onto Gemini turns. The API wants the
// conversation to open with a user turn and roles to alternate, so leading
// assistant turns are dropped and consecutive same-role turns are joined.
func toContents(history []llm.Message, userPrompt string) []*genai.Content {
	type turn struct {
		role genai.Role
		text []string
	}
	var turns []turn
	push := func(role genai.Role, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if len(turns) == 0 && role != genai.RoleUser {
			return
		}
		if n := len(turns); n > 0 && turns[n-1].role == role {
			turns[n-1].text = append(turns[n-1].text, text)
			return
		}
		turns = append(turns, turn{role: role, text: []string{text}})
	}
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		push(role, m.Content)
	}
	push(genai.RoleUser, userPrompt)

	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		out = append(out, genai.NewContentFromText(strings.Join(t.text, "\n"), t.role))
	}
	return out
}
