// Package assistant answers free-form resume questions through a chat model.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/intake"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/llm"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/nlp"
	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

const (
	maxHistory       = 20
	maxSkillInputLen = 8_000
	MinSkillInputLen = 10
)

var replySchema = llm.MustSchema(`{
	"type": "object",
	"required": ["reply"],
	"properties": {
		"reply": {"type": "string"},
		"skills": {"type": "array", "items": {"type": "string"}},
		"certifications": {"type": "array", "items": {"type": "string"}},
		"workExperience": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["company", "jobTitle"],
				"properties": {
					"company": {"type": "string"},
					"jobTitle": {"type": "string"},
					"location": {"type": "string"},
					"startDate": {"type": "string"},
					"endDate": {"type": "string"},
					"duties": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`)

var skillsSchema = llm.MustSchema(`{"type": "array", "items": {"type": "string"}}`)

// blankReply stands in when a structured reply carries no text.
const blankReply = "Got it. What else would you like to add or change?"

// ErrTextTooShort is returned by ExtractSkills for inputs under MinSkillInputLen.
var ErrTextTooShort = errors.New("please provide enough text to analyze")

type Service struct {
	model llm.ChatModel
}

func New(model llm.ChatModel) *Service {
	return &Service{model: model}
}

type structuredReply struct {
	Reply          string             `json:"reply"`
	Skills         []string           `json:"skills"`
	Certifications []string           `json:"certifications"`
	WorkExperience []resume.WorkEntry `json:"workExperience"`
}

// Respond implements intake.Assistant. Replies that do not follow the JSON
// contract are passed through as plain text with no structured update.
func (s *Service) Respond(ctx context.Context, req intake.AssistRequest) (intake.AssistReply, error) {
	raw, err := s.model.Chat(ctx, chatPrompt(req.Profile), toHistory(req.History), req.Message)
	if err != nil {
		return intake.AssistReply{}, fmt.Errorf("assistant chat: %w", err)
	}
	var out structuredReply
	if err := replySchema.Decode(raw, &out); err != nil {
		text := strings.TrimSpace(raw)
		if text == "" {
			return intake.AssistReply{}, errors.New("assistant chat: empty reply")
		}
		log.Debug().Err(err).Msg("assistant: reply without structured data")
		return intake.AssistReply{Text: text}, nil
	}
	text := strings.TrimSpace(out.Reply)
	if text == "" {
		text = blankReply
	}
	return intake.AssistReply{
		Text:           text,
		Skills:         resume.MergeList(nil, out.Skills),
		Certifications: resume.MergeList(nil, out.Certifications),
		WorkExperience: out.WorkExperience,
	}, nil
}

// ExtractSkills asks the model for a skill list found in text. When the model
// answers with something other than a JSON array, text itself is split on
// newlines, commas and semicolons.
func (s *Service) ExtractSkills(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinSkillInputLen {
		return nil, ErrTextTooShort
	}
	text, _ = nlp.Truncate(text, maxSkillInputLen)
	raw, err := s.model.Ask(ctx, skillsPrompt, fmt.Sprintf("Text: %q", text))
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}
	var skills []string
	if err := skillsSchema.Decode(raw, &skills); err != nil {
		log.Debug().Err(err).Msg("assistant: skill reply is not a json array, splitting input")
		skills = nlp.SplitList(text, "\n,;")
	}
	return resume.MergeList(nil, skills), nil
}

func toHistory(turns []intake.Turn) []llm.Message {
	if len(turns) > maxHistory {
		turns = turns[len(turns)-maxHistory:]
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		role := llm.RoleUser
		switch strings.ToLower(t.Role) {
		case "assistant", "ai", "model":
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: content})
	}
	return out
}
