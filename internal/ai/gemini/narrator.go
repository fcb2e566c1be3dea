package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/ai"
	"github.com/spigell/talent-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction   = "You write short, factual hiring notes. Reply with JSON only."
	defaultMaxLogLength = 200
	defaultLanguage     = "English"
)

// Narrator asks Gemini to phrase an analysis brief for recruiters.
type Narrator struct {
	generator contentGenerator
	language  string
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Narrator = (*Narrator)(nil)

func NewNarrator(generator contentGenerator, language string, maxLogLength int, logger *zap.Logger) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if language = strings.TrimSpace(language); language == "" {
		language = defaultLanguage
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		generator: generator,
		language:  language,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (n *Narrator) Narrate(ctx context.Context, brief *ai.Brief) (*ai.Narrative, error) {
	if brief == nil {
		return nil, errors.New("brief is required")
	}
	if n.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}

	briefJSON, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal brief: %w", err)
	}

	prompt := buildPrompt(string(briefJSON), n.language)

	n.logger.Debug("gemini narrative request",
		zap.String("talent_id", brief.TalentID),
		zap.String("job_id", brief.JobID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	raw, err := n.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	n.logger.Debug("gemini narrative response",
		zap.String("talent_id", brief.TalentID),
		zap.String("job_id", brief.JobID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, n.maxLogLen)),
	)

	narrative, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	narrative.Raw = raw

	return narrative, nil
}

func buildPrompt(briefJSON, language string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Language: {{LANGUAGE}}\n\nFindings:\n{{BRIEF_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{BRIEF_JSON}}", briefJSON)
	prompt = strings.ReplaceAll(prompt, "{{LANGUAGE}}", language)
	return prompt
}

func parseResponse(raw string) (*ai.Narrative, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return nil, errors.New("gemini response has no summary")
	}

	return &ai.Narrative{
		Summary:       summary,
		TalkingPoints: coerceStrings(data["talking_points"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a single newline separated string.
func coerceStrings(v any) []string {
	var out []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, line := range strings.Split(val, "\n") {
			if line = strings.TrimSpace(strings.TrimLeft(line, "-* ")); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}
