// Package engine turns player programs into action logs and, when a
// Gemini key is configured, writes starter programs on request.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/tatianab/tactics-game/internal/logger"
	"github.com/tatianab/tactics-game/internal/share"
)

//go:embed prompts/suggest_tactic.txt
var suggestTacticPrompt string

// ErrNoAssistant is returned by SuggestTactic when no API key was given.
var ErrNoAssistant = errors.New("tactic assistant is disabled: GEMINI_API_KEY is not set")

const modelName = "gemini-2.5-flash"

type Engine struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *logrus.Entry
}

// NewEngine creates an engine. An empty apiKey leaves the assistant off;
// simulations work either way.
func NewEngine(ctx context.Context, apiKey string) (*Engine, error) {
	e := &Engine{log: logger.Log.WithField("component", "engine")}
	if apiKey == "" {
		return e, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	e.client = client
	e.model = client.GenerativeModel(modelName)
	return e, nil
}

func (e *Engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// HasAssistant reports whether SuggestTactic can be used.
func (e *Engine) HasAssistant() bool { return e.model != nil }

// SuggestTactic asks Gemini for a complete program following hint.
func (e *Engine) SuggestTactic(ctx context.Context, hint string) (string, error) {
	if e.model == nil {
		return "", ErrNoAssistant
	}

	tmpl, err := template.New("suggest_tactic").Parse(suggestTacticPrompt)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := struct {
		Hint    string
		Package string
		Example string
	}{
		Hint:    hint,
		Package: GamePath,
		Example: DefaultProgram,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	resp, err := e.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	code := stripFences(string(text))
	pretty, err := share.Format(code)
	if err != nil {
		e.log.WithError(err).Warn("suggested program does not format")
		return code, nil
	}
	return pretty, nil
}

// stripFences removes a surrounding markdown code block from a reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```go")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s) + "\n"
}
