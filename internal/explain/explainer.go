// Package explain generates the human-readable layer of a match score:
// short reasons, conversation topics, and a one-line insight. The text
// is cosmetic: a failing or slow model never changes the numeric score,
// it only swaps in the generic fallback.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tandemly/tandem/internal/engine"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/scoring"
)

const (
	defaultChatTimeout = 10 * time.Second

	// maxItems caps reasons and topics regardless of what the model returns.
	maxItems = 5
)

// Chatter is the slice of the engine the explainer needs.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []engine.Message, jsonSchema *engine.Schema) (string, error)
}

// Explanation is the qualitative layer attached to a match score.
type Explanation struct {
	Reasons []string `json:"reasons"`
	Topics  []string `json:"topics"`
	Insight string   `json:"insight"`
}

// Explainer asks a chat model to describe why two profiles fit.
type Explainer struct {
	client  Chatter
	model   string
	timeout time.Duration
}

// New creates an Explainer using the given chat client and model name.
// If timeout <= 0 a 10s default applies per call.
func New(client Chatter, model string, timeout time.Duration) *Explainer {
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}
	return &Explainer{client: client, model: model, timeout: timeout}
}

// Explain produces reasons, topics, and an insight for a scored pair.
// On any failure (engine error, timeout, malformed reply) it returns the
// deterministic fallback; it never returns an error. Logs carry only the
// two ids, never profile content.
func (e *Explainer) Explain(ctx context.Context, user, candidate profile.Profile, b scoring.Breakdown, overall int) Explanation {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.Chat(ctx, e.model, []engine.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(user, candidate, b, overall)},
	}, explanationSchema())
	if err != nil {
		slog.Warn("explanation chat failed, using fallback",
			"user_id", user.ID, "candidate_id", candidate.ID, "error", err)
		return Fallback()
	}

	expl, err := parseExplanation(raw)
	if err != nil {
		slog.Warn("explanation parse failed, using fallback",
			"user_id", user.ID, "candidate_id", candidate.ID, "error", err)
		return Fallback()
	}
	return expl
}

// Fallback is the deterministic explanation used when the model is
// unavailable: two generic reasons, three generic topics, no insight.
func Fallback() Explanation {
	return Explanation{
		Reasons: []string{
			"You are both looking for a language-exchange partner",
			"Your learning goals are compatible",
		},
		Topics: []string{
			"Favorite foods from each other's countries",
			"Why you started learning your target language",
			"Music, films, and series you both enjoy",
		},
		Insight: "",
	}
}

const systemPrompt = "You help a language-exchange app describe why two members " +
	"would make good practice partners. Be specific, warm, and concise. " +
	"Respond with only the requested JSON object."

func buildPrompt(user, candidate profile.Profile, b scoring.Breakdown, overall int) string {
	var sb strings.Builder
	sb.WriteString("Member A:\n")
	writeProfile(&sb, user)
	sb.WriteString("\nMember B:\n")
	writeProfile(&sb, candidate)
	fmt.Fprintf(&sb, "\nCompatibility: %d/100 (language %d, level %d, semantic %d, schedule %d, goals %d, personality %d, topics %d).\n",
		overall, b.Language, b.Level, b.Semantic, b.Schedule, b.Goals, b.Personality, b.Topics)
	fmt.Fprintf(&sb, "\nReturn JSON with: \"reasons\" (up to %d short sentences on why A and B match), "+
		"\"topics\" (up to %d conversation starters they would both enjoy), "+
		"\"insight\" (one encouraging sentence for A about this match).", maxItems, maxItems)
	return sb.String()
}

func writeProfile(sb *strings.Builder, p profile.Profile) {
	fmt.Fprintf(sb, "- Native language: %s\n", p.NativeLanguage)
	for _, tl := range p.TargetLanguages {
		fmt.Fprintf(sb, "- Learning %s at level %s\n", tl.Code, tl.CurrentLevel)
	}
	if len(p.StudyGoals) > 0 {
		fmt.Fprintf(sb, "- Goals: %s\n", strings.Join(p.StudyGoals, ", "))
	}
	if len(p.Interests) > 0 {
		fmt.Fprintf(sb, "- Interests: %s\n", strings.Join(p.Interests, ", "))
	}
	if len(p.Personalities) > 0 {
		fmt.Fprintf(sb, "- Personality: %s\n", strings.Join(p.Personalities, ", "))
	}
}

func explanationSchema() *engine.Schema {
	return &engine.Schema{
		Type: "object",
		Properties: map[string]engine.SchemaProperty{
			"reasons": {Type: "array", Description: "Short reasons the two members match", Items: &engine.SchemaProperty{Type: "string"}},
			"topics":  {Type: "array", Description: "Conversation starters for the pair", Items: &engine.SchemaProperty{Type: "string"}},
			"insight": {Type: "string", Description: "One encouraging sentence about the match"},
		},
		Required: []string{"reasons", "topics", "insight"},
	}
}

// parseExplanation robustly extracts the explanation JSON from a model
// response. Small local models frequently wrap JSON in markdown code
// fences or prepend conversational filler, so the parser strips fences,
// extracts the outermost object by brace position, and only then
// unmarshals. Empty reasons and topics are rejected so the fallback
// kicks in instead of a blank card.
func parseExplanation(resp string) (Explanation, error) {
	s := strings.TrimSpace(resp)

	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if strings.HasPrefix(s, "json") {
			s = s[4:]
		}
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return Explanation{}, fmt.Errorf("no JSON object in response")
	}

	var expl Explanation
	if err := json.Unmarshal([]byte(s[start:end+1]), &expl); err != nil {
		return Explanation{}, fmt.Errorf("unmarshal explanation: %w", err)
	}

	expl.Reasons = trimItems(expl.Reasons)
	expl.Topics = trimItems(expl.Topics)
	if len(expl.Reasons) == 0 || len(expl.Topics) == 0 {
		return Explanation{}, fmt.Errorf("empty reasons or topics in response")
	}
	return expl, nil
}

// trimItems drops blank entries and caps the list at maxItems.
func trimItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == maxItems {
			break
		}
	}
	return out
}
