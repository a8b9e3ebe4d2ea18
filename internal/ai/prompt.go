package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
)

//go:embed prompt.md
var promptTemplate string

// dogSummary is the listing subset providers see. Contact details and other
// fields irrelevant to explanation text stay out of the prompt.
type dogSummary struct {
	Name        string   `json:"name,omitempty"`
	Age         string   `json:"age,omitempty"`
	Size        string   `json:"size,omitempty"`
	Breeds      []string `json:"breeds,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// BuildPrompt renders the provider prompt deterministically from the fact
// pack and a reduced dog summary. Identical inputs always produce an
// identical prompt string.
func BuildPrompt(pack *facts.Pack, dog *petfinder.Dog) (string, error) {
	if pack == nil {
		return "", fmt.Errorf("fact pack is required")
	}

	packJSON, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal fact pack: %w", err)
	}

	summary := dogSummary{}
	if dog != nil {
		summary = dogSummary{
			Name:        dog.Name,
			Age:         dog.Age,
			Size:        dog.Size,
			Breeds:      dog.BreedNames(),
			Tags:        dog.Tags,
			Description: dog.Description,
		}
	}
	dogJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dog summary: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{FACTS_JSON}}", string(packJSON))
	prompt = strings.ReplaceAll(prompt, "{{DOG_JSON}}", string(dogJSON))
	return prompt, nil
}

// ParseExplanation decodes a provider response into an Explanation. The
// response may arrive inside a fenced code block; anything that does not
// decode to an object with a non-empty text field is an error.
func ParseExplanation(raw string) (*Explanation, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	text := coerceString(data["text"])
	if text == "" {
		return nil, fmt.Errorf("explanation response has no text")
	}

	return &Explanation{
		Text:             text,
		CitedPreferences: coerceStringList(data["cited_preferences"]),
		Raw:              strings.TrimSpace(raw),
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
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s := coerceString(v); s != "" && v != nil {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
