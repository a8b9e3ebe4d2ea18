// Package openai generates adoption explanations through the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	gogpt "github.com/sashabaranov/go-openai"
)

const (
	defaultModel = "gpt-4o-mini"

	// Low temperature keeps the output close to the supplied facts.
	completionTemperature = 0.2
)

const systemInstruction = "You write short, factual adoption blurbs. " +
	"Follow the user's instructions exactly and respond only with JSON."

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req gogpt.ChatCompletionRequest) (gogpt.ChatCompletionResponse, error)
}

// Generator wraps the OpenAI client behind the prompt-in, text-out surface
// the Explainer expects.
type Generator struct {
	client    chatCompleter
	modelName string
}

// NewGenerator builds a Generator for the given API key. An empty model
// selects the default.
func NewGenerator(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	return &Generator{
		client:    gogpt.NewClient(apiKey),
		modelName: model,
	}, nil
}

// GenerateContent sends the prompt as a single chat turn and returns the
// first choice's text.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	req := gogpt.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []gogpt.ChatCompletionMessage{
			{Role: gogpt.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: gogpt.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: completionTemperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai returned an empty message")
	}
	return text, nil
}

// Model reports the model the generator queries.
func (g *Generator) Model() string {
	return g.modelName
}
