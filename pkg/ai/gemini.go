package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiInterpreter struct {
	client *genai.Client
	model  string
}

func NewGeminiInterpreter(ctx context.Context, apiKey, model string) (*GeminiInterpreter, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiInterpreter{client: client, model: model}, nil
}

func (g *GeminiInterpreter) Name() string { return "gemini" }

func (g *GeminiInterpreter) Generate(ctx context.Context, req ContentRequest) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = genai.NewUserContent(genai.Text(interpreterInstructions))
	m.SetTemperature(0.7)
	m.SetMaxOutputTokens(400)

	resp, err := m.GenerateContent(ctx, genai.Text("Dreamer: "+dreamerName(req)+"\n"+interpretationPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no candidates from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("empty interpretation from Gemini")
	}
	return text, nil
}

func (g *GeminiInterpreter) Close() error {
	return g.client.Close()
}
