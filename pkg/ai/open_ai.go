package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIClient builds a client; baseURL is only set by tests and proxies.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

type OpenAIInterpreter struct {
	client *openai.Client
	model  string
}

func NewOpenAIInterpreter(client *openai.Client, model string) *OpenAIInterpreter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIInterpreter{client: client, model: model}
}

func (o *OpenAIInterpreter) Name() string { return "openai" }

func (o *OpenAIInterpreter) Generate(ctx context.Context, req ContentRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: interpreterInstructions},
			{Role: openai.ChatMessageRoleUser, Content: "Dreamer: " + dreamerName(req) + "\n" + interpretationPrompt(req)},
		},
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty interpretation from LLM")
	}
	return text, nil
}

// OpenAIImager renders dreams with the images endpoint. With a media store
// the image is fetched as base64 and re-hosted, since OpenAI URLs expire.
type OpenAIImager struct {
	client *openai.Client
	model  string
	store  MediaStore
}

func NewOpenAIImager(client *openai.Client, model string, store MediaStore) *OpenAIImager {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAIImager{client: client, model: model, store: store}
}

func (o *OpenAIImager) Name() string { return "openai" }

func (o *OpenAIImager) Generate(ctx context.Context, req ContentRequest) (string, error) {
	format := openai.CreateImageResponseFormatURL
	if o.store != nil {
		format = openai.CreateImageResponseFormatB64JSON
	}

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         imagePrompt(req),
		Model:          o.model,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", errors.New("no image returned")
	}

	img := resp.Data[0]
	if o.store == nil {
		if img.URL == "" {
			return "", errors.New("image response without url")
		}
		return img.URL, nil
	}

	data, err := base64.StdEncoding.DecodeString(img.B64JSON)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return o.store.Put(ctx, "images", "image/png", data)
}
