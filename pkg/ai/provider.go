// Package ai holds the content providers behind dream enrichment. Each
// provider turns a dream into one piece of content: an image reference, a
// video reference or interpretation text.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned by providers that lack credentials.
var ErrNotConfigured = errors.New("provider not configured")

// ContentRequest is what a provider sees of a dream.
type ContentRequest struct {
	DreamerName string
	Title       string
	Content     string
	Mood        string
	Tags        []string

	Style    string
	Duration int
	Question string
}

type ContentProvider interface {
	Name() string
	Generate(ctx context.Context, req ContentRequest) (string, error)
}

// MediaStore persists generated binary media and returns a public URL.
type MediaStore interface {
	Put(ctx context.Context, prefix, contentType string, data []byte) (string, error)
}

// Unconfigured stands in for a provider whose credentials are missing.
type Unconfigured struct {
	Kind   string
	Reason string
}

func (u Unconfigured) Name() string { return "unconfigured" }

func (u Unconfigured) Generate(ctx context.Context, req ContentRequest) (string, error) {
	return "", fmt.Errorf("%w: %s provider: %s", ErrNotConfigured, u.Kind, u.Reason)
}

// describe renders the dream as prompt context shared by every provider.
func describe(req ContentRequest) string {
	var b strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
	}
	fmt.Fprintf(&b, "Dream: %s\n", req.Content)
	if req.Mood != "" {
		fmt.Fprintf(&b, "Mood: %s\n", req.Mood)
	}
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(req.Tags, ", "))
	}
	return b.String()
}

func imagePrompt(req ContentRequest) string {
	style := req.Style
	if style == "" {
		style = "dreamlike, surreal, soft light"
	}
	return fmt.Sprintf("An illustration of the following dream in a %s style. No text in the image.\n%s", style, describe(req))
}

func interpretationPrompt(req ContentRequest) string {
	var b strings.Builder
	b.WriteString(describe(req))
	if req.Question != "" {
		fmt.Fprintf(&b, "Question from the dreamer: %s\n", req.Question)
	}
	return b.String()
}

const interpreterInstructions = `You are Lucy, a warm and insightful dream interpreter.
Address the dreamer by name. Give a short interpretation with three parts:
symbolic meaning, emotional insights and one piece of gentle advice.
Keep it under 200 words and never give medical advice.`

func dreamerName(req ContentRequest) string {
	if req.DreamerName == "" {
		return "dreamer"
	}
	return req.DreamerName
}
