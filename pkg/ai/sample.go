package ai

import (
	"context"
	"fmt"
)

// Sample providers return canned content. They are only wired when a
// deployment asks for them explicitly.

const (
	SampleImage = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNDAwIiBoZWlnaHQ9IjMwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48dGV4dCB4PSI1MCUiIHk9IjUwJSIgZm9udC1zaXplPSIyMCIgdGV4dC1hbmNob3I9Im1pZGRsZSI+TW9jayBBSSBJbWFnZTwvdGV4dD48L3N2Zz4="
	SampleVideo = "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4"
)

type SampleImageProvider struct{}

func (SampleImageProvider) Name() string { return "sample" }

func (SampleImageProvider) Generate(ctx context.Context, req ContentRequest) (string, error) {
	return SampleImage, ctx.Err()
}

type SampleVideoProvider struct{}

func (SampleVideoProvider) Name() string { return "sample" }

func (SampleVideoProvider) Generate(ctx context.Context, req ContentRequest) (string, error) {
	return SampleVideo, ctx.Err()
}

type SampleInterpreter struct{}

func (SampleInterpreter) Name() string { return "sample" }

func (SampleInterpreter) Generate(ctx context.Context, req ContentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mood := req.Mood
	if mood == "" {
		mood = "peaceful"
	}
	return fmt.Sprintf("Hello %s! ✨\n\n"+
		"I analyzed your dream: \"%s...\"\n\n"+
		"Symbolic Meaning: transformation and personal growth.\n"+
		"Emotional Insights: mood = %s.\n"+
		"Lucy's Wisdom: trust your intuition.\n",
		dreamerName(req), truncateRunes(req.Content, 80), mood), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
