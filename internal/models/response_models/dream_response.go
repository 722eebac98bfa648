package response_models

import (
	"time"

	"lucidly/internal/models/db_models"
)

type DreamResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Mood           string    `json:"mood"`
	Tags           []string  `json:"tags"`
	IsPublic       bool      `json:"is_public"`
	Interpretation *string   `json:"interpretation"`
	Image          *string   `json:"image"`
	Video          *string   `json:"video"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewDreamResponse(d *db_models.Dream) DreamResponse {
	tags := []string(d.Tags)
	if tags == nil {
		tags = []string{}
	}
	return DreamResponse{
		ID:             d.ID.String(),
		UserID:         d.UserID.String(),
		Title:          d.Title,
		Content:        d.Content,
		Mood:           d.Mood,
		Tags:           tags,
		IsPublic:       d.IsPublic,
		Interpretation: d.Interpretation,
		Image:          d.Image,
		Video:          d.Video,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func NewDreamResponses(dreams []db_models.Dream) []DreamResponse {
	out := make([]DreamResponse, 0, len(dreams))
	for i := range dreams {
		out = append(out, NewDreamResponse(&dreams[i]))
	}
	return out
}

type EnrichmentResponse struct {
	Kind    string        `json:"kind"`
	Content string        `json:"content"`
	Dream   DreamResponse `json:"dream"`
	Quota   QuotaResponse `json:"quota"`
}
