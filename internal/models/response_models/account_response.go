package response_models

import (
	"time"

	"lucidly/internal/models/db_models"
)

type QuotaResponse struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type AccountResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Email           string                   `json:"email"`
	Role            string                   `json:"role"`
	IsPremium       bool                     `json:"is_premium"`
	Bio             string                   `json:"bio"`
	Avatar          string                   `json:"avatar"`
	IsProfilePublic bool                     `json:"is_profile_public"`
	Quota           map[string]QuotaResponse `json:"quota"`
	CreatedAt       time.Time                `json:"created_at"`
}

type AuthResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	User      AccountResponse `json:"user"`
}

func NewQuotaResponse(u db_models.QuotaUsage) QuotaResponse {
	return QuotaResponse{
		Used:      u.Used,
		Limit:     u.Limit,
		Remaining: u.Remaining(),
		Unlimited: u.IsPremium,
	}
}

func NewAccountResponse(a *db_models.Account) AccountResponse {
	quota := make(map[string]QuotaResponse, len(db_models.EnrichmentKinds))
	for _, kind := range db_models.EnrichmentKinds {
		quota[string(kind)] = NewQuotaResponse(a.Usage(kind))
	}
	return AccountResponse{
		ID:              a.ID.String(),
		Name:            a.Name,
		Email:           a.Email,
		Role:            string(a.Role),
		IsPremium:       a.IsPremium,
		Bio:             a.Bio,
		Avatar:          a.Avatar,
		IsProfilePublic: a.IsProfilePublic,
		Quota:           quota,
		CreatedAt:       a.CreatedAt,
	}
}
