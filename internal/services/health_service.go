package services

import (
	"context"
	"time"

	"lucidly/internal/repositories"
)

type HealthServiceInterface interface {
	Check(ctx context.Context) error
}

type HealthService struct {
	repos repositories.Manager
}

func NewHealthService(repos repositories.Manager) HealthServiceInterface {
	return &HealthService{repos: repos}
}

func (h *HealthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.repos.Ping(ctx)
}
