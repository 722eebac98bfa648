package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/response_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/ai"
	"lucidly/pkg/metrics"
	"lucidly/pkg/utils"
)

const defaultVideoDuration = 5

// Providers maps each enrichment kind to the provider that produces it.
type Providers map[db_models.EnrichmentKind]ai.ContentProvider

type EnrichmentOptions struct {
	Style    string
	Duration int
	Question string
}

type EnrichmentServiceInterface interface {
	Enrich(ctx context.Context, account *db_models.Account, dreamID string, kind db_models.EnrichmentKind, opts EnrichmentOptions) (*response_models.EnrichmentResponse, error)
}

// EnrichmentService reserves quota before calling a provider and debits it
// in the same transaction that stores the result. A failed or timed out
// provider call releases the reservation and leaves the dream untouched.
type EnrichmentService struct {
	repos     repositories.Manager
	ledger    QuotaLedgerInterface
	providers Providers
	timeout   time.Duration
	log       *zap.Logger
}

func NewEnrichmentService(
	repos repositories.Manager,
	ledger QuotaLedgerInterface,
	providers Providers,
	timeout time.Duration,
	log *zap.Logger,
) EnrichmentServiceInterface {
	return &EnrichmentService{
		repos:     repos,
		ledger:    ledger,
		providers: providers,
		timeout:   timeout,
		log:       log,
	}
}

func (e *EnrichmentService) Enrich(
	ctx context.Context,
	account *db_models.Account,
	dreamID string,
	kind db_models.EnrichmentKind,
	opts EnrichmentOptions,
) (*response_models.EnrichmentResponse, error) {
	if account == nil {
		return nil, utils.ErrUnauthenticated
	}
	if !kind.Valid() {
		return nil, utils.InvalidInput("unknown enrichment kind %q", kind)
	}

	dream, err := findOwnedDream(ctx, e.repos, account.ID, dreamID)
	if err != nil {
		if errors.Is(err, utils.ErrDreamNotFound) {
			metrics.RecordEnrichment(string(kind), metrics.OutcomeNotFound)
		}
		return nil, err
	}

	reservation, err := e.ledger.TryReserve(ctx, account.ID, kind)
	if err != nil {
		if IsQuotaExceeded(err) {
			metrics.RecordEnrichment(string(kind), metrics.OutcomeQuotaExceeded)
		}
		return nil, err
	}

	value, err := e.generate(ctx, account, dream, kind, opts)
	if err != nil {
		e.ledger.Release(ctx, reservation)
		metrics.RecordEnrichment(string(kind), metrics.OutcomeProviderError)
		return nil, err
	}

	usage, err := e.ledger.Finalize(ctx, reservation, func(tx repositories.Manager) error {
		ok, err := tx.Dreams().ApplyEnrichment(ctx, dream.ID, account.ID, kind, value)
		if err != nil {
			return storageErr("apply enrichment", err)
		}
		if !ok {
			return utils.ErrDreamNotFound
		}
		return nil
	})
	if err != nil {
		e.ledger.Release(ctx, reservation)
		e.recordFinalizeFailure(reservation, err)
		return nil, err
	}

	metrics.RecordEnrichment(string(kind), metrics.OutcomeSuccess)

	dream.SetSlot(kind, value)
	dream.IsPublic = true
	dream.UpdatedAt = time.Now().UTC()
	return &response_models.EnrichmentResponse{
		Kind:    string(kind),
		Content: value,
		Dream:   response_models.NewDreamResponse(dream),
		Quota:   response_models.NewQuotaResponse(usage),
	}, nil
}

func (e *EnrichmentService) generate(
	ctx context.Context,
	account *db_models.Account,
	dream *db_models.Dream,
	kind db_models.EnrichmentKind,
	opts EnrichmentOptions,
) (string, error) {
	provider, ok := e.providers[kind]
	if !ok || provider == nil {
		return "", fmt.Errorf("%w: no %s provider", utils.ErrProviderNotConfigured, kind)
	}

	duration := opts.Duration
	if kind == db_models.KindVideo && duration <= 0 {
		duration = defaultVideoDuration
	}
	req := ai.ContentRequest{
		DreamerName: account.Name,
		Title:       dream.Title,
		Content:     dream.Content,
		Mood:        dream.Mood,
		Tags:        []string(dream.Tags),
		Style:       strings.TrimSpace(opts.Style),
		Duration:    duration,
		Question:    strings.TrimSpace(opts.Question),
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	value, err := provider.Generate(callCtx, req)
	metrics.RecordProviderCall(string(kind), provider.Name(), time.Since(start))

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("provider", provider.Name()),
		zap.String("dream_id", dream.ID.String()),
		zap.Duration("took", time.Since(start)),
	}
	if err == nil {
		if strings.TrimSpace(value) == "" {
			e.log.Warn("content provider returned nothing", fields...)
			return "", fmt.Errorf("%w: empty result", utils.ErrProviderFailure)
		}
		return value, nil
	}

	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		e.log.Warn("content provider not configured", append(fields, zap.Error(err))...)
		return "", fmt.Errorf("%w: %v", utils.ErrProviderNotConfigured, err)
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		e.log.Warn("content provider timed out", fields...)
		return "", fmt.Errorf("%w: timed out after %s", utils.ErrProviderFailure, e.timeout)
	default:
		e.log.Warn("content provider failed", append(fields, zap.Error(err))...)
		return "", fmt.Errorf("%w: %v", utils.ErrProviderFailure, err)
	}
}

func (e *EnrichmentService) recordFinalizeFailure(r *Reservation, err error) {
	kind := string(r.Kind)
	switch {
	case IsQuotaExceeded(err):
		metrics.RecordEnrichment(kind, metrics.OutcomeQuotaExceeded)
	case errors.Is(err, utils.ErrDreamNotFound):
		metrics.RecordEnrichment(kind, metrics.OutcomeNotFound)
	default:
		metrics.RecordEnrichment(kind, metrics.OutcomeStorageError)
		e.log.Error("enrichment commit failed, reservation abandoned",
			zap.String("user_id", r.UserID.String()),
			zap.String("kind", kind),
			zap.String("reservation_id", r.ID.String()),
			zap.Error(err))
	}
}
