package enrichment_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"lucidly/internal/api/controllers"
	"lucidly/internal/config"
	"lucidly/internal/infra"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
	"lucidly/internal/services"
	"lucidly/pkg/ai"
)

var Module = fx.Provide(
	ProvideMediaStore,
	ProvideProviders,
	ProvideEnrichmentService,
	controllers.NewEnrichmentController)

// ProvideMediaStore returns nil when no bucket is configured; image URLs
// then come straight from the provider.
func ProvideMediaStore(cfg *config.Config, log *zap.Logger) (ai.MediaStore, error) {
	if !cfg.S3Enabled() {
		return nil, nil
	}
	store, err := infra.NewS3MediaStore(context.Background(), infra.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, err
	}
	log.Info("generated media stored in S3", zap.String("bucket", cfg.S3Bucket))
	return store, nil
}

// ProvideProviders picks a provider per kind. A provider chosen without
// credentials becomes ai.Unconfigured so requests fail with a clear error
// instead of falling back to sample content.
func ProvideProviders(lc fx.Lifecycle, cfg *config.Config, store ai.MediaStore, log *zap.Logger) (services.Providers, error) {
	image, err := imageProvider(cfg, store)
	if err != nil {
		return nil, err
	}
	video, err := videoProvider(cfg)
	if err != nil {
		return nil, err
	}
	interpretation, err := interpretationProvider(lc, cfg)
	if err != nil {
		return nil, err
	}

	providers := services.Providers{
		db_models.KindImage:          image,
		db_models.KindVideo:          video,
		db_models.KindInterpretation: interpretation,
	}
	for kind, p := range providers {
		log.Info("content provider selected", zap.String("kind", string(kind)), zap.String("provider", p.Name()))
	}
	return providers, nil
}

func imageProvider(cfg *config.Config, store ai.MediaStore) (ai.ContentProvider, error) {
	switch cfg.ImageProvider {
	case "", config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return ai.Unconfigured{Kind: "image", Reason: "OPENAI_API_KEY is not set"}, nil
		}
		return ai.NewOpenAIImager(ai.NewOpenAIClient(cfg.OpenAIAPIKey, ""), cfg.OpenAIImageModel, store), nil
	case config.ProviderSample:
		return ai.SampleImageProvider{}, nil
	}
	return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q. Use 'openai' or 'sample'", cfg.ImageProvider)
}

func videoProvider(cfg *config.Config) (ai.ContentProvider, error) {
	switch cfg.VideoProvider {
	case "", config.ProviderHTTP:
		if cfg.VideoAPIURL == "" {
			return ai.Unconfigured{Kind: "video", Reason: "VIDEO_API_URL is not set"}, nil
		}
		return ai.NewHTTPVideoProvider(cfg.VideoAPIURL, cfg.VideoAPIKey), nil
	case config.ProviderSample:
		return ai.SampleVideoProvider{}, nil
	}
	return nil, fmt.Errorf("unsupported VIDEO_PROVIDER %q. Use 'http' or 'sample'", cfg.VideoProvider)
}

func interpretationProvider(lc fx.Lifecycle, cfg *config.Config) (ai.ContentProvider, error) {
	name := cfg.InterpretationProvider
	if name == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			name = config.ProviderOpenAI
		case cfg.GeminiAPIKey != "":
			name = config.ProviderGemini
		default:
			return ai.Unconfigured{Kind: "interpretation", Reason: "neither OPENAI_API_KEY nor GEMINI_API_KEY is set"}, nil
		}
	}

	switch name {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return ai.Unconfigured{Kind: "interpretation", Reason: "OPENAI_API_KEY is not set"}, nil
		}
		return ai.NewOpenAIInterpreter(ai.NewOpenAIClient(cfg.OpenAIAPIKey, ""), cfg.OpenAIChatModel), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return ai.Unconfigured{Kind: "interpretation", Reason: "GEMINI_API_KEY is not set"}, nil
		}
		g, err := ai.NewGeminiInterpreter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return g.Close() }})
		return g, nil
	case config.ProviderSample:
		return ai.SampleInterpreter{}, nil
	}
	return nil, fmt.Errorf("unsupported INTERPRETATION_PROVIDER %q. Use 'openai', 'gemini' or 'sample'", name)
}

func ProvideEnrichmentService(
	repos repositories.Manager,
	ledger services.QuotaLedgerInterface,
	providers services.Providers,
	cfg *config.Config,
	log *zap.Logger,
) services.EnrichmentServiceInterface {
	return services.NewEnrichmentService(repos, ledger, providers, cfg.ProviderTimeout, log.Named("enrichment"))
}
