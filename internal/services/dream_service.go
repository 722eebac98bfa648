package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/internal/models/response_models"
	"lucidly/internal/repositories"
	"lucidly/pkg/utils"
)

const (
	autoTitleLength     = 40
	DefaultGalleryLimit = 20
	MaxGalleryLimit     = 100
)

type DreamServiceInterface interface {
	CreateDream(ctx context.Context, owner uuid.UUID, request request_models.CreateDreamRequest) (*response_models.DreamResponse, error)
	GetDream(ctx context.Context, owner uuid.UUID, id string) (*response_models.DreamResponse, error)
	ListDreams(ctx context.Context, owner uuid.UUID) ([]response_models.DreamResponse, error)
	UpdateDream(ctx context.Context, owner uuid.UUID, id string, request request_models.UpdateDreamRequest) (*response_models.DreamResponse, error)
	DeleteDream(ctx context.Context, owner uuid.UUID, id string) error
	Gallery(ctx context.Context, limit int) ([]response_models.DreamResponse, error)
}

type DreamService struct {
	repos repositories.Manager
}

func NewDreamService(repos repositories.Manager) DreamServiceInterface {
	return &DreamService{repos: repos}
}

func (d *DreamService) CreateDream(ctx context.Context, owner uuid.UUID, request request_models.CreateDreamRequest) (*response_models.DreamResponse, error) {
	content := strings.TrimSpace(request.Content)
	if content == "" {
		return nil, utils.InvalidInput("content is required")
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = autoTitle(content)
	}
	mood := strings.TrimSpace(request.Mood)
	if mood == "" {
		mood = db_models.DefaultMood
	}

	dream := &db_models.Dream{
		UserID:  owner,
		Title:   title,
		Content: content,
		Mood:    mood,
		Tags:    cleanTags(request.Tags),
	}
	if err := d.repos.Dreams().Insert(ctx, dream); err != nil {
		return nil, storageErr("insert dream", err)
	}

	resp := response_models.NewDreamResponse(dream)
	return &resp, nil
}

func (d *DreamService) GetDream(ctx context.Context, owner uuid.UUID, id string) (*response_models.DreamResponse, error) {
	dream, err := findOwnedDream(ctx, d.repos, owner, id)
	if err != nil {
		return nil, err
	}
	resp := response_models.NewDreamResponse(dream)
	return &resp, nil
}

func (d *DreamService) ListDreams(ctx context.Context, owner uuid.UUID) ([]response_models.DreamResponse, error) {
	dreams, err := d.repos.Dreams().ListByOwner(ctx, owner)
	if err != nil {
		return nil, storageErr("list dreams", err)
	}
	return response_models.NewDreamResponses(dreams), nil
}

func (d *DreamService) UpdateDream(ctx context.Context, owner uuid.UUID, id string, request request_models.UpdateDreamRequest) (*response_models.DreamResponse, error) {
	current, err := findOwnedDream(ctx, d.repos, owner, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	content := current.Content
	if request.Content != nil {
		content = strings.TrimSpace(*request.Content)
		if content == "" {
			return nil, utils.InvalidInput("content must not be blank")
		}
		fields[repositories.ColContent] = content
	}
	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			title = autoTitle(content)
		}
		fields[repositories.ColTitle] = title
	}
	if request.Mood != nil {
		mood := strings.TrimSpace(*request.Mood)
		if mood == "" {
			mood = db_models.DefaultMood
		}
		fields[repositories.ColMood] = mood
	}
	if request.Tags != nil {
		fields[repositories.ColTags] = cleanTags(*request.Tags)
	}

	if len(fields) > 0 {
		ok, err := d.repos.Dreams().Update(ctx, current.ID, owner, fields)
		if err != nil {
			return nil, storageErr("update dream", err)
		}
		if !ok {
			return nil, utils.ErrDreamNotFound
		}
	}
	return d.GetDream(ctx, owner, id)
}

func (d *DreamService) DeleteDream(ctx context.Context, owner uuid.UUID, id string) error {
	dreamID, err := uuid.Parse(id)
	if err != nil {
		return utils.ErrDreamNotFound
	}
	ok, err := d.repos.Dreams().Delete(ctx, dreamID, owner)
	if err != nil {
		return storageErr("delete dream", err)
	}
	if !ok {
		return utils.ErrDreamNotFound
	}
	return nil
}

func (d *DreamService) Gallery(ctx context.Context, limit int) ([]response_models.DreamResponse, error) {
	switch {
	case limit <= 0:
		limit = DefaultGalleryLimit
	case limit > MaxGalleryLimit:
		limit = MaxGalleryLimit
	}
	dreams, err := d.repos.Dreams().ListPublicEnriched(ctx, limit)
	if err != nil {
		return nil, storageErr("list gallery", err)
	}
	return response_models.NewDreamResponses(dreams), nil
}

// findOwnedDream treats malformed ids, unknown ids and other owners' dreams
// the same way.
func findOwnedDream(ctx context.Context, repos repositories.Manager, owner uuid.UUID, id string) (*db_models.Dream, error) {
	dreamID, err := uuid.Parse(id)
	if err != nil {
		return nil, utils.ErrDreamNotFound
	}
	dream, err := repos.Dreams().FindByIdAndOwner(ctx, dreamID, owner)
	if err != nil {
		return nil, storageErr("find dream", err)
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}
	return dream, nil
}

func autoTitle(content string) string {
	r := []rune(content)
	if len(r) <= autoTitleLength {
		return content
	}
	return string(r[:autoTitleLength]) + "..."
}

func cleanTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
