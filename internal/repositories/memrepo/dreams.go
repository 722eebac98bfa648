package memrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"lucidly/internal/models/db_models"
	"lucidly/internal/repositories"
)

type dreamRepo struct {
	v *view
}

func (r *dreamRepo) Insert(ctx context.Context, dream *db_models.Dream) error {
	st, unlock := r.v.lock()
	defer unlock()

	dream.Prepare()
	st.dreams[dream.ID] = copyDream(dream)
	st.order = append(st.order, dream.ID)
	return nil
}

func (r *dreamRepo) FindByIdAndOwner(ctx context.Context, id, owner uuid.UUID) (*db_models.Dream, error) {
	st, unlock := r.v.lock()
	defer unlock()

	d, ok := st.dreams[id]
	if !ok || d.UserID != owner {
		return nil, nil
	}
	return copyDream(d), nil
}

func (r *dreamRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]db_models.Dream, error) {
	st, unlock := r.v.lock()
	defer unlock()

	return st.newestFirst(func(d *db_models.Dream) bool { return d.UserID == owner }, 0), nil
}

func (r *dreamRepo) Update(ctx context.Context, id, owner uuid.UUID, fields map[string]interface{}) (bool, error) {
	st, unlock := r.v.lock()
	defer unlock()

	d, ok := st.dreams[id]
	if !ok || d.UserID != owner {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case repositories.ColTitle:
			d.Title, _ = v.(string)
		case repositories.ColContent:
			d.Content, _ = v.(string)
		case repositories.ColMood:
			d.Mood, _ = v.(string)
		case repositories.ColTags:
			tags, _ := v.(pq.StringArray)
			d.Tags = append(pq.StringArray(nil), tags...)
		}
	}
	d.UpdatedAt = now()
	return true, nil
}

func (r *dreamRepo) ApplyEnrichment(ctx context.Context, id, owner uuid.UUID, kind db_models.EnrichmentKind, value string) (bool, error) {
	if !kind.Valid() {
		return false, errors.New("unknown enrichment kind: " + string(kind))
	}
	st, unlock := r.v.lock()
	defer unlock()

	d, ok := st.dreams[id]
	if !ok || d.UserID != owner {
		return false, nil
	}
	d.SetSlot(kind, value)
	d.IsPublic = true
	d.UpdatedAt = now()
	return true, nil
}

func (r *dreamRepo) Delete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	st, unlock := r.v.lock()
	defer unlock()

	d, ok := st.dreams[id]
	if !ok || d.UserID != owner {
		return false, nil
	}
	st.removeDream(id)
	return true, nil
}

func (r *dreamRepo) DeleteByOwner(ctx context.Context, owner uuid.UUID) error {
	st, unlock := r.v.lock()
	defer unlock()

	for id, d := range st.dreams {
		if d.UserID == owner {
			st.removeDream(id)
		}
	}
	return nil
}

func (r *dreamRepo) ListPublicEnriched(ctx context.Context, limit int) ([]db_models.Dream, error) {
	st, unlock := r.v.lock()
	defer unlock()

	return st.newestFirst(func(d *db_models.Dream) bool { return d.IsPublic && d.IsEnriched() }, limit), nil
}

func (s *state) removeDream(id uuid.UUID) {
	delete(s.dreams, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// newestFirst walks insertion order backwards; created_at never decreases
// along it, so this is newest-first with ties broken by insertion.
func (s *state) newestFirst(match func(d *db_models.Dream) bool, limit int) []db_models.Dream {
	out := make([]db_models.Dream, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		d := s.dreams[s.order[i]]
		if d == nil || !match(d) {
			continue
		}
		out = append(out, *copyDream(d))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func copyDream(d *db_models.Dream) *db_models.Dream {
	c := *d
	c.Tags = append(pq.StringArray(nil), d.Tags...)
	c.Interpretation = copyString(d.Interpretation)
	c.Image = copyString(d.Image)
	c.Video = copyString(d.Video)
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func now() time.Time { return time.Now().UTC() }
