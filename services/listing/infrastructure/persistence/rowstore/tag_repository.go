package rowstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// TagRepository implements repositories.TagRepository.
type TagRepository struct {
	ds backend.DataStore
}

// NewTagRepository returns a TagRepository over ds.
func NewTagRepository(ds backend.DataStore) *TagRepository {
	return &TagRepository{ds: ds}
}

// All returns every stored tag.
func (r *TagRepository) All(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.ds.Select(ctx, backend.TableTags, nil)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	tags := make([]models.Tag, 0, len(rows))
	for _, row := range rows {
		id, err := row.UUID("id")
		if err != nil {
			return nil, fmt.Errorf("decode tag: %w", err)
		}
		tags = append(tags, models.Tag{
			ID:       id,
			Name:     row.String("name"),
			Category: models.TagCategory(row.String("category")),
		})
	}
	return tags, nil
}

// Attach inserts all links in one statement, skipping existing ones.
func (r *TagRepository) Attach(ctx context.Context, itemID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]backend.Row, len(tagIDs))
	for i, tagID := range tagIDs {
		rows[i] = backend.Row{"item_id": itemID, "tag_id": tagID}
	}
	if err := r.ds.InsertBatch(ctx, backend.TableItemTags, rows, "item_id", "tag_id"); err != nil {
		return fmt.Errorf("insert item tags: %w", err)
	}
	return nil
}

// Detach removes every link of itemID.
func (r *TagRepository) Detach(ctx context.Context, itemID uuid.UUID) error {
	if _, err := r.ds.Delete(ctx, backend.TableItemTags, backend.Filter{"item_id": itemID}); err != nil {
		return fmt.Errorf("delete item tags: %w", err)
	}
	return nil
}

// TagIDsForItem returns the tag ids linked to itemID.
func (r *TagRepository) TagIDsForItem(ctx context.Context, itemID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.ds.Select(ctx, backend.TableItemTags, backend.Filter{"item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("query item tags: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		id, err := row.UUID("tag_id")
		if err != nil {
			return nil, fmt.Errorf("decode item tag: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
