package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
)

// AttachTags links itemID to the stored tags whose names are selected and
// returns them. Names without a stored tag are dropped. When nothing resolves
// no link is written.
func AttachTags(ctx context.Context, repo repositories.TagRepository, log logger.Logger, itemID uuid.UUID, selected models.TagSet) ([]models.Tag, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	all, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	var (
		matched []models.Tag
		ids     []uuid.UUID
		found   = make(map[string]bool, len(selected))
	)
	for _, tag := range all {
		if selected.Contains(tag.Name) {
			matched = append(matched, tag)
			ids = append(ids, tag.ID)
			found[tag.Name] = true
		}
	}
	for _, name := range selected.Names() {
		if !found[name] {
			log.DebugContext(ctx, "dropping unknown tag", "tag", name, "item_id", itemID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := repo.Attach(ctx, itemID, ids); err != nil {
		return nil, err
	}
	return matched, nil
}

// TagNames maps tag ids to names using the full tag list.
func TagNames(all []models.Tag, ids []uuid.UUID) []string {
	byID := make(map[uuid.UUID]string, len(all))
	for _, t := range all {
		byID[t.ID] = t.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			names = append(names, n)
		}
	}
	return models.NewTagSet(names...).Names()
}
