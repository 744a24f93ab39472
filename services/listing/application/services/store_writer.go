package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
	domainsvcs "github.com/morsel-app/morsel-restaurant/services/listing/domain/services"
)

// StoreWriter writes a Draft straight to the store. The three steps share one
// transaction when the store is atomic; otherwise a failed step deletes the
// rows written before it.
type StoreWriter struct {
	store repositories.Store
	log   logger.Logger
}

// NewStoreWriter returns a StoreWriter over store.
func NewStoreWriter(store repositories.Store, log logger.Logger) *StoreWriter {
	return &StoreWriter{store: store, log: log}
}

func (w *StoreWriter) Write(ctx context.Context, d Draft) (*PublishResult, error) {
	if w.store.Atomic() {
		var res *PublishResult
		err := w.store.WithinTx(ctx, func(ctx context.Context, r repositories.Repos) error {
			var err error
			res, err = RunSteps(ctx, r, w.log, d)
			return err
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	r := w.store.Repos()
	res, err := RunSteps(ctx, r, w.log, d)
	if err != nil {
		w.compensate(ctx, r, err)
		return nil, err
	}
	return res, nil
}

// stepError carries the created item id so compensation knows what to undo.
type stepError struct {
	*PublishError
	itemID uuid.UUID
}

func (e *stepError) Unwrap() error { return e.PublishError }

// RunSteps creates the item, attaches the selected tags and creates the listing.
// Errors are *PublishError naming the failed step.
func RunSteps(ctx context.Context, r repositories.Repos, log logger.Logger, d Draft) (*PublishResult, error) {
	item, err := CreateItem(ctx, r.Items, d.Item)
	if err != nil {
		return nil, err
	}

	tags, err := AttachTags(ctx, r.Tags, log, item.ID, models.NewTagSet(d.Tags...))
	if err != nil {
		return nil, &stepError{&PublishError{Step: StepAttachTags, Err: err}, item.ID}
	}

	listing, err := CreateListing(ctx, r.Listings, item.ID, d.LocationID, d.Terms)
	if err != nil {
		return nil, &stepError{&PublishError{Step: StepCreateListing, Err: err}, item.ID}
	}

	return &PublishResult{Item: item, Listing: listing, Tags: tags}, nil
}

// CreateItem inserts item and fails with ErrItemIDMissing when no id comes back.
func CreateItem(ctx context.Context, repo repositories.ItemRepository, item models.Item) (*models.Item, error) {
	if err := repo.Create(ctx, &item); err != nil {
		return nil, &PublishError{Step: StepCreateItem, Err: err}
	}
	if item.ID == uuid.Nil {
		return nil, &PublishError{Step: StepCreateItem, Err: listingdomain.ErrItemIDMissing}
	}
	return &item, nil
}

// CreateListing inserts the listing of itemID at locationID.
func CreateListing(ctx context.Context, repo repositories.ListingRepository, itemID, locationID uuid.UUID, terms models.ListingTerms) (*models.Listing, error) {
	listing := models.NewListing(itemID, locationID, terms)
	if err := domainsvcs.ValidateListingForCreation(listing); err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
	}
	if err := repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// compensate undoes the rows written before the failed step: tags, then item.
func (w *StoreWriter) compensate(ctx context.Context, r repositories.Repos, cause error) {
	var serr *stepError
	if !errors.As(cause, &serr) {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if serr.Step == StepCreateListing {
		if err := r.Tags.Detach(ctx, serr.itemID); err != nil {
			w.log.ErrorContext(ctx, "compensate item tags", "item_id", serr.itemID, "error", err)
		}
	}
	if err := r.Items.Delete(ctx, serr.itemID); err != nil {
		w.log.ErrorContext(ctx, "compensate item", "item_id", serr.itemID, "error", err)
	}
}
