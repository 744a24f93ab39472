// Package workflows runs the listing publish steps as a Temporal workflow so
// a crashed API process cannot leave a half-written listing behind.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	appsvcs "github.com/morsel-app/morsel-restaurant/services/listing/application/services"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
)

// PublishListingWorkflowName is the registered name of PublishListing.
const PublishListingWorkflowName = "PublishListing"

// Activities are the store-facing steps of the publish workflow.
type Activities struct {
	repos repositories.Repos
	log   logger.Logger
}

// NewActivities returns Activities over repos.
func NewActivities(repos repositories.Repos, log logger.Logger) *Activities {
	return &Activities{repos: repos, log: log}
}

func (a *Activities) CreateItem(ctx context.Context, item models.Item) (*models.Item, error) {
	created, err := appsvcs.CreateItem(ctx, a.repos.Items, item)
	return created, typed(unwrapStep(err))
}

func (a *Activities) AttachTags(ctx context.Context, itemID uuid.UUID, names []string) ([]models.Tag, error) {
	tags, err := appsvcs.AttachTags(ctx, a.repos.Tags, a.log, itemID, models.NewTagSet(names...))
	return tags, typed(err)
}

// CreateListingInput carries the listing step arguments.
type CreateListingInput struct {
	ItemID     uuid.UUID           `json:"item_id"`
	LocationID uuid.UUID           `json:"location_id"`
	Terms      models.ListingTerms `json:"terms"`
}

func (a *Activities) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	listing, err := appsvcs.CreateListing(ctx, a.repos.Listings, in.ItemID, in.LocationID, in.Terms)
	return listing, typed(err)
}

func (a *Activities) DetachTags(ctx context.Context, itemID uuid.UUID) error {
	return a.repos.Tags.Detach(ctx, itemID)
}

func (a *Activities) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return a.repos.Items.Delete(ctx, itemID)
}

// PublishListing creates the item, attaches its tags and creates the listing.
// Forward steps run once; when one fails the rows written before it are
// deleted and the workflow fails with an application error typed by step.
func PublishListing(ctx workflow.Context, d appsvcs.Draft) (*appsvcs.PublishResult, error) {
	forward := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	var a *Activities

	var item models.Item
	if err := workflow.ExecuteActivity(forward, a.CreateItem, d.Item).Get(forward, &item); err != nil {
		return nil, stepFailure(appsvcs.StepCreateItem, err)
	}

	var tags []models.Tag
	if err := workflow.ExecuteActivity(forward, a.AttachTags, item.ID, d.Tags).Get(forward, &tags); err != nil {
		compensate(ctx, item.ID, false)
		return nil, stepFailure(appsvcs.StepAttachTags, err)
	}

	var listing models.Listing
	in := CreateListingInput{ItemID: item.ID, LocationID: d.LocationID, Terms: d.Terms}
	if err := workflow.ExecuteActivity(forward, a.CreateListing, in).Get(forward, &listing); err != nil {
		compensate(ctx, item.ID, true)
		return nil, stepFailure(appsvcs.StepCreateListing, err)
	}

	return &appsvcs.PublishResult{Item: &item, Listing: &listing, Tags: tags}, nil
}

func compensate(ctx workflow.Context, itemID uuid.UUID, detach bool) {
	dctx, _ := workflow.NewDisconnectedContext(ctx)
	dctx = workflow.WithActivityOptions(dctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 5,
		},
	})
	log := workflow.GetLogger(ctx)
	var a *Activities
	if detach {
		if err := workflow.ExecuteActivity(dctx, a.DetachTags, itemID).Get(dctx, nil); err != nil {
			log.Error("compensate item tags", "item_id", itemID, "error", err)
		}
	}
	if err := workflow.ExecuteActivity(dctx, a.DeleteItem, itemID).Get(dctx, nil); err != nil {
		log.Error("compensate item", "item_id", itemID, "error", err)
	}
}

// sentinels cross the workflow boundary as application error types.
var sentinels = []struct {
	kind string
	err  error
}{
	{"ItemIDMissing", listingdomain.ErrItemIDMissing},
	{"InvalidListing", listingdomain.ErrInvalidListing},
	{"ItemNotFound", listingdomain.ErrItemNotFound},
	{"Constraint", backend.ErrConstraint},
	{"Conflict", backend.ErrConflict},
}

// typed wraps an activity error matching a sentinel in an application error
// of that sentinel's kind. Other errors are returned unchanged.
func typed(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return temporal.NewNonRetryableApplicationError(err.Error(), s.kind, err)
		}
	}
	return err
}

func sentinelOf(kind string) error {
	for _, s := range sentinels {
		if s.kind == kind {
			return s.err
		}
	}
	return nil
}

// stepFailure fails the workflow with an error typed by step. The sentinel
// kind of the activity error, if any, travels in the details.
func stepFailure(step string, err error) error {
	var details []any
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && sentinelOf(appErr.Type()) != nil {
		details = append(details, appErr.Type())
	}
	return temporal.NewNonRetryableApplicationError(causeMessage(err), step, nil, details...)
}

// causeMessage strips the activity wrapper so the error text is the store's.
func causeMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}

func unwrapStep(err error) error {
	var perr *appsvcs.PublishError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}

// Register adds the workflow and its activities to w.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflowWithOptions(PublishListing, workflowOptions())
	w.RegisterActivity(acts)
}

func workflowOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: PublishListingWorkflowName}
}

// TemporalWriter is an appsvcs.Writer that runs PublishListing and waits for it.
type TemporalWriter struct {
	client    client.Client
	taskQueue string
}

// NewTemporalWriter returns a TemporalWriter starting workflows on taskQueue.
func NewTemporalWriter(c client.Client, taskQueue string) *TemporalWriter {
	return &TemporalWriter{client: c, taskQueue: taskQueue}
}

func (w *TemporalWriter) Write(ctx context.Context, d appsvcs.Draft) (*appsvcs.PublishResult, error) {
	run, err := w.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("publish-%s-%s", d.ProfileID, uuid.NewString()),
		TaskQueue: w.taskQueue,
	}, PublishListingWorkflowName, d)
	if err != nil {
		return nil, fmt.Errorf("start publish workflow: %w", err)
	}

	var res appsvcs.PublishResult
	if err := run.Get(ctx, &res); err != nil {
		return nil, fromWorkflowError(err)
	}
	return &res, nil
}

// remoteError keeps the store's message and the sentinel it matched.
type remoteError struct {
	msg      string
	sentinel error
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return e.sentinel }

// fromWorkflowError turns a step-typed application error back into a
// PublishError that still matches the sentinel the activity failed with.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case appsvcs.StepCreateItem, appsvcs.StepAttachTags, appsvcs.StepCreateListing:
			var kind string
			if appErr.HasDetails() {
				_ = appErr.Details(&kind)
			}
			return &appsvcs.PublishError{
				Step: appErr.Type(),
				Err:  &remoteError{msg: appErr.Message(), sentinel: sentinelOf(kind)},
			}
		}
	}
	return fmt.Errorf("publish workflow: %w", err)
}
