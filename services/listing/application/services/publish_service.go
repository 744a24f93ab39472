package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	pkgevents "github.com/morsel-app/morsel-restaurant/pkg/events"
	"github.com/morsel-app/morsel-restaurant/pkg/idempotency"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	domainevents "github.com/morsel-app/morsel-restaurant/services/listing/domain/events"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
	domainsvcs "github.com/morsel-app/morsel-restaurant/services/listing/domain/services"
)

// Publish steps, used as the prefix of PublishError messages.
const (
	StepCreateItem    = "create item"
	StepAttachTags    = "attach tags"
	StepCreateListing = "create listing"
)

const (
	publishLockTTL = 30 * time.Second

	// A reservation outlives a crashed or cancelled publish by at most
	// pendingTTL; only a completed result is kept for idempotencyTTL.
	pendingTTL     = publishLockTTL
	idempotencyTTL = 24 * time.Hour

	// FeedbackSuccess is the haptic feedback hint returned with a published listing.
	FeedbackSuccess = "success"
)

// PublishError reports the step at which a publish stopped.
type PublishError struct {
	Step string
	Err  error
}

func (e *PublishError) Error() string { return e.Step + ": " + e.Err.Error() }

func (e *PublishError) Unwrap() error { return e.Err }

// FailedStep names the step for error reports.
func (e *PublishError) FailedStep() string { return e.Step }

// EventPublisher is the subset of the event bus the publish workflow needs.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ListingInvalidator drops cached listings of a location.
type ListingInvalidator interface {
	Invalidate(ctx context.Context, locationID uuid.UUID) error
}

// PublishInput is everything the listing form submits.
type PublishInput struct {
	ProfileID          uuid.UUID
	Title              string
	Description        *string
	TitleOverride      *string
	Price              string
	Quantity           int
	AvailableNow       bool
	StartAt            *time.Time
	EndAt              *time.Time
	Window             string // quick pick; overrides StartAt and EndAt
	LeadTimeMinutes    *int
	SellUntilEnd       bool
	PickupInstructions *string
	Tags               []string
	IdempotencyKey     string
	Lang               language.Tag
}

// PublishResult is returned by a successful publish.
type PublishResult struct {
	Item              *models.Item        `json:"item"`
	Listing           *models.Listing     `json:"listing"`
	Tags              []models.Tag        `json:"tags"`
	EstimatedEarnings domainsvcs.Earnings `json:"estimated_earnings"`
	Message           string              `json:"message"`
	Feedback          string              `json:"feedback"`
	Replayed          bool                `json:"-"`
}

// PublishDeps are the collaborators of a PublishService. Bus, Cache,
// Idempotency and Metrics are optional; Writer defaults to a StoreWriter.
type PublishDeps struct {
	Store       repositories.Store
	Writer      Writer
	State       appstate.Store
	Locker      lock.Locker
	Idempotency idempotency.Store
	Bus         EventPublisher
	Cache       ListingInvalidator
	Metrics     *telemetry.PublishMetrics
	Logger      logger.Logger
	Location    *time.Location
	Currency    string
}

// PublishService runs the listing publish workflow: item, then tags, then listing.
type PublishService struct {
	PublishDeps
	now func() time.Time
}

// NewPublishService returns a PublishService wired with deps.
func NewPublishService(deps PublishDeps) *PublishService {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Currency == "" {
		deps.Currency = "USD"
	}
	if deps.Writer == nil {
		deps.Writer = NewStoreWriter(deps.Store, deps.Logger)
	}
	return &PublishService{PublishDeps: deps, now: time.Now}
}

// UseWriter replaces the writer, e.g. with one that runs a durable workflow.
func (s *PublishService) UseWriter(w Writer) {
	s.Writer = w
}

// Draft is a validated publish request ready to be written.
type Draft struct {
	ProfileID  uuid.UUID           `json:"profile_id"`
	LocationID uuid.UUID           `json:"location_id"`
	Item       models.Item         `json:"item"`
	Terms      models.ListingTerms `json:"terms"`
	Tags       []string            `json:"tags"`
}

// Writer persists a Draft as item, tags and listing.
type Writer interface {
	Write(ctx context.Context, d Draft) (*PublishResult, error)
}

// Publish validates in and writes the item, its tags and the listing. Nothing
// touches the store until the profile has a restaurant and a location.
func (s *PublishService) Publish(ctx context.Context, in PublishInput) (*PublishResult, error) {
	d, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.TryLock(ctx, "publish:"+in.ProfileID.String(), publishLockTTL)
	if errors.Is(err, lock.ErrHeld) {
		return nil, listingdomain.ErrPublishInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("acquire publish lock: %w", err)
	}
	defer release()

	idemKey := ""
	if in.IdempotencyKey != "" && s.Idempotency != nil {
		idemKey = "publish:" + in.ProfileID.String() + ":" + in.IdempotencyKey
		stored, err := s.Idempotency.Reserve(ctx, idemKey, pendingTTL)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			return nil, listingdomain.ErrDuplicatePublish
		case err != nil:
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		case stored != nil:
			var res PublishResult
			if err := json.Unmarshal(stored, &res); err != nil {
				return nil, fmt.Errorf("decode stored publish result: %w", err)
			}
			res.Replayed = true
			return &res, nil
		}
	}

	started := s.now()
	res, err := s.Writer.Write(ctx, *d)
	if err != nil {
		step := StepCreateItem
		var perr *PublishError
		if errors.As(err, &perr) {
			step = perr.Step
		}
		s.Metrics.Failed(ctx, step, s.now().Sub(started))
		if idemKey != "" {
			if rerr := s.Idempotency.Release(context.WithoutCancel(ctx), idemKey); rerr != nil {
				s.Logger.WarnContext(ctx, "release idempotency key", "error", rerr)
			}
		}
		return nil, err
	}
	s.Metrics.Succeeded(ctx, s.now().Sub(started))

	lang := in.Lang
	if lang == language.Und {
		lang = language.AmericanEnglish
	}
	earnings, err := domainsvcs.EstimateEarnings(res.Listing.Price, res.Listing.Quantity, s.Currency, lang)
	if err != nil {
		s.Logger.WarnContext(ctx, "estimate earnings", "error", err)
	}
	res.EstimatedEarnings = earnings
	res.Message = fmt.Sprintf("%q is live", res.Item.Title.String())
	res.Feedback = FeedbackSuccess

	s.afterPublish(ctx, d, res)

	if idemKey != "" {
		if raw, err := json.Marshal(res); err == nil {
			if err := s.Idempotency.Complete(context.WithoutCancel(ctx), idemKey, raw, idempotencyTTL); err != nil {
				s.Logger.WarnContext(ctx, "store publish result", "error", err)
			}
		}
	}
	return res, nil
}

// prepare checks preconditions and validates the input without any store call.
func (s *PublishService) prepare(ctx context.Context, in PublishInput) (*Draft, error) {
	st, err := s.State.Get(ctx, in.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("load app state: %w", err)
	}
	if !st.HasRestaurant() || !st.HasLocation() {
		return nil, listingdomain.ErrSetupIncomplete
	}

	title, err := models.NewItemTitle(in.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
	}
	price, err := models.ParsePrice(in.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidPrice, err)
	}

	window, err := s.resolveWindow(in)
	if err != nil {
		return nil, err
	}
	lead := models.DefaultLeadTimeMinutes
	if in.LeadTimeMinutes != nil {
		lead = *in.LeadTimeMinutes
	}
	instructions := in.PickupInstructions
	if instructions == nil {
		def := models.DefaultPickupInstructions
		instructions = &def
	}

	terms, err := models.NewListingTerms(models.ListingTerms{
		TitleOverride:      in.TitleOverride,
		Price:              price,
		Quantity:           in.Quantity,
		AvailableNow:       in.AvailableNow,
		Window:             window,
		LeadTimeMinutes:    lead,
		SellUntilEnd:       in.SellUntilEnd,
		PickupInstructions: instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
	}

	item := models.NewItem(st.RestaurantID, title, trimmed(in.Description), price)
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
	}

	return &Draft{
		ProfileID:  in.ProfileID,
		LocationID: st.LocationID,
		Item:       *item,
		Terms:      terms,
		Tags:       models.NewTagSet(in.Tags...).Names(),
	}, nil
}

func (s *PublishService) resolveWindow(in PublishInput) (*models.PickupWindow, error) {
	if in.AvailableNow {
		return nil, nil
	}
	if in.Window != "" {
		p, err := domainsvcs.ParseQuickPick(in.Window)
		if err != nil {
			return nil, err
		}
		w, err := domainsvcs.QuickPickWindow(p, s.now(), s.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
		}
		return &w, nil
	}
	if in.StartAt == nil || in.EndAt == nil {
		return nil, fmt.Errorf("%w: a scheduled listing needs a pickup window", listingdomain.ErrInvalidListing)
	}
	w, err := models.NewPickupWindow(*in.StartAt, *in.EndAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listingdomain.ErrInvalidListing, err)
	}
	return &w, nil
}

// afterPublish emits events and drops the location's cached listings.
// Failures here are logged; the listing is already stored.
func (s *PublishService) afterPublish(ctx context.Context, d *Draft, res *PublishResult) {
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, res.Listing.LocationID); err != nil {
			s.Logger.WarnContext(ctx, "invalidate listing cache", "location_id", res.Listing.LocationID, "error", err)
		}
	}
	if s.Bus == nil {
		return
	}

	names := make([]string, len(res.Tags))
	for i, t := range res.Tags {
		names[i] = t.Name
	}
	occurred := s.now().UTC()
	created := domainevents.ItemCreatedEvent{
		EventID:      uuid.New(),
		Version:      1,
		ItemID:       res.Item.ID,
		RestaurantID: res.Item.RestaurantID,
		Title:        res.Item.Title.String(),
		OccurredAt:   occurred,
	}
	published := domainevents.ListingPublishedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ListingID:  res.Listing.ID,
		ItemID:     res.Item.ID,
		LocationID: res.Listing.LocationID,
		ProfileID:  d.ProfileID,
		Tags:       names,
		OccurredAt: occurred,
	}
	if err := publishEvent(ctx, s.Bus, domainevents.TopicItemCreated, created.EventID, created); err != nil {
		s.Logger.ErrorContext(ctx, "publish item created", "item_id", res.Item.ID, "error", err)
	}
	if err := publishEvent(ctx, s.Bus, domainevents.TopicListingPublished, published.EventID, published); err != nil {
		s.Logger.ErrorContext(ctx, "publish listing published", "listing_id", res.Listing.ID, "error", err)
	}
}

func publishEvent(ctx context.Context, bus EventPublisher, topic string, eventID uuid.UUID, event any) error {
	msg, err := pkgevents.NewMessage(eventID, 1, event)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, topic, msg)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
