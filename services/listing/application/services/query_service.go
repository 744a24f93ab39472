package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	pkgcache "github.com/morsel-app/morsel-restaurant/pkg/cache"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	domainevents "github.com/morsel-app/morsel-restaurant/services/listing/domain/events"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/repositories"
	domainsvcs "github.com/morsel-app/morsel-restaurant/services/listing/domain/services"
)

// ListingReadCache is the read model cache of active listings per location.
type ListingReadCache interface {
	Active(ctx context.Context, locationID uuid.UUID) ([]pkgcache.CachedListing, error)
	Store(ctx context.Context, locationID uuid.UUID, listings []pkgcache.CachedListing) error
	Invalidate(ctx context.Context, locationID uuid.UUID) error
}

// QuickPickOption is one preset pickup window resolved for now.
type QuickPickOption struct {
	Name  domainsvcs.QuickPick `json:"name"`
	Start time.Time            `json:"start"`
	End   time.Time            `json:"end"`
}

// QueryService serves the dashboard reads and the form helpers.
// Active listings are read through the Redis cache when one is configured.
type QueryService struct {
	repos    repositories.Repos
	state    appstate.Store
	cache    ListingReadCache
	bus      EventPublisher
	log      logger.Logger
	loc      *time.Location
	currency string
	now      func() time.Time
}

// NewQueryService returns a QueryService. cache and bus may be nil.
func NewQueryService(repos repositories.Repos, state appstate.Store, cache ListingReadCache, bus EventPublisher, log logger.Logger, loc *time.Location, currencyCode string) *QueryService {
	if loc == nil {
		loc = time.UTC
	}
	if currencyCode == "" {
		currencyCode = "USD"
	}
	return &QueryService{
		repos:    repos,
		state:    state,
		cache:    cache,
		bus:      bus,
		log:      log,
		loc:      loc,
		currency: currencyCode,
		now:      time.Now,
	}
}

// Active returns the active listings at the profile's cached location.
func (s *QueryService) Active(ctx context.Context, profileID uuid.UUID) ([]pkgcache.CachedListing, error) {
	st, err := s.state.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load app state: %w", err)
	}
	if !st.HasLocation() {
		return nil, listingdomain.ErrSetupIncomplete
	}

	if s.cache != nil {
		cached, err := s.cache.Active(ctx, st.LocationID)
		if err == nil {
			sortListings(cached)
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "listing cache read failed", "location_id", st.LocationID, "error", err)
		}
	}

	return s.Refresh(ctx, st.LocationID)
}

// Refresh rebuilds the read model of a location from the store and caches it.
func (s *QueryService) Refresh(ctx context.Context, locationID uuid.UUID) ([]pkgcache.CachedListing, error) {
	listings, err := s.repos.Listings.ActiveAtLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	var allTags []models.Tag
	if len(listings) > 0 {
		if allTags, err = s.repos.Tags.All(ctx); err != nil {
			return nil, fmt.Errorf("load tags: %w", err)
		}
	}

	out := make([]pkgcache.CachedListing, 0, len(listings))
	for _, l := range listings {
		item, err := s.repos.Items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("load item %s: %w", l.ItemID, err)
		}
		tagIDs, err := s.repos.Tags.TagIDsForItem(ctx, l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("load item tags %s: %w", l.ItemID, err)
		}
		out = append(out, toCached(l, item, TagNames(allTags, tagIDs)))
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, locationID, out); err != nil {
			s.log.WarnContext(ctx, "listing cache write failed", "location_id", locationID, "error", err)
		}
	}
	return out, nil
}

// ExpireListings deactivates listings whose window has ended, drops the
// affected cache entries and reports each location on the bus.
func (s *QueryService) ExpireListings(ctx context.Context) (int, error) {
	expired, err := s.repos.Listings.DeactivateExpired(ctx, s.now().UTC())
	byLocation := make(map[uuid.UUID][]uuid.UUID)
	for _, l := range expired {
		byLocation[l.LocationID] = append(byLocation[l.LocationID], l.ID)
	}

	for locationID, ids := range byLocation {
		if s.cache != nil {
			if cerr := s.cache.Invalidate(ctx, locationID); cerr != nil {
				s.log.WarnContext(ctx, "invalidate listing cache", "location_id", locationID, "error", cerr)
			}
		}
		if s.bus == nil {
			continue
		}
		evt := domainevents.ListingsExpiredEvent{
			EventID:    uuid.New(),
			Version:    1,
			LocationID: locationID,
			ListingIDs: ids,
			OccurredAt: s.now().UTC(),
		}
		if perr := publishEvent(ctx, s.bus, domainevents.TopicListingsExpired, evt.EventID, evt); perr != nil {
			s.log.ErrorContext(ctx, "publish listings expired", "location_id", locationID, "error", perr)
		}
	}

	if err != nil {
		return len(expired), fmt.Errorf("expire listings: %w", err)
	}
	return len(expired), nil
}

// Estimate returns the estimated earnings for a free-text price and quantity.
func (s *QueryService) Estimate(price string, quantity int, lang language.Tag) (domainsvcs.Earnings, error) {
	p, err := models.ParsePrice(price)
	if err != nil {
		return domainsvcs.Earnings{}, fmt.Errorf("%w: %w", listingdomain.ErrInvalidPrice, err)
	}
	if quantity < models.MinQuantity || quantity > models.MaxQuantity {
		return domainsvcs.Earnings{}, fmt.Errorf("%w: quantity must be between %d and %d",
			listingdomain.ErrInvalidListing, models.MinQuantity, models.MaxQuantity)
	}
	if lang == language.Und {
		lang = language.AmericanEnglish
	}
	return domainsvcs.EstimateEarnings(p, quantity, s.currency, lang)
}

// Windows resolves every quick-pick preset against the current time.
func (s *QueryService) Windows() ([]QuickPickOption, error) {
	now := s.now()
	out := make([]QuickPickOption, 0, len(domainsvcs.QuickPicks))
	for _, p := range domainsvcs.QuickPicks {
		w, err := domainsvcs.QuickPickWindow(p, now, s.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, QuickPickOption{Name: p, Start: w.Start, End: w.End})
	}
	return out, nil
}

// Vocabulary returns the fixed tag vocabulary.
func (s *QueryService) Vocabulary() []models.VocabularyEntry {
	return models.Vocabulary()
}

func toCached(l *models.Listing, item *models.Item, tags []string) pkgcache.CachedListing {
	title := item.Title.String()
	if l.TitleOverride != nil {
		title = *l.TitleOverride
	}
	c := pkgcache.CachedListing{
		ID:                l.ID,
		ItemID:            l.ItemID,
		LocationID:        l.LocationID,
		Title:             title,
		PriceCents:        int64(l.Price),
		QuantityAvailable: l.Quantity,
		AvailableNow:      l.AvailableNow,
		StartAt:           l.StartAt(),
		EndAt:             l.EndAt(),
		LeadTimeMinutes:   l.LeadTimeMinutes,
		SellUntilEnd:      l.SellUntilEnd,
		Tags:              tags,
		CreatedAt:         l.CreatedAt,
	}
	if item.Description != nil {
		c.Description = *item.Description
	}
	if l.PickupInstructions != nil {
		c.PickupInstructions = *l.PickupInstructions
	}
	return c
}

func sortListings(ls []pkgcache.CachedListing) {
	sort.SliceStable(ls, func(i, j int) bool {
		return ls[i].CreatedAt.After(ls[j].CreatedAt)
	})
}
