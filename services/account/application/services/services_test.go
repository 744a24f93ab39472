package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/appstate"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/lock"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	"github.com/morsel-app/morsel-restaurant/services/account/domain/models"
	"github.com/morsel-app/morsel-restaurant/services/account/infrastructure/persistence/rowstore"
)

type fixture struct {
	ds     *backend.MemoryStore
	state  *appstate.Memory
	locker *lock.Memory
	auth   *AuthService
	setup  *SetupService
}

func newFixture() *fixture {
	log := logger.New(&config.Config{LogLevel: "error"})
	ds := backend.NewMemoryStore()
	repos := rowstore.NewRepos(ds)
	provider := backend.NewPasswordAuth(ds, backend.NewMemoryRevocations(), "test-secret", time.Hour, "morsel-test")
	f := &fixture{ds: ds, state: appstate.NewMemory(), locker: lock.NewMemory()}
	f.auth = NewAuthService(provider, repos.Profiles, log)
	f.setup = NewSetupService(rowstore.NewStore(ds), f.state, f.locker, log)
	return f
}

type failingProvider struct{ backend.AuthProvider }

func (failingProvider) CurrentSession(context.Context, string) (*backend.Session, error) {
	return nil, errors.New("backend unreachable")
}

func TestAuthService_SignUpCreatesProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	name := "Joe"

	res, err := f.auth.SignUp(ctx, "Joe@Deli.com", "hunter22", &name)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if res.Session.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if res.Profile.ID == uuid.Nil || res.Profile.AuthUserID != res.Session.User.ID {
		t.Fatalf("unexpected profile %+v", res.Profile)
	}
	if res.Profile.Email != "joe@deli.com" {
		t.Errorf("expected normalized email, got %q", res.Profile.Email)
	}

	again, err := f.auth.SignIn(ctx, "joe@deli.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if again.Profile.ID != res.Profile.ID {
		t.Fatal("sign in must reuse the existing profile")
	}
	if n := len(f.ds.Rows(backend.TableProfiles)); n != 1 {
		t.Fatalf("expected 1 profile, got %d", n)
	}
}

func TestAuthService_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.auth.SignUp(ctx, "a@b.com", "pw123456", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := f.auth.SignUp(ctx, "a@b.com", "pw123456", nil); !errors.Is(err, backend.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := f.auth.SignIn(ctx, "a@b.com", "wrong"); !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	info, err := f.auth.Session(ctx, "")
	if err != nil || info.SignedIn {
		t.Fatalf("expected signed out, got %+v, %v", info, err)
	}

	res, err := f.auth.SignUp(ctx, "a@b.com", "pw123456", nil)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	info, err = f.auth.Session(ctx, res.Session.AccessToken)
	if err != nil || !info.SignedIn || info.User.ID != res.Session.User.ID {
		t.Fatalf("expected signed in, got %+v, %v", info, err)
	}

	if err := f.auth.SignOut(ctx, res.Session.AccessToken); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	info, err = f.auth.Session(ctx, res.Session.AccessToken)
	if err != nil || info.SignedIn {
		t.Fatalf("expected revoked token to be signed out, got %+v, %v", info, err)
	}
}

func TestAuthService_SessionCheckFailed(t *testing.T) {
	log := logger.New(&config.Config{LogLevel: "error"})
	svc := NewAuthService(failingProvider{}, nil, log)

	_, err := svc.Session(context.Background(), "some-token")
	if !errors.Is(err, accountdomain.ErrSessionCheckFailed) {
		t.Fatalf("expected ErrSessionCheckFailed, got %v", err)
	}
}

func TestSetupService_RestaurantThenLocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profileID := uuid.New()

	st, err := f.setup.Status(ctx, profileID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Stage != models.StageNeedsRestaurant {
		t.Fatalf("expected %s, got %s", models.StageNeedsRestaurant, st.Stage)
	}

	rest, err := f.setup.CreateRestaurant(ctx, profileID, CreateRestaurantInput{Name: "  Joe's Deli ", Address: "123 Main St"})
	if err != nil {
		t.Fatalf("CreateRestaurant: %v", err)
	}
	if rest.Name != "Joe's Deli" {
		t.Errorf("expected trimmed name, got %q", rest.Name)
	}
	members := f.ds.Rows(backend.TableRestaurantMembers)
	if len(members) != 1 || members[0].String("role") != models.MemberRoleOwner {
		t.Fatalf("expected one owner link, got %v", members)
	}

	st, _ = f.setup.Status(ctx, profileID)
	if st.Stage != models.StageNeedsLocation || st.RestaurantID != rest.ID || st.PendingAddress != "123 Main St" {
		t.Fatalf("unexpected status after restaurant: %+v", st)
	}

	loc, err := f.setup.SaveLocation(ctx, profileID, SaveLocationInput{})
	if err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	if loc.Label != "123 Main St" || loc.RestaurantID != rest.ID || !loc.IsPrimary {
		t.Fatalf("unexpected location %+v", loc)
	}

	st, _ = f.setup.Status(ctx, profileID)
	if st.Stage != models.StageReady || st.LocationID != loc.ID {
		t.Fatalf("expected ready, got %+v", st)
	}
}

func TestSetupService_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("blank name", func(t *testing.T) {
		f := newFixture()
		_, err := f.setup.CreateRestaurant(ctx, uuid.New(), CreateRestaurantInput{Name: "   "})
		if !errors.Is(err, accountdomain.ErrRestaurantNameRequired) {
			t.Fatalf("expected ErrRestaurantNameRequired, got %v", err)
		}
		if calls := f.ds.Calls(); len(calls) != 0 {
			t.Fatalf("expected no store calls, got %v", calls)
		}
	})

	t.Run("location before restaurant", func(t *testing.T) {
		f := newFixture()
		_, err := f.setup.SaveLocation(ctx, uuid.New(), SaveLocationInput{Label: "Main"})
		if !errors.Is(err, accountdomain.ErrRestaurantRequired) {
			t.Fatalf("expected ErrRestaurantRequired, got %v", err)
		}
	})

	t.Run("location without label or address", func(t *testing.T) {
		f := newFixture()
		pid := uuid.New()
		if _, err := f.setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli"}); err != nil {
			t.Fatalf("CreateRestaurant: %v", err)
		}
		_, err := f.setup.SaveLocation(ctx, pid, SaveLocationInput{})
		if !errors.Is(err, accountdomain.ErrLocationLabelRequired) {
			t.Fatalf("expected ErrLocationLabelRequired, got %v", err)
		}
	})

	t.Run("concurrent setup", func(t *testing.T) {
		f := newFixture()
		pid := uuid.New()
		release, err := f.locker.TryLock(ctx, "setup:"+pid.String(), time.Minute)
		if err != nil {
			t.Fatalf("TryLock: %v", err)
		}
		defer release()

		_, err = f.setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli"})
		if !errors.Is(err, accountdomain.ErrSetupInFlight) {
			t.Fatalf("expected ErrSetupInFlight, got %v", err)
		}
		if n := len(f.ds.Rows(backend.TableRestaurants)); n != 0 {
			t.Fatalf("expected no restaurant, got %d", n)
		}
	})
}

func TestSetupService_StoreFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pid := uuid.New()
	f.ds.FailOn("insert", backend.TableRestaurants, errors.New("boom"))

	if _, err := f.setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli"}); err == nil {
		t.Fatal("expected error")
	}
	st, _ := f.state.Get(ctx, pid)
	if st.HasRestaurant() {
		t.Fatal("restaurant must not be cached after a failed insert")
	}
}

// interleavedState runs onGet once, before the first Get is answered.
type interleavedState struct {
	*appstate.Memory
	onGet func()
}

func (s *interleavedState) Get(ctx context.Context, profileID uuid.UUID) (appstate.State, error) {
	if f := s.onGet; f != nil {
		s.onGet = nil
		f()
	}
	return s.Memory.Get(ctx, profileID)
}

func TestSetupService_SaveLocationReadsStateUnderLock(t *testing.T) {
	ctx := context.Background()
	log := logger.New(&config.Config{LogLevel: "error"})
	ds := backend.NewMemoryStore()
	state := &interleavedState{Memory: appstate.NewMemory()}
	setup := NewSetupService(rowstore.NewStore(ds), state, lock.NewMemory(), log)
	pid := uuid.New()

	first, err := setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli A"})
	if err != nil {
		t.Fatalf("CreateRestaurant A: %v", err)
	}

	var racing error
	state.onGet = func() {
		_, racing = setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli B"})
	}
	loc, err := setup.SaveLocation(ctx, pid, SaveLocationInput{Label: "Main"})
	if err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	if !errors.Is(racing, accountdomain.ErrSetupInFlight) {
		t.Fatalf("expected the racing CreateRestaurant to be refused, got %v", racing)
	}

	st, _ := state.Get(ctx, pid)
	if loc.RestaurantID != first.ID || st.RestaurantID != first.ID || st.LocationID != loc.ID {
		t.Fatalf("location %s of restaurant %s cached next to restaurant %s", loc.ID, loc.RestaurantID, st.RestaurantID)
	}
	if n := len(ds.Rows(backend.TableRestaurants)); n != 1 {
		t.Fatalf("expected 1 restaurant, got %d", n)
	}
}

// txStore is a backend.Transactor over the memory store that records which
// tables were written inside WithinTx.
type txStore struct {
	*backend.MemoryStore
	inTx       []backend.Table
	rolledBack bool
}

func (s *txStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx backend.DataStore) error) error {
	if err := fn(ctx, txView{s}); err != nil {
		s.rolledBack = true
		return err
	}
	return nil
}

type txView struct{ *txStore }

func (v txView) Insert(ctx context.Context, table backend.Table, row backend.Row) (backend.Row, error) {
	v.inTx = append(v.inTx, table)
	return v.MemoryStore.Insert(ctx, table, row)
}

func (v txView) InsertBatch(ctx context.Context, table backend.Table, rows []backend.Row, ignoreConflictOn ...string) error {
	v.inTx = append(v.inTx, table)
	return v.MemoryStore.InsertBatch(ctx, table, rows, ignoreConflictOn...)
}

func TestSetupService_CreateRestaurantIsOneTransaction(t *testing.T) {
	tests := []struct {
		name         string
		failLink     bool
		wantRollback bool
	}{
		{"both writes commit together", false, false},
		{"failed link rolls back the restaurant", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ds := &txStore{MemoryStore: backend.NewMemoryStore()}
			if tt.failLink {
				ds.FailOn("insert_batch", backend.TableRestaurantMembers, errors.New("connection reset"))
			}
			state := appstate.NewMemory()
			setup := NewSetupService(rowstore.NewStore(ds), state, lock.NewMemory(), logger.New(&config.Config{LogLevel: "error"}))
			pid := uuid.New()

			_, err := setup.CreateRestaurant(ctx, pid, CreateRestaurantInput{Name: "Deli"})
			if (err != nil) != tt.failLink {
				t.Fatalf("unexpected error %v", err)
			}
			want := []backend.Table{backend.TableRestaurants, backend.TableRestaurantMembers}
			if len(ds.inTx) != len(want) || ds.inTx[0] != want[0] || ds.inTx[1] != want[1] {
				t.Fatalf("writes inside the transaction: got %v, want %v", ds.inTx, want)
			}
			if ds.rolledBack != tt.wantRollback {
				t.Fatalf("rolled back: got %v, want %v", ds.rolledBack, tt.wantRollback)
			}
			st, _ := state.Get(ctx, pid)
			if st.HasRestaurant() == tt.failLink {
				t.Fatalf("cached restaurant %v after err %v", st.RestaurantID, err)
			}
		})
	}
}
