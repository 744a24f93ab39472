package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/config"
	"github.com/morsel-app/morsel-restaurant/pkg/database"
	"github.com/morsel-app/morsel-restaurant/pkg/logger"
	"github.com/morsel-app/morsel-restaurant/pkg/migrator"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

func TestMigrations_SeedMatchesVocabulary(t *testing.T) {
	seed, err := fs.ReadFile(MigrationsFS, "00004_seed_tags.sql")
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	sql := string(seed)
	for _, v := range models.Vocabulary() {
		row := "('" + v.Name + "', '" + string(v.Category) + "')"
		if !strings.Contains(sql, row) {
			t.Errorf("seed is missing %s", row)
		}
	}
}

func TestMigrations_GooseAnnotations(t *testing.T) {
	files, err := fs.Glob(MigrationsFS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations embedded")
	}
	for _, name := range files {
		body, err := fs.ReadFile(MigrationsFS, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
			t.Errorf("%s lacks goose up/down annotations", name)
		}
	}
}

// Integration tests, skipped unless DATABASE_URL is set. They apply every
// migration and check the schema enforces the listing invariants.

func TestMigrations_Postgres(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}
	ctx := context.Background()
	log := logger.New(&config.Config{LogLevel: "error"})

	m, err := migrator.New(dbURL, MigrationsFS, log)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	if err := m.Up(ctx); err != nil {
		t.Fatalf("up: %v", err)
	}
	if pending, err := m.Status(ctx); err != nil || pending {
		t.Fatalf("status after up: pending=%v err=%v", pending, err)
	}

	db, err := database.NewPool(ctx, dbURL, log)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(db.Close)
	store := backend.NewPostgresStore(db)

	tags, err := store.Select(ctx, backend.TableTags, nil)
	if err != nil {
		t.Fatalf("select tags: %v", err)
	}
	if len(tags) < len(models.Vocabulary()) {
		t.Fatalf("expected the seeded vocabulary, got %d tags", len(tags))
	}

	email := "migrations-" + uuid.NewString() + "@morsel.test"
	user, err := store.Insert(ctx, backend.TableAuthUsers, backend.Row{"email": email, "password_hash": "x"})
	if err != nil {
		t.Fatalf("insert auth user: %v", err)
	}
	profile, err := store.Insert(ctx, backend.TableProfiles, backend.Row{"auth_user_id": user["id"], "email": email})
	if err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	restaurant, err := store.Insert(ctx, backend.TableRestaurants, backend.Row{"owner_profile_id": profile["id"], "name": "Bakery"})
	if err != nil {
		t.Fatalf("insert restaurant: %v", err)
	}
	location, err := store.Insert(ctx, backend.TableLocations, backend.Row{"restaurant_id": restaurant["id"], "label": "Main St"})
	if err != nil {
		t.Fatalf("insert location: %v", err)
	}
	item, err := store.Insert(ctx, backend.TableItems, backend.Row{"restaurant_id": restaurant["id"], "title": "Bagels"})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}

	link := []backend.Row{{"item_id": item["id"], "tag_id": tags[0]["id"]}}
	for range 2 {
		if err := store.InsertBatch(ctx, backend.TableItemTags, link, "item_id", "tag_id"); err != nil {
			t.Fatalf("attach tag twice: %v", err)
		}
	}

	start := time.Now().UTC()
	tests := []struct {
		name string
		row  backend.Row
	}{
		{"quantity above range", backend.Row{"quantity_available": 501, "available_now": true}},
		{"available now with window", backend.Row{"quantity_available": 1, "available_now": true, "start_at": start, "end_at": start.Add(time.Hour)}},
		{"end before start", backend.Row{"quantity_available": 1, "available_now": false, "start_at": start, "end_at": start.Add(-time.Hour)}},
		{"lead time above range", backend.Row{"quantity_available": 1, "available_now": true, "lead_time_minutes": 121}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.row["item_id"] = item["id"]
			tt.row["location_id"] = location["id"]
			if _, err := store.Insert(ctx, backend.TableListings, tt.row); !errors.Is(err, backend.ErrConstraint) {
				t.Fatalf("expected ErrConstraint, got %v", err)
			}
		})
	}
}
