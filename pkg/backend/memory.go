package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Call records one operation made against a MemoryStore.
type Call struct {
	Op    string
	Table Table
}

// uniqueKeys lists the unique column sets enforced by MemoryStore, mirroring the migrations.
var uniqueKeys = map[Table][][]string{
	TableAuthUsers:         {{"email"}},
	TableProfiles:          {{"auth_user_id"}},
	TableTags:              {{"name"}},
	TableItemTags:          {{"item_id", "tag_id"}},
	TableRestaurantMembers: {{"restaurant_id", "profile_id"}},
}

// tablesWithoutID are join tables keyed only by their composite key.
var tablesWithoutID = map[Table]bool{
	TableItemTags:          true,
	TableRestaurantMembers: true,
}

// MemoryStore is an in-process DataStore used by tests and local tooling.
// It records every call and can be told to fail a given operation.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[Table][]Row
	calls    []Call
	failures map[string]error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[Table][]Row),
		failures: make(map[string]error),
	}
}

// FailOn makes the next and all later calls of op on table return err.
// op is one of insert, insert_batch, select, upsert, update, delete.
func (m *MemoryStore) FailOn(op string, table Table, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+string(table)] = err
}

// Calls returns a copy of the recorded calls.
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Rows returns a copy of every row stored in table.
func (m *MemoryStore) Rows(table Table) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Row, len(m.tables[table]))
	for i, r := range m.tables[table] {
		out[i] = r.Clone()
	}
	return out
}

// Seed stores rows without recording calls or checking failures.
func (m *MemoryStore) Seed(table Table, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], m.prepare(table, r))
	}
}

// Insert creates one row and returns it with a generated id.
func (m *MemoryStore) Insert(_ context.Context, table Table, row Row) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("insert", table); err != nil {
		return nil, err
	}
	r := m.prepare(table, row)
	if err := checkUnique(table, m.tables[table], r); err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	m.tables[table] = append(m.tables[table], r)
	return r.Clone(), nil
}

// InsertBatch creates all rows or none.
func (m *MemoryStore) InsertBatch(_ context.Context, table Table, rows []Row, ignoreConflictOn ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("insert_batch", table); err != nil {
		return err
	}

	existing := m.tables[table]
	staged := make([]Row, 0, len(rows))
	for _, row := range rows {
		r := m.prepare(table, row)
		seen := append(append([]Row(nil), existing...), staged...)
		if len(ignoreConflictOn) > 0 && containsMatch(seen, r, ignoreConflictOn) {
			continue
		}
		if err := checkUnique(table, seen, r); err != nil {
			return fmt.Errorf("insert batch %s: %w", table, err)
		}
		staged = append(staged, r)
	}
	m.tables[table] = append(existing, staged...)
	return nil
}

// Select returns copies of the rows matching filter.
func (m *MemoryStore) Select(_ context.Context, table Table, filter Filter) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("select", table); err != nil {
		return nil, err
	}
	var out []Row
	for _, r := range m.tables[table] {
		if matches(r, filter) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// Upsert inserts row or merges it into the row sharing conflictKey.
func (m *MemoryStore) Upsert(_ context.Context, table Table, row Row, conflictKey string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("upsert", table); err != nil {
		return nil, err
	}
	for i, r := range m.tables[table] {
		if equalValues(r[conflictKey], normalizeValue(row[conflictKey])) {
			for k, v := range row {
				if k == "id" {
					continue
				}
				r[k] = normalizeValue(v)
			}
			m.tables[table][i] = r
			return r.Clone(), nil
		}
	}
	r := m.prepare(table, row)
	if err := checkUnique(table, m.tables[table], r); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	m.tables[table] = append(m.tables[table], r)
	return r.Clone(), nil
}

// Update sets columns on matching rows.
func (m *MemoryStore) Update(_ context.Context, table Table, set Row, filter Filter) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("update", table); err != nil {
		return nil, err
	}
	var out []Row
	for i, r := range m.tables[table] {
		if !matches(r, filter) {
			continue
		}
		for k, v := range set {
			r[k] = normalizeValue(v)
		}
		m.tables[table][i] = r
		out = append(out, r.Clone())
	}
	return out, nil
}

// Delete removes matching rows. An empty filter is refused.
func (m *MemoryStore) Delete(_ context.Context, table Table, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete", table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without a filter", table)
	}
	kept := m.tables[table][:0]
	var n int64
	for _, r := range m.tables[table] {
		if matches(r, filter) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return n, nil
}

func (m *MemoryStore) record(op string, table Table) error {
	m.calls = append(m.calls, Call{Op: op, Table: table})
	if err, ok := m.failures[op+":"+string(table)]; ok {
		return err
	}
	return nil
}

func (m *MemoryStore) prepare(table Table, row Row) Row {
	r := make(Row, len(row)+1)
	for k, v := range row {
		r[k] = normalizeValue(v)
	}
	if _, ok := r["id"]; !ok && !tablesWithoutID[table] {
		r["id"] = uuid.New()
	}
	return r
}

func checkUnique(table Table, rows []Row, r Row) error {
	for _, key := range uniqueKeys[table] {
		if containsMatch(rows, r, key) {
			return fmt.Errorf("%w: duplicate %s (%s)", ErrConflict, table, strings.Join(key, ", "))
		}
	}
	return nil
}

func containsMatch(rows []Row, r Row, cols []string) bool {
	for _, existing := range rows {
		if sameKey(existing, r, cols) {
			return true
		}
	}
	return false
}

func sameKey(a, b Row, cols []string) bool {
	for _, c := range cols {
		if !equalValues(a[c], b[c]) {
			return false
		}
	}
	return true
}

func matches(r Row, filter Filter) bool {
	for k, v := range filter {
		if !equalValues(r[k], normalizeValue(v)) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
