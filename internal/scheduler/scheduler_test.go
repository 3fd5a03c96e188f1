// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type mockStore struct {
	mu     sync.Mutex
	plants []models.ActivePlant

	listErr error
	pingErr error

	pruned    int64
	orphaned  int64
	staleN    int
	listCalls int

	prunedCutoff time.Time
	staleCutoff  time.Time
	orphanCalls  int
	staleCalls   int
}

func (m *mockStore) ListActivePlants(_ context.Context) ([]models.ActivePlant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.plants, nil
}

func (m *mockStore) DeleteAnalyticsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prunedCutoff = cutoff
	return m.pruned, nil
}

func (m *mockStore) DeleteOrphanedAnalytics(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orphanCalls++
	return m.orphaned, nil
}

func (m *mockStore) CountStaleActivePlants(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleCalls++
	m.staleCutoff = cutoff
	return m.staleN, nil
}

func (m *mockStore) Ping(_ context.Context) error {
	return m.pingErr
}

// mockProcessor simulates the analytics engine with per-plant outcomes and
// in-flight concurrency tracking.
type mockProcessor struct {
	// failPlants error out; freshPlants return a record computed before
	// the batch started; everything else computes now.
	failPlants  map[string]bool
	freshPlants map[string]bool

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	calls       atomic.Int64
	forced      atomic.Int64
}

func (m *mockProcessor) Process(_ context.Context, plantID string, opts analytics.Options) (*models.AnalyticsRecord, error) {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if cur <= peak || m.maxInFlight.CompareAndSwap(peak, cur) {
			break
		}
	}
	m.calls.Add(1)
	if opts.Force {
		m.forced.Add(1)
	}

	// Let the pool fill so the concurrency ceiling is observable.
	time.Sleep(5 * time.Millisecond)

	if m.failPlants[plantID] {
		return nil, errors.New("compute failed")
	}
	calculatedAt := testNow
	if m.freshPlants[plantID] {
		calculatedAt = testNow.Add(-time.Hour)
	}
	return &models.AnalyticsRecord{PlantID: plantID, CalculatedAt: calculatedAt}, nil
}

func activePlants(ids ...string) []models.ActivePlant {
	plants := make([]models.ActivePlant, len(ids))
	for i, id := range ids {
		plants[i] = models.ActivePlant{ID: id, Stage: models.StageVegetative}
	}
	return plants
}

func newTestScheduler(store *mockStore, proc *mockProcessor, cfg Config) *Scheduler {
	s := New(store, proc, cfg, zerolog.Nop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestForceProcessAllPlantsOutcomes(t *testing.T) {
	t.Parallel()

	store := &mockStore{plants: activePlants("a", "b", "c", "d")}
	proc := &mockProcessor{
		failPlants:  map[string]bool{"c": true},
		freshPlants: map[string]bool{"d": true},
	}
	s := newTestScheduler(store, proc, DefaultConfig())

	result, err := s.ForceProcessAllPlants(context.Background())
	if err != nil {
		t.Fatalf("ForceProcessAllPlants: %v", err)
	}

	if result.Total != 4 {
		t.Errorf("total = %d, want 4", result.Total)
	}
	if result.Processed != 2 {
		t.Errorf("processed = %d, want 2", result.Processed)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if result.Errors != 1 {
		t.Errorf("errors = %d, want 1", result.Errors)
	}
	if result.Processed+result.Skipped+result.Errors != result.Total {
		t.Error("outcome counts do not add up to total")
	}
	if proc.forced.Load() != 4 {
		t.Errorf("forced calls = %d, want 4", proc.forced.Load())
	}
}

func TestProcessAllPlantsRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	store := &mockStore{plants: activePlants(ids...)}
	proc := &mockProcessor{}

	cfg := DefaultConfig()
	cfg.BatchConcurrency = 3
	s := newTestScheduler(store, proc, cfg)

	if _, err := s.ForceProcessAllPlants(context.Background()); err != nil {
		t.Fatalf("ForceProcessAllPlants: %v", err)
	}

	if proc.calls.Load() != 20 {
		t.Errorf("calls = %d, want 20", proc.calls.Load())
	}
	if peak := proc.maxInFlight.Load(); peak > 3 {
		t.Errorf("max in-flight = %d, want <= 3", peak)
	}
}

func TestProcessAllPlantsEmpty(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(&mockStore{}, &mockProcessor{}, DefaultConfig())
	result, err := s.ForceProcessAllPlants(context.Background())
	if err != nil {
		t.Fatalf("ForceProcessAllPlants: %v", err)
	}
	if result.Total != 0 || result.Processed != 0 {
		t.Errorf("unexpected result for empty plant list: %+v", result)
	}
}

func TestProcessAllPlantsListError(t *testing.T) {
	t.Parallel()

	store := &mockStore{listErr: errors.New("db down")}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())
	if _, err := s.ForceProcessAllPlants(context.Background()); err == nil {
		t.Fatal("expected list error to propagate")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	t.Parallel()

	store := &mockStore{plants: activePlants("a")}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())

	if s.IsRunning() {
		t.Error("scheduler running before Start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Errorf("second Start must no-op: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler stopped running after redundant Start")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler running after Stop")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop must be a no-op: %v", err)
	}

	// The startup batch must have run before Stop returned.
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.listCalls == 0 {
		t.Error("startup batch never ran")
	}
}

func TestConcurrentStopClosesOnce(t *testing.T) {
	t.Parallel()

	store := &mockStore{plants: activePlants("a")}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Stop(); err != nil {
				t.Errorf("Stop: %v", err)
			}
		}()
	}
	wg.Wait()

	if s.IsRunning() {
		t.Error("scheduler running after Stop")
	}
}

func TestDisabledSchedulerDoesNoWork(t *testing.T) {
	t.Parallel()

	store := &mockStore{plants: activePlants("a")}
	cfg := DefaultConfig()
	cfg.Enabled = false
	s := newTestScheduler(store, &mockProcessor{}, cfg)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.listCalls != 0 {
		t.Errorf("disabled scheduler ran %d batches", store.listCalls)
	}
}

func TestRetentionSweep(t *testing.T) {
	t.Parallel()

	store := &mockStore{pruned: 12, orphaned: 3}
	cfg := DefaultConfig()
	cfg.RetentionDays = 90
	s := newTestScheduler(store, &mockProcessor{}, cfg)

	s.runRetention(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	want := testNow.AddDate(0, 0, -90)
	if !store.prunedCutoff.Equal(want) {
		t.Errorf("prune cutoff = %v, want %v", store.prunedCutoff, want)
	}
	if store.orphanCalls != 1 {
		t.Errorf("orphan sweep calls = %d, want 1", store.orphanCalls)
	}
}

func TestHealthProbe(t *testing.T) {
	t.Parallel()

	store := &mockStore{staleN: 2}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())

	s.runHealthProbe(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.staleCalls != 1 {
		t.Errorf("stale count calls = %d, want 1", store.staleCalls)
	}
	want := testNow.Add(-24 * time.Hour)
	if !store.staleCutoff.Equal(want) {
		t.Errorf("stale cutoff = %v, want %v", store.staleCutoff, want)
	}
}

func TestHealthProbeSkipsCountWhenPingFails(t *testing.T) {
	t.Parallel()

	store := &mockStore{pingErr: errors.New("unreachable")}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())

	s.runHealthProbe(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.staleCalls != 0 {
		t.Error("stale count must not run when the database is unreachable")
	}
}

func TestGetStatusAfterBatch(t *testing.T) {
	t.Parallel()

	store := &mockStore{plants: activePlants("a", "b")}
	s := newTestScheduler(store, &mockProcessor{}, DefaultConfig())

	status := s.GetStatus()
	if status.Running || status.LastBatch != nil {
		t.Errorf("unexpected initial status: %+v", status)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	s.runBatch(context.Background(), false)

	status = s.GetStatus()
	if status.LastBatch == nil || status.LastBatch.Total != 2 {
		t.Fatalf("last batch not recorded: %+v", status.LastBatch)
	}
	if !status.LastBatchAt.Equal(testNow) {
		t.Errorf("last batch at = %v, want %v", status.LastBatchAt, testNow)
	}
	if want := testNow.Add(DefaultConfig().AnalyticsInterval); !status.NextBatchAt.Equal(want) {
		t.Errorf("next batch at = %v, want %v", status.NextBatchAt, want)
	}
	if status.JobCount != 3 || len(status.Jobs) != 3 {
		t.Errorf("jobs = %v (count %d), want 3 named jobs", status.Jobs, status.JobCount)
	}
}
