// Verdant - Cultivation Analytics and Recommendation Engine
// Copyright 2026 Verdant Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/verdant-labs/verdant

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/verdant-labs/verdant/internal/analytics"
	"github.com/verdant-labs/verdant/internal/models"
	"github.com/verdant-labs/verdant/internal/recommend"
	"github.com/verdant-labs/verdant/internal/scheduler"
)

type mockStore struct {
	pingErr error
	plant   *models.Plant

	createdPlants     []*models.Plant
	createdSamples    []*models.EnvironmentSample
	createdActivities []*models.ActivityLogEntry
	stageUpdates      []string

	trendsDays int
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) CreatePlant(_ context.Context, plant *models.Plant) error {
	plant.ID = "new-plant"
	m.createdPlants = append(m.createdPlants, plant)
	return nil
}

func (m *mockStore) GetPlant(_ context.Context, id string) (*models.Plant, error) {
	if m.plant == nil || m.plant.ID != id {
		return nil, models.ErrPlantNotFound
	}
	return m.plant, nil
}

func (m *mockStore) ListActivePlants(_ context.Context) ([]models.ActivePlant, error) {
	if m.plant == nil {
		return nil, nil
	}
	return []models.ActivePlant{{ID: m.plant.ID, Stage: m.plant.Stage}}, nil
}

func (m *mockStore) UpdatePlantStage(_ context.Context, id string, stage models.GrowthStage, _ time.Time) error {
	if m.plant == nil || m.plant.ID != id {
		return models.ErrPlantNotFound
	}
	m.stageUpdates = append(m.stageUpdates, string(stage))
	return nil
}

func (m *mockStore) CreateEnvironmentSample(_ context.Context, sample *models.EnvironmentSample) error {
	m.createdSamples = append(m.createdSamples, sample)
	return nil
}

func (m *mockStore) CreateActivityLogEntry(_ context.Context, entry *models.ActivityLogEntry) error {
	m.createdActivities = append(m.createdActivities, entry)
	return nil
}

func (m *mockStore) GetAnalyticsByPlant(_ context.Context, plantID string, limit int) ([]models.AnalyticsRecord, error) {
	return []models.AnalyticsRecord{{PlantID: plantID}}, nil
}

func (m *mockStore) GetAnalyticsTrends(_ context.Context, plantID string, days int) (*models.AnalyticsTrends, error) {
	m.trendsDays = days
	return &models.AnalyticsTrends{PlantID: plantID}, nil
}

type mockAnalytics struct {
	lastOpts analytics.Options
	err      error
}

func (m *mockAnalytics) Process(_ context.Context, plantID string, opts analytics.Options) (*models.AnalyticsRecord, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &models.AnalyticsRecord{PlantID: plantID}, nil
}

type mockRecommend struct {
	lastOpts    recommend.Options
	generateErr error
	feedbackErr error
	cleared     []string
}

func (m *mockRecommend) Generate(_ context.Context, plantID string, opts recommend.Options) (*models.RecommendationSet, error) {
	m.lastOpts = opts
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &models.RecommendationSet{PlantID: plantID}, nil
}

func (m *mockRecommend) SubmitFeedback(_ context.Context, fb *models.FeedbackRecord) error {
	return m.feedbackErr
}

func (m *mockRecommend) GetHistory(_ context.Context, plantID string, _ int) ([]models.RecommendationHistoryEntry, error) {
	return []models.RecommendationHistoryEntry{{PlantID: plantID}}, nil
}

func (m *mockRecommend) ClearPlantCache(plantID string) int {
	m.cleared = append(m.cleared, plantID)
	return 1
}

type mockScheduler struct {
	status scheduler.Status
}

func (m *mockScheduler) GetStatus() scheduler.Status { return m.status }

func (m *mockScheduler) ForceProcessAllPlants(_ context.Context) (*scheduler.BatchResult, error) {
	return &scheduler.BatchResult{Total: 3, Processed: 3}, nil
}

type testEnv struct {
	store     *mockStore
	analytics *mockAnalytics
	recommend *mockRecommend
	router    http.Handler
}

func newTestEnv() *testEnv {
	store := &mockStore{plant: &models.Plant{ID: "plant-1", Stage: models.StageVegetative, Tent: "tent-1"}}
	analyticsSvc := &mockAnalytics{}
	recommendSvc := &mockRecommend{}
	handler := NewHandler(store, analyticsSvc, recommendSvc, &mockScheduler{status: scheduler.Status{Running: true}}, zerolog.Nop())
	return &testEnv{
		store:     store,
		analytics: analyticsSvc,
		recommend: recommendSvc,
		router:    NewRouter(handler),
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not an API envelope: %v: %s", err, rec.Body.String())
	}
	return rec, &envelope
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, envelope := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %s", envelope.Status)
	}
}

func TestHealthDegraded(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.store.pingErr = context.DeadlineExceeded
	rec, _ := env.do(t, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCreatePlant(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	body := `{"name":"NL #1","strain":"Northern Lights","stage":"seedling","medium":"soil","tent":"tent-1"}`
	rec, envelope := env.do(t, http.MethodPost, "/api/v1/plants", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %s", envelope.Status)
	}
	if len(env.store.createdPlants) != 1 {
		t.Fatalf("created %d plants, want 1", len(env.store.createdPlants))
	}
	if env.store.createdPlants[0].PlantedAt.IsZero() {
		t.Error("planted_at must default to now")
	}
}

func TestCreatePlantValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"strain":"X","stage":"seedling","medium":"soil","tent":"t"}`},
		{"bad stage", `{"name":"a","strain":"X","stage":"sprouting","medium":"soil","tent":"t"}`},
		{"malformed json", `{"name":`},
		{"unknown field", `{"name":"a","strain":"X","stage":"seedling","medium":"soil","tent":"t","bogus":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			rec, envelope := env.do(t, http.MethodPost, "/api/v1/plants", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if envelope.Error == nil {
				t.Fatal("expected error payload")
			}
			if len(env.store.createdPlants) != 0 {
				t.Error("invalid request must not create a plant")
			}
		})
	}
}

func TestGetPlantNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, envelope := env.do(t, http.MethodGet, "/api/v1/plants/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "PLANT_NOT_FOUND" {
		t.Errorf("error = %+v, want PLANT_NOT_FOUND", envelope.Error)
	}
}

func TestUpdatePlantStageClearsCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodPut, "/api/v1/plants/plant-1/stage", `{"stage":"flowering"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(env.store.stageUpdates) != 1 || env.store.stageUpdates[0] != "flowering" {
		t.Errorf("stage updates = %v", env.store.stageUpdates)
	}
	if len(env.recommend.cleared) != 1 || env.recommend.cleared[0] != "plant-1" {
		t.Errorf("cache clears = %v, want [plant-1]", env.recommend.cleared)
	}
}

func TestCreateSampleValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodPost, "/api/v1/samples", `{"tent":"tent-1","humidity":150}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(env.store.createdSamples) != 0 {
		t.Error("out-of-range sample must be rejected")
	}
}

func TestCreateSample(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	body := `{"tent":"tent-1","temperature":24.5,"humidity":55,"vpd":1.1,"co2":900,"ppfd":450}`
	rec, _ := env.do(t, http.MethodPost, "/api/v1/samples", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(env.store.createdSamples) != 1 {
		t.Fatalf("created %d samples, want 1", len(env.store.createdSamples))
	}
	if env.store.createdSamples[0].RecordedAt.IsZero() {
		t.Error("recorded_at must default to now")
	}
}

func TestCreateActivityUnknownPlant(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodPost, "/api/v1/plants/missing/activities", `{"type":"feeding"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(env.store.createdActivities) != 0 {
		t.Error("activity against a missing plant must not persist")
	}
}

func TestCreateActivityClearsCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodPost, "/api/v1/plants/plant-1/activities", `{"type":"feeding","value":1.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(env.store.createdActivities) != 1 {
		t.Fatalf("created %d activities, want 1", len(env.store.createdActivities))
	}
	if len(env.recommend.cleared) != 1 {
		t.Error("activity logging must clear the recommendation cache")
	}
}

func TestGetAnalyticsForceParam(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodGet, "/api/v1/plants/plant-1/analytics?force=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !env.analytics.lastOpts.Force {
		t.Error("force=true must set Options.Force")
	}
}

func TestGetAnalyticsNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.analytics.err = models.ErrPlantNotFound
	rec, _ := env.do(t, http.MethodGet, "/api/v1/plants/missing/analytics", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetAnalyticsHistoryLimitValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodGet, "/api/v1/plants/plant-1/analytics/history?limit=5000", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetAnalyticsTrendsDefaultDays(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodGet, "/api/v1/plants/plant-1/analytics/trends", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.store.trendsDays != 30 {
		t.Errorf("days = %d, want default 30", env.store.trendsDays)
	}
}

func TestGetRecommendationsOptions(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodGet,
		"/api/v1/plants/plant-1/recommendations?confidence_threshold=0.55&include_historical=true&force_refresh=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	opts := env.recommend.lastOpts
	if opts.ConfidenceThreshold == nil || *opts.ConfidenceThreshold != 0.55 {
		t.Errorf("threshold = %v, want 0.55", opts.ConfidenceThreshold)
	}
	if !opts.IncludeHistorical || !opts.ForceRefresh {
		t.Errorf("opts = %+v, want historical and refresh set", opts)
	}
}

func TestGetRecommendationsThresholdOutOfRange(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodGet, "/api/v1/plants/plant-1/recommendations?confidence_threshold=1.5", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestClearRecommendationCacheEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, _ := env.do(t, http.MethodDelete, "/api/v1/plants/plant-1/recommendations/cache", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(env.recommend.cleared) != 1 {
		t.Error("cache clear endpoint must invalidate the plant")
	}
}

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	body := `{"recommendation_id":"rec-1","plant_id":"plant-1","implemented":true,"effectiveness":"positive"}`
	rec, _ := env.do(t, http.MethodPost, "/api/v1/feedback", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitFeedbackValidationError(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.recommend.feedbackErr = models.NewValidationError("Effectiveness is required when Implemented is true")
	rec, envelope := env.do(t, http.MethodPost, "/api/v1/feedback", `{"recommendation_id":"rec-1","plant_id":"plant-1","implemented":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
	}
	if len(envelope.Error.Details) == 0 || !strings.Contains(envelope.Error.Details[0], "Effectiveness") {
		t.Errorf("details = %v, want field message", envelope.Error.Details)
	}
}

func TestSubmitFeedbackUnknownRecommendation(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.recommend.feedbackErr = models.ErrRecommendationNotFound
	rec, _ := env.do(t, http.MethodPost, "/api/v1/feedback", `{"recommendation_id":"rec-x","plant_id":"plant-1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSchedulerStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, envelope := env.do(t, http.MethodGet, "/api/v1/scheduler/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %s", envelope.Status)
	}
}

func TestSchedulerEndpointsWithoutScheduler(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	handler := NewHandler(store, &mockAnalytics{}, &mockRecommend{}, nil, zerolog.Nop())
	router := NewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scheduler/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRunSchedulerBatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec, envelope := env.do(t, http.MethodPost, "/api/v1/scheduler/run", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %s", envelope.Status)
	}
}
