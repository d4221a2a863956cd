package service

import (
	"context"
	"errors"
	"testing"

	"CultureSync/internal/adapter"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

const staticType = "static-test"

// staticAdapter serves a fixed candidate list; the organizer field doubles as enrich input
type staticAdapter struct {
	name string
	cfg  *config.SourceConfig
}

func (a *staticAdapter) GetName() string { return a.name }
func (a *staticAdapter) GetType() string { return staticType }

func (a *staticAdapter) FetchCandidates(ctx context.Context) ([]*model.RawCandidate, error) {
	if a.cfg.Path == "fail" {
		return nil, errors.New("feed unavailable")
	}
	return []*model.RawCandidate{
		{Title: "Harbor Lecture", StartDate: "2025-03-20"},
		{Title: "Upcoming Events"},
	}, nil
}

func (a *staticAdapter) Enrich(c *model.EventCandidate) {
	o := a.cfg.Organizer
	c.Organizer = &o
}

func init() {
	adapter.Register(staticType, func(name string, cfg *config.SourceConfig, _ *logrus.Logger) interfaces.SourceAdapter {
		return &staticAdapter{name: name, cfg: cfg}
	})
}

func newTestSync(t *testing.T) (*SyncService, *ReconcileService) {
	t.Helper()
	db := newTestDB(t)
	seedCity(t, db, 1, "New York")
	seedVenue(t, db, 1, 1, "Harbor Arts Center", "harbor-arts.org")

	cfg := &config.Config{
		Sync: config.SyncConfig{EnabledSources: []string{"harbor", "broken"}},
		Sources: map[string]config.SourceConfig{
			"harbor": {Type: staticType, VenueID: 1, Organizer: "Harbor Education"},
			"broken": {Type: staticType, VenueID: 1, Path: "fail"},
		},
	}
	reconciler := newTestReconciler(db)
	registry := adapter.NewSourceRegistry(cfg, newTestLogger())
	return NewSyncService(registry, reconciler, cfg, newTestLogger()), reconciler
}

func TestSyncSource(t *testing.T) {
	s, reconciler := newTestSync(t)

	res, err := s.SyncSource(context.Background(), "harbor")
	if err != nil {
		t.Fatalf("SyncSource: %v", err)
	}
	if res.Created != 1 || res.Skipped != 1 || res.SkipReasons[string(SkipCategoryHeading)] != 1 {
		t.Fatalf("result = %+v", res)
	}
	events := listEvents(t, reconciler.db)
	if len(events) != 1 || deref(events[0].Organizer) != "Harbor Education" {
		t.Fatalf("events = %+v", events)
	}

	var run model.IngestionRun
	if err := reconciler.db.First(&run).Error; err != nil || run.Source != "harbor" {
		t.Errorf("run = %+v (%v)", run, err)
	}
}

func TestSyncSourceErrors(t *testing.T) {
	s, _ := newTestSync(t)
	ctx := context.Background()

	if _, err := s.SyncSource(ctx, "missing"); err == nil {
		t.Error("unknown source accepted")
	}
	if _, err := s.SyncSource(ctx, "broken"); err == nil {
		t.Error("fetch failure not reported")
	}
}

func TestSyncEnabledContinuesPastFailures(t *testing.T) {
	s, reconciler := newTestSync(t)

	failures := s.SyncEnabled(context.Background())
	if len(failures) != 1 || failures["broken"] == nil {
		t.Fatalf("failures = %v", failures)
	}
	if n := len(listEvents(t, reconciler.db)); n != 1 {
		t.Errorf("events = %d, want 1", n)
	}
}

func TestSyncSourceInProgress(t *testing.T) {
	s, reconciler := newTestSync(t)
	reconciler.running.Store(uint64(1), struct{}{})
	defer reconciler.running.Delete(uint64(1))

	if _, err := s.SyncSource(context.Background(), "harbor"); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("err = %v, want ErrSyncInProgress", err)
	}
}
