package service

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestDB opens a private in-memory sqlite database with the full schema.
// One connection only: the memory database lives as long as that connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.City{}, &model.Venue{}, &model.CanonicalEvent{}, &model.IngestionRun{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCity(t *testing.T, db *gorm.DB, id uint64, name string) *model.City {
	t.Helper()
	c := &model.City{ID: id, Name: name, Country: "US"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	return c
}

func seedVenue(t *testing.T, db *gorm.DB, id, cityID uint64, name, domain string) *model.Venue {
	t.Helper()
	v := &model.Venue{ID: id, Name: name, CityID: cityID, WebsiteDomain: domain}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed venue: %v", err)
	}
	return v
}

func newTestReconciler(db *gorm.DB) *ReconcileService {
	svc := NewReconcileService(db, config.IngestConfig{}, nil, newTestLogger())
	svc.now = func() time.Time { return testNow }
	return svc
}

func listEvents(t *testing.T, db *gorm.DB) []model.CanonicalEvent {
	t.Helper()
	var out []model.CanonicalEvent
	if err := db.Order("id ASC").Find(&out).Error; err != nil {
		t.Fatalf("list events: %v", err)
	}
	return out
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
