package model

import (
	"time"

	"gorm.io/datatypes"
)

// IngestionRun 一次入库对账的执行记录
type IngestionRun struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID     string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null"`
	Source      string         `gorm:"column:source;type:varchar(64);index"`
	VenueID     uint64         `gorm:"column:venue_id;type:bigint;not null;index"`
	CityID      uint64         `gorm:"column:city_id;type:bigint;not null"`
	Total       int            `gorm:"column:total"`
	Created     int            `gorm:"column:created"`
	Updated     int            `gorm:"column:updated"`
	Unchanged   int            `gorm:"column:unchanged"`
	Skipped     int            `gorm:"column:skipped"`
	Errors      int            `gorm:"column:errors"`
	SkipReasons datatypes.JSON `gorm:"column:skip_reasons"` // 跳过原因 → 条数
	StartedAt   time.Time      `gorm:"column:started_at;not null"`
	FinishedAt  time.Time      `gorm:"column:finished_at;not null"`
}

func (IngestionRun) TableName() string { return "ingestion_runs" }
