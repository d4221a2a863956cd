package model

import "time"

// City 城市（线上活动同样需要归属城市）
type City struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(128);not null"`
	Country   string    `gorm:"column:country;type:varchar(64)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Venue 场馆。WebsiteDomain 为规范官网域名，多个场馆可能共用一个官网
type Venue struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:name;type:varchar(256);not null"`
	CityID        uint64    `gorm:"column:city_id;type:bigint;not null;index"`
	WebsiteDomain string    `gorm:"column:website_domain;type:varchar(255);index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (City) TableName() string  { return "cities" }
func (Venue) TableName() string { return "venues" }
