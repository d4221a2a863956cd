package repository

import (
	"context"

	"CultureSync/internal/model"

	"gorm.io/gorm"
)

// VenueRepository 场馆查询（入库时需要 id、名称、所属城市与官网域名）
type VenueRepository interface {
	GetVenueByID(ctx context.Context, id uint64) (*model.Venue, error)
	ListVenues(ctx context.Context) ([]*model.Venue, error)
	CreateVenue(ctx context.Context, v *model.Venue) error
}

// CityRepository 城市查询
type CityRepository interface {
	GetCityByID(ctx context.Context, id uint64) (*model.City, error)
	CreateCity(ctx context.Context, c *model.City) error
}

type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository 创建场馆仓储
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

// NewCityRepository 创建城市仓储
func NewCityRepository(db *gorm.DB) CityRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) GetVenueByID(ctx context.Context, id uint64) (*model.Venue, error) {
	var v model.Venue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	var list []*model.Venue
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *venueRepository) CreateVenue(ctx context.Context, v *model.Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *venueRepository) GetCityByID(ctx context.Context, id uint64) (*model.City, error) {
	var c model.City
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *venueRepository) CreateCity(ctx context.Context, c *model.City) error {
	return r.db.WithContext(ctx).Create(c).Error
}
