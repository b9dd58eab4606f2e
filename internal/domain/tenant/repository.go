package tenant

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no matching calendar exists. Public
	// lookups also return it for non-public records so callers cannot
	// distinguish hidden from absent.
	ErrNotFound = errors.New("calendar not found")
	// ErrSlugTaken is returned when a create collides with an existing slug.
	ErrSlugTaken = errors.New("slug already exists")
)

// Repository defines the data access methods for calendar configs
type Repository interface {
	Create(ctx context.Context, config *CalendarConfig) error
	GetBySlug(ctx context.Context, slug string) (*CalendarConfig, error)
	GetPublicBySlug(ctx context.Context, slug string) (*CalendarConfig, error)
	Update(ctx context.Context, config *CalendarConfig) error
	Delete(ctx context.Context, slug string) error
	ListAll(ctx context.Context) ([]CalendarConfig, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new calendar config repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new record. The slug existence check runs inside a
// transaction so a concurrent create on the same slug cannot slip
// between check and insert; callers get ErrSlugTaken, not a raw
// constraint violation.
func (r *repository) Create(ctx context.Context, config *CalendarConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&CalendarConfig{}).Where("slug = ?", config.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}
		return tx.Create(config).Error
	})
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*CalendarConfig, error) {
	var config CalendarConfig
	err := r.db.WithContext(ctx).First(&config, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) GetPublicBySlug(ctx context.Context, slug string) (*CalendarConfig, error) {
	var config CalendarConfig
	err := r.db.WithContext(ctx).First(&config, "slug = ? AND is_public = ?", slug, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *repository) Update(ctx context.Context, config *CalendarConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *repository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&CalendarConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListAll(ctx context.Context) ([]CalendarConfig, error) {
	var configs []CalendarConfig
	if err := r.db.WithContext(ctx).Order("name").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}
