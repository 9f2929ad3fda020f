package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type preload struct {
	name string
	args []any
}

// Repository implements list/get/create/update/delete for one entity type.
// It applies no locking: concurrent updates to the same row are last-write-wins.
type Repository[T any] struct {
	db       *gorm.DB
	preloads []preload
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithPreload returns a copy that eager-loads the named association on reads.
func (r *Repository[T]) WithPreload(name string, args ...any) *Repository[T] {
	clone := *r
	clone.preloads = append(append([]preload(nil), r.preloads...), preload{name: name, args: args})
	return &clone
}

func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p.name, p.args...)
	}
	return q
}

// List returns every row, newest first.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.query(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	return items, nil
}

func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.query(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

func (r *Repository[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var entity T
	if err := r.query(ctx).Where("slug = ?", slug).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// EnsureSlugAvailable returns ErrSlugTaken when another row than exceptID
// already uses slug.
func (r *Repository[T]) EnsureSlugAvailable(ctx context.Context, slug string, exceptID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

// Create inserts entity, filling its id and timestamps.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update writes only the columns named in changes, leaving the others untouched,
// and returns the stored row.
func (r *Repository[T]) Update(ctx context.Context, id uint, changes map[string]any) (*T, error) {
	var existing T
	if err := r.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, translate(err)
	}

	if len(changes) > 0 {
		if err := r.db.WithContext(ctx).Model(&existing).Updates(changes).Error; err != nil {
			return nil, translate(err)
		}
	}

	return r.GetByID(ctx, id)
}

func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	var existing T
	if err := r.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Delete(&existing).Error)
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
