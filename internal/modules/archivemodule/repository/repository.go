// Package repository provides a uniform CRUD capability over a single
// entity type. Each entity composes one Repository from a Config describing
// its display name, eager-loaded relations and validation rules.
package repository

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"gorm.io/gorm"

	apierrors "github.com/whoniverse/archive/internal/errors"
)

// Config describes how a Repository behaves for one entity type
type Config[T any] struct {
	// Resource is the singular display name used in error messages
	Resource string

	// Preloads are relation names eagerly attached on reads
	Preloads []string

	// Validate checks a full record before insert
	Validate func(*T) []apierrors.FieldError

	// ValidatePartial checks the supplied fields of a partial update
	ValidatePartial func(map[string]interface{}) []apierrors.FieldError
}

// Repository implements getAll/getById/create/update/delete for one entity
type Repository[T any] struct {
	db  *gorm.DB
	cfg Config[T]
}

// New builds a Repository over the given database handle
func New[T any](db *gorm.DB, cfg Config[T]) *Repository[T] {
	return &Repository[T]{db: db, cfg: cfg}
}

// Resource returns the entity's display name
func (r *Repository[T]) Resource() string {
	return r.cfg.Resource
}

func (r *Repository[T]) withPreloads(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.cfg.Preloads {
		q = q.Preload(p)
	}
	return q
}

// GetAll returns every row with related entities eagerly attached
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.withPreloads(ctx).Find(&rows).Error; err != nil {
		return nil, apierrors.NewDatabaseError("list "+r.cfg.Resource, err)
	}
	return rows, nil
}

// GetByID returns one row by primary key or a not-found error
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := r.withPreloads(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFoundError(r.cfg.Resource, id)
		}
		return nil, apierrors.NewDatabaseError("get "+r.cfg.Resource, err)
	}
	return &row, nil
}

// Create validates and inserts a new row, then re-reads it with relations
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if r.cfg.Validate != nil {
		if fields := r.cfg.Validate(entity); len(fields) > 0 {
			return nil, apierrors.NewValidationError("invalid "+r.cfg.Resource, fields...)
		}
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, r.wrapWriteError("create", err)
	}
	return r.GetByID(ctx, primaryKey(entity))
}

// Update loads the row, applies the supplied field changes and persists.
// Fields not supplied are left unchanged.
func (r *Repository[T]) Update(ctx context.Context, id uint, fields map[string]interface{}) (*T, error) {
	for _, k := range []string{"id", "created_at", "updated_at"} {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, apierrors.NewValidationError("no updatable fields supplied")
	}
	if r.cfg.ValidatePartial != nil {
		if fieldErrs := r.cfg.ValidatePartial(fields); len(fieldErrs) > 0 {
			return nil, apierrors.NewValidationError("invalid "+r.cfg.Resource, fieldErrs...)
		}
	}

	entity, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(entity).Updates(fields).Error; err != nil {
		return nil, r.wrapWriteError("update", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a row by primary key; deleting a missing row is not found
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	entity, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return apierrors.NewDatabaseError("delete "+r.cfg.Resource, err)
	}
	return nil
}

// wrapWriteError maps unique-constraint violations onto conflicts
func (r *Repository[T]) wrapWriteError(operation string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return apierrors.NewConflictError(r.cfg.Resource,
			r.cfg.Resource+" violates a unique constraint", err)
	}
	return apierrors.NewDatabaseError(operation+" "+r.cfg.Resource, err)
}

// isUniqueViolation catches drivers that bypass gorm's error translation
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// primaryKey extracts the ID gorm assigned on insert. Every schema model
// uses a uint ID primary key.
func primaryKey[T any](entity *T) uint {
	v := reflect.ValueOf(entity).Elem().FieldByName("ID")
	if v.IsValid() && v.Kind() == reflect.Uint {
		return uint(v.Uint())
	}
	return 0
}
