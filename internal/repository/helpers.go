package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func findByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, preloads ...string) (*T, error) {
	var out T
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// softDelete flips activo and reports gorm.ErrRecordNotFound when no active row matched.
func softDelete[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Model(new(T)).Where("id = ? AND activo = true", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// activos applies the activo query convention: "false" = inactivos, "all" = todos, otherwise activos.
func activos(q *gorm.DB, column, activo string) *gorm.DB {
	switch activo {
	case "false":
		return q.Where(column + " = false")
	case "all":
		return q
	default:
		return q.Where(column + " = true")
	}
}

func like(s string) string { return "%" + s + "%" }
