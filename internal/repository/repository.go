// Package repository holds the GORM implementations of the domain repository
// interfaces. Every read path filters active = true in SQL so soft-deleted
// rows never leave the database, and every update goes through an optimistic
// version check.
package repository

import (
	"context"

	"github.com/clinica-suite/patients-service/internal/domain"
	"gorm.io/gorm"
)

// updateVersioned performs the shared update-with-version-check. The caller
// bumps entity.Version before calling and passes the previous value; zero rows
// affected means either the row vanished (notFound) or the version went stale.
func updateVersioned(ctx context.Context, db *gorm.DB, entity any, id, prevVersion int, notFound error) error {
	res := db.WithContext(ctx).Model(entity).
		Where("id = ? AND version = ? AND active = true", id, prevVersion).
		Select("*").Omit("id", "created_at").
		Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var live int64
	if err := db.WithContext(ctx).Model(entity).
		Where("id = ? AND active = true", id).
		Count(&live).Error; err != nil {
		return err
	}
	if live == 0 {
		return notFound
	}
	return domain.ErrConcurrentModification
}

// like builds a case-insensitive substring pattern.
func like(term string) string {
	return "%" + term + "%"
}
