package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"route-optimizer-go/internal/model"
	"route-optimizer-go/pkg/models"
)

// CoordinateRepository интерфейс для работы с сохраненным маршрутом
type CoordinateRepository interface {
	List(ctx context.Context) ([]models.Waypoint, error)
	Append(ctx context.Context, wp models.Waypoint) (uint, error)
	ReplaceAll(ctx context.Context, wps []models.Waypoint) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// coordinateRepository реализация CoordinateRepository
type coordinateRepository struct {
	db *gorm.DB
}

// NewCoordinateRepository создает новый instance CoordinateRepository
func NewCoordinateRepository(db *gorm.DB) CoordinateRepository {
	return &coordinateRepository{
		db: db,
	}
}

// List возвращает точки маршрута в порядке их сохранения
func (r *coordinateRepository) List(ctx context.Context) ([]models.Waypoint, error) {
	var rows []model.Coordinate
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list coordinates: %w", err)
	}

	wps := make([]models.Waypoint, 0, len(rows))
	for _, row := range rows {
		wps = append(wps, row.Waypoint())
	}
	return wps, nil
}

// Append добавляет точку в конец маршрута
func (r *coordinateRepository) Append(ctx context.Context, wp models.Waypoint) (uint, error) {
	row := model.FromWaypoint(wp)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to create coordinate: %w", err)
	}
	return row.ID, nil
}

// ReplaceAll целиком перезаписывает маршрут в одной транзакции
func (r *coordinateRepository) ReplaceAll(ctx context.Context, wps []models.Waypoint) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Сначала удаляем старые точки
	if err := deleteAll(tx); err != nil {
		tx.Rollback()
		return err
	}

	// Затем создаем новые в порядке обхода
	for i, wp := range wps {
		row := model.FromWaypoint(wp)
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create coordinate %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAll удаляет все точки маршрута
func (r *coordinateRepository) DeleteAll(ctx context.Context) error {
	return deleteAll(r.db.WithContext(ctx))
}

// Count количество сохраненных точек
func (r *coordinateRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Coordinate{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count coordinates: %w", err)
	}
	return total, nil
}

func deleteAll(db *gorm.DB) error {
	err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Coordinate{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete coordinates: %w", err)
	}
	return nil
}
