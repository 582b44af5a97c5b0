package file

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "goal-tracker-go/internal/domain/file"
	"goal-tracker-go/internal/domain/goal"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *domain.File) error {
	err := r.db.WithContext(ctx).Create(file).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return goal.ErrGoalNotFound
	}
	return err
}

// GetByID only finds files attached to goalID.
func (r *PostgresRepository) GetByID(ctx context.Context, goalID, id string) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).Where("id = ? AND goal_id = ?", id, goalID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *PostgresRepository) ListByGoal(ctx context.Context, goalID string) ([]domain.File, error) {
	var files []domain.File
	if err := r.db.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("uploaded_at desc").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *PostgresRepository) CountByGoal(ctx context.Context, goalID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("goal_id = ?", goalID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
