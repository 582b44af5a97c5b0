package status

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "goal-tracker-go/internal/domain/status"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrStatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrStatusExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrTeamNotFound
	default:
		return err
	}
}

func (r *PostgresRepository) CreateUserStatus(ctx context.Context, status *domain.UserStatus) error {
	return translate(r.db.WithContext(ctx).Create(status).Error)
}

func (r *PostgresRepository) GetUserStatus(ctx context.Context, id string) (*domain.UserStatus, error) {
	var status domain.UserStatus
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, translate(err)
	}
	return &status, nil
}

func (r *PostgresRepository) ListUserStatuses(ctx context.Context, userID string) ([]domain.UserStatus, error) {
	var statuses []domain.UserStatus
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_order asc").
		Order("name asc").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *PostgresRepository) UpdateUserStatus(ctx context.Context, status *domain.UserStatus) error {
	return translate(r.db.WithContext(ctx).
		Model(&domain.UserStatus{}).
		Where("id = ?", status.ID).
		Updates(map[string]interface{}{
			"name":          status.Name,
			"color":         status.Color,
			"icon":          status.Icon,
			"display_order": status.DisplayOrder,
		}).Error)
}

func (r *PostgresRepository) DeleteUserStatus(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.UserStatus{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStatusNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateTeamStatus(ctx context.Context, status *domain.TeamStatus) error {
	return translate(r.db.WithContext(ctx).Create(status).Error)
}

func (r *PostgresRepository) GetTeamStatus(ctx context.Context, id string) (*domain.TeamStatus, error) {
	var status domain.TeamStatus
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, translate(err)
	}
	return &status, nil
}

func (r *PostgresRepository) ListTeamStatuses(ctx context.Context, teamID string) ([]domain.TeamStatus, error) {
	var statuses []domain.TeamStatus
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("display_order asc").
		Order("name asc").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *PostgresRepository) ListMemberTeamStatuses(ctx context.Context, userID string) ([]domain.TeamStatus, error) {
	var statuses []domain.TeamStatus
	if err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = team_statuses.team_id").
		Where("team_members.user_id = ?", userID).
		Order("team_statuses.team_id asc").
		Order("team_statuses.display_order asc").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *PostgresRepository) UpdateTeamStatus(ctx context.Context, status *domain.TeamStatus) error {
	return translate(r.db.WithContext(ctx).
		Model(&domain.TeamStatus{}).
		Where("id = ?", status.ID).
		Updates(map[string]interface{}{
			"name":          status.Name,
			"color":         status.Color,
			"icon":          status.Icon,
			"display_order": status.DisplayOrder,
		}).Error)
}

func (r *PostgresRepository) DeleteTeamStatus(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.TeamStatus{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStatusNotFound
	}
	return nil
}
