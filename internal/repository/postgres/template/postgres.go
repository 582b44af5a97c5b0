package template

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"goal-tracker-go/internal/domain/category"
	domain "goal-tracker-go/internal/domain/template"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, template *domain.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrReferenceNotFound
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	var template domain.Template
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, includeShared bool) ([]domain.Template, error) {
	query := r.db.WithContext(ctx).Model(&domain.Template{})
	if includeShared {
		query = query.Where("user_id = ? OR is_shared = ?", userID, true)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var templates []domain.Template
	if err := query.Order("name asc").Order("id asc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *PostgresRepository) Update(ctx context.Context, template *domain.Template) error {
	return r.db.WithContext(ctx).
		Model(&domain.Template{}).
		Where("id = ?", template.ID).
		Updates(map[string]interface{}{
			"name":                 template.Name,
			"title_template":       template.TitleTemplate,
			"description_template": template.DescriptionTemplate,
			"default_status":       template.DefaultStatus,
			"is_recurring":         template.IsRecurring,
			"recurrence_type":      template.RecurrenceType,
			"recurrence_interval":  template.RecurrenceInterval,
			"is_shared":            template.IsShared,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&domain.TemplateCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&domain.TemplateTeam{}).Error; err != nil {
			return err
		}
		if err := tx.Table("goals").Where("template_id = ?", id).Update("template_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Template{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrTemplateNotFound
		}
		return nil
	})
}

// SetCategories replaces the template's default categories.
func (r *PostgresRepository) SetCategories(ctx context.Context, templateID string, categoryIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("template_id = ?", templateID).Delete(&domain.TemplateCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]domain.TemplateCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, domain.TemplateCategory{TemplateID: templateID, CategoryID: id})
	}
	return translateWrite(db.Create(&rows).Error)
}

// SetTeams replaces the template's default teams.
func (r *PostgresRepository) SetTeams(ctx context.Context, templateID string, teamIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("template_id = ?", templateID).Delete(&domain.TemplateTeam{}).Error; err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	rows := make([]domain.TemplateTeam, 0, len(teamIDs))
	for _, id := range teamIDs {
		rows = append(rows, domain.TemplateTeam{TemplateID: templateID, TeamID: id})
	}
	return translateWrite(db.Create(&rows).Error)
}

func (r *PostgresRepository) CategoryIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(templateIDs) == 0 {
		return result, nil
	}
	var rows []domain.TemplateCategory
	if err := r.db.WithContext(ctx).
		Where("template_id IN ?", templateIDs).
		Order("category_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TemplateID] = append(result[row.TemplateID], row.CategoryID)
	}
	return result, nil
}

func (r *PostgresRepository) TeamIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(templateIDs) == 0 {
		return result, nil
	}
	var rows []domain.TemplateTeam
	if err := r.db.WithContext(ctx).
		Where("template_id IN ?", templateIDs).
		Order("team_id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TemplateID] = append(result[row.TemplateID], row.TeamID)
	}
	return result, nil
}

func (r *PostgresRepository) OwnedCategoryIDs(ctx context.Context, userID string, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&category.Category{}).
		Where("user_id = ? AND id IN ?", userID, categoryIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
