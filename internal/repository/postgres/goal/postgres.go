package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goal-tracker-go/internal/domain/category"
	"goal-tracker-go/internal/domain/file"
	domain "goal-tracker-go/internal/domain/goal"
	"goal-tracker-go/internal/domain/team"
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

func (r *PostgresRepository) Create(ctx context.Context, goal *domain.Goal) error {
	return translateWrite(r.db.WithContext(ctx).Create(goal).Error)
}

// translateWrite reports a row that references something deleted in the
// meantime as not found.
func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrReferenceNotFound
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter domain.Filter) ([]domain.Goal, error) {
	query := r.db.WithContext(ctx).Model(&domain.Goal{}).Where("user_id = ?", userID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(lower(title) LIKE ? OR lower(coalesce(description, '')) LIKE ?)", pattern, pattern)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.TargetFrom != nil {
		query = query.Where("target_date >= ?", *filter.TargetFrom)
	}
	if filter.TargetTo != nil {
		query = query.Where("target_date <= ?", *filter.TargetTo)
	}
	switch {
	case filter.ParentGoalID != nil:
		query = query.Where("parent_goal_id = ?", *filter.ParentGoalID)
	case filter.RootOnly:
		query = query.Where("parent_goal_id IS NULL")
	}

	for _, order := range orderClauses(filter) {
		query = query.Order(order)
	}

	var goals []domain.Goal
	if err := query.Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// orderClauses puts goals without a target date first when ascending and
// last when descending, on every dialect.
func orderClauses(filter domain.Filter) []string {
	dir := string(filter.SortDir)
	if dir == "" {
		dir = string(domain.SortDesc)
	}
	field := filter.SortBy
	if field == "" {
		field = domain.SortCreatedAt
	}
	if field == domain.SortTargetDate {
		nullsRank := "CASE WHEN target_date IS NULL THEN 1 ELSE 0 END"
		if dir == string(domain.SortAsc) {
			nullsRank = "CASE WHEN target_date IS NULL THEN 0 ELSE 1 END"
		}
		return []string{
			nullsRank,
			fmt.Sprintf("target_date %s", dir),
			"created_at desc",
		}
	}
	return []string{fmt.Sprintf("%s %s", field, dir), "id asc"}
}

func (r *PostgresRepository) ListPublic(ctx context.Context, limit, offset int) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := r.db.WithContext(ctx).
		Where("visibility = ?", domain.VisibilityPublic).
		Order("created_at desc").
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := r.db.WithContext(ctx).
		Where("parent_goal_id = ?", parentID).
		Order("display_order asc").
		Order("created_at asc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := r.db.WithContext(ctx).
		Joins("JOIN goal_teams ON goal_teams.goal_id = goals.id").
		Where("goal_teams.team_id = ?", teamID).
		Order("goals.created_at desc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := r.db.WithContext(ctx).
		Joins("JOIN goal_categories ON goal_categories.goal_id = goals.id").
		Where("goal_categories.category_id = ?", categoryID).
		Order("goals.created_at desc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) Update(ctx context.Context, goal *domain.Goal) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"title":          goal.Title,
			"description":    goal.Description,
			"status":         goal.Status,
			"target_date":    goal.TargetDate,
			"visibility":     goal.Visibility,
			"parent_goal_id": goal.ParentGoalID,
			"display_order":  goal.DisplayOrder,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// Delete detaches sub-goals and removes join and file rows explicitly so the
// result does not depend on the schema's cascade rules.
func (r *PostgresRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Goal{}).
			Where("parent_goal_id = ?", id).
			Update("parent_goal_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", id).Delete(&domain.GoalTeam{}).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", id).Delete(&domain.GoalCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&file.File{}).Where("goal_id = ?", id).Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", id).Delete(&file.File{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Goal{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrGoalNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *PostgresRepository) TeamsFor(ctx context.Context, goalIDs []string) (map[string][]domain.TeamRef, error) {
	result := make(map[string][]domain.TeamRef)
	if len(goalIDs) == 0 {
		return result, nil
	}

	type row struct {
		GoalID     string
		ID         string
		Name       string
		ColorTheme string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("goal_teams").
		Select("goal_teams.goal_id, teams.id, teams.name, teams.color_theme").
		Joins("JOIN teams ON teams.id = goal_teams.team_id").
		Where("goal_teams.goal_id IN ?", goalIDs).
		Order("teams.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.GoalID] = append(result[row.GoalID], domain.TeamRef{
			ID:         row.ID,
			Name:       row.Name,
			ColorTheme: row.ColorTheme,
		})
	}
	return result, nil
}

func (r *PostgresRepository) CategoriesFor(ctx context.Context, goalIDs []string) (map[string][]domain.CategoryRef, error) {
	result := make(map[string][]domain.CategoryRef)
	if len(goalIDs) == 0 {
		return result, nil
	}

	type row struct {
		GoalID string
		ID     string
		Name   string
		Color  string
		Icon   *string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("goal_categories").
		Select("goal_categories.goal_id, categories.id, categories.name, categories.color, categories.icon").
		Joins("JOIN categories ON categories.id = goal_categories.category_id").
		Where("goal_categories.goal_id IN ?", goalIDs).
		Order("categories.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.GoalID] = append(result[row.GoalID], domain.CategoryRef{
			ID:    row.ID,
			Name:  row.Name,
			Color: row.Color,
			Icon:  row.Icon,
		})
	}
	return result, nil
}

func (r *PostgresRepository) SharesTeam(ctx context.Context, goalID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("goal_teams").
		Joins("JOIN team_members ON team_members.team_id = goal_teams.team_id").
		Where("goal_teams.goal_id = ? AND team_members.user_id = ?", goalID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddTeams inserts the missing assignments and returns the team ids that
// were not assigned before.
func (r *PostgresRepository) AddTeams(ctx context.Context, goalID, assignedBy string, teamIDs []string) ([]string, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	var existing []string
	if err := r.db.WithContext(ctx).
		Model(&domain.GoalTeam{}).
		Where("goal_id = ? AND team_id IN ?", goalID, teamIDs).
		Pluck("team_id", &existing).Error; err != nil {
		return nil, err
	}
	assigned := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		assigned[id] = struct{}{}
	}

	var rows []domain.GoalTeam
	var added []string
	for _, teamID := range teamIDs {
		if _, ok := assigned[teamID]; ok {
			continue
		}
		assigned[teamID] = struct{}{}
		rows = append(rows, domain.GoalTeam{GoalID: goalID, TeamID: teamID, AssignedBy: assignedBy})
		added = append(added, teamID)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, translateWrite(err)
	}
	return added, nil
}

func (r *PostgresRepository) RemoveTeam(ctx context.Context, goalID, teamID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("goal_id = ? AND team_id = ?", goalID, teamID).
		Delete(&domain.GoalTeam{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) AddCategories(ctx context.Context, goalID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]domain.GoalCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, domain.GoalCategory{GoalID: goalID, CategoryID: id})
	}
	return translateWrite(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error)
}

func (r *PostgresRepository) RemoveCategory(ctx context.Context, goalID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("goal_id = ? AND category_id = ?", goalID, categoryID).
		Delete(&domain.GoalCategory{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
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

func (r *PostgresRepository) TemplateFacts(ctx context.Context, templateID string) (string, bool, error) {
	var row struct {
		UserID   string
		IsShared bool
	}
	err := r.db.WithContext(ctx).
		Table("goal_templates").
		Select("user_id, is_shared").
		Where("id = ?", templateID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, domain.ErrTemplateNotFound
	}
	if err != nil {
		return "", false, err
	}
	return row.UserID, row.IsShared, nil
}

func (r *PostgresRepository) TeamMemberIDs(ctx context.Context, teamIDs []string) ([]string, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&team.Member{}).
		Distinct("user_id").
		Where("team_id IN ?", teamIDs).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
