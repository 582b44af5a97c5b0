package team

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"goal-tracker-go/internal/domain/access"
	domain "goal-tracker-go/internal/domain/team"
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

func (r *PostgresRepository) CreateTeam(ctx context.Context, team *domain.Team) error {
	return translateWrite(r.db.WithContext(ctx).Create(team).Error)
}

// translateWrite reports a write against a team deleted in the meantime as
// a missing team.
func translateWrite(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.ErrTeamNotFound
	}
	return err
}

func (r *PostgresRepository) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *PostgresRepository) GetTeams(ctx context.Context, ids []string) ([]domain.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var teams []domain.Team
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at desc").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, parentIDs []string) ([]domain.Team, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var teams []domain.Team
	if err := r.db.WithContext(ctx).
		Where("parent_team_id IN ?", parentIDs).
		Order("created_at asc").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *PostgresRepository) UpdateTeam(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", team.ID).
		Updates(map[string]interface{}{
			"name":           team.Name,
			"description":    team.Description,
			"color_theme":    team.ColorTheme,
			"parent_team_id": team.ParentTeamID,
			"nesting_level":  team.NestingLevel,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) SetNestingLevel(ctx context.Context, teamID string, level int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", teamID).
		Update("nesting_level", level).Error
}

func (r *PostgresRepository) DeleteTeam(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Team{}).Error
}

func (r *PostgresRepository) MemberRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Select("role").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.RoleNone, nil
	}
	if err != nil {
		return access.RoleNone, err
	}
	return member.Role, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, teamID, userID string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, teamID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListMemberships(ctx context.Context, userID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, teamIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	type countRow struct {
		TeamID string
		Count  int64
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Select("team_id, count(*) as count").
		Where("team_id IN ?", teamIDs).
		Group("team_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TeamID] = row.Count
	}
	return result, nil
}

func (r *PostgresRepository) CountOwners(ctx context.Context, teamID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("team_id = ? AND role = ?", teamID, access.RoleOwner).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyMember
	}
	return translateWrite(err)
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, teamID, userID string, role access.Role) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, teamID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&domain.Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *domain.Invitation) error {
	return translateWrite(r.db.WithContext(ctx).Create(invitation).Error)
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.findInvitation(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetInvitationByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	return r.findInvitation(ctx, "invite_code = ?", code)
}

func (r *PostgresRepository) findInvitation(ctx context.Context, query string, arg string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).Where(query, arg).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) ListInvitationsByTeam(ctx context.Context, teamID string) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) ListPendingInvitationsByEmail(ctx context.Context, email string, now time.Time) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("email = ? AND status = ? AND expires_at > ?", email, domain.InvitationPending, now).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) HasPendingInvitation(ctx context.Context, teamID, email string, now time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("team_id = ? AND email = ? AND status = ? AND expires_at > ?", teamID, email, domain.InvitationPending, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetInvitationStatus moves a pending invitation to status. Concurrent
// consumers race on the status guard; the loser gets ErrInvitationNotPending.
func (r *PostgresRepository) SetInvitationStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ? AND status = ?", id, domain.InvitationPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvitationNotPending
	}
	return nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("invite_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
