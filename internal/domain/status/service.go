package status

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/apperr"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Service struct {
	repo        Repository
	memberships access.Memberships
}

func NewService(repo Repository, memberships access.Memberships) *Service {
	return &Service{repo: repo, memberships: memberships}
}

func (s *Service) ListUserStatuses(ctx context.Context, userID string) ([]UserStatus, error) {
	return s.repo.ListUserStatuses(ctx, userID)
}

func (s *Service) CreateUserStatus(ctx context.Context, userID string, input CreateInput) (*UserStatus, error) {
	f, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	status := UserStatus{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         f.name,
		Color:        f.color,
		Icon:         f.icon,
		DisplayOrder: f.displayOrder,
	}
	if err := s.repo.CreateUserStatus(ctx, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, id, userID string, input UpdateInput) (*UserStatus, error) {
	status, err := s.loadUserStatus(ctx, id, userID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return status, nil
	}

	f := fields{name: status.Name, color: status.Color, icon: status.Icon, displayOrder: status.DisplayOrder}
	if err := applyPatch(&f, input); err != nil {
		return nil, err
	}
	status.Name, status.Color, status.Icon, status.DisplayOrder = f.name, f.color, f.icon, f.displayOrder

	if err := s.repo.UpdateUserStatus(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Service) DeleteUserStatus(ctx context.Context, id, userID string) error {
	if _, err := s.loadUserStatus(ctx, id, userID, access.ActionDelete); err != nil {
		return err
	}
	return s.repo.DeleteUserStatus(ctx, id)
}

func (s *Service) ListTeamStatuses(ctx context.Context, teamID, userID string) ([]TeamStatus, error) {
	if err := s.authorizeTeam(ctx, teamID, userID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListTeamStatuses(ctx, teamID)
}

func (s *Service) CreateTeamStatus(ctx context.Context, teamID, userID string, input CreateInput) (*TeamStatus, error) {
	if err := s.authorizeTeam(ctx, teamID, userID, access.ActionManage); err != nil {
		return nil, err
	}
	f, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	status := TeamStatus{
		ID:           uuid.NewString(),
		TeamID:       teamID,
		Name:         f.name,
		Color:        f.color,
		Icon:         f.icon,
		DisplayOrder: f.displayOrder,
		CreatedBy:    userID,
	}
	if err := s.repo.CreateTeamStatus(ctx, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) UpdateTeamStatus(ctx context.Context, teamID, id, userID string, input UpdateInput) (*TeamStatus, error) {
	status, err := s.loadTeamStatus(ctx, teamID, id, userID)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return status, nil
	}

	f := fields{name: status.Name, color: status.Color, icon: status.Icon, displayOrder: status.DisplayOrder}
	if err := applyPatch(&f, input); err != nil {
		return nil, err
	}
	status.Name, status.Color, status.Icon, status.DisplayOrder = f.name, f.color, f.icon, f.displayOrder

	if err := s.repo.UpdateTeamStatus(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Service) DeleteTeamStatus(ctx context.Context, teamID, id, userID string) error {
	if _, err := s.loadTeamStatus(ctx, teamID, id, userID); err != nil {
		return err
	}
	return s.repo.DeleteTeamStatus(ctx, id)
}

func (s *Service) Combined(ctx context.Context, userID string) (*Combined, error) {
	userStatuses, err := s.repo.ListUserStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}
	teamStatuses, err := s.repo.ListMemberTeamStatuses(ctx, userID)
	if err != nil {
		return nil, err
	}

	defaults := make([]string, len(DefaultStatuses))
	copy(defaults, DefaultStatuses)
	return &Combined{
		UserStatuses:    userStatuses,
		TeamStatuses:    teamStatuses,
		DefaultStatuses: defaults,
	}, nil
}

func (s *Service) loadUserStatus(ctx context.Context, id, userID string, action access.Action) (*UserStatus, error) {
	status, err := s.repo.GetUserStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, action, access.Resource{Kind: access.KindUserStatus, OwnerID: status.UserID}) {
		return nil, ErrStatusNotFound
	}
	return status, nil
}

// loadTeamStatus authorizes the team before looking at the status so
// outsiders cannot tell which status ids exist.
func (s *Service) loadTeamStatus(ctx context.Context, teamID, id, userID string) (*TeamStatus, error) {
	if err := s.authorizeTeam(ctx, teamID, userID, access.ActionManage); err != nil {
		return nil, err
	}
	status, err := s.repo.GetTeamStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if status.TeamID != teamID {
		return nil, ErrStatusNotFound
	}
	return status, nil
}

func (s *Service) authorizeTeam(ctx context.Context, teamID, userID string, action access.Action) error {
	role, err := s.memberships.MemberRole(ctx, teamID, userID)
	if err != nil {
		return err
	}
	res := access.Resource{Kind: access.KindTeam, MemberRole: role}
	if access.Can(userID, action, res) {
		return nil
	}
	if access.Denial(action, res) == apperr.Forbidden {
		return ErrNotTeamOwner
	}
	return ErrTeamNotFound
}

func validateCreate(input CreateInput) (fields, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return fields{}, err
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return fields{}, ErrInvalidColor
	}
	icon, err := normalizeIcon(input.Icon)
	if err != nil {
		return fields{}, err
	}
	if input.DisplayOrder < 0 {
		return fields{}, ErrInvalidDisplayOrder
	}
	return fields{name: name, color: color, icon: icon, displayOrder: input.DisplayOrder}, nil
}

func applyPatch(f *fields, input UpdateInput) error {
	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return err
		}
		f.name = name
	}
	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if !colorPattern.MatchString(color) {
			return ErrInvalidColor
		}
		f.color = color
	}
	if input.Icon != nil {
		icon, err := normalizeIcon(input.Icon)
		if err != nil {
			return err
		}
		f.icon = icon
	}
	if input.DisplayOrder != nil {
		if *input.DisplayOrder < 0 {
			return ErrInvalidDisplayOrder
		}
		f.displayOrder = *input.DisplayOrder
	}
	return nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func normalizeIcon(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	icon := strings.TrimSpace(*value)
	if icon == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(icon) > maxIconLength {
		return nil, ErrInvalidIcon
	}
	return &icon, nil
}
