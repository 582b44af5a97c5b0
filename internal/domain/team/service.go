package team

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/apperr"
	"goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/internal/domain/user"
	"goal-tracker-go/pkg/logger"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Notifier interface {
	NotifyMany(ctx context.Context, userIDs []string, msg notification.Message) error
}

type Profiles interface {
	FindByEmail(ctx context.Context, email string) (*user.Profile, error)
	GetProfiles(ctx context.Context, userIDs []string) (map[string]user.Profile, error)
}

type Mailer interface {
	SendInvitation(ctx context.Context, email InvitationEmail) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	profiles Profiles
	mailer   Mailer
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, profiles Profiles, mailer Mailer, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		profiles: profiles,
		mailer:   mailer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MemberRole reports the caller's role in a team, RoleNone when absent.
func (s *Service) MemberRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	return s.repo.MemberRole(ctx, teamID, userID)
}

func (s *Service) CreateTeam(ctx context.Context, userID string, input CreateTeamInput) (*Details, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	color, err := normalizeColor(input.ColorTheme)
	if err != nil {
		return nil, err
	}

	team := Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: trimOptional(input.Description),
		ColorTheme:  color,
		CreatedBy:   userID,
	}

	if input.ParentTeamID != nil && *input.ParentTeamID != "" {
		parent, err := s.loadParent(ctx, *input.ParentTeamID, userID)
		if err != nil {
			return nil, err
		}
		if parent.NestingLevel >= MaxNestingLevel {
			return nil, ErrNestingTooDeep
		}
		parentID := parent.ID
		team.ParentTeamID = &parentID
		team.NestingLevel = parent.NestingLevel + 1
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateTeam(ctx, &team); err != nil {
			return err
		}
		return tx.AddMember(ctx, &Member{
			ID:     uuid.NewString(),
			TeamID: team.ID,
			UserID: userID,
			Role:   access.RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	return &Details{Team: team, Role: access.RoleOwner, MemberCount: 1}, nil
}

func (s *Service) ListTeams(ctx context.Context, userID string) ([]Details, error) {
	memberships, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []Details{}, nil
	}

	roles := make(map[string]access.Role, len(memberships))
	ids := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		roles[membership.TeamID] = membership.Role
		ids = append(ids, membership.TeamID)
	}

	teams, err := s.repo.GetTeams(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Details, 0, len(teams))
	for _, team := range teams {
		result = append(result, Details{
			Team:        team,
			Role:        roles[team.ID],
			MemberCount: counts[team.ID],
		})
	}
	return result, nil
}

func (s *Service) GetTeam(ctx context.Context, teamID, userID string) (*Details, error) {
	team, role, err := s.authorize(ctx, teamID, userID, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, team, role)
}

// UpdateTeam applies a partial update. Moving a team under a new parent
// re-checks the nesting cap for the whole subtree and refuses cycles.
func (s *Service) UpdateTeam(ctx context.Context, teamID, userID string, input UpdateTeamInput) (*Details, error) {
	team, role, err := s.authorize(ctx, teamID, userID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return s.details(ctx, team, role)
	}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = trimOptional(input.Description)
	}
	if input.ColorTheme != nil {
		color, err := normalizeColor(*input.ColorTheme)
		if err != nil {
			return nil, err
		}
		team.ColorTheme = color
	}

	var relevel []Team
	var depths map[string]int
	if move, newParent := reparentTarget(team, input); move {
		newLevel := 0
		if newParent != "" {
			if newParent == team.ID {
				return nil, ErrTeamCycle
			}
			parent, err := s.loadParent(ctx, newParent, userID)
			if err != nil {
				return nil, err
			}
			if parent.NestingLevel >= MaxNestingLevel {
				return nil, ErrNestingTooDeep
			}
			newLevel = parent.NestingLevel + 1
		}

		descendants, d, err := s.subtree(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		height := 0
		for _, child := range descendants {
			if child.ID == newParent {
				return nil, ErrTeamCycle
			}
			if d[child.ID] > height {
				height = d[child.ID]
			}
		}
		if newLevel+height > MaxNestingLevel {
			return nil, ErrNestingTooDeep
		}

		if newParent == "" {
			team.ParentTeamID = nil
		} else {
			team.ParentTeamID = &newParent
		}
		team.NestingLevel = newLevel
		relevel, depths = descendants, d
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateTeam(ctx, team); err != nil {
			return err
		}
		for _, child := range relevel {
			if err := tx.SetNestingLevel(ctx, child.ID, team.NestingLevel+depths[child.ID]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.details(ctx, team, role)
}

func (s *Service) DeleteTeam(ctx context.Context, teamID, userID string) error {
	team, _, err := s.authorize(ctx, teamID, userID, access.ActionDelete)
	if err != nil {
		return err
	}

	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return err
	}
	recipients := make([]string, 0, len(members))
	for _, member := range members {
		if member.UserID != userID {
			recipients = append(recipients, member.UserID)
		}
	}
	s.notify(ctx, recipients, notification.Message{
		Type:      notification.TypeTeamDeleted,
		Title:     "Team deleted",
		Body:      fmt.Sprintf("The team %s has been deleted", team.Name),
		RelatedID: team.ID,
	})

	return s.repo.DeleteTeam(ctx, teamID)
}

// authorize loads a team and checks the caller may perform action on it.
// Non-members get ErrTeamNotFound; members lacking rights get
// ErrNotTeamOwner.
func (s *Service) authorize(ctx context.Context, teamID, userID string, action access.Action) (*Team, access.Role, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	role, err := s.repo.MemberRole(ctx, teamID, userID)
	if err != nil {
		return nil, access.RoleNone, err
	}

	res := access.Resource{Kind: access.KindTeam, OwnerID: team.CreatedBy, MemberRole: role}
	if !access.Can(userID, action, res) {
		return nil, role, denial(access.Denial(action, res))
	}
	return team, role, nil
}

func (s *Service) loadParent(ctx context.Context, parentID, userID string) (*Team, error) {
	role, err := s.repo.MemberRole(ctx, parentID, userID)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, access.ActionAttach, access.Resource{Kind: access.KindTeam, MemberRole: role}) {
		return nil, ErrParentTeamNotFound
	}
	parent, err := s.repo.GetTeam(ctx, parentID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, ErrParentTeamNotFound
		}
		return nil, err
	}
	return parent, nil
}

// subtree returns every descendant of rootID with its depth below the root.
// The walk is bounded by the nesting cap plus one level of slack.
func (s *Service) subtree(ctx context.Context, rootID string) ([]Team, map[string]int, error) {
	var result []Team
	depths := make(map[string]int)
	frontier := []string{rootID}
	for depth := 1; len(frontier) > 0; depth++ {
		if depth > MaxNestingLevel+1 {
			return nil, nil, ErrTeamCycle
		}
		children, err := s.repo.ListChildren(ctx, frontier)
		if err != nil {
			return nil, nil, err
		}
		next := make([]string, 0, len(children))
		for _, child := range children {
			if _, seen := depths[child.ID]; seen || child.ID == rootID {
				return nil, nil, ErrTeamCycle
			}
			depths[child.ID] = depth
			result = append(result, child)
			next = append(next, child.ID)
		}
		frontier = next
	}
	return result, depths, nil
}

func (s *Service) details(ctx context.Context, team *Team, role access.Role) (*Details, error) {
	children, err := s.repo.ListChildren(ctx, []string{team.ID})
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountMembers(ctx, []string{team.ID})
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []Team{}
	}
	return &Details{Team: *team, Role: role, MemberCount: counts[team.ID], SubTeams: children}, nil
}

func (s *Service) notify(ctx context.Context, userIDs []string, msg notification.Message) {
	if s.notifier == nil || len(userIDs) == 0 {
		return
	}
	if err := s.notifier.NotifyMany(ctx, userIDs, msg); err != nil {
		s.log.InternalError("teams.notify: create notifications failed", err, "type", msg.Type, "related_id", msg.RelatedID)
	}
}

func reparentTarget(team *Team, input UpdateTeamInput) (bool, string) {
	current := ""
	if team.ParentTeamID != nil {
		current = *team.ParentTeamID
	}
	if input.ClearParent {
		return current != "", ""
	}
	if input.ParentTeamID == nil {
		return false, ""
	}
	target := strings.TrimSpace(*input.ParentTeamID)
	return target != current, target
}

func denial(kind apperr.Kind) error {
	if kind == apperr.Forbidden {
		return ErrNotTeamOwner
	}
	return ErrTeamNotFound
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func normalizeColor(value string) (string, error) {
	color := strings.TrimSpace(value)
	if color == "" {
		return DefaultColorTheme, nil
	}
	if !colorPattern.MatchString(color) {
		return "", ErrInvalidColor
	}
	return color, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
