package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/notification"
)

func (s *Service) ListMembers(ctx context.Context, teamID, userID string) ([]MemberDetails, error) {
	if _, _, err := s.authorize(ctx, teamID, userID, access.ActionRead); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, members)
}

func (s *Service) AddMember(ctx context.Context, teamID, userID, memberUserID string, role access.Role) (*MemberDetails, error) {
	team, _, err := s.authorize(ctx, teamID, userID, access.ActionManage)
	if err != nil {
		return nil, err
	}
	if role == access.RoleNone {
		role = access.RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if memberUserID == "" {
		return nil, ErrMemberNotFound
	}

	existing, err := s.repo.MemberRole(ctx, teamID, memberUserID)
	if err != nil {
		return nil, err
	}
	if existing != access.RoleNone {
		return nil, ErrAlreadyMember
	}

	inviter := userID
	member := Member{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		UserID:    memberUserID,
		Role:      role,
		InvitedBy: &inviter,
		JoinedAt:  s.now(),
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return nil, err
	}

	s.notify(ctx, []string{memberUserID}, notification.Message{
		Type:      notification.TypeTeamMemberAdded,
		Title:     "Added to a team",
		Body:      fmt.Sprintf("You've been added to %s", team.Name),
		RelatedID: team.ID,
	})

	details, err := s.withProfiles(ctx, []Member{member})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) UpdateMemberRole(ctx context.Context, teamID, userID, memberUserID string, role access.Role) (*MemberDetails, error) {
	if _, _, err := s.authorize(ctx, teamID, userID, access.ActionManage); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	member, err := s.repo.GetMember(ctx, teamID, memberUserID)
	if err != nil {
		return nil, err
	}

	if member.Role != role {
		if member.Role == access.RoleOwner {
			if err := s.ensureAnotherOwner(ctx, teamID); err != nil {
				return nil, err
			}
		}
		if err := s.repo.UpdateMemberRole(ctx, teamID, memberUserID, role); err != nil {
			return nil, err
		}
		member.Role = role
	}

	details, err := s.withProfiles(ctx, []Member{*member})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// RemoveMember lets owners remove anyone and members remove themselves.
func (s *Service) RemoveMember(ctx context.Context, teamID, userID, memberUserID string) error {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	role, err := s.repo.MemberRole(ctx, teamID, userID)
	if err != nil {
		return err
	}

	res := access.Resource{Kind: access.KindMembership, MemberRole: role, SubjectUserID: memberUserID}
	if !access.Can(userID, access.ActionDelete, res) {
		return denial(access.Denial(access.ActionDelete, res))
	}

	member, err := s.repo.GetMember(ctx, teamID, memberUserID)
	if err != nil {
		return err
	}
	if member.Role == access.RoleOwner {
		if err := s.ensureAnotherOwner(ctx, teamID); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteMember(ctx, teamID, memberUserID); err != nil {
		return err
	}

	if memberUserID != userID {
		s.notify(ctx, []string{memberUserID}, notification.Message{
			Type:      notification.TypeTeamMemberRemoved,
			Title:     "Removed from a team",
			Body:      fmt.Sprintf("You've been removed from %s", team.Name),
			RelatedID: team.ID,
		})
	}
	return nil
}

func (s *Service) ensureAnotherOwner(ctx context.Context, teamID string) error {
	owners, err := s.repo.CountOwners(ctx, teamID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return ErrLastOwner
	}
	return nil
}

func (s *Service) withProfiles(ctx context.Context, members []Member) ([]MemberDetails, error) {
	result := make([]MemberDetails, 0, len(members))
	if len(members) == 0 {
		return result, nil
	}

	var profiles map[string]userProfile
	if s.profiles != nil {
		ids := make([]string, 0, len(members))
		for _, member := range members {
			ids = append(ids, member.UserID)
		}
		found, err := s.profiles.GetProfiles(ctx, ids)
		if err != nil {
			return nil, err
		}
		profiles = make(map[string]userProfile, len(found))
		for id, profile := range found {
			profiles[id] = userProfile{email: deref(profile.Email), name: deref(profile.Name)}
		}
	}

	for _, member := range members {
		profile := profiles[member.UserID]
		result = append(result, MemberDetails{Member: member, Email: profile.email, Name: profile.name})
	}
	return result, nil
}

type userProfile struct {
	email string
	name  string
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
