package team

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/apperr"
	"goal-tracker-go/internal/domain/notification"
)

const InvitationTTL = 7 * 24 * time.Hour

func (s *Service) Invite(ctx context.Context, teamID, userID, email string) (*Invitation, error) {
	team, _, err := s.authorize(ctx, teamID, userID, access.ActionManage)
	if err != nil {
		return nil, err
	}

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var inviteeID string
	if s.profiles != nil {
		profile, err := s.profiles.FindByEmail(ctx, email)
		switch {
		case err == nil:
			inviteeID = profile.UserID
		case apperr.IsKind(err, apperr.NotFound):
		default:
			return nil, err
		}
	}
	if inviteeID != "" {
		role, err := s.repo.MemberRole(ctx, teamID, inviteeID)
		if err != nil {
			return nil, err
		}
		if role != access.RoleNone {
			return nil, ErrAlreadyMember
		}
	}

	now := s.now()
	pending, err := s.repo.HasPendingInvitation(ctx, teamID, email, now)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrInvitationExists
	}

	code, err := generateUniqueCode(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	invitation := Invitation{
		ID:         uuid.NewString(),
		TeamID:     teamID,
		Email:      email,
		InviteCode: code,
		Status:     InvitationPending,
		InvitedBy:  userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(InvitationTTL),
	}
	if err := s.repo.CreateInvitation(ctx, &invitation); err != nil {
		return nil, err
	}

	if inviteeID != "" {
		s.notify(ctx, []string{inviteeID}, notification.Message{
			Type:      notification.TypeTeamInvitation,
			Title:     "Team invitation",
			Body:      fmt.Sprintf("You've been invited to join %s", team.Name),
			RelatedID: invitation.ID,
		})
	}

	if s.mailer != nil {
		err := s.mailer.SendInvitation(ctx, InvitationEmail{
			Email:      email,
			TeamName:   team.Name,
			InviteCode: code,
			ExpiresAt:  invitation.ExpiresAt,
		})
		if err != nil {
			s.log.InternalError("teams.invite: send invitation email failed", err, "team_id", teamID, "invitation_id", invitation.ID)
		}
	}

	return &invitation, nil
}

func (s *Service) ListTeamInvitations(ctx context.Context, teamID, userID string) ([]Invitation, error) {
	if _, _, err := s.authorize(ctx, teamID, userID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListInvitationsByTeam(ctx, teamID)
}

// ListMyInvitations returns pending, unexpired invitations addressed to
// the caller's email.
func (s *Service) ListMyInvitations(ctx context.Context, email string) ([]InvitationDetails, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return []InvitationDetails{}, nil
	}

	invitations, err := s.repo.ListPendingInvitationsByEmail(ctx, email, s.now())
	if err != nil {
		return nil, err
	}
	return s.withTeamNames(ctx, invitations)
}

func (s *Service) AcceptInvitation(ctx context.Context, invitationID string, caller Caller) (*Member, error) {
	invitation, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(invitation.Email, strings.TrimSpace(caller.Email)) {
		return nil, ErrInvitationMismatch
	}
	if err := s.ensurePending(ctx, invitation); err != nil {
		return nil, err
	}
	return s.join(ctx, invitation, caller.ID)
}

func (s *Service) DeclineInvitation(ctx context.Context, invitationID string, caller Caller) error {
	invitation, err := s.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(invitation.Email, strings.TrimSpace(caller.Email)) {
		return ErrInvitationMismatch
	}
	if err := s.ensurePending(ctx, invitation); err != nil {
		return err
	}
	return s.repo.SetInvitationStatus(ctx, invitation.ID, InvitationDeclined)
}

func (s *Service) GetInvitationByCode(ctx context.Context, code string) (*InvitationDetails, error) {
	invitation, err := s.byCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePending(ctx, invitation); err != nil {
		return nil, err
	}

	details, err := s.withTeamNames(ctx, []Invitation{*invitation})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// JoinByCode lets any authenticated caller holding the code join the team.
func (s *Service) JoinByCode(ctx context.Context, code, userID string) (*Member, error) {
	invitation, err := s.byCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePending(ctx, invitation); err != nil {
		return nil, err
	}
	return s.join(ctx, invitation, userID)
}

func (s *Service) byCode(ctx context.Context, code string) (*Invitation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvitationNotFound
	}
	return s.repo.GetInvitationByCode(ctx, code)
}

// ensurePending enforces the invitation lifecycle. Expiry is detected here,
// at access time, and persisted before the error is returned.
func (s *Service) ensurePending(ctx context.Context, invitation *Invitation) error {
	if invitation.Status != InvitationPending {
		return ErrInvitationNotPending
	}
	if !s.now().Before(invitation.ExpiresAt) {
		if err := s.repo.SetInvitationStatus(ctx, invitation.ID, InvitationExpired); err != nil {
			return err
		}
		invitation.Status = InvitationExpired
		return ErrInvitationExpired
	}
	return nil
}

// join adds the user to the invitation's team and marks it accepted. A user
// who already belongs to the team keeps the existing membership; the
// invitation is still consumed.
func (s *Service) join(ctx context.Context, invitation *Invitation, userID string) (*Member, error) {
	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		role, err := tx.MemberRole(ctx, invitation.TeamID, userID)
		if err != nil {
			return err
		}

		if role != access.RoleNone {
			existing, err := tx.GetMember(ctx, invitation.TeamID, userID)
			if err != nil {
				return err
			}
			result = *existing
		} else {
			inviter := invitation.InvitedBy
			result = Member{
				ID:        uuid.NewString(),
				TeamID:    invitation.TeamID,
				UserID:    userID,
				Role:      access.RoleMember,
				InvitedBy: &inviter,
				JoinedAt:  s.now(),
			}
			if err := tx.AddMember(ctx, &result); err != nil {
				return err
			}
		}

		return tx.SetInvitationStatus(ctx, invitation.ID, InvitationAccepted)
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = InvitationAccepted
	return &result, nil
}

func (s *Service) withTeamNames(ctx context.Context, invitations []Invitation) ([]InvitationDetails, error) {
	result := make([]InvitationDetails, 0, len(invitations))
	if len(invitations) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(invitations))
	for _, invitation := range invitations {
		ids = append(ids, invitation.TeamID)
	}
	teams, err := s.repo.GetTeams(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}

	for _, invitation := range invitations {
		result = append(result, InvitationDetails{Invitation: invitation, TeamName: names[invitation.TeamID]})
	}
	return result, nil
}

func normalizeEmail(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", ErrInvalidEmail
	}
	return value, nil
}
