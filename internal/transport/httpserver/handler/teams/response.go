package teams

import (
	"time"

	teamdomain "goal-tracker-go/internal/domain/team"
)

type teamResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description"`
	ColorTheme   string         `json:"color_theme"`
	ParentTeamID *string        `json:"parent_team_id"`
	NestingLevel int            `json:"nesting_level"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Role         string         `json:"role,omitempty"`
	MemberCount  *int64         `json:"member_count,omitempty"`
	SubTeams     []teamResponse `json:"sub_teams,omitempty"`
}

type memberResponse struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	InvitedBy *string   `json:"invited_by"`
	JoinedAt  time.Time `json:"joined_at"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
}

type invitationResponse struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name,omitempty"`
	Email      string    `json:"email"`
	InviteCode string    `json:"invite_code"`
	Status     string    `json:"status"`
	InvitedBy  string    `json:"invited_by"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func newTeamResponse(team teamdomain.Team) teamResponse {
	return teamResponse{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		ColorTheme:   team.ColorTheme,
		ParentTeamID: team.ParentTeamID,
		NestingLevel: team.NestingLevel,
		CreatedBy:    team.CreatedBy,
		CreatedAt:    team.CreatedAt,
		UpdatedAt:    team.UpdatedAt,
	}
}

func newTeamDetailsResponse(details teamdomain.Details, withSubTeams bool) teamResponse {
	response := newTeamResponse(details.Team)
	response.Role = string(details.Role)
	count := details.MemberCount
	response.MemberCount = &count
	if withSubTeams {
		response.SubTeams = make([]teamResponse, 0, len(details.SubTeams))
		for _, sub := range details.SubTeams {
			response.SubTeams = append(response.SubTeams, newTeamResponse(sub))
		}
	}
	return response
}

func newMemberResponse(member teamdomain.Member) memberResponse {
	return memberResponse{
		ID:        member.ID,
		TeamID:    member.TeamID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		InvitedBy: member.InvitedBy,
		JoinedAt:  member.JoinedAt,
	}
}

func newMemberDetailsResponse(details teamdomain.MemberDetails) memberResponse {
	response := newMemberResponse(details.Member)
	response.Email = details.Email
	response.Name = details.Name
	return response
}

func newInvitationResponse(invitation teamdomain.Invitation, teamName string) invitationResponse {
	return invitationResponse{
		ID:         invitation.ID,
		TeamID:     invitation.TeamID,
		TeamName:   teamName,
		Email:      invitation.Email,
		InviteCode: invitation.InviteCode,
		Status:     string(invitation.Status),
		InvitedBy:  invitation.InvitedBy,
		CreatedAt:  invitation.CreatedAt,
		ExpiresAt:  invitation.ExpiresAt,
	}
}
