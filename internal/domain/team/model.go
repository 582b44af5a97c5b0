package team

import (
	"time"

	"goal-tracker-go/internal/domain/access"
)

const (
	DefaultColorTheme = "#3B82F6"
	// MaxNestingLevel is the deepest level a team may sit at; roots are 0.
	MaxNestingLevel = 2
	maxNameLength   = 100
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

type Team struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Description  *string   `gorm:"type:text"`
	ColorTheme   string    `gorm:"type:varchar(7);not null"`
	ParentTeamID *string   `gorm:"type:uuid;index"`
	NestingLevel int       `gorm:"not null;default:0"`
	CreatedBy    string    `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Team) TableName() string {
	return "teams"
}

type Member struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	TeamID    string      `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user,priority:1"`
	UserID    string      `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user,priority:2;index"`
	Role      access.Role `gorm:"type:varchar(16);not null"`
	InvitedBy *string     `gorm:"type:uuid"`
	JoinedAt  time.Time   `gorm:"autoCreateTime"`
}

func (Member) TableName() string {
	return "team_members"
}

type Invitation struct {
	ID         string           `gorm:"type:uuid;primaryKey"`
	TeamID     string           `gorm:"type:uuid;not null;index"`
	Email      string           `gorm:"type:text;not null;index"`
	InviteCode string           `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status     InvitationStatus `gorm:"type:varchar(16);not null"`
	InvitedBy  string           `gorm:"type:uuid;not null"`
	CreatedAt  time.Time        `gorm:"not null"`
	ExpiresAt  time.Time        `gorm:"not null"`
}

func (Invitation) TableName() string {
	return "team_invitations"
}

type Details struct {
	Team
	Role        access.Role
	MemberCount int64
	SubTeams    []Team
}

type MemberDetails struct {
	Member
	Email string
	Name  string
}

type InvitationDetails struct {
	Invitation
	TeamName string
}

type CreateTeamInput struct {
	Name         string
	Description  *string
	ColorTheme   string
	ParentTeamID *string
}

type UpdateTeamInput struct {
	Name         *string
	Description  *string
	ColorTheme   *string
	ParentTeamID *string
	ClearParent  bool
}

func (in UpdateTeamInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.ColorTheme == nil && in.ParentTeamID == nil && !in.ClearParent
}

// Caller identifies the authenticated user acting on invitations.
type Caller struct {
	ID    string
	Email string
}

// InvitationEmail is what the mailer receives for a new invitation.
type InvitationEmail struct {
	Email      string
	TeamName   string
	InviteCode string
	ExpiresAt  time.Time
}
