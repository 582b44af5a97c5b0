package notification

import "time"

type Type string

const (
	TypeTeamInvitation    Type = "team_invitation"
	TypeTeamMemberAdded   Type = "team_member_added"
	TypeTeamMemberRemoved Type = "team_member_removed"
	TypeTeamGoalAssigned  Type = "team_goal_assigned"
	TypeTeamGoalCompleted Type = "team_goal_completed"
	TypeTeamDeleted       Type = "team_deleted"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
	maxTitleLength   = 200
)

type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1"`
	Type      Type      `gorm:"type:text;not null"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	RelatedID *string   `gorm:"type:text"`
	Read      bool      `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Message is what other services hand to the notifier; recipients are
// supplied separately.
type Message struct {
	Type      Type
	Title     string
	Body      string
	RelatedID string
}
