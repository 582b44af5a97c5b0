package status

import "time"

const (
	DefaultColor  = "#3B82F6"
	maxNameLength = 50
	maxIconLength = 50
)

// DefaultStatuses are the built-in goal statuses every caller can use.
var DefaultStatuses = []string{"pending", "in_progress", "completed"}

type UserStatus struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_statuses_user_name,priority:1"`
	Name         string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_statuses_user_name,priority:2"`
	Color        string    `gorm:"type:varchar(7);not null"`
	Icon         *string   `gorm:"type:varchar(50)"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserStatus) TableName() string {
	return "user_statuses"
}

type TeamStatus struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	TeamID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_team_statuses_team_name,priority:1"`
	Name         string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_team_statuses_team_name,priority:2"`
	Color        string    `gorm:"type:varchar(7);not null"`
	Icon         *string   `gorm:"type:varchar(50)"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedBy    string    `gorm:"type:uuid;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (TeamStatus) TableName() string {
	return "team_statuses"
}

type Combined struct {
	UserStatuses    []UserStatus
	TeamStatuses    []TeamStatus
	DefaultStatuses []string
}

type CreateInput struct {
	Name         string
	Color        string
	Icon         *string
	DisplayOrder int
}

type UpdateInput struct {
	Name         *string
	Color        *string
	Icon         *string
	DisplayOrder *int
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Color == nil && in.Icon == nil && in.DisplayOrder == nil
}

// fields is the validated, shared part of both status kinds.
type fields struct {
	name         string
	color        string
	icon         *string
	displayOrder int
}
