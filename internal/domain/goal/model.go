package goal

import "time"

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
	VisibilityTeam    Visibility = "team"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic || v == VisibilityTeam
}

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	maxTitleLength  = 200
	maxStatusLength = 50
	// maxAncestorWalk bounds the parent chain walk during cycle checks.
	maxAncestorWalk = 100

	DefaultPublicLimit = 50
	MaxPublicLimit     = 100
)

// DefaultStatuses are always available regardless of custom statuses.
var DefaultStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

type Goal struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	UserID       string     `gorm:"type:uuid;not null;index"`
	Title        string     `gorm:"type:varchar(200);not null"`
	Description  *string    `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(50);not null"`
	TargetDate   *time.Time `gorm:"index"`
	Visibility   Visibility `gorm:"type:varchar(16);not null;index"`
	ParentGoalID *string    `gorm:"type:uuid;index"`
	DisplayOrder int        `gorm:"not null;default:0"`
	TemplateID   *string    `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Goal) TableName() string {
	return "goals"
}

type GoalTeam struct {
	GoalID     string    `gorm:"type:uuid;primaryKey"`
	TeamID     string    `gorm:"type:uuid;primaryKey;index"`
	AssignedBy string    `gorm:"type:uuid;not null"`
	AssignedAt time.Time `gorm:"autoCreateTime"`
}

func (GoalTeam) TableName() string {
	return "goal_teams"
}

type GoalCategory struct {
	GoalID     string    `gorm:"type:uuid;primaryKey"`
	CategoryID string    `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (GoalCategory) TableName() string {
	return "goal_categories"
}

type TeamRef struct {
	ID         string
	Name       string
	ColorTheme string
}

type CategoryRef struct {
	ID    string
	Name  string
	Color string
	Icon  *string
}

// Details is a goal with its join rows flattened into plain lists.
type Details struct {
	Goal
	Teams      []TeamRef
	Categories []CategoryRef
}

type SortField string

const (
	SortCreatedAt    SortField = "created_at"
	SortTargetDate   SortField = "target_date"
	SortTitle        SortField = "title"
	SortStatus       SortField = "status"
	SortDisplayOrder SortField = "display_order"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Filter struct {
	Search      string
	Statuses    []string
	CategoryIDs []string
	TargetFrom  *time.Time
	TargetTo    *time.Time
	// ParentGoalID restricts to children of one goal; RootOnly to goals
	// without a parent.
	ParentGoalID *string
	RootOnly     bool
	SortBy       SortField
	SortDir      SortDirection
}

type CreateInput struct {
	Title        string
	Description  *string
	Status       string
	TargetDate   *time.Time
	Visibility   Visibility
	ParentGoalID *string
	DisplayOrder *int
	TemplateID   *string
	CategoryIDs  []string
	TeamIDs      []string
}

type UpdateInput struct {
	Title           *string
	Description     *string
	Status          *string
	TargetDate      *time.Time
	ClearTargetDate bool
	Visibility      *Visibility
	ParentGoalID    *string
	ClearParent     bool
	DisplayOrder    *int
}

func (in UpdateInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.TargetDate == nil && !in.ClearTargetDate && in.Visibility == nil &&
		in.ParentGoalID == nil && !in.ClearParent && in.DisplayOrder == nil
}
