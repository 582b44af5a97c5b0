package template

import "time"

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	return r == RecurrenceDaily || r == RecurrenceWeekly || r == RecurrenceMonthly
}

const (
	maxNameLength   = 100
	maxTitleLength  = 200
	maxStatusLength = 50
	minInterval     = 1
	maxInterval     = 365

	// DatePlaceholder in a title template is replaced by the current date.
	DatePlaceholder = "{date}"
	dateLayout      = "2006-01-02"
)

type Template struct {
	ID                  string      `gorm:"type:uuid;primaryKey"`
	UserID              string      `gorm:"type:uuid;not null;index"`
	Name                string      `gorm:"type:varchar(100);not null"`
	TitleTemplate       string      `gorm:"type:varchar(200);not null"`
	DescriptionTemplate *string     `gorm:"type:text"`
	DefaultStatus       *string     `gorm:"type:varchar(50)"`
	IsRecurring         bool        `gorm:"not null;default:false"`
	RecurrenceType      *Recurrence `gorm:"type:varchar(16)"`
	RecurrenceInterval  int         `gorm:"not null;default:1"`
	IsShared            bool        `gorm:"not null;default:false;index"`
	CreatedAt           time.Time   `gorm:"autoCreateTime"`
	UpdatedAt           time.Time   `gorm:"autoUpdateTime"`
}

func (Template) TableName() string {
	return "goal_templates"
}

type TemplateCategory struct {
	TemplateID string `gorm:"type:uuid;primaryKey"`
	CategoryID string `gorm:"type:uuid;primaryKey"`
}

func (TemplateCategory) TableName() string {
	return "template_categories"
}

type TemplateTeam struct {
	TemplateID string `gorm:"type:uuid;primaryKey"`
	TeamID     string `gorm:"type:uuid;primaryKey"`
}

func (TemplateTeam) TableName() string {
	return "template_teams"
}

type Details struct {
	Template
	CategoryIDs []string
	TeamIDs     []string
}

type CreateInput struct {
	Name                string
	TitleTemplate       string
	DescriptionTemplate *string
	DefaultStatus       *string
	IsRecurring         bool
	RecurrenceType      *Recurrence
	RecurrenceInterval  *int
	IsShared            bool
	CategoryIDs         []string
	TeamIDs             []string
}

// UpdateInput replaces the join rows when CategoryIDs or TeamIDs is non-nil.
type UpdateInput struct {
	Name                *string
	TitleTemplate       *string
	DescriptionTemplate *string
	DefaultStatus       *string
	IsRecurring         *bool
	RecurrenceType      *Recurrence
	RecurrenceInterval  *int
	IsShared            *bool
	CategoryIDs         *[]string
	TeamIDs             *[]string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.TitleTemplate == nil && in.DescriptionTemplate == nil &&
		in.DefaultStatus == nil && in.IsRecurring == nil && in.RecurrenceType == nil &&
		in.RecurrenceInterval == nil && in.IsShared == nil && in.CategoryIDs == nil && in.TeamIDs == nil
}

type InstantiateInput struct {
	TemplateID            string
	TitleOverride         *string
	DescriptionOverride   *string
	TargetDate            *time.Time
	AdditionalCategoryIDs []string
	AdditionalTeamIDs     []string
}
