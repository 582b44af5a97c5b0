package category

import "time"

const (
	DefaultColor  = "#3B82F6"
	maxNameLength = 50
	maxIconLength = 50
)

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_user_name,priority:2"`
	Color     string    `gorm:"type:varchar(7);not null"`
	Icon      *string   `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type CreateInput struct {
	Name  string
	Color string
	Icon  *string
}

type UpdateInput struct {
	Name  *string
	Color *string
	Icon  *string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Color == nil && in.Icon == nil
}
