package goals

import (
	"time"

	goaldomain "goal-tracker-go/internal/domain/goal"
)

type teamRefResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorTheme string `json:"color_theme"`
}

type categoryRefResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon"`
}

type GoalResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	Title        string                `json:"title"`
	Description  *string               `json:"description"`
	Status       string                `json:"status"`
	TargetDate   *time.Time            `json:"target_date"`
	Visibility   string                `json:"visibility"`
	IsPublic     bool                  `json:"is_public"`
	ParentGoalID *string               `json:"parent_goal_id"`
	DisplayOrder int                   `json:"display_order"`
	TemplateID   *string               `json:"template_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Teams        []teamRefResponse     `json:"teams"`
	Categories   []categoryRefResponse `json:"categories"`
}

func NewGoalResponse(details goaldomain.Details) GoalResponse {
	teams := make([]teamRefResponse, 0, len(details.Teams))
	for _, team := range details.Teams {
		teams = append(teams, teamRefResponse{ID: team.ID, Name: team.Name, ColorTheme: team.ColorTheme})
	}
	categories := make([]categoryRefResponse, 0, len(details.Categories))
	for _, category := range details.Categories {
		categories = append(categories, categoryRefResponse{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
		})
	}

	return GoalResponse{
		ID:           details.ID,
		UserID:       details.UserID,
		Title:        details.Title,
		Description:  details.Description,
		Status:       details.Status,
		TargetDate:   details.TargetDate,
		Visibility:   string(details.Visibility),
		IsPublic:     details.Visibility == goaldomain.VisibilityPublic,
		ParentGoalID: details.ParentGoalID,
		DisplayOrder: details.DisplayOrder,
		TemplateID:   details.TemplateID,
		CreatedAt:    details.CreatedAt,
		UpdatedAt:    details.UpdatedAt,
		Teams:        teams,
		Categories:   categories,
	}
}

func NewGoalResponses(list []goaldomain.Details) []GoalResponse {
	response := make([]GoalResponse, 0, len(list))
	for _, details := range list {
		response = append(response, NewGoalResponse(details))
	}
	return response
}
