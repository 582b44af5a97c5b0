package goals

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	goaldomain "goal-tracker-go/internal/domain/goal"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

const rootParam = "root"

type createGoalRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  *string    `json:"description"`
	Status       string     `json:"status" validate:"max=50"`
	TargetDate   *time.Time `json:"target_date"`
	Visibility   string     `json:"visibility" validate:"omitempty,oneof=private public team"`
	IsPublic     *bool      `json:"is_public"`
	ParentGoalID *string    `json:"parent_goal_id"`
	DisplayOrder *int       `json:"display_order" validate:"omitempty,min=0"`
	TemplateID   *string    `json:"template_id"`
	CategoryIDs  []string   `json:"category_ids" validate:"omitempty,dive,required"`
	TeamIDs      []string   `json:"team_ids" validate:"omitempty,dive,required"`
}

type updateGoalRequest struct {
	Title           *string                    `json:"title" validate:"omitempty,max=200"`
	Description     *string                    `json:"description"`
	Status          *string                    `json:"status" validate:"omitempty,max=50"`
	TargetDate      common.Optional[time.Time] `json:"target_date"`
	ClearTargetDate bool                       `json:"clear_target_date"`
	Visibility      *string                    `json:"visibility" validate:"omitempty,oneof=private public team"`
	IsPublic        *bool                      `json:"is_public"`
	ParentGoalID    common.Optional[string]    `json:"parent_goal_id"`
	ClearParent     bool                       `json:"clear_parent"`
	DisplayOrder    *int                       `json:"display_order" validate:"omitempty,min=0"`
}

type idsRequest struct {
	TeamIDs     []string `json:"team_ids" validate:"omitempty,dive,required"`
	CategoryIDs []string `json:"category_ids" validate:"omitempty,dive,required"`
}

// visibilityFrom gives an explicit visibility precedence over is_public.
func visibilityFrom(visibility *string, isPublic *bool) *goaldomain.Visibility {
	if visibility != nil && *visibility != "" {
		v := goaldomain.Visibility(*visibility)
		return &v
	}
	if isPublic == nil {
		return nil
	}
	v := goaldomain.VisibilityPrivate
	if *isPublic {
		v = goaldomain.VisibilityPublic
	}
	return &v
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := goaldomain.Filter{
		Search:      strings.TrimSpace(query.Get("search")),
		Statuses:    common.ParseCSV(query.Get("status")),
		CategoryIDs: common.ParseCSV(query.Get("category_ids")),
		SortBy:      goaldomain.SortField(strings.TrimSpace(query.Get("sort_by"))),
		SortDir:     goaldomain.SortDirection(strings.ToLower(strings.TrimSpace(query.Get("sort_dir")))),
	}
	var err error
	if filter.TargetFrom, err = common.ParseTimeParam(query.Get("target_from")); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_target_from", "target_from must be a date or RFC 3339 timestamp")
		return
	}
	if filter.TargetTo, err = common.ParseTimeParam(query.Get("target_to")); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_target_to", "target_to must be a date or RFC 3339 timestamp")
		return
	}
	switch parent := strings.TrimSpace(query.Get("parent_goal_id")); parent {
	case "":
	case rootParam:
		filter.RootOnly = true
	default:
		filter.ParentGoalID = &parent
	}

	list, err := h.Goals.List(r.Context(), user.ID, filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.list", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewGoalResponses(list))
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req createGoalRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	input := goaldomain.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		TargetDate:   req.TargetDate,
		ParentGoalID: req.ParentGoalID,
		DisplayOrder: req.DisplayOrder,
		TemplateID:   req.TemplateID,
		CategoryIDs:  req.CategoryIDs,
		TeamIDs:      req.TeamIDs,
	}
	visibility := req.Visibility
	if v := visibilityFrom(&visibility, req.IsPublic); v != nil {
		input.Visibility = *v
	}

	created, err := h.Goals.Create(r.Context(), user.ID, input)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.create", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, NewGoalResponse(*created))
}

func (h *Handlers) ListPublicGoals(w http.ResponseWriter, r *http.Request) {
	if _, ok := common.RequireUser(w, r); !ok {
		return
	}

	limit, err := common.ParseIntParam(r.URL.Query().Get("limit"), goaldomain.DefaultPublicLimit)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}
	offset, err := common.ParseIntParam(r.URL.Query().Get("offset"), 0)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_offset", "offset must be a non-negative integer")
		return
	}

	list, err := h.Goals.ListPublic(r.Context(), limit, offset)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.list_public", err)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewGoalResponses(list))
}

func (h *Handlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	details, err := h.Goals.Get(r.Context(), goalID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.get", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewGoalResponse(*details))
}

func (h *Handlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	var req updateGoalRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	input := goaldomain.UpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		ClearTargetDate: req.ClearTargetDate || req.TargetDate.Null(),
		Visibility:      visibilityFrom(req.Visibility, req.IsPublic),
		ClearParent:     req.ClearParent || req.ParentGoalID.Null(),
		DisplayOrder:    req.DisplayOrder,
	}
	if !input.ClearTargetDate {
		input.TargetDate = req.TargetDate.Value
	}
	if !input.ClearParent {
		input.ParentGoalID = req.ParentGoalID.Value
	}

	updated, err := h.Goals.Update(r.Context(), goalID, user.ID, input)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.update", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewGoalResponse(*updated))
}

func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	if err := h.Goals.Delete(r.Context(), goalID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "goals.delete", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) ListSubGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	list, err := h.Goals.ListSubGoals(r.Context(), goalID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.subgoals", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.WriteJSON(w, http.StatusOK, NewGoalResponses(list))
}

func (h *Handlers) AssignTeams(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	var req idsRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	count, err := h.Goals.AssignTeams(r.Context(), goalID, user.ID, req.TeamIDs)
	if err != nil {
		common.WriteDomainError(w, h.log, "goals.assign_teams", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.WriteMessage(w, http.StatusCreated, fmt.Sprintf("Goal assigned to %d team(s)", count))
}

func (h *Handlers) UnassignTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	teamID := chi.URLParam(r, "team_id")

	if err := h.Goals.UnassignTeam(r.Context(), goalID, teamID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "goals.unassign_team", err, "user_id", user.ID, "goal_id", goalID, "team_id", teamID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) AssignCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	var req idsRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	if err := h.Goals.AssignCategories(r.Context(), goalID, user.ID, req.CategoryIDs); err != nil {
		common.WriteDomainError(w, h.log, "goals.assign_categories", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	common.WriteMessage(w, http.StatusCreated, fmt.Sprintf("Goal assigned to %d category(ies)", len(req.CategoryIDs)))
}

func (h *Handlers) UnassignCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	categoryID := chi.URLParam(r, "category_id")

	if err := h.Goals.UnassignCategory(r.Context(), goalID, categoryID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "goals.unassign_category", err, "user_id", user.ID, "goal_id", goalID, "category_id", categoryID)
		return
	}
	common.NoContent(w)
}
