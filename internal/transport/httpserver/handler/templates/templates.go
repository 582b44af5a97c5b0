package templates

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	templatedomain "goal-tracker-go/internal/domain/template"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
)

type createTemplateRequest struct {
	Name                string   `json:"name" validate:"required,max=100"`
	TitleTemplate       string   `json:"title_template" validate:"required,max=200"`
	DescriptionTemplate *string  `json:"description_template"`
	DefaultStatus       *string  `json:"default_status" validate:"omitempty,max=50"`
	IsRecurring         bool     `json:"is_recurring"`
	RecurrenceType      *string  `json:"recurrence_type" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceInterval  *int     `json:"recurrence_interval" validate:"omitempty,min=1,max=365"`
	IsShared            bool     `json:"is_shared"`
	CategoryIDs         []string `json:"category_ids" validate:"omitempty,dive,required"`
	TeamIDs             []string `json:"team_ids" validate:"omitempty,dive,required"`
}

type updateTemplateRequest struct {
	Name                *string   `json:"name" validate:"omitempty,max=100"`
	TitleTemplate       *string   `json:"title_template" validate:"omitempty,max=200"`
	DescriptionTemplate *string   `json:"description_template"`
	DefaultStatus       *string   `json:"default_status" validate:"omitempty,max=50"`
	IsRecurring         *bool     `json:"is_recurring"`
	RecurrenceType      *string   `json:"recurrence_type" validate:"omitempty,oneof=daily weekly monthly"`
	RecurrenceInterval  *int      `json:"recurrence_interval" validate:"omitempty,min=1,max=365"`
	IsShared            *bool     `json:"is_shared"`
	CategoryIDs         *[]string `json:"category_ids"`
	TeamIDs             *[]string `json:"team_ids"`
}

type instantiateRequest struct {
	TemplateID            string     `json:"template_id" validate:"required"`
	TitleOverride         *string    `json:"title_override" validate:"omitempty,max=200"`
	DescriptionOverride   *string    `json:"description_override"`
	TargetDate            *time.Time `json:"target_date"`
	AdditionalCategoryIDs []string   `json:"additional_category_ids" validate:"omitempty,dive,required"`
	AdditionalTeamIDs     []string   `json:"additional_team_ids" validate:"omitempty,dive,required"`
}

type templateResponse struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Name                string    `json:"name"`
	TitleTemplate       string    `json:"title_template"`
	DescriptionTemplate *string   `json:"description_template"`
	DefaultStatus       *string   `json:"default_status"`
	IsRecurring         bool      `json:"is_recurring"`
	RecurrenceType      *string   `json:"recurrence_type"`
	RecurrenceInterval  int       `json:"recurrence_interval"`
	IsShared            bool      `json:"is_shared"`
	CategoryIDs         []string  `json:"category_ids"`
	TeamIDs             []string  `json:"team_ids"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func newTemplateResponse(details templatedomain.Details) templateResponse {
	var recurrence *string
	if details.RecurrenceType != nil {
		value := string(*details.RecurrenceType)
		recurrence = &value
	}
	categoryIDs := details.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	teamIDs := details.TeamIDs
	if teamIDs == nil {
		teamIDs = []string{}
	}

	return templateResponse{
		ID:                  details.ID,
		UserID:              details.UserID,
		Name:                details.Name,
		TitleTemplate:       details.TitleTemplate,
		DescriptionTemplate: details.DescriptionTemplate,
		DefaultStatus:       details.DefaultStatus,
		IsRecurring:         details.IsRecurring,
		RecurrenceType:      recurrence,
		RecurrenceInterval:  details.RecurrenceInterval,
		IsShared:            details.IsShared,
		CategoryIDs:         categoryIDs,
		TeamIDs:             teamIDs,
		CreatedAt:           details.CreatedAt,
		UpdatedAt:           details.UpdatedAt,
	}
}

func recurrenceFrom(value *string) *templatedomain.Recurrence {
	if value == nil {
		return nil
	}
	recurrence := templatedomain.Recurrence(*value)
	return &recurrence
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	includeShared, err := common.ParseBoolParam(r.URL.Query().Get("include_shared"))
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_include_shared", "include_shared must be a boolean")
		return
	}

	list, err := h.Templates.List(r.Context(), user.ID, includeShared)
	if err != nil {
		common.WriteDomainError(w, h.log, "templates.list", err, "user_id", user.ID)
		return
	}

	response := make([]templateResponse, 0, len(list))
	for _, details := range list {
		response = append(response, newTemplateResponse(details))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req createTemplateRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Templates.Create(r.Context(), user.ID, templatedomain.CreateInput{
		Name:                req.Name,
		TitleTemplate:       req.TitleTemplate,
		DescriptionTemplate: req.DescriptionTemplate,
		DefaultStatus:       req.DefaultStatus,
		IsRecurring:         req.IsRecurring,
		RecurrenceType:      recurrenceFrom(req.RecurrenceType),
		RecurrenceInterval:  req.RecurrenceInterval,
		IsShared:            req.IsShared,
		CategoryIDs:         req.CategoryIDs,
		TeamIDs:             req.TeamIDs,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "templates.create", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newTemplateResponse(*created))
}

func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	templateID := chi.URLParam(r, "id")

	details, err := h.Templates.Get(r.Context(), templateID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "templates.get", err, "user_id", user.ID, "template_id", templateID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newTemplateResponse(*details))
}

func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	templateID := chi.URLParam(r, "id")
	var req updateTemplateRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	updated, err := h.Templates.Update(r.Context(), templateID, user.ID, templatedomain.UpdateInput{
		Name:                req.Name,
		TitleTemplate:       req.TitleTemplate,
		DescriptionTemplate: req.DescriptionTemplate,
		DefaultStatus:       req.DefaultStatus,
		IsRecurring:         req.IsRecurring,
		RecurrenceType:      recurrenceFrom(req.RecurrenceType),
		RecurrenceInterval:  req.RecurrenceInterval,
		IsShared:            req.IsShared,
		CategoryIDs:         req.CategoryIDs,
		TeamIDs:             req.TeamIDs,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "templates.update", err, "user_id", user.ID, "template_id", templateID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newTemplateResponse(*updated))
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	templateID := chi.URLParam(r, "id")

	if err := h.Templates.Delete(r.Context(), templateID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "templates.delete", err, "user_id", user.ID, "template_id", templateID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) Instantiate(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req instantiateRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Templates.Instantiate(r.Context(), user.ID, templatedomain.InstantiateInput{
		TemplateID:            req.TemplateID,
		TitleOverride:         req.TitleOverride,
		DescriptionOverride:   req.DescriptionOverride,
		TargetDate:            req.TargetDate,
		AdditionalCategoryIDs: req.AdditionalCategoryIDs,
		AdditionalTeamIDs:     req.AdditionalTeamIDs,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "templates.instantiate", err, "user_id", user.ID, "template_id", req.TemplateID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, goals.NewGoalResponse(*created))
}
