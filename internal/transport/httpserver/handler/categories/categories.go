package categories

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	categorydomain "goal-tracker-go/internal/domain/category"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
)

type createCategoryRequest struct {
	Name  string  `json:"name" validate:"required,max=50"`
	Color string  `json:"color" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

func newCategoryResponse(category categorydomain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		UserID:    category.UserID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
	}
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}

	list, err := h.Categories.List(r.Context(), user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.list", err, "user_id", user.ID)
		return
	}

	response := make([]categoryResponse, 0, len(list))
	for _, category := range list {
		response = append(response, newCategoryResponse(category))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	var req createCategoryRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	created, err := h.Categories.Create(r.Context(), user.ID, categorydomain.CreateInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.create", err, "user_id", user.ID)
		return
	}
	common.WriteJSON(w, http.StatusCreated, newCategoryResponse(*created))
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	categoryID := chi.URLParam(r, "id")

	category, err := h.Categories.Get(r.Context(), categoryID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.get", err, "user_id", user.ID, "category_id", categoryID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newCategoryResponse(*category))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	categoryID := chi.URLParam(r, "id")
	var req updateCategoryRequest
	if !common.DecodeBody(w, r, &req) {
		return
	}

	updated, err := h.Categories.Update(r.Context(), categoryID, user.ID, categorydomain.UpdateInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.update", err, "user_id", user.ID, "category_id", categoryID)
		return
	}
	common.WriteJSON(w, http.StatusOK, newCategoryResponse(*updated))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	categoryID := chi.URLParam(r, "id")

	if err := h.Categories.Delete(r.Context(), categoryID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "categories.delete", err, "user_id", user.ID, "category_id", categoryID)
		return
	}
	common.NoContent(w)
}

func (h *Handlers) ListCategoryGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	categoryID := chi.URLParam(r, "id")

	list, err := h.Goals.ListByCategory(r.Context(), categoryID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "categories.goals", err, "user_id", user.ID, "category_id", categoryID)
		return
	}
	common.WriteJSON(w, http.StatusOK, goals.NewGoalResponses(list))
}
