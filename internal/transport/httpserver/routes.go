package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"goal-tracker-go/internal/config"
	"goal-tracker-go/internal/metrics"
	"goal-tracker-go/internal/transport/httpserver/handler"
	authmw "goal-tracker-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/health", handlers.Common.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Common.Root)
		r.Get("/health", handlers.Common.APIHealth)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Get("/goals", handlers.Goals.ListGoals)
			r.Post("/goals", handlers.Goals.CreateGoal)
			r.Get("/goals/public", handlers.Goals.ListPublicGoals)
			r.Get("/goals/{id}", handlers.Goals.GetGoal)
			r.Put("/goals/{id}", handlers.Goals.UpdateGoal)
			r.Delete("/goals/{id}", handlers.Goals.DeleteGoal)
			r.Get("/goals/{id}/subgoals", handlers.Goals.ListSubGoals)
			r.Post("/goals/{id}/teams", handlers.Goals.AssignTeams)
			r.Delete("/goals/{id}/teams/{team_id}", handlers.Goals.UnassignTeam)
			r.Post("/goals/{id}/categories", handlers.Goals.AssignCategories)
			r.Delete("/goals/{id}/categories/{category_id}", handlers.Goals.UnassignCategory)
			r.Get("/goals/{id}/files", handlers.Goals.ListFiles)
			r.Post("/goals/{id}/files", handlers.Goals.UploadFile)
			r.Get("/goals/{id}/files/{file_id}/download", handlers.Goals.DownloadFile)
			r.Delete("/goals/{id}/files/{file_id}", handlers.Goals.DeleteFile)

			r.Get("/categories", handlers.Categories.ListCategories)
			r.Post("/categories", handlers.Categories.CreateCategory)
			r.Get("/categories/{id}", handlers.Categories.GetCategory)
			r.Put("/categories/{id}", handlers.Categories.UpdateCategory)
			r.Delete("/categories/{id}", handlers.Categories.DeleteCategory)
			r.Get("/categories/{id}/goals", handlers.Categories.ListCategoryGoals)

			r.Get("/teams", handlers.Teams.ListTeams)
			r.Post("/teams", handlers.Teams.CreateTeam)
			r.Get("/teams/{id}", handlers.Teams.GetTeam)
			r.Put("/teams/{id}", handlers.Teams.UpdateTeam)
			r.Delete("/teams/{id}", handlers.Teams.DeleteTeam)
			r.Get("/teams/{id}/goals", handlers.Teams.ListTeamGoals)
			r.Get("/teams/{id}/members", handlers.Teams.ListMembers)
			r.Post("/teams/{id}/members", handlers.Teams.AddMember)
			r.Put("/teams/{id}/members/{user_id}", handlers.Teams.UpdateMemberRole)
			r.Delete("/teams/{id}/members/{user_id}", handlers.Teams.RemoveMember)
			r.Post("/teams/{id}/invite", handlers.Teams.Invite)
			r.Get("/teams/{id}/invitations", handlers.Teams.ListTeamInvitations)
			r.Get("/teams/{id}/statuses", handlers.Statuses.ListTeamStatuses)
			r.Post("/teams/{id}/statuses", handlers.Statuses.CreateTeamStatus)
			r.Put("/teams/{id}/statuses/{status_id}", handlers.Statuses.UpdateTeamStatus)
			r.Delete("/teams/{id}/statuses/{status_id}", handlers.Statuses.DeleteTeamStatus)

			r.Get("/invitations", handlers.Teams.ListMyInvitations)
			r.Post("/invitations/{id}/accept", handlers.Teams.AcceptInvitation)
			r.Post("/invitations/{id}/decline", handlers.Teams.DeclineInvitation)
			r.Get("/invite/{code}", handlers.Teams.GetInvitationByCode)
			r.Post("/invite/{code}/join", handlers.Teams.JoinByCode)

			r.Get("/statuses", handlers.Statuses.ListUserStatuses)
			r.Post("/statuses", handlers.Statuses.CreateUserStatus)
			r.Get("/statuses/combined", handlers.Statuses.Combined)
			r.Put("/statuses/{id}", handlers.Statuses.UpdateUserStatus)
			r.Delete("/statuses/{id}", handlers.Statuses.DeleteUserStatus)

			r.Get("/templates", handlers.Templates.ListTemplates)
			r.Post("/templates", handlers.Templates.CreateTemplate)
			r.Post("/templates/instantiate", handlers.Templates.Instantiate)
			r.Get("/templates/{id}", handlers.Templates.GetTemplate)
			r.Put("/templates/{id}", handlers.Templates.UpdateTemplate)
			r.Delete("/templates/{id}", handlers.Templates.DeleteTemplate)

			r.Get("/notifications", handlers.Notifications.ListNotifications)
			r.Get("/notifications/unread-count", handlers.Notifications.UnreadCount)
			r.Put("/notifications/read-all", handlers.Notifications.MarkAllRead)
			r.Put("/notifications/{id}/read", handlers.Notifications.MarkRead)
			r.Delete("/notifications/{id}", handlers.Notifications.DeleteNotification)
		})
	})

	return r
}
