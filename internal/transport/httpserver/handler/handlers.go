package handler

import (
	"goal-tracker-go/internal/transport/httpserver/handler/categories"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
	"goal-tracker-go/internal/transport/httpserver/handler/notifications"
	"goal-tracker-go/internal/transport/httpserver/handler/statuses"
	"goal-tracker-go/internal/transport/httpserver/handler/teams"
	"goal-tracker-go/internal/transport/httpserver/handler/templates"
)

type Handlers struct {
	Common        *common.Handlers
	Goals         *goals.Handlers
	Categories    *categories.Handlers
	Teams         *teams.Handlers
	Statuses      *statuses.Handlers
	Templates     *templates.Handlers
	Notifications *notifications.Handlers
}
