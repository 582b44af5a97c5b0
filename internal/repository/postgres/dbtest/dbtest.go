// Package dbtest opens an in-memory SQLite database with the full schema
// for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"goal-tracker-go/internal/domain/category"
	"goal-tracker-go/internal/domain/file"
	"goal-tracker-go/internal/domain/goal"
	"goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/internal/domain/status"
	"goal-tracker-go/internal/domain/team"
	"goal-tracker-go/internal/domain/template"
	"goal-tracker-go/internal/domain/user"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.Profile{},
		&category.Category{},
		&team.Team{},
		&team.Member{},
		&team.Invitation{},
		&template.Template{},
		&template.TemplateCategory{},
		&template.TemplateTeam{},
		&goal.Goal{},
		&goal.GoalCategory{},
		&goal.GoalTeam{},
		&file.File{},
		&notification.Notification{},
		&status.UserStatus{},
		&status.TeamStatus{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
