package goal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/pkg/logger"
)

type fakeRepo struct {
	goals      map[string]Goal
	goalTeams  map[string][]string
	goalCats   map[string][]string
	categories map[string]CategoryRef
	catOwner   map[string]string
	teams      map[string]TeamRef
	members    map[string]map[string]access.Role
	files      map[string][]string
	templates  map[string]fakeTemplate
	seq        int
}

type fakeTemplate struct {
	owner  string
	shared bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		goals:      make(map[string]Goal),
		goalTeams:  make(map[string][]string),
		goalCats:   make(map[string][]string),
		categories: make(map[string]CategoryRef),
		catOwner:   make(map[string]string),
		teams:      make(map[string]TeamRef),
		members:    make(map[string]map[string]access.Role),
		files:      make(map[string][]string),
		templates:  make(map[string]fakeTemplate),
	}
}

func (f *fakeRepo) TemplateFacts(ctx context.Context, templateID string) (string, bool, error) {
	template, ok := f.templates[templateID]
	if !ok {
		return "", false, ErrTemplateNotFound
	}
	return template.owner, template.shared, nil
}

func (f *fakeRepo) addTeam(id string, members map[string]access.Role) {
	f.teams[id] = TeamRef{ID: id, Name: strings.ToUpper(id), ColorTheme: "#000000"}
	f.members[id] = members
}

func (f *fakeRepo) addCategory(id, owner string) {
	f.categories[id] = CategoryRef{ID: id, Name: id, Color: "#3B82F6"}
	f.catOwner[id] = owner
}

func (f *fakeRepo) MemberRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	return f.members[teamID][userID], nil
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) Create(ctx context.Context, goal *Goal) error {
	f.seq++
	goal.CreatedAt = time.Unix(int64(f.seq), 0)
	goal.UpdatedAt = goal.CreatedAt
	f.goals[goal.ID] = *goal
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Goal, error) {
	goal, ok := f.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	return &goal, nil
}

func (f *fakeRepo) List(ctx context.Context, userID string, filter Filter) ([]Goal, error) {
	var result []Goal
	for _, goal := range f.goals {
		if goal.UserID != userID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(goal.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, goal.Status) {
			continue
		}
		if filter.ParentGoalID != nil && (goal.ParentGoalID == nil || *goal.ParentGoalID != *filter.ParentGoalID) {
			continue
		}
		result = append(result, goal)
	}
	sortNewest(result)
	return result, nil
}

func (f *fakeRepo) ListPublic(ctx context.Context, limit, offset int) ([]Goal, error) {
	var result []Goal
	for _, goal := range f.goals {
		if goal.Visibility == VisibilityPublic {
			result = append(result, goal)
		}
	}
	sortNewest(result)
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeRepo) ListChildren(ctx context.Context, parentID string) ([]Goal, error) {
	var result []Goal
	for _, goal := range f.goals {
		if goal.ParentGoalID != nil && *goal.ParentGoalID == parentID {
			result = append(result, goal)
		}
	}
	sortNewest(result)
	return result, nil
}

func (f *fakeRepo) ListByTeam(ctx context.Context, teamID string) ([]Goal, error) {
	var result []Goal
	for goalID, teamIDs := range f.goalTeams {
		if contains(teamIDs, teamID) {
			result = append(result, f.goals[goalID])
		}
	}
	sortNewest(result)
	return result, nil
}

func (f *fakeRepo) ListByCategory(ctx context.Context, categoryID string) ([]Goal, error) {
	var result []Goal
	for goalID, categoryIDs := range f.goalCats {
		if contains(categoryIDs, categoryID) {
			result = append(result, f.goals[goalID])
		}
	}
	sortNewest(result)
	return result, nil
}

func (f *fakeRepo) Update(ctx context.Context, goal *Goal) error {
	f.goals[goal.ID] = *goal
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) ([]string, error) {
	if _, ok := f.goals[id]; !ok {
		return nil, ErrGoalNotFound
	}
	paths := f.files[id]
	delete(f.files, id)
	delete(f.goals, id)
	delete(f.goalTeams, id)
	delete(f.goalCats, id)
	for key, goal := range f.goals {
		if goal.ParentGoalID != nil && *goal.ParentGoalID == id {
			goal.ParentGoalID = nil
			f.goals[key] = goal
		}
	}
	return paths, nil
}

func (f *fakeRepo) TeamsFor(ctx context.Context, goalIDs []string) (map[string][]TeamRef, error) {
	result := make(map[string][]TeamRef)
	for _, id := range goalIDs {
		for _, teamID := range f.goalTeams[id] {
			result[id] = append(result[id], f.teams[teamID])
		}
	}
	return result, nil
}

func (f *fakeRepo) CategoriesFor(ctx context.Context, goalIDs []string) (map[string][]CategoryRef, error) {
	result := make(map[string][]CategoryRef)
	for _, id := range goalIDs {
		for _, categoryID := range f.goalCats[id] {
			result[id] = append(result[id], f.categories[categoryID])
		}
	}
	return result, nil
}

func (f *fakeRepo) SharesTeam(ctx context.Context, goalID, userID string) (bool, error) {
	for _, teamID := range f.goalTeams[goalID] {
		if f.members[teamID][userID] != access.RoleNone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) AddTeams(ctx context.Context, goalID, assignedBy string, teamIDs []string) ([]string, error) {
	var added []string
	for _, teamID := range teamIDs {
		if contains(f.goalTeams[goalID], teamID) {
			continue
		}
		f.goalTeams[goalID] = append(f.goalTeams[goalID], teamID)
		added = append(added, teamID)
	}
	return added, nil
}

func (f *fakeRepo) RemoveTeam(ctx context.Context, goalID, teamID string) (bool, error) {
	ids, removed := without(f.goalTeams[goalID], teamID)
	f.goalTeams[goalID] = ids
	return removed, nil
}

func (f *fakeRepo) AddCategories(ctx context.Context, goalID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		if !contains(f.goalCats[goalID], categoryID) {
			f.goalCats[goalID] = append(f.goalCats[goalID], categoryID)
		}
	}
	return nil
}

func (f *fakeRepo) RemoveCategory(ctx context.Context, goalID, categoryID string) (bool, error) {
	ids, removed := without(f.goalCats[goalID], categoryID)
	f.goalCats[goalID] = ids
	return removed, nil
}

func (f *fakeRepo) OwnedCategoryIDs(ctx context.Context, userID string, categoryIDs []string) ([]string, error) {
	var result []string
	for _, id := range categoryIDs {
		if f.catOwner[id] == userID {
			result = append(result, id)
		}
	}
	return result, nil
}

func (f *fakeRepo) TeamMemberIDs(ctx context.Context, teamIDs []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, teamID := range teamIDs {
		for userID := range f.members[teamID] {
			if !seen[userID] {
				seen[userID] = true
				result = append(result, userID)
			}
		}
	}
	sort.Strings(result)
	return result, nil
}

func contains(values []string, value string) bool {
	for _, item := range values {
		if item == value {
			return true
		}
	}
	return false
}

func without(values []string, value string) ([]string, bool) {
	result := make([]string, 0, len(values))
	removed := false
	for _, item := range values {
		if item == value {
			removed = true
			continue
		}
		result = append(result, item)
	}
	return result, removed
}

func sortNewest(goals []Goal) {
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.After(goals[j].CreatedAt) })
}

type fakeNotifier struct {
	sent []struct {
		userIDs []string
		msg     notification.Message
	}
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []string, msg notification.Message) error {
	f.sent = append(f.sent, struct {
		userIDs []string
		msg     notification.Message
	}{userIDs, msg})
	return nil
}

type fakeBlobs struct {
	deleted []string
	failOn  string
}

func (f *fakeBlobs) Delete(ctx context.Context, key string) error {
	if key == f.failOn {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeNotifier) {
	s, repo, notifier, _ := newTestServiceWithBlobs()
	return s, repo, notifier
}

func newTestServiceWithBlobs() (*Service, *fakeRepo, *fakeNotifier, *fakeBlobs) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	blobs := &fakeBlobs{}
	log := logger.New(io.Discard, slog.LevelDebug, "text")
	return NewService(repo, repo, notifier, blobs, log), repo, notifier, blobs
}
