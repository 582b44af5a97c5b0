package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/goal"
)

type fakeRepo struct {
	templates  map[string]Template
	categories map[string][]string
	teams      map[string][]string
	members    map[string]map[string]access.Role
	catOwner   map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates:  make(map[string]Template),
		categories: make(map[string][]string),
		teams:      make(map[string][]string),
		members:    make(map[string]map[string]access.Role),
		catOwner:   map[string]string{"c1": "alice", "c2": "alice", "alice-cat": "alice", "bob-cat": "bob"},
	}
}

func (f *fakeRepo) OwnedCategoryIDs(ctx context.Context, userID string, categoryIDs []string) ([]string, error) {
	var owned []string
	for _, id := range categoryIDs {
		if f.catOwner[id] == userID {
			owned = append(owned, id)
		}
	}
	return owned, nil
}

func (f *fakeRepo) MemberRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	return f.members[teamID][userID], nil
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) Create(ctx context.Context, template *Template) error {
	f.templates[template.ID] = *template
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Template, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &template, nil
}

func (f *fakeRepo) List(ctx context.Context, userID string, includeShared bool) ([]Template, error) {
	var result []Template
	for _, template := range f.templates {
		if template.UserID == userID || (includeShared && template.IsShared) {
			result = append(result, template)
		}
	}
	return result, nil
}

func (f *fakeRepo) Update(ctx context.Context, template *Template) error {
	f.templates[template.ID] = *template
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.templates, id)
	return nil
}

func (f *fakeRepo) SetCategories(ctx context.Context, templateID string, categoryIDs []string) error {
	f.categories[templateID] = categoryIDs
	return nil
}

func (f *fakeRepo) SetTeams(ctx context.Context, templateID string, teamIDs []string) error {
	f.teams[templateID] = teamIDs
	return nil
}

func (f *fakeRepo) CategoryIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	for _, id := range templateIDs {
		if ids := f.categories[id]; len(ids) > 0 {
			result[id] = ids
		}
	}
	return result, nil
}

func (f *fakeRepo) TeamIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	for _, id := range templateIDs {
		if ids := f.teams[id]; len(ids) > 0 {
			result[id] = ids
		}
	}
	return result, nil
}

type fakeGoals struct {
	created []goal.CreateInput
}

func (f *fakeGoals) Create(ctx context.Context, userID string, input goal.CreateInput) (*goal.Details, error) {
	f.created = append(f.created, input)
	return &goal.Details{Goal: goal.Goal{ID: "goal-1", UserID: userID, Title: input.Title, Status: input.Status, TargetDate: input.TargetDate}}, nil
}

func newTestService() (*Service, *fakeRepo, *fakeGoals) {
	repo := newFakeRepo()
	goals := &fakeGoals{}
	s := NewService(repo, goals, repo)
	s.now = func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }
	return s, repo, goals
}

func recurrence(r Recurrence) *Recurrence {
	return &r
}

func intPtr(value int) *int {
	return &value
}

func strPtr(value string) *string {
	return &value
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", CreateInput{Name: "", TitleTemplate: "x"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Name: "x", TitleTemplate: " "}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Name: "x", TitleTemplate: "x", IsRecurring: true}); !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Name: "x", TitleTemplate: "x", RecurrenceInterval: intPtr(366)}); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestCreateStoresJoinRows(t *testing.T) {
	s, _, _ := newTestService()

	created, err := s.Create(context.Background(), "alice", CreateInput{
		Name:          "Daily",
		TitleTemplate: "Standup {date}",
		CategoryIDs:   []string{"c1", "c1", "c2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.RecurrenceInterval != 1 {
		t.Fatalf("expected default interval 1, got %d", created.RecurrenceInterval)
	}
	if len(created.CategoryIDs) != 2 || len(created.TeamIDs) != 0 || created.TeamIDs == nil {
		t.Fatalf("unexpected joins %+v / %+v", created.CategoryIDs, created.TeamIDs)
	}
}

func TestCreateRejectsForeignReferences(t *testing.T) {
	s, repo, _ := newTestService()
	repo.members["crew"] = map[string]access.Role{"alice": access.RoleMember}
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", CreateInput{Name: "T", TitleTemplate: "x", CategoryIDs: []string{"bob-cat"}}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Name: "T", TitleTemplate: "x", TeamIDs: []string{"other"}}); !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("expected ErrNotTeamMember, got %v", err)
	}
	if len(repo.templates) != 0 {
		t.Fatalf("expected nothing stored, got %d templates", len(repo.templates))
	}

	created, err := s.Create(ctx, "alice", CreateInput{Name: "T", TitleTemplate: "x", CategoryIDs: []string{"c1"}, TeamIDs: []string{"crew"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Update(ctx, created.ID, "alice", UpdateInput{CategoryIDs: &[]string{"missing"}}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on update, got %v", err)
	}
	if ids := repo.categories[created.ID]; len(ids) != 1 || ids[0] != "c1" {
		t.Fatalf("expected categories unchanged, got %v", ids)
	}
}

func TestSharedTemplateAccess(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	private, _ := s.Create(ctx, "alice", CreateInput{Name: "Private", TitleTemplate: "x"})
	shared, _ := s.Create(ctx, "alice", CreateInput{Name: "Shared", TitleTemplate: "x", IsShared: true})

	if _, err := s.Get(ctx, private.ID, "bob"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, shared.ID, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Update(ctx, shared.ID, "bob", UpdateInput{Name: strPtr("Mine")}); !errors.Is(err, ErrNotTemplateOwner) {
		t.Fatalf("expected ErrNotTemplateOwner, got %v", err)
	}
	if err := s.Delete(ctx, private.ID, "bob"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	own, _ := s.List(ctx, "bob", false)
	withShared, _ := s.List(ctx, "bob", true)
	if len(own) != 0 || len(withShared) != 1 {
		t.Fatalf("expected 0 own and 1 shared, got %d and %d", len(own), len(withShared))
	}
}

func TestUpdateReplacesJoins(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()
	created, _ := s.Create(ctx, "alice", CreateInput{Name: "T", TitleTemplate: "x", CategoryIDs: []string{"c1"}})

	updated, err := s.Update(ctx, created.ID, "alice", UpdateInput{CategoryIDs: &[]string{"c2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.CategoryIDs) != 1 || updated.CategoryIDs[0] != "c2" {
		t.Fatalf("unexpected categories %v", updated.CategoryIDs)
	}
	if len(repo.categories[created.ID]) != 1 {
		t.Fatalf("expected stored categories replaced")
	}
}

func TestInstantiateReplacesDate(t *testing.T) {
	s, _, goals := newTestService()
	ctx := context.Background()
	created, _ := s.Create(ctx, "alice", CreateInput{Name: "Daily", TitleTemplate: "Standup {date}", DefaultStatus: strPtr("in_progress")})

	result, err := s.Instantiate(ctx, "alice", InstantiateInput{TemplateID: created.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Standup 2025-01-15" {
		t.Fatalf("unexpected title %q", result.Title)
	}
	input := goals.created[0]
	if input.Status != "in_progress" || input.TemplateID == nil || *input.TemplateID != created.ID {
		t.Fatalf("unexpected goal input %+v", input)
	}
	if input.TargetDate != nil {
		t.Fatalf("expected no target date, got %v", input.TargetDate)
	}
}

func TestInstantiateRecurringTargetDate(t *testing.T) {
	s, _, goals := newTestService()
	ctx := context.Background()

	cases := []struct {
		kind     Recurrence
		interval int
		want     time.Time
	}{
		{RecurrenceDaily, 3, time.Date(2025, 1, 18, 10, 0, 0, 0, time.UTC)},
		{RecurrenceWeekly, 2, time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)},
		{RecurrenceMonthly, 1, time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)},
	}
	for i, tc := range cases {
		created, err := s.Create(ctx, "alice", CreateInput{
			Name:               string(tc.kind),
			TitleTemplate:      "Recurring",
			IsRecurring:        true,
			RecurrenceType:     recurrence(tc.kind),
			RecurrenceInterval: intPtr(tc.interval),
		})
		if err != nil {
			t.Fatalf("create %s: %v", tc.kind, err)
		}
		if _, err := s.Instantiate(ctx, "alice", InstantiateInput{TemplateID: created.ID}); err != nil {
			t.Fatalf("instantiate %s: %v", tc.kind, err)
		}
		got := goals.created[i].TargetDate
		if got == nil || !got.Equal(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.kind, tc.want, got)
		}
	}
}

func TestInstantiateSharedTemplateSkipsOwnerDefaults(t *testing.T) {
	s, repo, goals := newTestService()
	repo.members["crew"] = map[string]access.Role{"alice": access.RoleOwner, "bob": access.RoleMember}
	repo.members["private"] = map[string]access.Role{"alice": access.RoleOwner}
	ctx := context.Background()
	created, _ := s.Create(ctx, "alice", CreateInput{
		Name:          "Shared",
		TitleTemplate: "Team goal",
		IsShared:      true,
		CategoryIDs:   []string{"alice-cat"},
		TeamIDs:       []string{"crew", "private"},
	})

	_, err := s.Instantiate(ctx, "bob", InstantiateInput{
		TemplateID:            created.ID,
		TitleOverride:         strPtr("Bob's goal"),
		AdditionalCategoryIDs: []string{"bob-cat"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := goals.created[0]
	if input.Title != "Bob's goal" {
		t.Fatalf("expected title override, got %q", input.Title)
	}
	if len(input.CategoryIDs) != 1 || input.CategoryIDs[0] != "bob-cat" {
		t.Fatalf("expected only additional categories, got %v", input.CategoryIDs)
	}
	if len(input.TeamIDs) != 1 || input.TeamIDs[0] != "crew" {
		t.Fatalf("expected only member teams, got %v", input.TeamIDs)
	}
}

func TestInstantiateMissingTemplate(t *testing.T) {
	s, _, _ := newTestService()

	if _, err := s.Instantiate(context.Background(), "alice", InstantiateInput{}); !errors.Is(err, ErrTemplateRequired) {
		t.Fatalf("expected ErrTemplateRequired, got %v", err)
	}
	if _, err := s.Instantiate(context.Background(), "alice", InstantiateInput{TemplateID: "nope"}); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}
