package goal

import (
	"context"
	"errors"
	"testing"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/apperr"
	"goal-tracker-go/internal/domain/notification"
)

func strPtr(value string) *string {
	return &value
}

func mustCreate(t *testing.T, s *Service, userID string, input CreateInput) *Details {
	t.Helper()
	created, err := s.Create(context.Background(), userID, input)
	if err != nil {
		t.Fatalf("create %q: %v", input.Title, err)
	}
	return created
}

func TestCreateDefaults(t *testing.T) {
	s, _, _ := newTestService()

	created := mustCreate(t, s, "alice", CreateInput{Title: "  Run a marathon "})
	if created.Title != "Run a marathon" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Status != StatusPending || created.Visibility != VisibilityPrivate {
		t.Fatalf("unexpected defaults %+v", created.Goal)
	}
	if created.Teams == nil || created.Categories == nil {
		t.Fatalf("expected empty lists, got nil")
	}
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", CreateInput{Title: "   "}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Title: "x", Visibility: "secret"}); !errors.Is(err, ErrInvalidVisibility) {
		t.Fatalf("expected ErrInvalidVisibility, got %v", err)
	}
	negative := -1
	if _, err := s.Create(ctx, "alice", CreateInput{Title: "x", DisplayOrder: &negative}); !errors.Is(err, ErrInvalidDisplayOrder) {
		t.Fatalf("expected ErrInvalidDisplayOrder, got %v", err)
	}
	if !apperr.IsKind(ErrInvalidTitle, apperr.ValidationFailed) {
		t.Fatalf("expected validation kind")
	}
}

func TestCreateWithForeignParent(t *testing.T) {
	s, _, _ := newTestService()
	parent := mustCreate(t, s, "bob", CreateInput{Title: "Bob's"})

	_, err := s.Create(context.Background(), "alice", CreateInput{Title: "Child", ParentGoalID: strPtr(parent.ID)})
	if !errors.Is(err, ErrParentGoalNotFound) {
		t.Fatalf("expected ErrParentGoalNotFound, got %v", err)
	}
}

func TestCreateWithCategoriesAndTeams(t *testing.T) {
	s, repo, notifier := newTestService()
	repo.addCategory("health", "alice")
	repo.addCategory("bobs", "bob")
	repo.addTeam("crew", map[string]access.Role{"alice": access.RoleOwner, "bob": access.RoleMember})
	repo.addTeam("other", map[string]access.Role{"bob": access.RoleOwner})
	ctx := context.Background()

	if _, err := s.Create(ctx, "alice", CreateInput{Title: "x", CategoryIDs: []string{"bobs"}}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := s.Create(ctx, "alice", CreateInput{Title: "x", TeamIDs: []string{"other"}}); !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("expected ErrNotTeamMember, got %v", err)
	}

	created := mustCreate(t, s, "alice", CreateInput{
		Title:       "Shared",
		CategoryIDs: []string{"health", "health"},
		TeamIDs:     []string{"crew"},
	})
	if len(created.Categories) != 1 || created.Categories[0].ID != "health" {
		t.Fatalf("unexpected categories %+v", created.Categories)
	}
	if len(created.Teams) != 1 || created.Teams[0].Name != "CREW" {
		t.Fatalf("unexpected teams %+v", created.Teams)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification batch, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.msg.Type != notification.TypeTeamGoalAssigned || len(sent.userIDs) != 1 || sent.userIDs[0] != "bob" {
		t.Fatalf("unexpected notification %+v", sent)
	}
}

func TestGetIsOwnerOnly(t *testing.T) {
	s, _, _ := newTestService()
	public := VisibilityPublic
	created := mustCreate(t, s, "alice", CreateInput{Title: "Public", Visibility: public})

	if _, err := s.Get(context.Background(), created.ID, "bob"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
	if _, err := s.Get(context.Background(), created.ID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	s, repo, _ := newTestService()
	created := mustCreate(t, s, "alice", CreateInput{Title: "Keep"})
	before := repo.goals[created.ID]

	updated, err := s.Update(context.Background(), created.ID, "alice", UpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Keep" || repo.goals[created.ID] != before {
		t.Fatalf("expected goal untouched")
	}
}

func TestUpdateRejectsCycles(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()
	root := mustCreate(t, s, "alice", CreateInput{Title: "Root"})
	child := mustCreate(t, s, "alice", CreateInput{Title: "Child", ParentGoalID: strPtr(root.ID)})
	grandchild := mustCreate(t, s, "alice", CreateInput{Title: "Grandchild", ParentGoalID: strPtr(child.ID)})

	if _, err := s.Update(ctx, root.ID, "alice", UpdateInput{ParentGoalID: strPtr(root.ID)}); !errors.Is(err, ErrGoalCycle) {
		t.Fatalf("expected ErrGoalCycle for self, got %v", err)
	}
	if _, err := s.Update(ctx, root.ID, "alice", UpdateInput{ParentGoalID: strPtr(grandchild.ID)}); !errors.Is(err, ErrGoalCycle) {
		t.Fatalf("expected ErrGoalCycle for descendant, got %v", err)
	}

	other := mustCreate(t, s, "alice", CreateInput{Title: "Other"})
	moved, err := s.Update(ctx, grandchild.ID, "alice", UpdateInput{ParentGoalID: strPtr(other.ID)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.ParentGoalID == nil || *moved.ParentGoalID != other.ID {
		t.Fatalf("expected new parent, got %v", moved.ParentGoalID)
	}

	cleared, err := s.Update(ctx, grandchild.ID, "alice", UpdateInput{ClearParent: true})
	if err != nil || cleared.ParentGoalID != nil {
		t.Fatalf("expected parent cleared, got %v (%v)", cleared, err)
	}
}

func TestUpdateCompletedNotifiesTeams(t *testing.T) {
	s, repo, notifier := newTestService()
	repo.addTeam("crew", map[string]access.Role{"alice": access.RoleOwner, "bob": access.RoleMember})
	ctx := context.Background()
	created := mustCreate(t, s, "alice", CreateInput{Title: "Ship", TeamIDs: []string{"crew"}})
	notifier.sent = nil

	if _, err := s.Update(ctx, created.ID, "alice", UpdateInput{Status: strPtr(StatusCompleted)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].msg.Type != notification.TypeTeamGoalCompleted {
		t.Fatalf("expected completion notification, got %+v", notifier.sent)
	}

	// Re-saving a completed goal does not notify again.
	if _, err := s.Update(ctx, created.ID, "alice", UpdateInput{Status: strPtr(StatusCompleted)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected no further notifications, got %d", len(notifier.sent))
	}
}

func TestDeleteByNonOwner(t *testing.T) {
	s, _, _ := newTestService()
	created := mustCreate(t, s, "alice", CreateInput{Title: "Mine"})

	if err := s.Delete(context.Background(), created.ID, "bob"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), created.ID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteRemovesAttachmentBlobs(t *testing.T) {
	s, repo, _, blobs := newTestServiceWithBlobs()
	ctx := context.Background()
	created := mustCreate(t, s, "alice", CreateInput{Title: "With files"})
	repo.files[created.ID] = []string{created.ID + "/a.pdf", created.ID + "/b.png"}
	blobs.failOn = created.ID + "/a.pdf"

	if err := s.Delete(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != created.ID+"/b.png" {
		t.Fatalf("expected remaining blob deleted despite one failure, got %v", blobs.deleted)
	}
	if _, ok := repo.goals[created.ID]; ok {
		t.Fatalf("expected goal removed")
	}
}

func TestCreateChecksTemplateAccess(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()
	repo.templates["private"] = fakeTemplate{owner: "bob"}
	repo.templates["shared"] = fakeTemplate{owner: "bob", shared: true}
	repo.templates["mine"] = fakeTemplate{owner: "alice"}

	for _, id := range []string{"private", "missing"} {
		templateID := id
		if _, err := s.Create(ctx, "alice", CreateInput{Title: "x", TemplateID: &templateID}); !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("template %s: expected ErrTemplateNotFound, got %v", id, err)
		}
	}
	for _, id := range []string{"shared", "mine"} {
		templateID := id
		created, err := s.Create(ctx, "alice", CreateInput{Title: "x", TemplateID: &templateID})
		if err != nil {
			t.Fatalf("template %s: unexpected error: %v", id, err)
		}
		if created.TemplateID == nil || *created.TemplateID != id {
			t.Fatalf("template %s: expected template id stored, got %v", id, created.TemplateID)
		}
	}
}

func TestListFiltersByCategory(t *testing.T) {
	s, repo, _ := newTestService()
	repo.addCategory("health", "alice")
	ctx := context.Background()
	mustCreate(t, s, "alice", CreateInput{Title: "Plain"})
	tagged := mustCreate(t, s, "alice", CreateInput{Title: "Tagged", CategoryIDs: []string{"health"}})

	goals, err := s.List(ctx, "alice", Filter{CategoryIDs: []string{"health"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != tagged.ID {
		t.Fatalf("expected only tagged goal, got %+v", goals)
	}

	if _, err := s.List(ctx, "alice", Filter{SortBy: "priority"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}

func TestListPublicClampsLimit(t *testing.T) {
	s, _, _ := newTestService()
	for i := 0; i < 3; i++ {
		mustCreate(t, s, "alice", CreateInput{Title: "Public", Visibility: VisibilityPublic})
	}
	mustCreate(t, s, "alice", CreateInput{Title: "Private"})

	goals, err := s.ListPublic(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}

	goals, _ = s.ListPublic(context.Background(), 0, -5)
	if len(goals) != 3 {
		t.Fatalf("expected 3 public goals, got %d", len(goals))
	}
}

func TestAssignTeams(t *testing.T) {
	s, repo, notifier := newTestService()
	repo.addTeam("crew", map[string]access.Role{"alice": access.RoleMember, "bob": access.RoleOwner})
	ctx := context.Background()
	created := mustCreate(t, s, "alice", CreateInput{Title: "Goal"})

	if _, err := s.AssignTeams(ctx, created.ID, "alice", nil); !errors.Is(err, ErrEmptyAssignment) {
		t.Fatalf("expected ErrEmptyAssignment, got %v", err)
	}

	count, err := s.AssignTeams(ctx, created.ID, "alice", []string{"crew", "crew"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification batch, got %d", len(notifier.sent))
	}

	// Assigning again is idempotent and silent.
	if _, err := s.AssignTeams(ctx, created.ID, "alice", []string{"crew"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected no new notifications, got %d", len(notifier.sent))
	}

	if err := s.UnassignTeam(ctx, created.ID, "crew", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnassignTeam(ctx, created.ID, "crew", "alice"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestListByTeamRequiresMembership(t *testing.T) {
	s, repo, _ := newTestService()
	repo.addTeam("crew", map[string]access.Role{"alice": access.RoleOwner, "bob": access.RoleMember})
	ctx := context.Background()
	mustCreate(t, s, "alice", CreateInput{Title: "Goal", TeamIDs: []string{"crew"}})

	goals, err := s.ListByTeam(ctx, "crew", "bob")
	if err != nil || len(goals) != 1 {
		t.Fatalf("expected one goal for member, got %d (%v)", len(goals), err)
	}
	if _, err := s.ListByTeam(ctx, "crew", "carol"); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestCategoryAssignment(t *testing.T) {
	s, repo, _ := newTestService()
	repo.addCategory("health", "alice")
	repo.addCategory("bobs", "bob")
	ctx := context.Background()
	created := mustCreate(t, s, "alice", CreateInput{Title: "Goal"})

	if err := s.AssignCategories(ctx, created.ID, "alice", []string{"bobs"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := s.AssignCategories(ctx, created.ID, "alice", []string{"health"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	goals, err := s.ListByCategory(ctx, "health", "alice")
	if err != nil || len(goals) != 1 {
		t.Fatalf("expected one goal, got %d (%v)", len(goals), err)
	}
	if _, err := s.ListByCategory(ctx, "health", "bob"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	if err := s.UnassignCategory(ctx, created.ID, "health", "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UnassignCategory(ctx, created.ID, "health", "alice"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestFactsReportsTeamMembership(t *testing.T) {
	s, repo, _ := newTestService()
	repo.addTeam("crew", map[string]access.Role{"alice": access.RoleOwner, "bob": access.RoleMember})
	created := mustCreate(t, s, "alice", CreateInput{Title: "Goal", TeamIDs: []string{"crew"}})

	_, res, err := s.Facts(context.Background(), created.ID, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.TeamMember || !access.Can("bob", access.ActionRead, res) {
		t.Fatalf("expected team member read access, got %+v", res)
	}

	_, res, _ = s.Facts(context.Background(), created.ID, "carol")
	if access.Can("carol", access.ActionRead, res) {
		t.Fatalf("expected no access for outsider")
	}
}
