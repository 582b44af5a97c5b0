package goal

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/pkg/logger"
)

type Notifier interface {
	NotifyMany(ctx context.Context, userIDs []string, msg notification.Message) error
}

// BlobRemover deletes stored attachments.
type BlobRemover interface {
	Delete(ctx context.Context, key string) error
}

type Service struct {
	repo        Repository
	memberships access.Memberships
	notifier    Notifier
	blobs       BlobRemover
	log         logger.Logger
}

func NewService(repo Repository, memberships access.Memberships, notifier Notifier, blobs BlobRemover, log logger.Logger) *Service {
	return &Service{
		repo:        repo,
		memberships: memberships,
		notifier:    notifier,
		blobs:       blobs,
		log:         log,
	}
}

func (s *Service) List(ctx context.Context, userID string, filter Filter) ([]Details, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	goals, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	details, err := s.resolve(ctx, goals)
	if err != nil {
		return nil, err
	}
	if len(filter.CategoryIDs) > 0 {
		details = filterByCategories(details, filter.CategoryIDs)
	}
	return details, nil
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Details, error) {
	goal, err := s.loadOwned(ctx, id, userID, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.resolveOne(ctx, goal)
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Details, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	status := StatusPending
	if strings.TrimSpace(input.Status) != "" {
		if status, err = normalizeStatus(input.Status); err != nil {
			return nil, err
		}
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	goal := Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Status:      status,
		TargetDate:  input.TargetDate,
		Visibility:  visibility,
	}
	if input.TemplateID != nil && *input.TemplateID != "" {
		if err := s.ensureTemplateReadable(ctx, userID, *input.TemplateID); err != nil {
			return nil, err
		}
		templateID := *input.TemplateID
		goal.TemplateID = &templateID
	}
	if input.DisplayOrder != nil {
		if *input.DisplayOrder < 0 {
			return nil, ErrInvalidDisplayOrder
		}
		goal.DisplayOrder = *input.DisplayOrder
	}
	if input.ParentGoalID != nil && *input.ParentGoalID != "" {
		if _, err := s.loadOwned(ctx, *input.ParentGoalID, userID, access.ActionUpdate); err != nil {
			return nil, ErrParentGoalNotFound
		}
		parentID := *input.ParentGoalID
		goal.ParentGoalID = &parentID
	}

	categoryIDs := dedupe(input.CategoryIDs)
	if err := s.ensureCategoriesOwned(ctx, userID, categoryIDs); err != nil {
		return nil, err
	}
	teamIDs := dedupe(input.TeamIDs)
	if err := s.ensureTeamMember(ctx, userID, teamIDs); err != nil {
		return nil, err
	}

	var added []string
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &goal); err != nil {
			return err
		}
		if len(categoryIDs) > 0 {
			if err := tx.AddCategories(ctx, goal.ID, categoryIDs); err != nil {
				return err
			}
		}
		if len(teamIDs) > 0 {
			ids, err := tx.AddTeams(ctx, goal.ID, userID, teamIDs)
			if err != nil {
				return err
			}
			added = ids
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTeams(ctx, added, userID, assignedMessage(&goal))
	return s.resolveOne(ctx, &goal)
}

// Update applies the fields that are set. An empty patch returns the stored
// goal untouched.
func (s *Service) Update(ctx context.Context, id, userID string, input UpdateInput) (*Details, error) {
	goal, err := s.loadOwned(ctx, id, userID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return s.resolveOne(ctx, goal)
	}

	previousStatus := goal.Status

	if input.Title != nil {
		title, err := normalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		goal.Title = title
	}
	if input.Description != nil {
		goal.Description = input.Description
	}
	if input.Status != nil {
		status, err := normalizeStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		goal.Status = status
	}
	if input.ClearTargetDate {
		goal.TargetDate = nil
	} else if input.TargetDate != nil {
		goal.TargetDate = input.TargetDate
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, ErrInvalidVisibility
		}
		goal.Visibility = *input.Visibility
	}
	if input.DisplayOrder != nil {
		if *input.DisplayOrder < 0 {
			return nil, ErrInvalidDisplayOrder
		}
		goal.DisplayOrder = *input.DisplayOrder
	}
	if input.ClearParent {
		goal.ParentGoalID = nil
	} else if input.ParentGoalID != nil {
		parentID := strings.TrimSpace(*input.ParentGoalID)
		if err := s.checkParent(ctx, goal.ID, parentID, userID); err != nil {
			return nil, err
		}
		goal.ParentGoalID = &parentID
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	details, err := s.resolveOne(ctx, goal)
	if err != nil {
		return nil, err
	}

	if goal.Status == StatusCompleted && previousStatus != StatusCompleted && len(details.Teams) > 0 {
		teamIDs := make([]string, 0, len(details.Teams))
		for _, team := range details.Teams {
			teamIDs = append(teamIDs, team.ID)
		}
		s.notifyTeams(ctx, teamIDs, userID, notification.Message{
			Type:      notification.TypeTeamGoalCompleted,
			Title:     "Team goal completed",
			Body:      goal.Title + " has been completed",
			RelatedID: goal.ID,
		})
	}

	return details, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.loadOwned(ctx, id, userID, access.ActionDelete); err != nil {
		return err
	}
	paths, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	// The rows are gone; a blob that fails to delete is only logged.
	if s.blobs == nil {
		return nil
	}
	cleanupCtx := context.WithoutCancel(ctx)
	for _, path := range paths {
		if err := s.blobs.Delete(cleanupCtx, path); err != nil {
			s.log.InternalError("goals.delete: remove attachment blob failed", err, "goal_id", id, "path", path)
		}
	}
	return nil
}

func (s *Service) ListPublic(ctx context.Context, limit, offset int) ([]Details, error) {
	if limit <= 0 {
		limit = DefaultPublicLimit
	}
	if limit > MaxPublicLimit {
		limit = MaxPublicLimit
	}
	if offset < 0 {
		offset = 0
	}

	goals, err := s.repo.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, goals)
}

func (s *Service) ListSubGoals(ctx context.Context, id, userID string) ([]Details, error) {
	if _, err := s.loadOwned(ctx, id, userID, access.ActionRead); err != nil {
		return nil, err
	}
	goals, err := s.repo.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, goals)
}

func (s *Service) ListByTeam(ctx context.Context, teamID, userID string) ([]Details, error) {
	role, err := s.memberships.MemberRole(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, access.ActionRead, access.Resource{Kind: access.KindTeam, MemberRole: role}) {
		return nil, ErrTeamNotFound
	}

	goals, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, goals)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID, userID string) ([]Details, error) {
	if err := s.ensureCategoriesOwned(ctx, userID, []string{categoryID}); err != nil {
		return nil, err
	}

	goals, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, goals)
}

// Facts loads a goal and the access facts for the caller. Callers that
// guard resources hanging off a goal build their own policy check from it.
func (s *Service) Facts(ctx context.Context, goalID, userID string) (*Goal, access.Resource, error) {
	goal, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return nil, access.Resource{}, err
	}

	res := access.Resource{
		Kind:    access.KindGoal,
		OwnerID: goal.UserID,
		Public:  goal.Visibility == VisibilityPublic,
	}
	if userID != goal.UserID {
		shared, err := s.repo.SharesTeam(ctx, goal.ID, userID)
		if err != nil {
			return nil, access.Resource{}, err
		}
		res.TeamMember = shared
	}
	return goal, res, nil
}

// loadOwned enforces the owner-only policy used by the goal endpoints
// themselves. Everything else is reported as not found.
func (s *Service) loadOwned(ctx context.Context, id, userID string, action access.Action) (*Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, action, access.Resource{Kind: access.KindGoal, OwnerID: goal.UserID}) {
		return nil, ErrGoalNotFound
	}
	return goal, nil
}

// checkParent refuses a parent that is the goal itself or one of its
// descendants by walking the parent chain upwards.
func (s *Service) checkParent(ctx context.Context, goalID, parentID, userID string) error {
	if parentID == "" {
		return ErrParentGoalNotFound
	}
	if parentID == goalID {
		return ErrGoalCycle
	}

	current := parentID
	for steps := 0; current != ""; steps++ {
		if steps >= maxAncestorWalk {
			return ErrGoalCycle
		}
		ancestor, err := s.loadOwned(ctx, current, userID, access.ActionUpdate)
		if err != nil {
			if steps == 0 {
				return ErrParentGoalNotFound
			}
			return err
		}
		if ancestor.ParentGoalID == nil {
			return nil
		}
		current = *ancestor.ParentGoalID
		if current == goalID {
			return ErrGoalCycle
		}
	}
	return nil
}

func (s *Service) ensureCategoriesOwned(ctx context.Context, userID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	owned, err := s.repo.OwnedCategoryIDs(ctx, userID, categoryIDs)
	if err != nil {
		return err
	}
	if len(owned) != len(categoryIDs) {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Service) ensureTemplateReadable(ctx context.Context, userID, templateID string) error {
	ownerID, shared, err := s.repo.TemplateFacts(ctx, templateID)
	if err != nil {
		return err
	}
	if !access.Can(userID, access.ActionRead, access.Resource{Kind: access.KindTemplate, OwnerID: ownerID, Shared: shared}) {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *Service) ensureTeamMember(ctx context.Context, userID string, teamIDs []string) error {
	for _, teamID := range teamIDs {
		role, err := s.memberships.MemberRole(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if !access.Can(userID, access.ActionAttach, access.Resource{Kind: access.KindTeam, MemberRole: role}) {
			return ErrNotTeamMember
		}
	}
	return nil
}

func (s *Service) notifyTeams(ctx context.Context, teamIDs []string, actorID string, msg notification.Message) {
	if s.notifier == nil || len(teamIDs) == 0 {
		return
	}

	memberIDs, err := s.repo.TeamMemberIDs(ctx, teamIDs)
	if err != nil {
		s.log.InternalError("goals.notify: list team members failed", err, "type", msg.Type, "goal_id", msg.RelatedID)
		return
	}
	recipients := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != actorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	if err := s.notifier.NotifyMany(ctx, recipients, msg); err != nil {
		s.log.InternalError("goals.notify: create notifications failed", err, "type", msg.Type, "goal_id", msg.RelatedID)
	}
}

func assignedMessage(goal *Goal) notification.Message {
	return notification.Message{
		Type:      notification.TypeTeamGoalAssigned,
		Title:     "New team goal",
		Body:      goal.Title + " was assigned to your team",
		RelatedID: goal.ID,
	}
}

func normalizeTitle(value string) (string, error) {
	title := strings.TrimSpace(value)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

func normalizeStatus(value string) (string, error) {
	status := strings.TrimSpace(value)
	if status == "" || utf8.RuneCountInString(status) > maxStatusLength {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func normalizeFilter(filter Filter) (Filter, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.SortBy == "" {
		filter.SortBy = SortCreatedAt
	}
	if filter.SortDir == "" {
		filter.SortDir = SortDesc
	}

	switch filter.SortBy {
	case SortCreatedAt, SortTargetDate, SortTitle, SortStatus, SortDisplayOrder:
	default:
		return filter, ErrInvalidSort
	}
	if filter.SortDir != SortAsc && filter.SortDir != SortDesc {
		return filter, ErrInvalidSort
	}

	filter.Statuses = dedupe(filter.Statuses)
	filter.CategoryIDs = dedupe(filter.CategoryIDs)
	return filter, nil
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
