package template

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/goal"
)

// Goals creates the goal an instantiated template produces.
type Goals interface {
	Create(ctx context.Context, userID string, input goal.CreateInput) (*goal.Details, error)
}

type Service struct {
	repo        Repository
	goals       Goals
	memberships access.Memberships
	now         func() time.Time
}

func NewService(repo Repository, goals Goals, memberships access.Memberships) *Service {
	return &Service{
		repo:        repo,
		goals:       goals,
		memberships: memberships,
		now:         time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID string, includeShared bool) ([]Details, error) {
	templates, err := s.repo.List(ctx, userID, includeShared)
	if err != nil {
		return nil, err
	}
	return s.withJoins(ctx, templates)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Details, error) {
	template, err := s.load(ctx, id, userID, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.withJoinsOne(ctx, template)
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Details, error) {
	template := Template{
		ID:                  uuid.NewString(),
		UserID:              userID,
		DescriptionTemplate: input.DescriptionTemplate,
		IsRecurring:         input.IsRecurring,
		RecurrenceType:      input.RecurrenceType,
		RecurrenceInterval:  minInterval,
		IsShared:            input.IsShared,
	}

	var err error
	if template.Name, err = normalizeName(input.Name); err != nil {
		return nil, err
	}
	if template.TitleTemplate, err = normalizeTitle(input.TitleTemplate); err != nil {
		return nil, err
	}
	if template.DefaultStatus, err = normalizeStatus(input.DefaultStatus); err != nil {
		return nil, err
	}
	if input.RecurrenceInterval != nil {
		template.RecurrenceInterval = *input.RecurrenceInterval
	}
	if err := validateRecurrence(&template); err != nil {
		return nil, err
	}

	categoryIDs := dedupe(input.CategoryIDs)
	teamIDs := dedupe(input.TeamIDs)
	if err := s.ensureReferences(ctx, userID, categoryIDs, teamIDs); err != nil {
		return nil, err
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &template); err != nil {
			return err
		}
		if err := tx.SetCategories(ctx, template.ID, categoryIDs); err != nil {
			return err
		}
		return tx.SetTeams(ctx, template.ID, teamIDs)
	})
	if err != nil {
		return nil, err
	}

	return &Details{Template: template, CategoryIDs: orEmpty(categoryIDs), TeamIDs: orEmpty(teamIDs)}, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, input UpdateInput) (*Details, error) {
	template, err := s.load(ctx, id, userID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return s.withJoinsOne(ctx, template)
	}

	if input.Name != nil {
		if template.Name, err = normalizeName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.TitleTemplate != nil {
		if template.TitleTemplate, err = normalizeTitle(*input.TitleTemplate); err != nil {
			return nil, err
		}
	}
	if input.DescriptionTemplate != nil {
		template.DescriptionTemplate = input.DescriptionTemplate
	}
	if input.DefaultStatus != nil {
		if template.DefaultStatus, err = normalizeStatus(input.DefaultStatus); err != nil {
			return nil, err
		}
	}
	if input.IsRecurring != nil {
		template.IsRecurring = *input.IsRecurring
	}
	if input.RecurrenceType != nil {
		template.RecurrenceType = input.RecurrenceType
	}
	if input.RecurrenceInterval != nil {
		template.RecurrenceInterval = *input.RecurrenceInterval
	}
	if input.IsShared != nil {
		template.IsShared = *input.IsShared
	}
	if err := validateRecurrence(template); err != nil {
		return nil, err
	}

	var categoryIDs, teamIDs []string
	if input.CategoryIDs != nil {
		categoryIDs = dedupe(*input.CategoryIDs)
	}
	if input.TeamIDs != nil {
		teamIDs = dedupe(*input.TeamIDs)
	}
	if err := s.ensureReferences(ctx, userID, categoryIDs, teamIDs); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Update(ctx, template); err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			if err := tx.SetCategories(ctx, template.ID, categoryIDs); err != nil {
				return err
			}
		}
		if input.TeamIDs != nil {
			if err := tx.SetTeams(ctx, template.ID, teamIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.withJoinsOne(ctx, template)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.load(ctx, id, userID, access.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Instantiate creates a goal from a template the caller can read.
func (s *Service) Instantiate(ctx context.Context, userID string, input InstantiateInput) (*goal.Details, error) {
	if strings.TrimSpace(input.TemplateID) == "" {
		return nil, ErrTemplateRequired
	}
	template, err := s.load(ctx, input.TemplateID, userID, access.ActionRead)
	if err != nil {
		return nil, err
	}
	ownsTemplate := template.UserID == userID

	now := s.now()
	title := strings.ReplaceAll(template.TitleTemplate, DatePlaceholder, now.Format(dateLayout))
	if input.TitleOverride != nil && strings.TrimSpace(*input.TitleOverride) != "" {
		title = *input.TitleOverride
	}
	description := template.DescriptionTemplate
	if input.DescriptionOverride != nil {
		description = input.DescriptionOverride
	}
	status := goal.StatusPending
	if template.DefaultStatus != nil {
		status = *template.DefaultStatus
	}
	targetDate := input.TargetDate
	if targetDate == nil && template.IsRecurring {
		targetDate = nextOccurrence(now, template)
	}

	categoryIDs := input.AdditionalCategoryIDs
	teamIDs := input.AdditionalTeamIDs
	defaults, err := s.defaultJoins(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	if ownsTemplate {
		categoryIDs = append(append([]string{}, defaults.CategoryIDs...), categoryIDs...)
	}
	memberTeams, err := s.memberTeams(ctx, userID, defaults.TeamIDs)
	if err != nil {
		return nil, err
	}
	teamIDs = append(memberTeams, teamIDs...)

	templateID := template.ID
	return s.goals.Create(ctx, userID, goal.CreateInput{
		Title:       title,
		Description: description,
		Status:      status,
		TargetDate:  targetDate,
		TemplateID:  &templateID,
		CategoryIDs: categoryIDs,
		TeamIDs:     teamIDs,
	})
}

func (s *Service) load(ctx context.Context, id, userID string, action access.Action) (*Template, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := access.Resource{Kind: access.KindTemplate, OwnerID: template.UserID, Shared: template.IsShared}
	if !access.Can(userID, action, res) {
		if action != access.ActionRead && template.IsShared {
			return nil, ErrNotTemplateOwner
		}
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

// memberTeams keeps the default teams the caller belongs to. A shared
// template may carry teams its other users are not part of.
// ensureReferences requires default categories owned by the caller and
// default teams the caller belongs to.
func (s *Service) ensureReferences(ctx context.Context, userID string, categoryIDs, teamIDs []string) error {
	if len(categoryIDs) > 0 {
		owned, err := s.repo.OwnedCategoryIDs(ctx, userID, categoryIDs)
		if err != nil {
			return err
		}
		if len(owned) != len(categoryIDs) {
			return ErrCategoryNotFound
		}
	}
	member, err := s.memberTeams(ctx, userID, teamIDs)
	if err != nil {
		return err
	}
	if len(member) != len(teamIDs) {
		return ErrNotTeamMember
	}
	return nil
}

func (s *Service) memberTeams(ctx context.Context, userID string, teamIDs []string) ([]string, error) {
	result := make([]string, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		role, err := s.memberships.MemberRole(ctx, teamID, userID)
		if err != nil {
			return nil, err
		}
		if role != access.RoleNone {
			result = append(result, teamID)
		}
	}
	return result, nil
}

func (s *Service) defaultJoins(ctx context.Context, templateID string) (*Details, error) {
	details, err := s.withJoins(ctx, []Template{{ID: templateID}})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) withJoins(ctx context.Context, templates []Template) ([]Details, error) {
	if len(templates) == 0 {
		return []Details{}, nil
	}
	ids := make([]string, 0, len(templates))
	for _, template := range templates {
		ids = append(ids, template.ID)
	}

	categories, err := s.repo.CategoryIDsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.TeamIDsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Details, 0, len(templates))
	for _, template := range templates {
		result = append(result, Details{
			Template:    template,
			CategoryIDs: orEmpty(categories[template.ID]),
			TeamIDs:     orEmpty(teams[template.ID]),
		})
	}
	return result, nil
}

func (s *Service) withJoinsOne(ctx context.Context, template *Template) (*Details, error) {
	details, err := s.withJoins(ctx, []Template{*template})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func nextOccurrence(now time.Time, template *Template) *time.Time {
	if template.RecurrenceType == nil {
		return nil
	}
	interval := template.RecurrenceInterval
	if interval < minInterval {
		interval = minInterval
	}

	var next time.Time
	switch *template.RecurrenceType {
	case RecurrenceDaily:
		next = now.AddDate(0, 0, interval)
	case RecurrenceWeekly:
		next = now.AddDate(0, 0, 7*interval)
	case RecurrenceMonthly:
		next = now.AddDate(0, interval, 0)
	default:
		return nil
	}
	return &next
}

func validateRecurrence(template *Template) error {
	if template.RecurrenceInterval < minInterval || template.RecurrenceInterval > maxInterval {
		return ErrInvalidInterval
	}
	if template.RecurrenceType != nil && !template.RecurrenceType.Valid() {
		return ErrInvalidRecurrence
	}
	if template.IsRecurring && template.RecurrenceType == nil {
		return ErrInvalidRecurrence
	}
	return nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func normalizeTitle(value string) (string, error) {
	title := strings.TrimSpace(value)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

func normalizeStatus(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	status := strings.TrimSpace(*value)
	if status == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(status) > maxStatusLength {
		return nil, ErrInvalidStatus
	}
	return &status, nil
}

func dedupe(values []string) []string {
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

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
