package category

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Category, error) {
	return s.load(ctx, id, userID, access.ActionRead)
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Category, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}
	icon, err := normalizeIcon(input.Icon)
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Color:  color,
		Icon:   icon,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies only the fields that are set. An empty patch returns the
// stored category untouched.
func (s *Service) Update(ctx context.Context, id, userID string, input UpdateInput) (*Category, error) {
	category, err := s.load(ctx, id, userID, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return category, nil
	}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if !colorPattern.MatchString(color) {
			return nil, ErrInvalidColor
		}
		category.Color = color
	}
	if input.Icon != nil {
		icon, err := normalizeIcon(input.Icon)
		if err != nil {
			return nil, err
		}
		category.Icon = icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.load(ctx, id, userID, access.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id, userID string, action access.Action) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, action, access.Resource{Kind: access.KindCategory, OwnerID: category.UserID}) {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameRequired
	}
	return name, nil
}

func normalizeIcon(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	icon := strings.TrimSpace(*value)
	if icon == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(icon) > maxIconLength {
		return nil, ErrIconTooLong
	}
	return &icon, nil
}
