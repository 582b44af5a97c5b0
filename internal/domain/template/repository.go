package template

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, template *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	// List returns userID's templates, plus every shared template when
	// includeShared is set.
	List(ctx context.Context, userID string, includeShared bool) ([]Template, error)
	Update(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id string) error

	SetCategories(ctx context.Context, templateID string, categoryIDs []string) error
	SetTeams(ctx context.Context, templateID string, teamIDs []string) error
	CategoryIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error)
	TeamIDsFor(ctx context.Context, templateIDs []string) (map[string][]string, error)
	OwnedCategoryIDs(ctx context.Context, userID string, categoryIDs []string) ([]string, error)
}
