package goal

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, id string) (*Goal, error)
	List(ctx context.Context, userID string, filter Filter) ([]Goal, error)
	ListPublic(ctx context.Context, limit, offset int) ([]Goal, error)
	ListChildren(ctx context.Context, parentID string) ([]Goal, error)
	ListByTeam(ctx context.Context, teamID string) ([]Goal, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) error
	// Delete removes the goal with its join and attachment rows and returns
	// the storage paths of the removed attachments.
	Delete(ctx context.Context, id string) ([]string, error)

	TeamsFor(ctx context.Context, goalIDs []string) (map[string][]TeamRef, error)
	CategoriesFor(ctx context.Context, goalIDs []string) (map[string][]CategoryRef, error)
	// SharesTeam reports whether userID belongs to any team the goal is
	// assigned to.
	SharesTeam(ctx context.Context, goalID, userID string) (bool, error)
	AddTeams(ctx context.Context, goalID, assignedBy string, teamIDs []string) ([]string, error)
	RemoveTeam(ctx context.Context, goalID, teamID string) (bool, error)
	AddCategories(ctx context.Context, goalID string, categoryIDs []string) error
	RemoveCategory(ctx context.Context, goalID, categoryID string) (bool, error)
	OwnedCategoryIDs(ctx context.Context, userID string, categoryIDs []string) ([]string, error)
	// TemplateFacts returns the owner and shared flag of a template.
	TemplateFacts(ctx context.Context, templateID string) (ownerID string, shared bool, err error)
	TeamMemberIDs(ctx context.Context, teamIDs []string) ([]string, error)
}
