package goal

import "context"

// resolve attaches teams and categories to each goal. Every read path goes
// through here so list, get and public payloads share one shape.
func (s *Service) resolve(ctx context.Context, goals []Goal) ([]Details, error) {
	if len(goals) == 0 {
		return []Details{}, nil
	}

	ids := make([]string, 0, len(goals))
	for _, goal := range goals {
		ids = append(ids, goal.ID)
	}

	teams, err := s.repo.TeamsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.CategoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	return flatten(goals, teams, categories), nil
}

func (s *Service) resolveOne(ctx context.Context, goal *Goal) (*Details, error) {
	details, err := s.resolve(ctx, []Goal{*goal})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func flatten(goals []Goal, teams map[string][]TeamRef, categories map[string][]CategoryRef) []Details {
	result := make([]Details, 0, len(goals))
	for _, goal := range goals {
		item := Details{
			Goal:       goal,
			Teams:      teams[goal.ID],
			Categories: categories[goal.ID],
		}
		if item.Teams == nil {
			item.Teams = []TeamRef{}
		}
		if item.Categories == nil {
			item.Categories = []CategoryRef{}
		}
		result = append(result, item)
	}
	return result
}

// filterByCategories keeps goals carrying at least one of categoryIDs.
func filterByCategories(goals []Details, categoryIDs []string) []Details {
	wanted := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = struct{}{}
	}

	result := make([]Details, 0, len(goals))
	for _, goal := range goals {
		for _, category := range goal.Categories {
			if _, ok := wanted[category.ID]; ok {
				result = append(result, goal)
				break
			}
		}
	}
	return result
}
