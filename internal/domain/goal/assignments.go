package goal

import (
	"context"

	"goal-tracker-go/internal/domain/access"
)

// AssignTeams links the goal to every listed team. Teams already linked are
// left alone; only new links trigger notifications. It returns the number
// of teams requested.
func (s *Service) AssignTeams(ctx context.Context, goalID, userID string, teamIDs []string) (int, error) {
	goal, err := s.loadOwned(ctx, goalID, userID, access.ActionAttach)
	if err != nil {
		return 0, err
	}

	teamIDs = dedupe(teamIDs)
	if len(teamIDs) == 0 {
		return 0, ErrEmptyAssignment
	}
	if err := s.ensureTeamMember(ctx, userID, teamIDs); err != nil {
		return 0, err
	}

	added, err := s.repo.AddTeams(ctx, goal.ID, userID, teamIDs)
	if err != nil {
		return 0, err
	}

	s.notifyTeams(ctx, added, userID, assignedMessage(goal))
	return len(teamIDs), nil
}

func (s *Service) UnassignTeam(ctx context.Context, goalID, teamID, userID string) error {
	if _, err := s.loadOwned(ctx, goalID, userID, access.ActionAttach); err != nil {
		return err
	}

	removed, err := s.repo.RemoveTeam(ctx, goalID, teamID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAssignmentNotFound
	}
	return nil
}

func (s *Service) AssignCategories(ctx context.Context, goalID, userID string, categoryIDs []string) error {
	if _, err := s.loadOwned(ctx, goalID, userID, access.ActionAttach); err != nil {
		return err
	}

	categoryIDs = dedupe(categoryIDs)
	if len(categoryIDs) == 0 {
		return ErrEmptyAssignment
	}
	if err := s.ensureCategoriesOwned(ctx, userID, categoryIDs); err != nil {
		return err
	}
	return s.repo.AddCategories(ctx, goalID, categoryIDs)
}

func (s *Service) UnassignCategory(ctx context.Context, goalID, categoryID, userID string) error {
	if _, err := s.loadOwned(ctx, goalID, userID, access.ActionAttach); err != nil {
		return err
	}

	removed, err := s.repo.RemoveCategory(ctx, goalID, categoryID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAssignmentNotFound
	}
	return nil
}
