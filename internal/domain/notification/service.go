package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(ctx, userID, unreadOnly, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := s.load(ctx, id, userID, access.ActionUpdate); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.load(ctx, id, userID, access.ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// NotifyMany stores one notification per distinct recipient.
func (s *Service) NotifyMany(ctx context.Context, userIDs []string, msg Message) error {
	if !validType(msg.Type) {
		return ErrInvalidType
	}

	title := strings.TrimSpace(msg.Title)
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	var relatedID *string
	if msg.RelatedID != "" {
		value := msg.RelatedID
		relatedID = &value
	}

	seen := make(map[string]struct{}, len(userIDs))
	items := make([]Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		items = append(items, Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      msg.Type,
			Title:     title,
			Message:   msg.Body,
			RelatedID: relatedID,
		})
	}
	if len(items) == 0 {
		return nil
	}

	if err := s.repo.CreateMany(ctx, items); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id, userID string, action access.Action) (*Notification, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(userID, action, access.Resource{Kind: access.KindNotice, OwnerID: item.UserID}) {
		return nil, ErrNotificationNotFound
	}
	return item, nil
}

func validType(value Type) bool {
	switch value {
	case TypeTeamInvitation, TypeTeamMemberAdded, TypeTeamMemberRemoved,
		TypeTeamGoalAssigned, TypeTeamGoalCompleted, TypeTeamDeleted:
		return true
	default:
		return false
	}
}
