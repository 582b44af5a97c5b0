package team

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/internal/domain/notification"
	"goal-tracker-go/internal/domain/user"
	"goal-tracker-go/pkg/logger"
)

type fakeRepo struct {
	teams       map[string]Team
	members     map[string]Member
	invitations map[string]Invitation
	seq         int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		teams:       make(map[string]Team),
		members:     make(map[string]Member),
		invitations: make(map[string]Invitation),
	}
}

func memberKey(teamID, userID string) string {
	return teamID + "|" + userID
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) CreateTeam(ctx context.Context, team *Team) error {
	f.seq++
	team.CreatedAt = time.Unix(int64(f.seq), 0)
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeRepo) GetTeam(ctx context.Context, id string) (*Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &team, nil
}

func (f *fakeRepo) GetTeams(ctx context.Context, ids []string) ([]Team, error) {
	var result []Team
	for _, id := range ids {
		if team, ok := f.teams[id]; ok {
			result = append(result, team)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeRepo) ListChildren(ctx context.Context, parentIDs []string) ([]Team, error) {
	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var result []Team
	for _, team := range f.teams {
		if team.ParentTeamID != nil && parents[*team.ParentTeamID] {
			result = append(result, team)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateTeam(ctx context.Context, team *Team) error {
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeRepo) SetNestingLevel(ctx context.Context, teamID string, level int) error {
	team := f.teams[teamID]
	team.NestingLevel = level
	f.teams[teamID] = team
	return nil
}

func (f *fakeRepo) DeleteTeam(ctx context.Context, id string) error {
	delete(f.teams, id)
	for key, member := range f.members {
		if member.TeamID == id {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeRepo) MemberRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	member, ok := f.members[memberKey(teamID, userID)]
	if !ok {
		return access.RoleNone, nil
	}
	return member.Role, nil
}

func (f *fakeRepo) GetMember(ctx context.Context, teamID, userID string) (*Member, error) {
	member, ok := f.members[memberKey(teamID, userID)]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &member, nil
}

func (f *fakeRepo) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	var result []Member
	for _, member := range f.members {
		if member.TeamID == teamID {
			result = append(result, member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (f *fakeRepo) ListMemberships(ctx context.Context, userID string) ([]Member, error) {
	var result []Member
	for _, member := range f.members {
		if member.UserID == userID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (f *fakeRepo) CountMembers(ctx context.Context, teamIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, id := range teamIDs {
		for _, member := range f.members {
			if member.TeamID == id {
				result[id]++
			}
		}
	}
	return result, nil
}

func (f *fakeRepo) CountOwners(ctx context.Context, teamID string) (int64, error) {
	var count int64
	for _, member := range f.members {
		if member.TeamID == teamID && member.Role == access.RoleOwner {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) AddMember(ctx context.Context, member *Member) error {
	key := memberKey(member.TeamID, member.UserID)
	if _, ok := f.members[key]; ok {
		return ErrAlreadyMember
	}
	f.members[key] = *member
	return nil
}

func (f *fakeRepo) UpdateMemberRole(ctx context.Context, teamID, userID string, role access.Role) error {
	key := memberKey(teamID, userID)
	member := f.members[key]
	member.Role = role
	f.members[key] = member
	return nil
}

func (f *fakeRepo) DeleteMember(ctx context.Context, teamID, userID string) error {
	delete(f.members, memberKey(teamID, userID))
	return nil
}

func (f *fakeRepo) CreateInvitation(ctx context.Context, invitation *Invitation) error {
	f.invitations[invitation.ID] = *invitation
	return nil
}

func (f *fakeRepo) GetInvitation(ctx context.Context, id string) (*Invitation, error) {
	invitation, ok := f.invitations[id]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	return &invitation, nil
}

func (f *fakeRepo) GetInvitationByCode(ctx context.Context, code string) (*Invitation, error) {
	for _, invitation := range f.invitations {
		if invitation.InviteCode == code {
			inv := invitation
			return &inv, nil
		}
	}
	return nil, ErrInvitationNotFound
}

func (f *fakeRepo) ListInvitationsByTeam(ctx context.Context, teamID string) ([]Invitation, error) {
	var result []Invitation
	for _, invitation := range f.invitations {
		if invitation.TeamID == teamID {
			result = append(result, invitation)
		}
	}
	return result, nil
}

func (f *fakeRepo) ListPendingInvitationsByEmail(ctx context.Context, email string, now time.Time) ([]Invitation, error) {
	var result []Invitation
	for _, invitation := range f.invitations {
		if invitation.Email == email && invitation.Status == InvitationPending && invitation.ExpiresAt.After(now) {
			result = append(result, invitation)
		}
	}
	return result, nil
}

func (f *fakeRepo) HasPendingInvitation(ctx context.Context, teamID, email string, now time.Time) (bool, error) {
	for _, invitation := range f.invitations {
		if invitation.TeamID == teamID && invitation.Email == email && invitation.Status == InvitationPending && invitation.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SetInvitationStatus(ctx context.Context, id string, status InvitationStatus) error {
	invitation, ok := f.invitations[id]
	if !ok || invitation.Status != InvitationPending {
		return ErrInvitationNotPending
	}
	invitation.Status = status
	f.invitations[id] = invitation
	return nil
}

func (f *fakeRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	for _, invitation := range f.invitations {
		if invitation.InviteCode == code {
			return true, nil
		}
	}
	return false, nil
}

type sentNotification struct {
	userIDs []string
	msg     notification.Message
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []string, msg notification.Message) error {
	f.sent = append(f.sent, sentNotification{userIDs: userIDs, msg: msg})
	return nil
}

func (f *fakeNotifier) ofType(kind notification.Type) []sentNotification {
	var result []sentNotification
	for _, item := range f.sent {
		if item.msg.Type == kind {
			result = append(result, item)
		}
	}
	return result
}

type fakeProfiles struct {
	byID map[string]user.Profile
}

func (f *fakeProfiles) FindByEmail(ctx context.Context, email string) (*user.Profile, error) {
	for _, profile := range f.byID {
		if profile.Email != nil && *profile.Email == email {
			p := profile
			return &p, nil
		}
	}
	return nil, user.ErrProfileNotFound
}

func (f *fakeProfiles) GetProfiles(ctx context.Context, userIDs []string) (map[string]user.Profile, error) {
	result := make(map[string]user.Profile)
	for _, id := range userIDs {
		if profile, ok := f.byID[id]; ok {
			result[id] = profile
		}
	}
	return result, nil
}

type fakeMailer struct {
	sent []InvitationEmail
}

func (f *fakeMailer) SendInvitation(ctx context.Context, email InvitationEmail) error {
	f.sent = append(f.sent, email)
	return nil
}

type fixture struct {
	repo     *fakeRepo
	notifier *fakeNotifier
	profiles *fakeProfiles
	mailer   *fakeMailer
	service  *Service
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		profiles: &fakeProfiles{byID: make(map[string]user.Profile)},
		mailer:   &fakeMailer{},
		clock:    time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	log := logger.New(io.Discard, slog.LevelDebug, "text")
	f.service = NewService(f.repo, f.notifier, f.profiles, f.mailer, log)
	f.service.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) addProfile(userID, email, name string) {
	f.profiles.byID[userID] = user.Profile{UserID: userID, Email: &email, Name: &name}
}
