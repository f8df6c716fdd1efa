package service

import (
	"context"
	"errors"

	"github.com/aisyah-bit/studyally-backend/internal/cache"
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"github.com/aisyah-bit/studyally-backend/internal/repository"
	"github.com/aisyah-bit/studyally-backend/internal/validation"
	"gorm.io/gorm"
)

type MembershipService struct {
	groupRepo   repository.GroupRepositoryInterface
	recommender RecommenderInterface
	cache       *cache.MembershipCache
}

func NewMembershipService(
	groupRepo repository.GroupRepositoryInterface,
	recommender RecommenderInterface,
	membershipCache *cache.MembershipCache,
) *MembershipService {
	return &MembershipService{
		groupRepo:   groupRepo,
		recommender: recommender,
		cache:       membershipCache,
	}
}

type GroupInput struct {
	GroupName    string           `json:"group_name"`
	StudySubject string           `json:"study_subject"`
	StudyDay     string           `json:"study_day"`
	StudyTime    string           `json:"study_time"`
	Location     string           `json:"location"`
	GroupType    models.GroupType `json:"group_type"`
	GroupSize    int              `json:"group_size"`
	InviteList   []string         `json:"invite_list"`
}

func (s *MembershipService) CreateGroup(identity string, input GroupInput) (*models.Group, error) {
	if input.GroupName == "" || !validation.ValidateGroupSize(input.GroupSize) {
		return nil, ErrInvalidGroup
	}
	if input.GroupType == "" {
		input.GroupType = models.GeneralGroup
	}
	if !validation.ValidateGroupType(string(input.GroupType)) {
		return nil, ErrInvalidGroup
	}

	group := &models.Group{
		GroupName:    input.GroupName,
		StudySubject: input.StudySubject,
		StudyDay:     input.StudyDay,
		StudyTime:    input.StudyTime,
		Location:     input.Location,
		GroupType:    input.GroupType,
		GroupSize:    input.GroupSize,
		CreatorEmail: identity,
	}
	// The creator is an implicit member; invites are membership rows.
	for _, email := range validation.NormalizeInviteList(input.InviteList, identity) {
		group.Members = append(group.Members, models.GroupMembership{
			Email: email,
			Role:  models.RoleInvited,
		})
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	s.cache.Invalidate(identity)
	return s.groupRepo.FindByID(group.ID)
}

// Join admits identity into the group's joined set. Creator and already-joined
// members succeed without mutating anything, so the caller can always route to
// the group's chat channel on success.
func (s *MembershipService) Join(groupID uint, identity string) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	switch group.RoleOf(identity) {
	case models.EdgeCreator, models.EdgeJoined:
		return group, nil
	}

	// Invited identities and strangers both pass the same capacity gate. The
	// snapshot above may be stale; the repository re-checks under lock.
	admitted, err := s.groupRepo.AddJoinedWithCapacity(groupID, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if !admitted {
		return nil, ErrGroupFull
	}

	s.cache.Invalidate(identity)
	return s.groupRepo.FindByID(groupID)
}

func (s *MembershipService) LeaveGroup(groupID uint, identity string) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	switch group.RoleOf(identity) {
	case models.EdgeCreator:
		// The creator cannot leave the group, only delete it.
		return ErrForbidden
	case models.EdgeJoined:
	default:
		return ErrNotMember
	}
	if err := s.groupRepo.RemoveJoined(groupID, identity); err != nil {
		return err
	}
	s.cache.Invalidate(identity)
	return nil
}

// UpdateGroup lets the creator edit display fields, size and invites. The new
// size may not drop below current membership, which would retroactively break
// the capacity invariant.
func (s *MembershipService) UpdateGroup(groupID uint, identity string, input GroupInput) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.RoleOf(identity) != models.EdgeCreator {
		return nil, ErrForbidden
	}
	if input.GroupName == "" || !validation.ValidateGroupSize(input.GroupSize) {
		return nil, ErrInvalidGroup
	}
	if input.GroupSize < group.MemberCount() {
		return nil, ErrGroupFull
	}

	group.GroupName = input.GroupName
	group.StudySubject = input.StudySubject
	group.StudyDay = input.StudyDay
	group.StudyTime = input.StudyTime
	group.Location = input.Location
	group.GroupSize = input.GroupSize
	if input.GroupType != "" && validation.ValidateGroupType(string(input.GroupType)) {
		group.GroupType = input.GroupType
	}
	group.Members = nil
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}
	if input.InviteList != nil {
		invites := validation.NormalizeInviteList(input.InviteList, group.CreatorEmail)
		if err := s.groupRepo.ReplaceInvites(groupID, invites); err != nil {
			return nil, err
		}
	}
	return s.groupRepo.FindByID(groupID)
}

// DeleteGroup removes the group and its membership rows. The chat log is left
// orphaned on purpose: it is keyed by group id and simply becomes unreachable.
func (s *MembershipService) DeleteGroup(groupID uint, identity string, isAdmin bool) error {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if !isAdmin && group.RoleOf(identity) != models.EdgeCreator {
		return ErrForbidden
	}
	if err := s.groupRepo.Delete(groupID); err != nil {
		return err
	}
	s.cache.Invalidate(identity)
	return nil
}

func (s *MembershipService) GetGroup(groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *MembershipService) ListGroups() ([]models.Group, error) {
	return s.groupRepo.FindAll()
}

// ListMembershipsFor returns the groups where identity is creator, joined or
// invited, via the membership index rather than a full scan.
func (s *MembershipService) ListMembershipsFor(identity string) ([]models.Group, error) {
	if groups, ok := s.cache.GetGroups(identity); ok {
		return groups, nil
	}
	groups, err := s.groupRepo.GroupsFor(identity)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		_ = s.cache.SetGroups(identity, groups)
	}
	return groups, nil
}

// Recommended queries the external scorer and re-reads every suggested group
// from the authoritative store; the score is advisory ranking only and is
// never trusted for capacity.
func (s *MembershipService) Recommended(ctx context.Context, identity string, groupType models.GroupType) ([]models.GroupResponse, error) {
	if s.recommender == nil {
		return []models.GroupResponse{}, nil
	}
	scored, err := s.recommender.Recommendations(ctx, identity, groupType)
	if err != nil {
		return nil, err
	}

	out := make([]models.GroupResponse, 0, len(scored))
	for _, sg := range scored {
		group, err := s.groupRepo.FindByID(sg.GroupID)
		if err != nil {
			// Stale recommendation; the group no longer resolves.
			continue
		}
		if group.IsFull() {
			continue
		}
		resp := group.ToResponse()
		resp.CompatibilityScore = sg.Percent()
		out = append(out, resp)
	}
	return out, nil
}
