package service

import (
	"sort"
	"sync"
	"time"

	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/gorm"
)

// MockGroupRepository is an in-memory implementation of
// GroupRepositoryInterface. All methods hold the mutex so concurrent join
// tests observe the same atomicity the real repository gets from row locks.
type MockGroupRepository struct {
	mu     sync.Mutex
	groups map[uint]*models.Group
	nextID uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[uint]*models.Group),
		nextID: 1,
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	for i := range group.Members {
		group.Members[i].GroupID = group.ID
	}
	stored := *group
	stored.Members = append([]models.GroupMembership(nil), group.Members...)
	m.groups[group.ID] = &stored
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *group
	clone.Members = append([]models.GroupMembership(nil), group.Members...)
	return &clone, nil
}

func (m *MockGroupRepository) FindAll() ([]models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint, 0, len(m.groups))
	for id := range m.groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.groups[id])
	}
	return out, nil
}

func (m *MockGroupRepository) Update(group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.groups[group.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	members := existing.Members
	stored := *group
	stored.Members = members
	m.groups[group.ID] = &stored
	return nil
}

func (m *MockGroupRepository) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *MockGroupRepository) AddJoinedWithCapacity(groupID uint, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if email == group.CreatorEmail {
		return true, nil
	}

	joined := 0
	for _, member := range group.Members {
		if member.Email == email && member.Role == models.RoleJoined {
			return true, nil
		}
		if member.Role == models.RoleJoined {
			joined++
		}
	}
	if joined+1 >= group.GroupSize {
		return false, nil
	}

	for i, member := range group.Members {
		if member.Email == email {
			group.Members[i].Role = models.RoleJoined
			return true, nil
		}
	}
	group.Members = append(group.Members, models.GroupMembership{
		GroupID:  groupID,
		Email:    email,
		Role:     models.RoleJoined,
		JoinedAt: time.Now(),
	})
	return true, nil
}

func (m *MockGroupRepository) RemoveJoined(groupID uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := group.Members[:0]
	for _, member := range group.Members {
		if member.Email == email && member.Role == models.RoleJoined {
			continue
		}
		kept = append(kept, member)
	}
	group.Members = kept
	return nil
}

func (m *MockGroupRepository) CountJoined(groupID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	var count int64
	for _, member := range group.Members {
		if member.Role == models.RoleJoined {
			count++
		}
	}
	return count, nil
}

func (m *MockGroupRepository) ReplaceInvites(groupID uint, emails []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := group.Members[:0]
	for _, member := range group.Members {
		if member.Role == models.RoleInvited {
			continue
		}
		kept = append(kept, member)
	}
	group.Members = kept
	for _, email := range emails {
		if group.RoleOf(email) != models.EdgeNone {
			continue
		}
		group.Members = append(group.Members, models.GroupMembership{
			GroupID: groupID,
			Email:   email,
			Role:    models.RoleInvited,
		})
	}
	return nil
}

func (m *MockGroupRepository) GroupsFor(email string) ([]models.Group, error) {
	all, err := m.FindAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(all))
	for _, group := range all {
		if group.RoleOf(email) != models.EdgeNone {
			out = append(out, group)
		}
	}
	return out, nil
}

func (m *MockGroupRepository) FirstChatGroupFor(email string) (*models.Group, error) {
	all, err := m.FindAll()
	if err != nil {
		return nil, err
	}
	var oldest *models.Group
	for i := range all {
		switch all[i].RoleOf(email) {
		case models.EdgeCreator, models.EdgeJoined:
		default:
			continue
		}
		if oldest == nil || all[i].CreatedAt.Before(oldest.CreatedAt) {
			oldest = &all[i]
		}
	}
	if oldest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return oldest, nil
}

// MockChannelRepository is an in-memory implementation of
// ChannelRepositoryInterface.
type MockChannelRepository struct {
	mu       sync.Mutex
	channels map[uint]*models.ChatChannel
	messages []models.ChatMessage
	nextID   uint
	clock    time.Time
}

func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{
		channels: make(map[uint]*models.ChatChannel),
		nextID:   1,
		clock:    time.Now(),
	}
}

func (m *MockChannelRepository) Ensure(groupID uint, createdBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[groupID]; ok {
		return nil
	}
	m.channels[groupID] = &models.ChatChannel{
		GroupID:   groupID,
		CreatedAt: time.Now(),
		CreatedBy: createdBy,
	}
	return nil
}

func (m *MockChannelRepository) Get(groupID uint) (*models.ChatChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	channel, ok := m.channels[groupID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *channel
	return &clone, nil
}

func (m *MockChannelRepository) CreateMessage(message *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		// Coarse clock: repeated sends in the same test tick share a
		// timestamp so ordering falls back to the id tie-break.
		message.CreatedAt = m.clock
	}
	m.messages = append(m.messages, *message)
	return nil
}

func (m *MockChannelRepository) FindByClientID(clientID, sender string) (*models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ClientID == clientID && m.messages[i].Sender == sender {
			clone := m.messages[i]
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChannelRepository) ListMessages(groupID uint, limit int) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatMessage, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.GroupID == groupID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// MockProfileRepository is an in-memory implementation of
// ProfileRepositoryInterface.
type MockProfileRepository struct {
	profiles map[string]*models.Profile
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*models.Profile)}
}

func (m *MockProfileRepository) Add(email, name string) {
	m.profiles[email] = &models.Profile{Email: email, Name: name}
}

func (m *MockProfileRepository) FindByEmail(email string) (*models.Profile, error) {
	profile, ok := m.profiles[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *MockProfileRepository) FindByEmails(emails []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(emails))
	for _, email := range emails {
		if profile, ok := m.profiles[email]; ok {
			out[email] = *profile
		}
	}
	return out, nil
}
