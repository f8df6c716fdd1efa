package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestGroup creates a test group with default values
func (h *TestHelper) CreateTestGroup(id uint, name, creator string) *models.Group {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "Algorithms Revision"
	}
	if creator == "" {
		creator = "creator@student.test"
	}

	return &models.Group{
		ID:           id,
		GroupName:    name,
		StudySubject: "Algorithms",
		StudyDay:     "Tuesday",
		StudyTime:    "18:00",
		Location:     "Library L3",
		GroupType:    models.GeneralGroup,
		GroupSize:    5,
		CreatorEmail: creator,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestMembership creates a membership row attached to a group
func (h *TestHelper) CreateTestMembership(groupID uint, email string, role models.MemberRole) models.GroupMembership {
	if groupID == 0 {
		groupID = 1
	}
	if email == "" {
		email = "member@student.test"
	}

	return models.GroupMembership{
		GroupID:  groupID,
		Email:    email,
		Role:     role,
		JoinedAt: time.Now(),
	}
}

// CreateTestMessage creates a test chat message with default values
func (h *TestHelper) CreateTestMessage(id uint, groupID uint, sender, text string) *models.ChatMessage {
	if id == 0 {
		id = 1
	}
	if groupID == 0 {
		groupID = 1
	}
	if sender == "" {
		sender = "member@student.test"
	}
	if text == "" {
		text = "Test message"
	}

	return &models.ChatMessage{
		ID:         id,
		GroupID:    groupID,
		ClientID:   "client-" + string(rune('0'+id%10)),
		Sender:     sender,
		SenderName: "Test Member",
		Text:       text,
		CreatedAt:  time.Now(),
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("MAX_MESSAGE_LENGTH", "")
	os.Setenv("CSRF_MODE", "off")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("MAX_MESSAGE_LENGTH")
	os.Unsetenv("CSRF_MODE")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertNotNil checks if a value is not nil
func (h *TestHelper) AssertNotNil(value interface{}, testName string) {
	if value == nil {
		h.t.Errorf("%s: expected non-nil value", testName)
	}
}

// GetRecordNotFoundError returns the not-found error the repositories surface
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
