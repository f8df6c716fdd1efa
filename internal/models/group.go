package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupType string

const (
	GeneralGroup    GroupType = "general"
	AssignmentGroup GroupType = "assignment"
)

// MemberRole is the stored role of a membership row. The creator is implicit
// (Group.CreatorEmail) and never has a row of its own.
type MemberRole string

const (
	RoleJoined  MemberRole = "joined"
	RoleInvited MemberRole = "invited"
)

// MembershipEdge is the resolved relation between an identity and a group.
type MembershipEdge string

const (
	EdgeCreator MembershipEdge = "creator"
	EdgeJoined  MembershipEdge = "joined"
	EdgeInvited MembershipEdge = "invited"
	EdgeNone    MembershipEdge = "none"
)

type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupName    string    `gorm:"size:100;not null" json:"group_name"`
	StudySubject string    `gorm:"size:100" json:"study_subject"`
	StudyDay     string    `gorm:"size:20" json:"study_day"`
	StudyTime    string    `gorm:"size:20" json:"study_time"`
	Location     string    `gorm:"size:255" json:"location"`
	GroupType    GroupType `gorm:"type:varchar(20);default:'general'" json:"group_type"`
	// GroupSize is the maximum total membership, creator included.
	GroupSize    int    `gorm:"not null" json:"group_size"`
	CreatorEmail string `gorm:"size:255;not null;index" json:"creator_email"`

	// Associations
	Members []GroupMembership `gorm:"foreignKey:GroupID" json:"members"`
}

type GroupMembership struct {
	GroupID  uint       `gorm:"primaryKey" json:"group_id"`
	Email    string     `gorm:"primaryKey;size:255" json:"email"`
	Role     MemberRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

// JoinedList returns the identities with role joined. The creator is excluded.
func (g *Group) JoinedList() []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Role == RoleJoined {
			out = append(out, m.Email)
		}
	}
	return out
}

// InviteList returns the identities pre-authorized to join.
func (g *Group) InviteList() []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Role == RoleInvited {
			out = append(out, m.Email)
		}
	}
	return out
}

// MemberCount is the current total membership: joined members plus the creator.
func (g *Group) MemberCount() int {
	count := 1
	for _, m := range g.Members {
		if m.Role == RoleJoined {
			count++
		}
	}
	return count
}

// IsFull reports whether the group is at capacity.
func (g *Group) IsFull() bool {
	return g.MemberCount() >= g.GroupSize
}

// RoleOf resolves the membership edge for an identity.
func (g *Group) RoleOf(email string) MembershipEdge {
	if email == g.CreatorEmail {
		return EdgeCreator
	}
	for _, m := range g.Members {
		if m.Email != email {
			continue
		}
		switch m.Role {
		case RoleJoined:
			return EdgeJoined
		case RoleInvited:
			return EdgeInvited
		}
	}
	return EdgeNone
}

type GroupResponse struct {
	ID           uint      `json:"id"`
	GroupName    string    `json:"group_name"`
	StudySubject string    `json:"study_subject"`
	StudyDay     string    `json:"study_day"`
	StudyTime    string    `json:"study_time"`
	Location     string    `json:"location"`
	GroupType    GroupType `json:"group_type"`
	GroupSize    int       `json:"group_size"`
	CreatorEmail string    `json:"creator_email"`
	JoinedList   []string  `json:"joined_list"`
	InviteList   []string  `json:"invite_list"`
	MemberCount  int       `json:"member_count"`
	IsFull       bool      `json:"is_full"`
	CreatedAt    time.Time `json:"created_at"`

	// Advisory ranking from the external scorer; zero when not requested.
	CompatibilityScore int `json:"compatibility_score,omitempty"`
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:           g.ID,
		GroupName:    g.GroupName,
		StudySubject: g.StudySubject,
		StudyDay:     g.StudyDay,
		StudyTime:    g.StudyTime,
		Location:     g.Location,
		GroupType:    g.GroupType,
		GroupSize:    g.GroupSize,
		CreatorEmail: g.CreatorEmail,
		JoinedList:   g.JoinedList(),
		InviteList:   g.InviteList(),
		MemberCount:  g.MemberCount(),
		IsFull:       g.IsFull(),
		CreatedAt:    g.CreatedAt,
	}
}
