package models

import (
	"testing"
)

func testGroup() *Group {
	return &Group{
		ID:           1,
		GroupName:    "Algorithms Revision",
		GroupSize:    3,
		CreatorEmail: "siti@student.test",
		Members: []GroupMembership{
			{GroupID: 1, Email: "amin@student.test", Role: RoleJoined},
			{GroupID: 1, Email: "lina@student.test", Role: RoleInvited},
		},
	}
}

func TestMemberCount(t *testing.T) {
	group := testGroup()

	// Creator counts, invites do not.
	if got := group.MemberCount(); got != 2 {
		t.Errorf("MemberCount = %d, want 2", got)
	}
	if group.IsFull() {
		t.Error("group with a free seat reported full")
	}

	group.Members = append(group.Members, GroupMembership{Email: "zul@student.test", Role: RoleJoined})
	if got := group.MemberCount(); got != 3 {
		t.Errorf("MemberCount = %d, want 3", got)
	}
	if !group.IsFull() {
		t.Error("group at capacity reported not full")
	}
}

func TestRoleOf(t *testing.T) {
	group := testGroup()

	tests := []struct {
		email string
		want  MembershipEdge
	}{
		{"siti@student.test", EdgeCreator},
		{"amin@student.test", EdgeJoined},
		{"lina@student.test", EdgeInvited},
		{"nobody@student.test", EdgeNone},
	}
	for _, tt := range tests {
		if got := group.RoleOf(tt.email); got != tt.want {
			t.Errorf("RoleOf(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestGroupToResponse(t *testing.T) {
	group := testGroup()
	resp := group.ToResponse()

	if resp.ID != group.ID || resp.GroupName != group.GroupName {
		t.Error("response lost identity fields")
	}
	if len(resp.JoinedList) != 1 || resp.JoinedList[0] != "amin@student.test" {
		t.Errorf("JoinedList = %v, want [amin@student.test]", resp.JoinedList)
	}
	if len(resp.InviteList) != 1 || resp.InviteList[0] != "lina@student.test" {
		t.Errorf("InviteList = %v, want [lina@student.test]", resp.InviteList)
	}
	if resp.MemberCount != 2 || resp.IsFull {
		t.Errorf("MemberCount = %d, IsFull = %v, want 2 and false", resp.MemberCount, resp.IsFull)
	}
	if resp.CompatibilityScore != 0 {
		t.Errorf("CompatibilityScore = %d, want 0 unless a scorer set it", resp.CompatibilityScore)
	}
}

func TestProfileDisplayName(t *testing.T) {
	named := Profile{Email: "siti@student.test", Name: "Siti"}
	if got := named.DisplayName(); got != "Siti" {
		t.Errorf("DisplayName = %q, want Siti", got)
	}
	anonymous := Profile{Email: "amin@student.test"}
	if got := anonymous.DisplayName(); got != "amin@student.test" {
		t.Errorf("DisplayName = %q, want the email fallback", got)
	}
}
