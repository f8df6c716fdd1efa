package validation

import (
	"net/mail"
	"os"
	"strconv"
	"strings"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// ValidateGroupSize accepts any positive total capacity. Size 1 is a group of
// just its creator.
func ValidateGroupSize(size int) bool {
	return size >= 1
}

func ValidateGroupType(groupType string) bool {
	return groupType == "general" || groupType == "assignment"
}

// NormalizeInviteList lowercases, deduplicates and drops invalid entries.
// The creator is removed: they are a member by construction, never invited.
func NormalizeInviteList(emails []string, creatorEmail string) []string {
	creator := NormalizeEmail(creatorEmail)
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = NormalizeEmail(e)
		if e == "" || e == creator || !ValidateEmail(e) {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
