package service

import "errors"

// Operation-boundary errors. Handlers translate these to HTTP codes; nothing
// below the service layer leaks to a view.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrGroupFull     = errors.New("group is full")
	ErrNotMember     = errors.New("not a member of this group")
	ErrForbidden     = errors.New("forbidden")
	ErrEmptyMessage  = errors.New("message text is empty")
	ErrInvalidGroup  = errors.New("invalid group fields")
)
