package handlers

import (
	"errors"
	"strconv"

	"github.com/aisyah-bit/studyally-backend/internal/httpx"
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"github.com/aisyah-bit/studyally-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	membershipService *service.MembershipService
}

func NewGroupHandler(membershipService *service.MembershipService) *GroupHandler {
	return &GroupHandler{membershipService: membershipService}
}

// serviceError translates the operation-boundary errors to the HTTP surface.
// Shared by every handler in this package.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		return httpx.NotFound(c, "group_not_found", "Group is no longer available")
	case errors.Is(err, service.ErrGroupFull):
		return httpx.Conflict(c, "capacity_exceeded", "Group is full")
	case errors.Is(err, service.ErrNotMember):
		return httpx.Forbidden(c, "not_member", "Not a member of this group")
	case errors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", "Not allowed")
	case errors.Is(err, service.ErrEmptyMessage):
		return httpx.BadRequest(c, "empty_message", "Message text is required")
	case errors.Is(err, service.ErrInvalidGroup):
		return httpx.BadRequest(c, "invalid_group", "Invalid group fields")
	}
	return httpx.Internal(c, "internal_error")
}

func groupIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	var input service.GroupInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	group, err := h.membershipService.CreateGroup(identity, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group.ToResponse())
}

func (h *GroupHandler) GetGroups(c *fiber.Ctx) error {
	groups, err := h.membershipService.ListGroups()
	if err != nil {
		return httpx.Internal(c, "fetch_groups_failed")
	}
	responses := make([]models.GroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = g.ToResponse()
	}
	return c.JSON(responses)
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}
	groups, err := h.membershipService.ListMembershipsFor(identity)
	if err != nil {
		return httpx.Internal(c, "fetch_groups_failed")
	}
	responses := make([]models.GroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = g.ToResponse()
	}
	return c.JSON(responses)
}

func (h *GroupHandler) GetRecommendedGroups(c *fiber.Ctx) error {
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}
	groupType := models.GroupType(c.Query("type", string(models.GeneralGroup)))
	if groupType != models.GeneralGroup && groupType != models.AssignmentGroup {
		return httpx.BadRequest(c, "invalid_group_type", "type must be general or assignment")
	}
	responses, err := h.membershipService.Recommended(c.Context(), identity, groupType)
	if err != nil {
		return httpx.Internal(c, "recommendations_failed")
	}
	return c.JSON(responses)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	group, err := h.membershipService.GetGroup(groupID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(group.ToResponse())
}

func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	var input service.GroupInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	group, err := h.membershipService.UpdateGroup(groupID, identity, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(group.ToResponse())
}

func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}
	role, _ := httpx.LocalString(c, "role")

	if err := h.membershipService.DeleteGroup(groupID, identity, role == "admin"); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// JoinGroup always succeeds for existing members so the frontend can route
// straight to the chat; capacity_exceeded drives the "Full" button state.
func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	group, err := h.membershipService.Join(groupID, identity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Joined group successfully",
		"group":   group.ToResponse(),
	})
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := groupIDParam(c)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	identity, err := httpx.LocalString(c, "identity")
	if err != nil {
		return httpx.Unauthorized(c, "not_authenticated", "Unauthorized")
	}

	if err := h.membershipService.LeaveGroup(groupID, identity); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group successfully"})
}
