package handler

import (
	"go-warehouse-api/internal/service"
	"go-warehouse-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid user ID"))
	}

	user, err := h.service.GetUserByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	user, err := h.service.CreateUser(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "User created", "data": user.ToResponse()})
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid user ID"))
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	user, err := h.service.UpdateUser(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated", "data": user.ToResponse()})
}

// PUT /users/update-role  body: { email, role_code }
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var req service.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	user, err := h.service.UpdateUserRole(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated", "data": user.ToResponse()})
}

// DELETE /users/delete/:email
func (h *UserHandler) DeleteUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return respondError(c, apperr.Validation("email is required"))
	}

	if err := h.service.DeleteUserByEmail(email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
