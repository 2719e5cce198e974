package controllers

import (
	"log/slog"
	"net/http"

	"techevents/internal/delivery/http/helpers"
	"techevents/internal/domain"
)

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsersSuccessResponse is the success response envelope for GET /users (200).
type ListUsersSuccessResponse struct {
	Success bool           `json:"success"`
	Data    []*domain.User `json:"data"`
	Count   int            `json:"count"`
}

// CreateUserSuccessResponse is the success response envelope for POST /users (201).
type CreateUserSuccessResponse struct {
	Success bool         `json:"success"`
	Data    *domain.User `json:"data"`
	Message string       `json:"message"`
}

// UserController handles the users collection.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Returns every stored user together with the total count.
// @Tags users
// @Produce json
// @Success 200 {object} controllers.ListUsersSuccessResponse "data contains the users"
// @Failure 500 {object} helpers.APIResponse "error: Failed to fetch users"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.ListUsers(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to fetch users")
		return
	}
	helpers.WriteJSONList(w, users)
}

// CreateUser godoc
// @Summary Create a user
// @Description Create a user from name and email. The email must not belong to an existing user.
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "User data"
// @Success 201 {object} controllers.CreateUserSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "name or email missing"
// @Failure 409 {object} helpers.APIResponse "email already registered"
// @Failure 500 {object} helpers.APIResponse "error: Failed to create user"
// @Router /users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidateLenient(w, r, &req) {
		return
	}
	user, err := c.Service.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err, "Failed to create user")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user, "User created successfully")
}
