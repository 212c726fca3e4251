package handlers

import (
	"log/slog"

	"dailydiet/internal/middleware"
	"dailydiet/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users and their metrics.
type UserHandler struct {
	userService    *services.UserService
	metricsService *services.MetricsService
	sessions       *services.SessionService
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, metricsService *services.MetricsService, sessions *services.SessionService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		metricsService: metricsService,
		sessions:       sessions,
		validate:       newValidator(),
		logger:         logger,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", middleware.Session(h.sessions, h.logger), h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Get("/:id/metrics", h.HandleGetMetrics)
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UpdateUserRequest is the body of PUT /users/:id. Empty fields are left as is.
type UpdateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8,max=72"`
}

// HandleCreateUser registers a user and links it to the caller's session.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	session := middleware.SessionID(c)
	user, token, err := h.userService.Register(c.UserContext(), session, services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if token != session {
		if err := middleware.WriteSessionCookie(c, h.sessions, token); err != nil {
			return respondError(c, h.logger, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
		"user_id": user.ID,
	})
}

// HandleUpdateUser partially updates a user. An unknown id is reported
// before the body is looked at.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, h.validate)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if _, err := h.userService.Get(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	var req UpdateUserRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	err = h.userService.Update(c.UserContext(), id, services.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"message": "User updated"})
}

// HandleGetMetrics returns the diet metrics report of a user.
func (h *UserHandler) HandleGetMetrics(c *fiber.Ctx) error {
	id, err := parseID(c, h.validate)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	metrics, err := h.metricsService.Metrics(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"metrics": metrics})
}
