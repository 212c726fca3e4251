package handlers

import (
	"log/slog"

	"dailydiet/internal/middleware"
	"dailydiet/internal/models"
	"dailydiet/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MealHandler handles HTTP requests for daily meals.
type MealHandler struct {
	service  *services.MealService
	sessions *services.SessionService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(service *services.MealService, sessions *services.SessionService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		service:  service,
		sessions: sessions,
		validate: newValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the meal routes with the Fiber app.
func (h *MealHandler) RegisterRoutes(router fiber.Router) {
	session := middleware.Session(h.sessions, h.logger)

	mealRoutes := router.Group("/diet")
	mealRoutes.Post("/", session, h.HandleCreateMeal)
	mealRoutes.Get("/summary", session, h.HandleSummary)
	mealRoutes.Get("/:id", h.HandleGetMeal)
	mealRoutes.Put("/:id", session, h.HandleUpdateMeal)
	mealRoutes.Delete("/:id", h.HandleDeleteMeal)
}

// MealRequest is the body of POST /diet and PUT /diet/:id.
type MealRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	DateMeal    string `json:"date_meal" validate:"required,isodatetime"`
	IsOnTheDiet *bool  `json:"is_on_the_diet" validate:"required"`
}

func (r MealRequest) input() services.MealInput {
	// DateMeal has passed the isodatetime check.
	date, _ := models.ParseDietDate(r.DateMeal)
	return services.MealInput{
		Name:        r.Name,
		Description: r.Description,
		DietDate:    date,
		IsOnTheDiet: *r.IsOnTheDiet,
	}
}

// HandleCreateMeal logs a meal for the caller's session.
func (h *MealHandler) HandleCreateMeal(c *fiber.Ctx) error {
	var req MealRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	meal, err := h.service.Create(c.UserContext(), middleware.SessionID(c), req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"meal_id": meal.ID,
		"message": "Meal created",
	})
}

// HandleDeleteMeal deletes a meal by id.
func (h *MealHandler) HandleDeleteMeal(c *fiber.Ctx) error {
	id, err := parseID(c, h.validate)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"meal_id": id,
		"message": "Meal deleted",
	})
}

// HandleSummary lists the meals of the caller's session.
func (h *MealHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// HandleGetMeal returns a single meal.
func (h *MealHandler) HandleGetMeal(c *fiber.Ctx) error {
	id, err := parseID(c, h.validate)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	meal, err := h.service.Show(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"daily_meal": meal})
}

// HandleUpdateMeal replaces every field of a meal owned by the caller's session.
func (h *MealHandler) HandleUpdateMeal(c *fiber.Ctx) error {
	id, err := parseID(c, h.validate)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req MealRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.UpdateAll(c.UserContext(), id, middleware.SessionID(c), req.input()); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"meal_id": id,
		"message": "Meal updated",
	})
}
