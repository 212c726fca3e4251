package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"dailydiet/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validationError carries per-field validation failures keyed by JSON name.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.fields))
}

// idParams is the shape of every /:id route.
type idParams struct {
	ID string `params:"id" json:"id" validate:"required,uuid"`
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// isodatetime accepts RFC 3339 date-times, the format diet dates are sent in.
	_ = validate.RegisterValidation("isodatetime", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDietDate(fl.Field().String())
		return err == nil
	})
	return validate
}

func validateStruct(validate *validator.Validate, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &validationError{fields: errorMessages}
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return validateStruct(validate, dst)
}

// parseID extracts and validates the :id route parameter.
func parseID(c *fiber.Ctx, validate *validator.Validate) (string, error) {
	var params idParams
	if err := c.ParamsParser(&params); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	if err := validateStruct(validate, params); err != nil {
		return "", err
	}
	return params.ID, nil
}
