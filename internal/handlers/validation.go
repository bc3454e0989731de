package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
)

// RegisterValidations installs the credential policy tags into gin's binding
// engine so request DTOs can declare them via `binding:"username"` etc.
func RegisterValidations() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := engine.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidateUsername(fl.Field().String()) == nil
	}); err != nil {
		return err
	}

	return engine.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return models.ValidatePassword(fl.Field().String()) == nil
	})
}
