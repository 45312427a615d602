package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/veiligstallen/reports/internal/pkg/constants"
)

type requestValidator struct {
	validate *validator.Validate
}

func NewValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrInvalidParams, err.Error())
	}
	return nil
}
