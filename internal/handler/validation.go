package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stpnv0/AdventureBooker/internal/domain"
)

var dateFormat validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := domain.ParseDate(s)
	return err == nil
}

// RegisterValidators adds the custom binding rules used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}

	if err := v.RegisterValidation("datefmt", dateFormat); err != nil {
		return err
	}

	return nil
}
