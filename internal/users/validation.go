package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/go-playground/validator/v10"
)

// NewUser is the input accepted when an employee is added. Login and PIN
// are optional; when omitted they are generated.
type NewUser struct {
	ID    string `validate:"omitempty,max=64"`
	Name  string `validate:"required,notblank,max=100"`
	Role  string `validate:"required,notblank,max=32"`
	Login string `validate:"omitempty,notblank,max=64"`
	PIN   string `validate:"omitempty,notblank,max=32"`
}

type credentials struct {
	Login string `validate:"notblank"`
	PIN   string `validate:"notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateNew checks an enrolment request.
func ValidateNew(n NewUser) error {
	return validationError(validate.Struct(n))
}

// ValidateCredentials rejects a login attempt where either field is blank
// after trimming. It is a UI-level guard; Authenticate itself compares the
// raw values.
func ValidateCredentials(login, pin string) error {
	return validationError(validate.Struct(credentials{Login: login, PIN: pin}))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, ", "))
}
