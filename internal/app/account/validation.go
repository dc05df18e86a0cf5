package account

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const minimumAge = 18

// Registration is the registration form as transports receive it, before the birth date
// is parsed.
type Registration struct {
	Username  string `json:"username" validate:"required,alphanum,min=4"`
	Password  string `json:"password" validate:"required,min=8,password"`
	Email     string `json:"email" validate:"required,email"`
	Forename  string `json:"forename" validate:"required,alpha,max=10"`
	Surname   string `json:"surname" validate:"required,alpha,max=10"`
	BirthDate string `json:"birth_date" validate:"required,adult"`
}

// Input converts a validated form. The birth date must already have passed the adult rule.
func (r Registration) Input() RegisterInput {
	birth, _ := time.Parse(birthDateLayout, r.BirthDate)
	return RegisterInput{
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		Forename:  r.Forename,
		Surname:   r.Surname,
		BirthDate: birth,
	}
}

// FieldError maps each rejected field to the rule it failed.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+"="+rule)
	}
	slices.Sort(parts)
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, ", "))
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidRequest
}

// Validator applies the struct tag rules shared by every transport.
type Validator struct {
	v *validator.Validate
}

func NewValidator(now func() time.Time) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return hasLetterAndDigit(fl.Field().String())
	})
	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		birth, err := time.Parse(birthDateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		return ageOn(birth, now()) >= minimumAge
	})
	return &Validator{v: v}
}

// Check validates req against its validate tags and returns a *FieldError on failure.
func (v *Validator) Check(req any) error {
	err := v.v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &FieldError{Fields: fields}
}

func (v *Validator) Registration(r Registration) (RegisterInput, error) {
	if err := v.Check(r); err != nil {
		return RegisterInput{}, err
	}
	return r.Input(), nil
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// ageOn returns completed years between birth and day.
func ageOn(birth, day time.Time) int {
	years := day.Year() - birth.Year()
	if day.Month() < birth.Month() || (day.Month() == birth.Month() && day.Day() < birth.Day()) {
		years--
	}
	return years
}
