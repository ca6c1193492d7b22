package validator

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"locationsguard/availability"
	"locationsguard/errors"
	"locationsguard/models"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct runs the `validate` tags of s and converts failures into an AppError
// listing every offending field.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewAppError(errors.ErrCodeValidation, "Invalid input", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.NewAppError(errors.ErrCodeValidation, strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ParsePeriod parses a rental period. Both ends are inclusive calendar dates and
// end may not precede start.
func ParsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := availability.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid start date", err)
	}
	e, err := availability.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid end date", err)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeValidation, "End date must not be before start date", availability.ErrReversedInterval)
	}
	return s, e, nil
}

// ValidateReservation checks a reservation before it is stored.
func ValidateReservation(r *models.Reservation) error {
	if r.AutomobileID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Vehicle is required", nil)
	}
	if r.ClientID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Client is required", nil)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Rental period is required", nil)
	}
	if r.EndDate.Before(r.StartDate) {
		return errors.NewAppError(errors.ErrCodeValidation, "End date must not be before start date", availability.ErrReversedInterval)
	}
	if !r.Status.Valid() {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, "Unknown reservation status", nil)
	}
	if r.TotalPrice < 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Price must not be negative", nil)
	}
	return nil
}

// ValidateAutomobile checks catalog fields gorm cannot enforce.
func ValidateAutomobile(a *models.Automobile) error {
	if strings.TrimSpace(a.Brand) == "" || strings.TrimSpace(a.Model) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Brand and model are required", nil)
	}
	if a.DailyRate <= 0 {
		return errors.NewAppError(errors.ErrCodeInvalidAmount, "Daily rate must be positive", nil)
	}
	if err := a.ValidateFuelType(); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Invalid fuel type", err)
	}
	if err := a.ValidateTransmission(); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Invalid transmission", err)
	}
	return nil
}

// ValidateClient requires at least one way to reach the client.
func ValidateClient(c *models.Client) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "First and last name are required", nil)
	}
	if c.Email == "" && c.PhoneNumber == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Email or phone number is required", nil)
	}
	return nil
}
