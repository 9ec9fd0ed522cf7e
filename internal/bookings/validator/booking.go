package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	imdbIDRegex = regexp.MustCompile(`^tt\d{7,10}$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"seat_id": validateSeatID,
		"imdb_id": validateIMDbID,
		"show_id": validateShowID,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator",
				"tag", tag,
				"error", err,
			)
		}
	}

	log.Debug("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateSeatID(fl validator.FieldLevel) bool {
	return model.IsValidSeat(fl.Field().String())
}

func validateIMDbID(fl validator.FieldLevel) bool {
	return imdbIDRegex.MatchString(fl.Field().String())
}

func validateShowID(fl validator.FieldLevel) bool {
	movieID, ok := strings.CutPrefix(fl.Field().String(), model.ShowIDPrefix)
	return ok && imdbIDRegex.MatchString(movieID)
}

func (v *BookingValidator) ValidateReserve(req *model.ReserveRequest) error {
	return v.validateStruct(req)
}

func (v *BookingValidator) ValidateCheckout(req *model.CheckoutRequest) error {
	return v.validateStruct(req)
}

func (v *BookingValidator) ValidateCreateShow(req *model.CreateShowRequest) error {
	return v.validateStruct(req)
}

func (v *BookingValidator) ValidateShowDefaults(defaults *model.ShowDefaults) error {
	return v.validateStruct(defaults)
}

// IsIMDbID reports whether id has the tt<digits> form OMDb expects.
func IsIMDbID(id string) bool {
	return imdbIDRegex.MatchString(id)
}

func (v *BookingValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicates", err.Field())
		case "seat_id":
			message = fmt.Sprintf("%s must be a seat between A1 and F10, got %q", err.Field(), err.Value())
		case "imdb_id":
			message = fmt.Sprintf("%s must be an IMDb id such as tt0111161", err.Field())
		case "show_id":
			message = fmt.Sprintf("%s must have the form show_<imdb id>", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
