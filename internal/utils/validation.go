package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("report_category", validateReportCategory)
	validate.RegisterValidation("report_severity", validateReportSeverity)
	validate.RegisterValidation("report_status", validateReportStatus)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("strong_password", validateStrongPassword)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationDetails flattens validator errors into a field→message map for
// the API error envelope.
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details["error"] = err.Error()
		return details
	}
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = "failed on '" + fieldErr.Tag() + "' validation"
	}
	return details
}

func validateReportCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "theft", "assault", "vandalism", "fraud", "burglary",
		"vehicle_theft", "harassment", "drug_related", "other":
		return true
	}
	return false
}

func validateReportSeverity(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

func validateReportStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "under_investigation", "resolved", "closed", "false_report":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "citizen", "police", "admin":
		return true
	}
	return false
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return ValidatePasswordStrength(fl.Field().String()) == nil
}

func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func IsValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func IsValidName(name string) bool {
	if len(strings.TrimSpace(name)) < 2 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func ValidatePasswordStrength(password string) error {
	if len(password) < PasswordMinLength {
		return NewValidationError("password must be at least 8 characters")
	}
	if len(password) > PasswordMaxLength {
		return NewValidationError("password is too long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return NewValidationError("password must contain upper case, lower case and digit characters")
	}
	return nil
}
