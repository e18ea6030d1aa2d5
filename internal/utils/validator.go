// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var addressPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("wallet_address", validateWalletAddress)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateWalletAddress accepts both Ethereum-style hex addresses and the
// payment network's own address format. Both are plain alphanumeric strings;
// no checksum validation is attempted here.
func validateWalletAddress(fl validator.FieldLevel) bool {
	address := fl.Field().String()
	if len(address) < 3 {
		return false
	}
	return addressPattern.MatchString(address)
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "wallet_address":
		return e.Field() + " is not a valid wallet address"
	default:
		return e.Field() + " is invalid"
	}
}
