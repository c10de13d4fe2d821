package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// Ecuadorian landline/mobile numbers: 09 plus 8 digits, or a provincial
// prefix 02-07 plus 8 digits.
var ecPhonePattern = regexp.MustCompile(`^(09|0[2-7])\d{8}$`)

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	validate.RegisterValidation("cedula_ruc", func(fl validator.FieldLevel) bool {
		return IsValidCedulaRUC(fl.Field().String())
	})

	validate.RegisterValidation("ec_phone", func(fl validator.FieldLevel) bool {
		return IsValidEcuadorianPhone(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// IsValidCedula checks a 10-digit Ecuadorian cedula: province prefix
// 01-24 and the modulo-10 coefficient check digit.
func IsValidCedula(cedula string) bool {
	if len(cedula) != 10 {
		return false
	}

	digits := make([]int, 10)
	for i, c := range cedula {
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	province := digits[0]*10 + digits[1]
	if province < 1 || province > 24 {
		return false
	}

	coefficients := [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}
	sum := 0
	for i := 0; i < 9; i++ {
		result := digits[i] * coefficients[i]
		if result > 9 {
			result -= 9
		}
		sum += result
	}

	checkDigit := 0
	if sum%10 != 0 {
		checkDigit = 10 - sum%10
	}
	return checkDigit == digits[9]
}

// IsValidCedulaRUC accepts a cedula or a natural-person RUC, which is a
// valid cedula followed by the establishment code 001.
func IsValidCedulaRUC(value string) bool {
	switch len(value) {
	case 10:
		return IsValidCedula(value)
	case 13:
		return value[10:] == "001" && IsValidCedula(value[:10])
	}
	return false
}

// IsValidEcuadorianPhone checks mobile (09x) and landline (02-07) formats.
func IsValidEcuadorianPhone(phone string) bool {
	return ecPhonePattern.MatchString(phone)
}
