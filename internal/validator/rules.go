package validator

import (
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRegexp = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// registerCustomRules регистрирует кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Приложение не должно запускаться с незарегистрированным правилом
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-gender': male/female
	mustRegister("is-gender", validateGender)

	// 'is-phone': номер телефона в международном формате
	mustRegister("is-phone", validatePhone)

	// 'is-code': 4-значный цифровой код подтверждения
	mustRegister("is-code", validateConfirmationCode)
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return value == "male" || value == "female"
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return phoneRegexp.MatchString(value)
}

func validateConfirmationCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 4 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
