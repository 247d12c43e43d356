package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	documentNumberPattern = regexp.MustCompile(`^\d{11}$`)

	// decimal(10,2): не более 8 знаков в целой части
	maxAmount = decimal.New(1, 8)
)

// newValidator создает валидатор с правилами для номеров документов и денежных сумм
func newValidator() *validator.Validate {
	v := validator.New()

	// В сообщениях используются имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegisterValidation(v, "document_number", func(fl validator.FieldLevel) bool {
		return documentNumberPattern.MatchString(fl.Field().String())
	})
	mustRegisterValidation(v, "money", func(fl validator.FieldLevel) bool {
		return ValidAmount(fl.Field().String())
	})

	return v
}

// mustRegisterValidation регистрирует правило и паникует, если валидатор его не принял
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("не удалось зарегистрировать правило %q: %v", tag, err))
	}
}

// ValidAmount проверяет, что строка задает положительную сумму
// с не более чем двумя знаками после запятой, помещающуюся в decimal(10,2)
func ValidAmount(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThan(maxAmount)
}

// validateStruct валидирует DTO и возвращает ошибку, обернутую в ErrValidation
func validateStruct(v *validator.Validate, dto interface{}) error {
	err := v.Struct(dto)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "document_number":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно состоять ровно из 11 цифр")
		case "money":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть положительной суммой не более 99999999.99 с двумя знаками после запятой")
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" не прошло проверку "+e.Tag())
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errorMessages, "; "))
}
