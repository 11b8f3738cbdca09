package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	cpfPattern        = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	phonePattern      = regexp.MustCompile(`^\+\d{2}\(\d{2}\)\d{4,5}-\d{4}$`)
	personNamePattern = regexp.MustCompile(`^[ a-zA-Z\x{00C0}-\x{00FF}]*$`)
	ufPattern         = regexp.MustCompile(`^[a-zA-Z]{2}$`)
	ymdPattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"cpf":        matchString(cpfPattern),
		"phone":      matchString(phonePattern),
		"personname": matchString(personNamePattern),
		"uf":         matchString(ufPattern),
		"ymd":        validateYMD,
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// IsValidCPF reports whether value is formatted as ddd.ddd.ddd-dd.
func IsValidCPF(value string) bool {
	return cpfPattern.MatchString(value)
}

// IsValidDate reports whether value is a real calendar date formatted as YYYY-MM-DD.
func IsValidDate(value string) bool {
	if !ymdPattern.MatchString(value) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func validateYMD(fl validator.FieldLevel) bool {
	return IsValidDate(fl.Field().String())
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "uuid4":
		return fmt.Sprintf("%s must be a valid uuid", field)
	case "cpf":
		return fmt.Sprintf("%s must match ddd.ddd.ddd-dd", field)
	case "phone":
		return fmt.Sprintf("%s must match +dd(dd)dddd-dddd", field)
	case "personname":
		return fmt.Sprintf("%s must contain only letters and spaces", field)
	case "uf":
		return fmt.Sprintf("%s must be a two letter state code", field)
	case "ymd":
		return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
