package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()

	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) <= 100 && slugPattern.MatchString(s)
	}))
	must(v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("optionalurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.Var(s, "url") == nil
	}))
	must(v.RegisterValidation("appstatus", func(fl validator.FieldLevel) bool {
		return ApplicationStatus(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks a request struct against its validate tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidationMessage renders a validation failure for API clients. Missing
// required fields are listed together; otherwise the first failure is named.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "validation error: invalid request"
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return "Missing fields: " + strings.Join(missing, ", ")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "slug":
		return fmt.Sprintf("%s must contain only lowercase letters, digits and hyphens", fe.Field())
	case "color":
		return fmt.Sprintf("%s must be a hex color", fe.Field())
	case "url", "optionalurl":
		return fmt.Sprintf("%s must be a URL", fe.Field())
	case "appstatus":
		return fmt.Sprintf("%s must be one of APPLIED, REVIEWED, INTERVIEWING, OFFERED, REJECTED", fe.Field())
	default:
		return fmt.Sprintf("validation error: %s - %s", fe.Field(), fe.Tag())
	}
}
