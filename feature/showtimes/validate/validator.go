package validate

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"showtime-manager/feature/showtimes/models"

	"github.com/go-playground/validator/v10"
)

// languageCode accepts ISO 639 codes with optional BCP 47 subtags ("de", "en-GB", "fil").
var languageCode = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// Validator checks raw producer batches. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the showtime rules registered.
func New() *Validator {
	v := validator.New()

	// Report json names in paths instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return languageCode.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

var defaultValidator = New()

// Batch validates raw with the default Validator.
func Batch(raw []byte) ([]models.CinemaGroup, error) {
	return defaultValidator.Batch(raw)
}

// Batch decodes and validates a producer's raw output: a JSON array of cinema groups.
// It either returns the trusted groups or a *ValidationError listing every failing field.
// Nothing is partially accepted.
func (val *Validator) Batch(raw []byte) ([]models.CinemaGroup, error) {
	verr := &ValidationError{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		verr.add("$", "json", "batch is empty")
		return nil, verr
	}
	if trimmed[0] != '[' {
		verr.add("$", "type", "batch must be a JSON array of cinema groups")
		return nil, verr
	}

	groups := decodeGroups(trimmed, verr)
	if groups == nil && len(verr.Fields) > 0 {
		return nil, verr
	}

	val.Groups(groups, verr)

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return groups, nil
}

// Groups appends constraint violations of already decoded groups to verr.
func (val *Validator) Groups(groups []models.CinemaGroup, verr *ValidationError) {
	seen := make(map[string]int, len(groups))

	for i := range groups {
		prefix := fmt.Sprintf("[%d]", i)

		if err := val.v.Struct(&groups[i]); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				verr.add(prefix, "invalid", err.Error())
				continue
			}
			for _, fe := range fieldErrs {
				path := prefix + trimRoot(fe.Namespace())
				// A field of the wrong JSON type is already reported and was left zero.
				if verr.has(path, "type") {
					continue
				}
				verr.add(path, fe.Tag(), describe(fe))
			}
		}

		// Two groups for one cinema would reconcile the same rows concurrently.
		name := strings.TrimSpace(groups[i].Cinema.Name)
		if name == "" {
			continue
		}
		if first, dup := seen[name]; dup {
			verr.add(prefix+".cinema.name", "unique", fmt.Sprintf("cinema %q already listed at [%d]", name, first))
			continue
		}
		seen[name] = i
	}
}

// trimRoot turns "CinemaGroup.showings[0].film.title" into ".showings[0].film.title".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i:]
	}
	return ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "langcode":
		return fmt.Sprintf("%q is not a language code (expected e.g. \"de\" or \"en-GB\")", fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}
