package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isotime", func(fl validator.FieldLevel) bool {
		return isoTimestamp.MatchString(fl.Field().String())
	})
	return v
}

// ValidateOffers checks a submission batch: 1..100 items, each satisfying
// the field rules. Every failing field is reported with its path, e.g.
// "items[2].tips[0].kind".
func ValidateOffers(items []OfferInput) error {
	if len(items) == 0 {
		return ValidationErrors{{Field: "items", Message: "must contain at least 1 offer", Code: "min"}}
	}
	if len(items) > MaxBatchSize {
		return ValidationErrors{{
			Field:   "items",
			Message: fmt.Sprintf("must contain at most %d offers", MaxBatchSize),
			Code:    "max",
		}}
	}

	var out ValidationErrors
	for i, item := range items {
		out = append(out, collect(validate.Struct(item), fmt.Sprintf("items[%d].", i))...)
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

// ValidateQuery checks listing filters and (already defaulted) options.
// The page is capped so that its row offset fits in an int.
func ValidateQuery(f Filters, o QueryOptions) error {
	out := collect(validate.Struct(f), "")
	out = append(out, collect(validate.Struct(o), "")...)
	if o.PageSize > 0 && o.Page > MaxPage(o.PageSize) {
		out = append(out, FieldError{
			Field:   "page",
			Message: fmt.Sprintf("must be at most %d", MaxPage(o.PageSize)),
			Code:    "max",
		})
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func collect(err error, prefix string) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error(), Code: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   prefix + fieldPath(fe.Namespace()),
			Message: message(fe),
			Code:    fe.Tag(),
		})
	}
	return out
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "isotime":
		return "must be an ISO-8601 timestamp with timezone offset"
	}
	return "is invalid"
}
