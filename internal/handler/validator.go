package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
)

// custom validation tags
const (
	isoDateTag  = "isodate"
	categoryTag = "category"
	weekdayTag  = "weekday"
	clockTag    = "clock"
)

// FieldErrors is returned by RequestValidator when a request body fails
// validation.  Keys are JSON field names; nested list items look like
// "days[2]".
type FieldErrors map[string]string

func (f FieldErrors) Error() string { return "validation failed" }

// RequestValidator implements echo.Validator with go-playground/validator
// and English messages.
type RequestValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

// NewValidator builds the validator with the studio's custom tags.
func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	trans, _ := ut.New(_en, _en).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(isoDateTag, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		return model.Weekday(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		return schedule.ValidClock(fl.Field().String())
	})

	rv := &RequestValidator{v: v, trans: trans}
	for _, tag := range []string{isoDateTag, categoryTag, weekdayTag, clockTag} {
		_ = v.RegisterTranslation(tag, trans, func(ut.Translator) error { return nil }, translateCustom)
	}
	return rv
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case isoDateTag:
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case categoryTag:
		names := make([]string, len(model.Categories))
		for i, c := range model.Categories {
			names[i] = string(c)
		}
		return fe.Field() + " must be one of: " + strings.Join(names, ", ")
	case weekdayTag:
		return fe.Field() + " must be a weekday name such as Monday"
	case clockTag:
		return fe.Field() + " must be a time in HH:MM format"
	}
	return fe.Error()
}

// Validate runs the struct tags of i.  Failures come back as FieldErrors.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(rv.trans)
	}
	return out
}
