package core

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	enumTag  = "enum"
	enumText = "{0} is not a valid choice"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	maxTag  = "max"
	maxText = "{0} must be at most {1} characters long"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(enumTag, enumValidation)
	RegisterCustomTranslation(validate, translator, enumTag, enumText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)

	_ = validate.RegisterTranslation(
		maxTag, translator,
		func(t ut.Translator) error { return t.Add(maxTag, maxText, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			if fe.Kind() != reflect.String {
				s, _ := t.T(maxTag+"-number", fe.Field(), fe.Param())
				if s != "" {
					return s
				}
				return fe.Field() + " must be " + fe.Param() + " or less"
			}
			s, _ := t.T(maxTag, fe.Field(), fe.Param())
			return s
		},
	)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// notBlankValidation rejects strings made of whitespace only.
func notBlankValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// enumValidation accepts values of closed enum types (AcademicLevel, Classification, PeriodDenomination).
func enumValidation(fl validator.FieldLevel) bool {
	if e, ok := fl.Field().Interface().(interface{ Valid() bool }); ok {
		return e.Valid()
	}
	return false
}
