package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*(\.[a-z][a-z0-9_-]*)*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("event_prefix", func(fl validator.FieldLevel) bool {
			return prefixPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateSettings performs schema validation on the settings document.
func ValidateSettings(cfg *Settings) error {
	if cfg == nil {
		return proemerrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	return nil
}

// ValidPrefix reports whether prefix can head the event vocabulary.
func ValidPrefix(prefix string) bool {
	return prefixPattern.MatchString(prefix)
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := fieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return proemerrors.NewValidationError(field, msg, err)
	}

	return proemerrors.NewValidationError("config", err.Error(), err)
}

// fieldName turns "Settings.Logging.Level" into "logging.level".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}
