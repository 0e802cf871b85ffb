// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config`.  Any failure aborts
// startup, so the binary never runs with partial or malformed settings.
//
// One custom rule is registered here: `dsn_template`, which requires a
// non-empty database DSN to contain exactly one %s verb for the password.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("dsn_template", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || strings.Count(s, "%s") == 1
	})
	return val
}

//
// public API
//

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
