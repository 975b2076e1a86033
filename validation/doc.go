// Package validation checks connection settings and operation parameters.
//
// Struct tags (go-playground/validator) cover configuration structs; field
// names in messages follow their mapstructure keys so errors read like the
// configuration that produced them.
//
//	type ConnectionConfig struct {
//	    Protocol string `mapstructure:"protocol" validate:"oneof=http https"`
//	}
//	err := validation.Validate(cfg)
//
// The fluent Validator collects parameter problems for one operation:
//
//	err := validation.New().
//	    ObjectName("id", id).
//	    OneOf("condition", cond, "not-running", "next-exit", "removed").
//	    Validate()
//
// Both report a single INVALID_INPUT error with a "fields" detail.
package validation
