// Package validation validates configuration and call-option structs with
// go-playground/validator tags and reports failures as *errors.AppError.
//
//	type Cookie struct {
//	    Domain string `mapstructure:"domain" validate:"required"`
//	    Name   string `mapstructure:"name" validate:"required,cookiename"`
//	}
//	err := validation.Validate(c)
package validation
