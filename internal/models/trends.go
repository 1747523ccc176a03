// Package models defines the HTTP request and response bodies.
package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TrendsQuery holds the query parameters of the /v1/trends endpoints.
// Zero days_back or forecast_days select the configured defaults.
type TrendsQuery struct {
	Service      string `query:"service" json:"service" validate:"omitempty,max=128,printascii"`
	DaysBack     int    `query:"days_back" json:"days_back" validate:"omitempty,min=7"`
	ForecastDays int    `query:"forecast_days" json:"forecast_days" validate:"omitempty,min=1"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks request models using struct tags, reporting fields by
// their JSON names.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// TrendsQuery validates q against its tags and the configured maximums.
func (v *Validator) TrendsQuery(q TrendsQuery, maxDaysBack, maxForecastDays int) []FieldError {
	fields := v.structErrors(q)
	if err := v.v.Var(q.DaysBack, fmt.Sprintf("omitempty,max=%d", maxDaysBack)); err != nil {
		fields = append(fields, FieldError{Field: "days_back", Message: fmt.Sprintf("must be at most %d", maxDaysBack)})
	}
	if err := v.v.Var(q.ForecastDays, fmt.Sprintf("omitempty,max=%d", maxForecastDays)); err != nil {
		fields = append(fields, FieldError{Field: "forecast_days", Message: fmt.Sprintf("must be at most %d", maxForecastDays)})
	}
	return fields
}

func (v *Validator) structErrors(s interface{}) []FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
	}
	return fields
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "printascii":
		return "must contain printable ASCII characters only"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
