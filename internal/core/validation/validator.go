// Package validation turns raw create payloads into storable emergency requests.
//
// Each emergency type has its own detail variant in the domain package; the
// variant is picked by a single switch on the emergency type and validated with
// its struct tags, so a submission only has to satisfy the rules of its type.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// base holds the rules every submission must satisfy regardless of type.
type base struct {
	EmergencyType *int `json:"emergencyType" validate:"required,min=1,max=5"`
}

// messages are the user-facing texts for failing type-specific fields.
var messages = map[domain.EmergencyType]map[string]string{
	domain.TypeMedicalConsultation: {
		"symptoms": "Please describe your symptoms (minimum 5 characters)",
		"duration": "Please select duration",
		"severity": "Please rate severity (1-10)",
	},
	domain.TypeLocationFinder: {
		"medicalNeed": "Please describe what you're looking for",
		"urgency":     "Please select urgency level",
		"travelMode":  "Please select how you're traveling",
	},
	domain.TypeMedicineDelivery: {
		"medications": "Please list the medications you need",
	},
	domain.TypeEmergencyPersonnel: {
		"emergencyDescription": "Please describe the emergency situation",
		"numberOfPeople":       "Please indicate how many people need help",
	},
	domain.TypeHelicopterEvacuation: {
		"emergencyDescription": "Please describe the emergency in detail",
		"numberOfPeople":       "Please indicate how many people need evacuation",
		"terrainDescription":   "Please describe the terrain",
	},
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks a submission against the base rules and the rules of its
// emergency type. Every failing field is reported in one *domain.ValidationError.
func (v *Validator) Validate(sub *Submission) (*domain.NewEmergencyRequest, error) {
	verr := &domain.ValidationError{}
	seen := make(map[string]bool)
	for _, fv := range sub.decodeViolations {
		verr.Add(fv.Field, fv.Message)
		seen[fv.Field] = true
		seen[strings.TrimPrefix(fv.Field, "details.")] = true
	}

	if !seen["emergencyType"] {
		if err := v.validate.Struct(base{EmergencyType: sub.EmergencyType}); err != nil {
			v.collect(verr, seen, err, baseMessage)
		}
	}

	var details domain.Details
	if sub.EmergencyType != nil {
		t := domain.EmergencyType(*sub.EmergencyType)
		details = sub.variant(t)
		if details != nil {
			if err := v.validate.Struct(details); err != nil {
				v.collect(verr, seen, err, func(fe validator.FieldError) string {
					if msg, ok := messages[t][fe.Field()]; ok {
						return msg
					}
					return genericMessage(fe)
				})
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	req := &domain.NewEmergencyRequest{
		UserID:              sub.UserID,
		EmergencyType:       domain.EmergencyType(*sub.EmergencyType),
		Latitude:            optional(sub.Latitude),
		Longitude:           optional(sub.Longitude),
		LocationDescription: optional(sub.LocationDescription),
		Symptoms:            optional(sub.Symptoms()),
		Details:             map[string]any{},
	}
	if details != nil {
		m, err := domain.DetailsMap(details)
		if err != nil {
			return nil, fmt.Errorf("serialize details: %w", err)
		}
		req.Details = m
	}
	return req, nil
}

func (v *Validator) collect(verr *domain.ValidationError, seen map[string]bool, err error, message func(validator.FieldError) string) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if seen[field] {
			continue
		}
		seen[field] = true
		verr.Add(field, message(fe))
	}
}

func baseMessage(fe validator.FieldError) string {
	if fe.Field() == "emergencyType" {
		if fe.Tag() == "required" {
			return "Emergency type is required"
		}
		return "Emergency type must be between 1 and 5"
	}
	return genericMessage(fe)
}

func genericMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
