package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

func validate(t *testing.T, body string) (*domain.NewEmergencyRequest, error) {
	t.Helper()
	sub, err := DecodeSubmission(strings.NewReader(body))
	require.NoError(t, err)
	return New().Validate(sub)
}

func violations(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	out := make(map[string]string, len(verr.Violations))
	for _, v := range verr.Violations {
		out[v.Field] = v.Message
	}
	return out
}

func TestValidate_ValidPayloadPerType(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		typ     domain.EmergencyType
		details map[string]any
	}{
		{
			name: "medical consultation",
			body: `{"emergencyType":1,"symptoms":"severe headache","duration":"hours","severity":7}`,
			typ:  domain.TypeMedicalConsultation,
			details: map[string]any{
				"symptoms": "severe headache",
				"duration": "hours",
				"severity": float64(7),
			},
		},
		{
			name: "location finder",
			body: `{"emergencyType":2,"medicalNeed":"pharmacy nearby","urgency":"high","travelMode":"walking"}`,
			typ:  domain.TypeLocationFinder,
			details: map[string]any{
				"medicalNeed": "pharmacy nearby",
				"urgency":     "high",
				"travelMode":  "walking",
			},
		},
		{
			name: "medicine delivery with optional fields",
			body: `{"emergencyType":3,"medications":"insulin pens","prescription":true,"medicalCondition":"diabetes"}`,
			typ:  domain.TypeMedicineDelivery,
			details: map[string]any{
				"medications":      "insulin pens",
				"prescription":     true,
				"medicalCondition": "diabetes",
			},
		},
		{
			name: "emergency personnel with numeric people count",
			body: `{"emergencyType":4,"emergencyDescription":"car crash on the A10","numberOfPeople":3}`,
			typ:  domain.TypeEmergencyPersonnel,
			details: map[string]any{
				"emergencyDescription": "car crash on the A10",
				"numberOfPeople":       "3",
			},
		},
		{
			name: "helicopter evacuation",
			body: `{"emergencyType":5,"emergencyDescription":"hiker with broken leg","numberOfPeople":"2","terrainDescription":"steep ridge","landingZone":"meadow east"}`,
			typ:  domain.TypeHelicopterEvacuation,
			details: map[string]any{
				"emergencyDescription": "hiker with broken leg",
				"numberOfPeople":       "2",
				"terrainDescription":   "steep ridge",
				"landingZone":          "meadow east",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := validate(t, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, req.EmergencyType)
			assert.Equal(t, tt.details, req.Details)
		})
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	_, err := validate(t, `{"emergencyType":1,"symptoms":"hi"}`)
	require.Error(t, err)

	got := violations(t, err)
	assert.Equal(t, map[string]string{
		"symptoms": "Please describe your symptoms (minimum 5 characters)",
		"duration": "Please select duration",
		"severity": "Please rate severity (1-10)",
	}, got)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"symptoms", "duration", "severity"}, verr.Fields())
}

func TestValidate_TypeSpecificMessages(t *testing.T) {
	tests := []struct {
		body     string
		expected map[string]string
	}{
		{
			body: `{"emergencyType":2}`,
			expected: map[string]string{
				"medicalNeed": "Please describe what you're looking for",
				"urgency":     "Please select urgency level",
				"travelMode":  "Please select how you're traveling",
			},
		},
		{
			body:     `{"emergencyType":3,"medications":"pill"}`,
			expected: map[string]string{"medications": "Please list the medications you need"},
		},
		{
			body: `{"emergencyType":4,"emergencyDescription":"fire"}`,
			expected: map[string]string{
				"emergencyDescription": "Please describe the emergency situation",
				"numberOfPeople":       "Please indicate how many people need help",
			},
		},
		{
			body: `{"emergencyType":5,"emergencyDescription":"lost hiker","numberOfPeople":"1","terrainDescription":"hill"}`,
			expected: map[string]string{
				"terrainDescription": "Please describe the terrain",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, err := validate(t, tt.body)
			assert.Equal(t, tt.expected, violations(t, err))
		})
	}
}

func TestValidate_EmergencyType(t *testing.T) {
	tests := []struct {
		body    string
		message string
	}{
		{`{}`, "Emergency type is required"},
		{`{"emergencyType":null}`, "Emergency type is required"},
		{`{"emergencyType":0}`, "Emergency type must be between 1 and 5"},
		{`{"emergencyType":6}`, "Emergency type must be between 1 and 5"},
		{`{"emergencyType":-1}`, "Emergency type must be between 1 and 5"},
		{`{"emergencyType":"1"}`, "Expected integer, received string"},
		{`{"emergencyType":1.5}`, "Expected integer, received number 1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, err := validate(t, tt.body)
			got := violations(t, err)
			assert.Equal(t, map[string]string{"emergencyType": tt.message}, got)
		})
	}
}

func TestValidate_SeverityBounds(t *testing.T) {
	for _, severity := range []string{"0", "11"} {
		_, err := validate(t, `{"emergencyType":1,"symptoms":"chest pain","duration":"minutes","severity":`+severity+`}`)
		assert.Equal(t, map[string]string{"severity": "Please rate severity (1-10)"}, violations(t, err))
	}

	for _, severity := range []string{"1", "10"} {
		_, err := validate(t, `{"emergencyType":1,"symptoms":"chest pain","duration":"minutes","severity":`+severity+`}`)
		assert.NoError(t, err)
	}
}

func TestValidate_TypeMismatchIsAViolation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{
			name:     "string for integer",
			body:     `{"emergencyType":1,"symptoms":"chest pain","duration":"minutes","severity":"high"}`,
			expected: map[string]string{"severity": "Expected integer, received string"},
		},
		{
			name:     "fraction for integer",
			body:     `{"emergencyType":1,"symptoms":"chest pain","duration":"minutes","severity":7.5}`,
			expected: map[string]string{"severity": "Expected integer, received number 7.5"},
		},
		{
			name: "every mismatch is reported",
			body: `{"emergencyType":3,"medications":"aspirin","prescription":"yes","medicalCondition":5}`,
			expected: map[string]string{
				"prescription":     "Expected boolean, received string",
				"medicalCondition": "Expected string, received number",
			},
		},
		{
			name: "mismatch alongside a missing field",
			body: `{"emergencyType":1,"symptoms":42,"severity":3}`,
			expected: map[string]string{
				"symptoms": "Expected string, received number",
				"duration": "Please select duration",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(t, tt.body)
			assert.Equal(t, tt.expected, violations(t, err))
		})
	}
}

func TestValidate_NestedDetails(t *testing.T) {
	t.Run("nested only", func(t *testing.T) {
		req, err := validate(t, `{"emergencyType":1,"details":{"symptoms":"sore throat","duration":"days","severity":3}}`)
		require.NoError(t, err)
		assert.Equal(t, "sore throat", req.Details["symptoms"])
		require.NotNil(t, req.Symptoms)
		assert.Equal(t, "sore throat", *req.Symptoms)
	})

	t.Run("flat wins over nested", func(t *testing.T) {
		req, err := validate(t, `{"emergencyType":2,"urgency":"high","details":{"medicalNeed":"defibrillator","urgency":"low","travelMode":"car"}}`)
		require.NoError(t, err)
		assert.Equal(t, "high", req.Details["urgency"])
		assert.Equal(t, "car", req.Details["travelMode"])
	})

	t.Run("details must be an object", func(t *testing.T) {
		_, err := validate(t, `{"emergencyType":3,"medications":"insulin pens","details":"nope"}`)
		assert.Equal(t, map[string]string{"details": "Details must be an object"}, violations(t, err))
	})

	t.Run("null details are ignored", func(t *testing.T) {
		_, err := validate(t, `{"emergencyType":3,"medications":"insulin pens","details":null}`)
		assert.NoError(t, err)
	})

	t.Run("nested type mismatch", func(t *testing.T) {
		_, err := validate(t, `{"emergencyType":1,"symptoms":"sore throat","duration":"days","details":{"severity":"bad"}}`)
		assert.Equal(t, map[string]string{"details.severity": "Expected integer, received string"}, violations(t, err))
	})

	t.Run("nested mismatch is ignored when sent flat", func(t *testing.T) {
		req, err := validate(t, `{"emergencyType":1,"symptoms":"sore throat","duration":"days","severity":7,"details":{"severity":"x"}}`)
		require.NoError(t, err)
		assert.Equal(t, float64(7), req.Details["severity"])
	})
}

func TestValidate_UnknownKeysAreDropped(t *testing.T) {
	req, err := validate(t, `{"emergencyType":3,"medications":"insulin pens","favouriteColour":"blue","details":{"extra":1}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"medications": "insulin pens"}, req.Details)
}

func TestValidate_CommonFields(t *testing.T) {
	req, err := validate(t, `{
		"emergencyType": 3,
		"userId": 42,
		"latitude": "52.3676",
		"longitude": "4.9041",
		"locationDescription": "",
		"medications": "insulin pens"
	}`)
	require.NoError(t, err)

	require.NotNil(t, req.UserID)
	assert.Equal(t, int64(42), *req.UserID)
	require.NotNil(t, req.Latitude)
	assert.Equal(t, "52.3676", *req.Latitude)
	require.NotNil(t, req.Longitude)
	assert.Equal(t, "4.9041", *req.Longitude)
	assert.Nil(t, req.LocationDescription)
	assert.Nil(t, req.Symptoms)
}

func TestDecodeSubmission_Malformed(t *testing.T) {
	for _, body := range []string{``, `{`, `not json`, `[1,2]`} {
		_, err := DecodeSubmission(strings.NewReader(body))
		assert.ErrorIs(t, err, ErrMalformedPayload, body)
	}
}
