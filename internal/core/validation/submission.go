package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// detailFields are the type-specific fields a client may send either flat on
// the submission or nested under "details".
type detailFields struct {
	Symptoms             *string
	Duration             *string
	Severity             *int
	Conditions           *domain.Conditions
	MedicalNeed          *string
	Urgency              *string
	TravelMode           *string
	Medications          *string
	Prescription         *bool
	MedicalCondition     *string
	EmergencyDescription *string
	NumberOfPeople       *looseString
	Hazards              *string
	TerrainDescription   *string
	LandingZone          *string
}

// field binds a JSON key to the value it decodes into.
type field struct {
	name string
	dst  any
}

func (f *detailFields) fields() []field {
	return []field{
		{"symptoms", &f.Symptoms},
		{"duration", &f.Duration},
		{"severity", &f.Severity},
		{"conditions", &f.Conditions},
		{"medicalNeed", &f.MedicalNeed},
		{"urgency", &f.Urgency},
		{"travelMode", &f.TravelMode},
		{"medications", &f.Medications},
		{"prescription", &f.Prescription},
		{"medicalCondition", &f.MedicalCondition},
		{"emergencyDescription", &f.EmergencyDescription},
		{"numberOfPeople", &f.NumberOfPeople},
		{"hazards", &f.Hazards},
		{"terrainDescription", &f.TerrainDescription},
		{"landingZone", &f.LandingZone},
	}
}

// Submission is the raw create payload before validation.
type Submission struct {
	EmergencyType       *int
	UserID              *int64
	Latitude            *string
	Longitude           *string
	LocationDescription *string

	details          detailFields
	decodeViolations []domain.FieldViolation
}

func (s *Submission) fields() []field {
	return append([]field{
		{"emergencyType", &s.EmergencyType},
		{"userId", &s.UserID},
		{"latitude", &s.Latitude},
		{"longitude", &s.Longitude},
		{"locationDescription", &s.LocationDescription},
	}, s.details.fields()...)
}

// Symptoms is the free-text symptom description, flat or nested.
func (s *Submission) Symptoms() *string {
	return s.details.Symptoms
}

// looseString accepts a JSON string or number, e.g. numberOfPeople sent as 3 or "3".
// Any other JSON value decodes to the empty string.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*s = looseString(t)
	case json.Number:
		*s = looseString(t.String())
	default:
		*s = ""
	}
	return nil
}

// ErrMalformedPayload is returned when the body is not a JSON object.
var ErrMalformedPayload = errors.New("malformed payload")

// DecodeSubmission reads a create payload. Each known key is decoded on its
// own so every type mismatch is kept as a violation and reported by Validate
// together with the other failing fields; only bodies that are not a JSON
// object fail here. Unknown keys are ignored.
func DecodeSubmission(r io.Reader) (*Submission, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	sub := &Submission{}
	sub.decodeViolations = decodeFields(raw, sub.fields(), "", nil)

	nestedRaw, ok := raw["details"]
	if !ok || isNull(nestedRaw) {
		return sub, nil
	}
	var nestedFields map[string]json.RawMessage
	if err := json.Unmarshal(nestedRaw, &nestedFields); err != nil {
		sub.decodeViolations = append(sub.decodeViolations, domain.FieldViolation{
			Field:   "details",
			Message: "Details must be an object",
		})
		return sub, nil
	}

	// flat keys win, so their nested counterparts are neither decoded nor reported
	flat := make(map[string]bool)
	for name, v := range raw {
		if !isNull(v) {
			flat[name] = true
		}
	}
	var nested detailFields
	sub.decodeViolations = append(sub.decodeViolations, decodeFields(nestedFields, nested.fields(), "details.", flat)...)
	sub.details.mergeNested(nested)

	return sub, nil
}

func decodeFields(raw map[string]json.RawMessage, fields []field, prefix string, skip map[string]bool) []domain.FieldViolation {
	var violations []domain.FieldViolation
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok || skip[f.name] {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			reflect.ValueOf(f.dst).Elem().SetZero()
			violations = append(violations, domain.FieldViolation{
				Field:   prefix + f.name,
				Message: mismatchMessage(err),
			})
		}
	}
	return violations
}

func mismatchMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Expected %s, received %s", typeName(typeErr.Type), typeErr.Value)
	}
	return "Invalid value"
}

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

// mergeNested fills every field not sent flat from the nested details object.
func (f *detailFields) mergeNested(n detailFields) {
	f.Symptoms = firstNonNil(f.Symptoms, n.Symptoms)
	f.Duration = firstNonNil(f.Duration, n.Duration)
	f.Severity = firstNonNil(f.Severity, n.Severity)
	f.Conditions = firstNonNil(f.Conditions, n.Conditions)
	f.MedicalNeed = firstNonNil(f.MedicalNeed, n.MedicalNeed)
	f.Urgency = firstNonNil(f.Urgency, n.Urgency)
	f.TravelMode = firstNonNil(f.TravelMode, n.TravelMode)
	f.Medications = firstNonNil(f.Medications, n.Medications)
	f.Prescription = firstNonNil(f.Prescription, n.Prescription)
	f.MedicalCondition = firstNonNil(f.MedicalCondition, n.MedicalCondition)
	f.EmergencyDescription = firstNonNil(f.EmergencyDescription, n.EmergencyDescription)
	f.NumberOfPeople = firstNonNil(f.NumberOfPeople, n.NumberOfPeople)
	f.Hazards = firstNonNil(f.Hazards, n.Hazards)
	f.TerrainDescription = firstNonNil(f.TerrainDescription, n.TerrainDescription)
	f.LandingZone = firstNonNil(f.LandingZone, n.LandingZone)
}

// variant builds the detail variant for t, or nil when t has no variant.
func (s *Submission) variant(t domain.EmergencyType) domain.Details {
	f := s.details
	switch t {
	case domain.TypeMedicalConsultation:
		return domain.MedicalConsultation{
			Symptoms:   deref(f.Symptoms),
			Duration:   deref(f.Duration),
			Severity:   deref(f.Severity),
			Conditions: f.Conditions,
		}
	case domain.TypeLocationFinder:
		return domain.LocationFinder{
			MedicalNeed: deref(f.MedicalNeed),
			Urgency:     deref(f.Urgency),
			TravelMode:  deref(f.TravelMode),
		}
	case domain.TypeMedicineDelivery:
		return domain.MedicineDelivery{
			Medications:      deref(f.Medications),
			Prescription:     deref(f.Prescription),
			MedicalCondition: deref(f.MedicalCondition),
		}
	case domain.TypeEmergencyPersonnel:
		return domain.EmergencyPersonnel{
			EmergencyDescription: deref(f.EmergencyDescription),
			NumberOfPeople:       string(deref(f.NumberOfPeople)),
			Hazards:              deref(f.Hazards),
		}
	case domain.TypeHelicopterEvacuation:
		return domain.HelicopterEvacuation{
			EmergencyDescription: deref(f.EmergencyDescription),
			NumberOfPeople:       string(deref(f.NumberOfPeople)),
			TerrainDescription:   deref(f.TerrainDescription),
			LandingZone:          deref(f.LandingZone),
		}
	default:
		return nil
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

func firstNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// optional drops empty strings so absent and blank fields are stored the same way.
func optional(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
