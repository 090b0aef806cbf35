package domain

import "encoding/json"

// Details is implemented by the per-type detail variants. Each variant carries
// only the fields its emergency type knows about.
type Details interface {
	Type() EmergencyType
}

// Conditions are the optional symptom checkboxes of a medical consultation.
type Conditions struct {
	Fever     bool `json:"fever"`
	Breathing bool `json:"breathing"`
	Pain      bool `json:"pain"`
	Dizziness bool `json:"dizziness"`
}

type MedicalConsultation struct {
	Symptoms   string      `json:"symptoms" validate:"min=5"`
	Duration   string      `json:"duration" validate:"required"`
	Severity   int         `json:"severity" validate:"min=1,max=10"`
	Conditions *Conditions `json:"conditions,omitempty"`
}

type LocationFinder struct {
	MedicalNeed string `json:"medicalNeed" validate:"min=5"`
	Urgency     string `json:"urgency" validate:"required"`
	TravelMode  string `json:"travelMode" validate:"required"`
}

type MedicineDelivery struct {
	Medications      string `json:"medications" validate:"min=5"`
	Prescription     bool   `json:"prescription,omitempty"`
	MedicalCondition string `json:"medicalCondition,omitempty"`
}

type EmergencyPersonnel struct {
	EmergencyDescription string `json:"emergencyDescription" validate:"min=10"`
	NumberOfPeople       string `json:"numberOfPeople" validate:"required"`
	Hazards              string `json:"hazards,omitempty"`
}

type HelicopterEvacuation struct {
	EmergencyDescription string `json:"emergencyDescription" validate:"min=10"`
	NumberOfPeople       string `json:"numberOfPeople" validate:"required"`
	TerrainDescription   string `json:"terrainDescription" validate:"min=5"`
	LandingZone          string `json:"landingZone,omitempty"`
}

func (MedicalConsultation) Type() EmergencyType  { return TypeMedicalConsultation }
func (LocationFinder) Type() EmergencyType       { return TypeLocationFinder }
func (MedicineDelivery) Type() EmergencyType     { return TypeMedicineDelivery }
func (EmergencyPersonnel) Type() EmergencyType   { return TypeEmergencyPersonnel }
func (HelicopterEvacuation) Type() EmergencyType { return TypeHelicopterEvacuation }

// DetailsMap serializes a variant into the open details mapping stored on a record.
func DetailsMap(d Details) (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
