package domain

import "time"

// EmergencyType selects which details a request must carry and how it is triaged.
type EmergencyType int

const (
	TypeMedicalConsultation  EmergencyType = 1
	TypeLocationFinder       EmergencyType = 2
	TypeMedicineDelivery     EmergencyType = 3
	TypeEmergencyPersonnel   EmergencyType = 4
	TypeHelicopterEvacuation EmergencyType = 5
)

func (t EmergencyType) Valid() bool {
	return t >= TypeMedicalConsultation && t <= TypeHelicopterEvacuation
}

// EmergencyRequest is one persisted assistance request.
type EmergencyRequest struct {
	ID                  int64          `json:"id"`
	UserID              *int64         `json:"userId"`
	EmergencyType       EmergencyType  `json:"emergencyType"`
	Latitude            *string        `json:"latitude"`
	Longitude           *string        `json:"longitude"`
	LocationDescription *string        `json:"locationDescription"`
	Symptoms            *string        `json:"symptoms"`
	Details             map[string]any `json:"details"`
	Status              Status         `json:"status"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// HasCoordinates reports whether both latitude and longitude were supplied.
func (r *EmergencyRequest) HasCoordinates() bool {
	return r.Latitude != nil && *r.Latitude != "" && r.Longitude != nil && *r.Longitude != ""
}

// NewEmergencyRequest is a validated submission ready to be stored.
// The store assigns ID, Status and CreatedAt.
type NewEmergencyRequest struct {
	UserID              *int64
	EmergencyType       EmergencyType
	Latitude            *string
	Longitude           *string
	LocationDescription *string
	Symptoms            *string
	Details             map[string]any
}
