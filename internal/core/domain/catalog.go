package domain

// EmergencyTypeInfo is the public description of an emergency type.
type EmergencyTypeInfo struct {
	ID                EmergencyType `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	EstimatedResponse string        `json:"estimatedResponse"`
}

var catalog = []EmergencyTypeInfo{
	{
		ID:                TypeMedicalConsultation,
		Title:             "Medical Consultation",
		Description:       "Get professional medical advice for minor issues like cough, fever, or general health concerns.",
		EstimatedResponse: "5-15 minutes",
	},
	{
		ID:                TypeLocationFinder,
		Title:             "Location-Based Finder",
		Description:       "Find the nearest medical facility while traveling in unfamiliar locations for non-urgent care.",
		EstimatedResponse: "1-5 minutes",
	},
	{
		ID:                TypeMedicineDelivery,
		Title:             "Medicine Delivery",
		Description:       "Request medicine delivery to remote locations via drone for situations where travel is difficult.",
		EstimatedResponse: "1-3 hours",
	},
	{
		ID:                TypeEmergencyPersonnel,
		Title:             "Emergency Personnel",
		Description:       "Dispatch emergency medical personnel to your location using smart navigation in disaster zones.",
		EstimatedResponse: "15-60 minutes",
	},
	{
		ID:                TypeHelicopterEvacuation,
		Title:             "Helicopter Evacuation",
		Description:       "Request helicopter evacuation for life-threatening emergencies in inaccessible terrain.",
		EstimatedResponse: "1-4 hours",
	},
}

// EmergencyTypes returns a copy of the catalog ordered by id.
func EmergencyTypes() []EmergencyTypeInfo {
	out := make([]EmergencyTypeInfo, len(catalog))
	copy(out, catalog)
	return out
}

func LookupEmergencyType(t EmergencyType) (EmergencyTypeInfo, bool) {
	for _, info := range catalog {
		if info.ID == t {
			return info, true
		}
	}
	return EmergencyTypeInfo{}, false
}
