package domain

import "time"

type SatelliteCount struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// SatelliteStatus reports the search-and-rescue positioning constellation.
type SatelliteStatus struct {
	Status         string         `json:"status"`
	Satellites     SatelliteCount `json:"satellites"`
	SignalStrength float64        `json:"signalStrength"`
	LastUpdated    time.Time      `json:"lastUpdated"`
}
