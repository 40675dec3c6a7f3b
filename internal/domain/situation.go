package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Situation is one geolocated traffic incident record extracted from a DGT
// DATEX2 publication. It is constructed once per (situationRecord, point)
// pair and never mutated afterwards.
//
// Latitude and Longitude are always set: records whose coordinates cannot be
// resolved are dropped during extraction instead of being emitted with
// sentinel values. Every other field besides ID is optional; nil means the
// source document did not carry it.
type Situation struct {
	ID        string  `json:"id"`
	Severity  *string `json:"severity,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Spanish administrative extension data, scoped to the resolved point.
	Province            *string  `json:"province,omitempty"`
	Municipality        *string  `json:"municipality,omitempty"`
	AutonomousCommunity *string  `json:"autonomous_community,omitempty"`
	KmPoint             *float64 `json:"km_point,omitempty"`

	// Record-level attributes.
	RoadName       *string `json:"road_name,omitempty"`
	ManagementType *string `json:"management_type,omitempty"`
	CauseType      *string `json:"cause_type,omitempty"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeSituation marshals a Situation into a sink message keyed by the
// situation ID. The extraction timestamp comes from the package clock so
// tests can freeze it.
func SerializeSituation(s Situation) (OutputEvent, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize situation: %w", err)
	}

	headers := map[string]string{
		"extracted_at": clock.Now().UTC().Format(time.RFC3339),
	}
	if s.Severity != nil {
		headers["severity"] = *s.Severity
	}

	return OutputEvent{
		Key:     []byte(s.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
