package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Coordinates is a WGS84 point attached to a time slot's location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TimeSlot is a single open window with a start time, end time and location.
// Times are local wall-clock "HH:MM" strings; the engine parses and
// validates them, nothing here assumes they are well formed.
type TimeSlot struct {
	ID          string       `json:"id"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// TimeSlotList stores slots as a JSONB column.
type TimeSlotList []TimeSlot

// Value implements driver.Valuer.
func (l TimeSlotList) Value() (driver.Value, error) {
	if l == nil {
		l = TimeSlotList{}
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal time slots: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (l *TimeSlotList) Scan(src interface{}) error {
	if src == nil {
		*l = TimeSlotList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported time slot column type %T", src)
	}
	if err := json.Unmarshal(raw, l); err != nil {
		return fmt.Errorf("unmarshal time slots: %w", err)
	}
	return nil
}
