package models

// ValidationCode identifies a schedule integrity violation.
type ValidationCode string

const (
	CodeInvalidFormat    ValidationCode = "INVALID_FORMAT"
	CodeMissingLocation  ValidationCode = "MISSING_LOCATION"
	CodeMissingTime      ValidationCode = "MISSING_TIME"
	CodeEmptyEnabledDay  ValidationCode = "EMPTY_ENABLED_DAY"
	CodeEndBeforeStart   ValidationCode = "END_BEFORE_START"
	CodeSlotTooShort     ValidationCode = "SLOT_TOO_SHORT"
	CodeOverlappingSlots ValidationCode = "OVERLAPPING_SLOTS"
	CodeIncompleteRule   ValidationCode = "INCOMPLETE_PATTERN_RULE"
)

// ValidationError flags one violation, keyed by day and slot so every
// problem can be rendered at once. Validation accumulates; it never stops
// at the first failure.
type ValidationError struct {
	Day     string         `json:"day,omitempty"`
	SlotID  string         `json:"slot_id,omitempty"`
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
}
