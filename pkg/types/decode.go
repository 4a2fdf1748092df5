package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// RequiredRecordFields are the keys a JSON device record must carry with a
// non-null value.
var RequiredRecordFields = []string{"brand", "storage_gb", "condition", "age_months", "battery_health"}

// DecodeDeviceRecord parses one JSON device record. Absent or null required
// keys yield *MissingFieldError; values of the wrong type yield
// *InvalidFieldError naming the field.
func DecodeDeviceRecord(data []byte) (DeviceRecord, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil || keys == nil {
		return DeviceRecord{}, &InvalidFieldError{
			Field:  "record",
			Value:  clip(data),
			Reason: "must be a JSON object",
		}
	}

	for _, f := range RequiredRecordFields {
		v, ok := keys[f]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return DeviceRecord{}, &MissingFieldError{Field: f}
		}
	}

	var rec DeviceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			field := te.Field
			if field == "" {
				field = "record"
			}
			return DeviceRecord{}, &InvalidFieldError{
				Field:  field,
				Value:  te.Value,
				Reason: fmt.Sprintf("expected %s", te.Type),
			}
		}
		return DeviceRecord{}, &InvalidFieldError{Field: "record", Value: clip(data), Reason: err.Error()}
	}
	return rec, nil
}

func clip(data []byte) string {
	const maxLen = 64
	s := string(bytes.TrimSpace(data))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
