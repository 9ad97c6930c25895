package aggregate

import (
	"encoding/json"
	"time"
)

// ListResult is the discriminated outcome of normalizing an untrusted
// payload: either a usable record list, or Malformed with zero records.
// Normalization never fails; a shape the portal does not recognise simply
// contributes nothing to the aggregates.
type ListResult struct {
	Records   []Record
	Malformed bool
}

// NormalizeList coerces a raw legacy payload into records. The legacy
// endpoints disagree on envelope shape: some return a bare array, some
// `{"data": [...]}`, some `{"success": true, "data": [...]}`, and one wraps
// the array under its own resource name (`{"proposals": [...]}`). Any single
// array-valued field of an object envelope is accepted; anything else is
// malformed and yields an empty list.
func NormalizeList(raw json.RawMessage) ListResult {
	if len(raw) == 0 {
		return ListResult{Malformed: true}
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ListResult{Malformed: true}
	}

	items, ok := extractItems(payload)
	if !ok {
		return ListResult{Malformed: true}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, recordFromObject(obj))
	}
	return ListResult{Records: records}
}

// NormalizeResidents coerces a raw legacy resident payload into resident
// records, tolerating the same envelope variations as NormalizeList.
func NormalizeResidents(raw json.RawMessage) ([]ResidentRecord, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}

	items, ok := extractItems(payload)
	if !ok {
		return nil, false
	}

	records := make([]ResidentRecord, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rec := ResidentRecord{
			IsVerified: boolField(obj, "isVerified", "is_verified"),
			IsVoter:    boolField(obj, "isVoter", "is_voter"),
			CreatedAt:  timeField(obj, "createdAt", "created_at"),
		}
		if arr, ok := obj["types"].([]interface{}); ok {
			for _, v := range arr {
				if s, ok := v.(string); ok {
					rec.Types = append(rec.Types, s)
				}
			}
		}
		records = append(records, rec)
	}
	return records, true
}

func extractItems(payload interface{}) ([]interface{}, bool) {
	switch v := payload.(type) {
	case []interface{}:
		return v, true
	case map[string]interface{}:
		if data, ok := v["data"].([]interface{}); ok {
			return data, true
		}
		var found []interface{}
		matches := 0
		for _, value := range v {
			if arr, ok := value.([]interface{}); ok {
				found = arr
				matches++
			}
		}
		if matches == 1 {
			return found, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func recordFromObject(obj map[string]interface{}) Record {
	rec := Record{
		Status:    stringField(obj, "status"),
		Category:  stringField(obj, "documentType", "document_type", "issueType", "issue_type", "category"),
		CreatedAt: timeField(obj, "createdAt", "created_at"),
	}
	if updated := timeField(obj, "updatedAt", "updated_at"); !updated.IsZero() {
		rec.UpdatedAt = &updated
	}
	return rec
}

func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolField(obj map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		if b, ok := obj[key].(bool); ok {
			return b
		}
	}
	return false
}

func timeField(obj map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := obj[key].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
