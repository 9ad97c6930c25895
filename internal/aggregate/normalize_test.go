package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeListBareArray(t *testing.T) {
	raw := json.RawMessage(`[{"status":"pending","createdAt":"2026-08-01T10:00:00Z"},{"status":"completed","createdAt":"2026-08-02T08:30:00Z"}]`)

	result := NormalizeList(raw)
	require.False(t, result.Malformed)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "pending", result.Records[0].Status)
	assert.Equal(t, 2026, result.Records[0].CreatedAt.Year())
}

func TestNormalizeListDataEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"success":true,"data":[{"status":"approved","createdAt":"2026-08-10T00:00:00Z"}]}`)

	result := NormalizeList(raw)
	require.False(t, result.Malformed)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "approved", result.Records[0].Status)
}

func TestNormalizeListResourceNamedEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"proposals":[{"status":"in_review","createdAt":"2026-08-10"}]}`)

	result := NormalizeList(raw)
	require.False(t, result.Malformed)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "in_review", result.Records[0].Status)
}

func TestNormalizeListNonArrayPayloads(t *testing.T) {
	cases := map[string]string{
		"object without array": `{"message":"ok"}`,
		"string":               `"not a list"`,
		"number":               `42`,
		"null":                 `null`,
		"invalid json":         `{broken`,
		"empty":                ``,
		"ambiguous arrays":     `{"a":[1],"b":[2]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			result := NormalizeList(json.RawMessage(payload))
			assert.True(t, result.Malformed)
			assert.Empty(t, result.Records)
		})
	}
}

func TestNormalizeListSkipsNonObjectElements(t *testing.T) {
	raw := json.RawMessage(`[{"status":"pending","createdAt":"2026-08-01T00:00:00Z"},"stray",7,null]`)

	result := NormalizeList(raw)
	require.False(t, result.Malformed)
	assert.Len(t, result.Records, 1)
}

func TestNormalizeListCategoryAndUpdatedAt(t *testing.T) {
	raw := json.RawMessage(`[{"status":"Resolved","issue_type":"Road Damage","created_at":"2026-08-01T00:00:00Z","updated_at":"2026-08-04T00:00:00Z"}]`)

	result := NormalizeList(raw)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Equal(t, "Road Damage", rec.Category)
	require.NotNil(t, rec.UpdatedAt)
	assert.Equal(t, 3*24.0, rec.UpdatedAt.Sub(rec.CreatedAt).Hours())
}
