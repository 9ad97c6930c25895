package docgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/models"
)

func testGenerator() *Generator {
	return NewGenerator(Letterhead{
		Municipality: "Municipality of San Isidro",
		Barangay:     "Barangay Poblacion",
		Captain:      "Hon. Jose Ramos",
		Secretary:    "Ana Reyes",
	})
}

func TestGeneratorRendersEveryDocumentType(t *testing.T) {
	gen := testGenerator()
	details := Details{
		ServiceID:       "BH-DOC-2026-0001",
		ClearanceNumber: "CLR-0001",
		IDNumber:        "ID-0001",
		FullName:        "Juan Dela Cruz",
		Address:         "Purok 3, Barangay Poblacion",
		Purpose:         "employment",
		IssuedAt:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}

	for _, docType := range models.DocumentTypes {
		data, err := gen.Render(docType, details)
		require.NoError(t, err, "render %s", docType)
		assert.True(t, len(data) > 500, "pdf output too small for %s", docType)
	}
}

func TestGeneratorRejectsUnknownType(t *testing.T) {
	gen := testGenerator()
	_, err := gen.Render(models.DocumentType("diploma"), Details{FullName: "Juan"})
	require.Error(t, err)
}

func TestTitleFallsBackForUnknownType(t *testing.T) {
	assert.Equal(t, "Barangay Certificate", Title(models.DocumentType("diploma")))
	assert.Equal(t, "Barangay Clearance", Title(models.DocBarangayClearance))
}
