package docgen

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/barangayhub/portal-api/internal/models"
)

// Letterhead carries the office identity printed on every document.
type Letterhead struct {
	Municipality string
	Barangay     string
	Captain      string
	Secretary    string
}

// Details carries the per-request values rendered into a document.
type Details struct {
	ServiceID       string
	ClearanceNumber string
	IDNumber        string
	FullName        string
	Address         string
	Purpose         string
	FormData        models.JSONMap
	IssuedAt        time.Time
}

// Generator renders official barangay documents as PDFs.
type Generator struct {
	letterhead Letterhead
}

// NewGenerator builds a generator with the provided letterhead.
func NewGenerator(letterhead Letterhead) *Generator {
	if letterhead.Municipality == "" {
		letterhead.Municipality = "Municipality"
	}
	if letterhead.Barangay == "" {
		letterhead.Barangay = "Barangay"
	}
	return &Generator{letterhead: letterhead}
}

// titles maps each document type to its printed heading.
var titles = map[models.DocumentType]string{
	models.DocBarangayClearance:    "Barangay Clearance",
	models.DocBarangayID:           "Barangay Identification Card",
	models.DocBusinessPermit:       "Barangay Business Permit",
	models.DocCertIndigency:        "Certificate of Indigency",
	models.DocCertResidency:        "Certificate of Residency",
	models.DocCertGoodMoral:        "Certificate of Good Moral Character",
	models.DocCertSoloParent:       "Solo Parent Certificate",
	models.DocCertFirstTimeJobPack: "First Time Jobseeker Certificate",
	models.DocConstructionPermit:   "Barangay Construction Permit",
	models.DocEventPermit:          "Barangay Event Permit",
}

// Title returns the printed heading for a document type.
func Title(docType models.DocumentType) string {
	if title, ok := titles[docType]; ok {
		return title
	}
	return "Barangay Certificate"
}

// Render produces the PDF bytes for the given document type.
func (g *Generator) Render(docType models.DocumentType, details Details) ([]byte, error) {
	if !models.KnownDocumentType(docType) {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
	if details.IssuedAt.IsZero() {
		details.IssuedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	g.header(pdf)

	pdf.Ln(8)
	pdf.SetFont("Times", "B", 16)
	pdf.CellFormat(0, 10, strings.ToUpper(Title(docType)), "", 1, "C", false, 0, "")

	if ref := g.referenceLine(docType, details); ref != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, ref, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 7, g.body(docType, details), "", "J", false)

	g.detailTable(pdf, docType, details)

	pdf.Ln(10)
	pdf.SetFont("Times", "", 12)
	issued := details.IssuedAt.Format("January 2, 2006")
	pdf.MultiCell(0, 7, fmt.Sprintf("Issued this %s at the Office of the Punong Barangay, %s, %s.", issued, g.letterhead.Barangay, g.letterhead.Municipality), "", "J", false)

	g.signatureBlock(pdf)

	pdf.SetY(-25)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Tracking No. %s - Not valid without the official barangay seal.", details.ServiceID), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", docType, err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) header(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Times", "", 11)
	pdf.CellFormat(0, 6, "Republic of the Philippines", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, g.letterhead.Municipality, "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(0, 6, strings.ToUpper(g.letterhead.Barangay), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(0, 6, "Office of the Punong Barangay", "", 1, "C", false, 0, "")
	pdf.Line(20, pdf.GetY()+2, 190, pdf.GetY()+2)
}

// referenceLine prints the control number specific document types carry.
func (g *Generator) referenceLine(docType models.DocumentType, details Details) string {
	switch docType {
	case models.DocBarangayClearance:
		return fmt.Sprintf("Clearance No. %s", details.ClearanceNumber)
	case models.DocBarangayID:
		return fmt.Sprintf("ID No. %s", details.IDNumber)
	default:
		return ""
	}
}

func (g *Generator) body(docType models.DocumentType, details Details) string {
	name := strings.ToUpper(details.FullName)
	address := details.Address
	if address == "" {
		address = "this barangay"
	}
	purpose := details.Purpose
	if purpose == "" {
		purpose = "whatever legal purpose it may serve"
	}

	switch docType {
	case models.DocBarangayClearance:
		return fmt.Sprintf("This is to certify that %s, a resident of %s, is known to be of good standing in this barangay and has no derogatory record on file as of the date of issuance. This clearance is issued upon the request of the above-named person for %s.", name, address, purpose)
	case models.DocBarangayID:
		return fmt.Sprintf("This identification card certifies that %s is a bona fide resident of %s, %s.", name, g.letterhead.Barangay, g.letterhead.Municipality)
	case models.DocBusinessPermit:
		return fmt.Sprintf("Permission is hereby granted to %s to operate the business described below within the territorial jurisdiction of %s, subject to existing barangay ordinances. Issued for %s.", name, g.letterhead.Barangay, purpose)
	case models.DocCertIndigency:
		return fmt.Sprintf("This is to certify that %s, a resident of %s, belongs to an indigent family in this barangay. This certification is issued upon request for %s.", name, address, purpose)
	case models.DocCertResidency:
		return fmt.Sprintf("This is to certify that %s is a bona fide resident of %s, %s, %s. This certification is issued upon request for %s.", name, address, g.letterhead.Barangay, g.letterhead.Municipality, purpose)
	case models.DocCertGoodMoral:
		return fmt.Sprintf("This is to certify that %s, a resident of %s, is a person of good moral character and law-abiding standing in the community. Issued upon request for %s.", name, address, purpose)
	case models.DocCertSoloParent:
		return fmt.Sprintf("This is to certify that %s, a resident of %s, is a solo parent as defined under Republic Act No. 8972. Issued upon request for %s.", name, address, purpose)
	case models.DocCertFirstTimeJobPack:
		return fmt.Sprintf("This is to certify that %s, a resident of %s, is a first time jobseeker and is entitled to the benefits of Republic Act No. 11261. Issued upon request for %s.", name, address, purpose)
	case models.DocConstructionPermit:
		return fmt.Sprintf("Permission is hereby granted to %s to undertake the construction work described below within %s, subject to compliance with applicable building regulations. Issued for %s.", name, g.letterhead.Barangay, purpose)
	case models.DocEventPermit:
		return fmt.Sprintf("Permission is hereby granted to %s to hold the event described below within %s. Issued for %s.", name, g.letterhead.Barangay, purpose)
	default:
		return fmt.Sprintf("This certification is issued to %s of %s for %s.", name, address, purpose)
	}
}

// detailFields selects which form_data keys a document type prints as a table.
var detailFields = map[models.DocumentType][]string{
	models.DocBarangayID:         {"birth_date", "civil_status", "emergency_contact"},
	models.DocBusinessPermit:     {"business_name", "business_address", "business_nature"},
	models.DocConstructionPermit: {"project_description", "project_location"},
	models.DocEventPermit:        {"event_name", "event_date", "event_venue"},
}

func (g *Generator) detailTable(pdf *gofpdf.Fpdf, docType models.DocumentType, details Details) {
	fields := detailFields[docType]
	if len(fields) == 0 || details.FormData == nil {
		return
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	for _, field := range fields {
		value := details.FormData[field]
		if value == "" {
			continue
		}
		label := strings.Title(strings.ReplaceAll(field, "_", " "))
		pdf.CellFormat(55, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(115, 7, value, "1", 1, "L", false, 0, "")
	}
}

func (g *Generator) signatureBlock(pdf *gofpdf.Fpdf) {
	pdf.Ln(16)
	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(95, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(95, 6, strings.ToUpper(g.letterhead.Captain), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(95, 5, "", "", 0, "", false, 0, "")
	pdf.CellFormat(95, 5, "Punong Barangay", "", 1, "C", false, 0, "")

	if g.letterhead.Secretary != "" {
		pdf.Ln(8)
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(95, 5, "Attested by:", "", 1, "L", false, 0, "")
		pdf.SetFont("Times", "B", 11)
		pdf.CellFormat(95, 6, strings.ToUpper(g.letterhead.Secretary), "", 1, "L", false, 0, "")
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(95, 5, "Barangay Secretary", "", 1, "L", false, 0, "")
	}
}
