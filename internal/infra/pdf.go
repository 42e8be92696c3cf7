package infra

// Offer document rendering with go-pdf/fpdf.
// Generates an A4 price offer with:
//   - Issuer header (company name, address, tax id, phone)
//   - Offer number, issue date and author
//   - Buyer block
//   - Item grid (Lp., name, qty, unit, net price, VAT, net value, gross value)
//   - Summary (gross to pay, VAT, net) and notes

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pweat/rejestr-prac/internal/config"
	"github.com/pweat/rejestr-prac/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Core PDF fonts have no glyphs for Polish diacritics.
var plainLatin = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

// OfferFileName is the download name of an offer, e.g. oferta-OF_3_05_2024.pdf.
func OfferFileName(number string) string {
	return "oferta-" + strings.ReplaceAll(number, "/", "_") + ".pdf"
}

func money(d decimal.Decimal) string { return d.StringFixed(2) + " zl" }

// RenderOfferPDF renders the offer with its items and client preloaded.
func RenderOfferPDF(o *model.Offer, company config.Company) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	txt := func(s string) string { return tr(plainLatin.Replace(s)) }

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30
	half := contentW / 2

	// ── Header ───────────────────────────────────────────────────────────────
	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(half, 7, txt(company.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{company.Address, prefixed("NIP: ", company.TaxID), prefixed("tel. ", company.Phone)} {
		if line != "" {
			pdf.CellFormat(half, 5, txt(line), "", 2, "L", false, 0, "")
		}
	}
	leftBottom := pdf.GetY()

	pdf.SetXY(15+half, top)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(half, 7, txt("OFERTA nr "+o.OfferNumber), "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half, 5, "Data wystawienia: "+o.IssueDate.Format("02.01.2006"), "", 2, "R", false, 0, "")
	if company.Author != "" {
		pdf.CellFormat(half, 5, txt("Sporządził: "+company.Author), "", 2, "R", false, 0, "")
	}
	if y := pdf.GetY(); y > leftBottom {
		leftBottom = y
	}
	pdf.SetXY(15, leftBottom+6)

	// ── Buyer ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Nabywca:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if c := o.Client; c != nil {
		pdf.CellFormat(contentW, 5, txt(c.Name), "", 1, "L", false, 0, "")
		if c.Address != nil {
			pdf.CellFormat(contentW, 5, txt(*c.Address), "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(contentW, 5, "tel. "+c.PhoneNumber, "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(contentW, 5, "-", "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// ── Items ────────────────────────────────────────────────────────────────
	widths := []float64{9, 61, 15, 12, 22, 12, 25, 24}
	headers := []string{"Lp.", "Nazwa", "Ilość", "J.m.", "Cena netto", "VAT", "Wart. netto", "Wart. brutto"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, txt(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	vatFactor := decimal.NewFromInt(1).Add(o.VATRate.Div(decimal.NewFromInt(100)))
	pdf.SetFont("Helvetica", "", 8)
	for i, it := range o.Items {
		net := it.NetValue()
		cells := []string{
			fmt.Sprintf("%d", i+1),
			txt(it.Name),
			it.Quantity.String(),
			txt(it.Unit),
			it.NetPrice.StringFixed(2),
			o.VATRate.String() + "%",
			net.StringFixed(2),
			net.Mul(vatFactor).StringFixed(2),
		}
		aligns := []string{"C", "L", "R", "C", "R", "C", "R", "R"}
		for j, cell := range cells {
			if j == 1 && pdf.GetStringWidth(cell) > widths[j]-2 {
				cell = fitText(pdf, cell, widths[j]-2)
			}
			pdf.CellFormat(widths[j], 6, cell, "1", 0, aligns[j], false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	labelW := contentW - 40
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 6, txt("Razem do zapłaty (brutto):"), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, money(o.Gross()), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "w tym VAT "+o.VATRate.String()+"%:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 5, money(o.VAT()), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, "Netto:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 5, money(o.Net()), "", 1, "R", false, 0, "")

	if o.Notes != nil && *o.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Uwagi:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 5, txt(*o.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render offer %s: %w", o.OfferNumber, err)
	}
	return buf.Bytes(), nil
}

func prefixed(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + v
}

// fitText shortens s until it fits in width, marking the cut with "...".
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
