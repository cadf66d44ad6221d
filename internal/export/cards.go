package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/shapefit/internal/engine"
	qrcode "github.com/skip2/go-qrcode"
)

// CardInfo holds the data encoded into each pattern card's QR code.
type CardInfo struct {
	PatternID   string `json:"id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	WellFormed  bool   `json:"well_formed"`
	Found       bool   `json:"found"`
	Orientation string `json:"orientation,omitempty"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Tested      int    `json:"tested"`
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each card is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	cardMarginTop  = 12.7 // mm
	cardMarginLeft = 4.8  // mm
	cardWidth      = 66.7 // mm per card
	cardHeight     = 25.4 // mm per card
	cardCols       = 3
	cardRows       = 10
	cardsPerPage   = cardCols * cardRows
	qrSize         = 20.0 // QR code size in mm
	cardPadding    = 2.0  // mm internal padding
	thumbSize      = 14.0 // shape thumbnail size in mm
)

// CollectCardInfos extracts card information from a batch comparison.
func CollectCardInfos(results []engine.PatternResult) []CardInfo {
	cards := make([]CardInfo, 0, len(results))
	for _, r := range results {
		info := CardInfo{
			PatternID:  r.Pattern.ID,
			Name:       r.Pattern.Name,
			Rows:       r.Pattern.Grid.Rows(),
			Cols:       r.Pattern.Grid.Cols(),
			WellFormed: r.WellFormed,
			Found:      r.Result.Found,
			Tested:     r.Stats.Tested,
		}
		if r.Result.Found {
			info.Orientation = r.Result.Placement.Orientation.String()
			info.Row = r.Result.Placement.Row
			info.Col = r.Result.Placement.Col
		}
		cards = append(cards, info)
	}
	return cards
}

// ExportPatternCards generates a PDF of QR-coded cards, one per compared
// pattern. Each card shows the pattern name, a thumbnail, the outcome
// against the world, and a QR code of the same data as JSON. Cards are laid
// out on a standard label sheet (Avery 5160 / 3 columns x 10 rows on US
// Letter).
func ExportPatternCards(path string, results []engine.PatternResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no patterns to generate cards for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, r := range results {
		if i%cardsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % cardsPerPage
		col := posOnPage % cardCols
		row := posOnPage / cardCols

		x := cardMarginLeft + float64(col)*cardWidth
		y := cardMarginTop + float64(row)*cardHeight

		if err := renderCard(pdf, x, y, i, r); err != nil {
			return fmt.Errorf("failed to render card for %q: %w", r.Pattern.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderCard draws a single card at the given position.
func renderCard(pdf *fpdf.Fpdf, x, y float64, index int, r engine.PatternResult) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	info := CollectCardInfos([]engine.PatternResult{r})[0]
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal card info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_card_%d_%s", index, info.PatternID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + cardWidth - qrSize - cardPadding
	qrY := y + (cardHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Thumbnail on the left, text between thumbnail and QR code.
	drawCells(pdf, gridStates(r.Pattern.Grid), x+cardPadding, y+(cardHeight-thumbSize)/2, thumbSize, thumbSize)

	textX := x + 2*cardPadding + thumbSize
	textW := cardWidth - qrSize - thumbSize - 4*cardPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+cardPadding)

	name := info.Name
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+cardPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d", info.Rows, info.Cols), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetXY(textX, y+cardPadding+9)
	switch {
	case !info.WellFormed:
		pdf.SetTextColor(180, 0, 0)
		pdf.CellFormat(textW, 3, "Not connected", "", 1, "L", false, 0, "")
	case info.Found:
		pdf.SetTextColor(0, 120, 0)
		pdf.CellFormat(textW, 3, r.Result.Placement.String(), "", 1, "L", false, 0, "")
	default:
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(textW, 3, "Not found", "", 1, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
