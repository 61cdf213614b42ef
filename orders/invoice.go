package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"tokri/globals"
	"tokri/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Invoice renders the order as a PDF with a QR code that opens the public
// tracking page.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, ok := h.loadOwnedOrder(w, r, ps.ByName("orderid"))
	if !ok {
		return
	}

	brand := h.Settings.Get().Brand
	currency := h.Settings.Get().Currency

	trackingLink := globals.PublicBaseURL + "/track/" + order.OrderID
	qrPNG, err := qrcode.Encode(trackingLink, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, brand.Name+" Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Order: "+order.OrderID)
	pdf.Ln(6)
	pdf.Cell(0, 8, "Date: "+order.CreatedAt.Format("2006-01-02"))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Status: "+order.Status)
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Deliver to: %s, %s, %s", order.ShippingInfo.Name, order.ShippingInfo.Address, order.ShippingInfo.City))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		name := item.Name
		if item.Size != "" {
			name += " (" + item.Size + ")"
		}
		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.UnitPrice*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Grand Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f %s", order.TotalPrice, currency), "1", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
