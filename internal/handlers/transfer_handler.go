package handlers

import (
	"bytes"
	"log"

	"bakeshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransferHandler handles the CSV/XLSX export and CSV import endpoints.
type TransferHandler struct {
	service *services.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service *services.TransferService) *TransferHandler {
	return &TransferHandler{
		service: service,
	}
}

// RegisterRoutes registers the import/export routes. The router is
// expected to already carry the session middleware.
func (h *TransferHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/export_orders", h.HandleExportOrders)
	router.Get("/import_orders", h.ShowImportForm)
	router.Post("/import_orders", h.HandleImportOrders)
}

// HandleExportOrders streams the order list as a downloadable
// attachment. ?format=xlsx selects the spreadsheet variant; the default
// is CSV.
func (h *TransferHandler) HandleExportOrders(c *fiber.Ctx) error {
	switch format := c.Query("format", "csv"); format {
	case "csv":
		var buf bytes.Buffer
		if err := h.service.ExportCSV(&buf); err != nil {
			log.Printf("Error exporting orders to CSV: %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not export orders")
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders.csv"`)
		return c.Send(buf.Bytes())
	case "xlsx":
		buf, err := h.service.ExportXLSX()
		if err != nil {
			log.Printf("Error exporting orders to XLSX: %v", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not export orders")
		}
		c.Set(fiber.HeaderContentType, xlsxMIME)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
		return c.Send(buf.Bytes())
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Unknown export format: " + format)
	}
}

// ShowImportForm renders the CSV upload form.
func (h *TransferHandler) ShowImportForm(c *fiber.Ctx) error {
	return c.Render("import_orders", fiber.Map{})
}

// HandleImportOrders accepts an uploaded CSV and imports its rows.
func (h *TransferHandler) HandleImportOrders(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).Render("import_orders", fiber.Map{
			"Error": "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not read uploaded file")
	}
	defer file.Close()

	accepted, err := h.service.ImportCSV(file)
	if err != nil {
		log.Printf("Error importing orders (accepted %d rows): %v", accepted, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not import orders")
	}

	log.Printf("Imported %d orders from %s", accepted, fileHeader.Filename)
	return c.Redirect("/orders", fiber.StatusSeeOther)
}
