package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"bakeshop/internal/models"
	"bakeshop/internal/repositories"

	"github.com/xuri/excelize/v2"
)

// csvHeader is the fixed column order of the CSV format. Import is
// positional and does not rely on these names.
var csvHeader = []string{"Customer Name", "Order Item", "Quantity", "Status"}

const xlsxSheet = "Orders"

// TransferService converts between the order table and CSV/XLSX files.
type TransferService struct {
	orderRepo repositories.OrderRepository
	events    EventPublisher
}

// NewTransferService creates a new TransferService.
func NewTransferService(orderRepo repositories.OrderRepository, events EventPublisher) *TransferService {
	return &TransferService{
		orderRepo: orderRepo,
		events:    events,
	}
}

// ExportCSV writes the full order list as CSV: a header row followed by
// one row per order, in list order.
func (s *TransferService) ExportCSV(w io.Writer) error {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load orders for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, order := range orders {
		record := []string{
			order.CustomerName,
			order.OrderItem,
			strconv.Itoa(order.Quantity),
			order.Status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX builds a spreadsheet with the CSV columns plus Price
// (blank when the order has none).
func (s *TransferService) ExportXLSX() (*bytes.Buffer, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := append(append([]string{}, csvHeader...), "Price")
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for row, order := range orders {
		values := []interface{}{
			order.CustomerName,
			order.OrderItem,
			order.Quantity,
			order.Status,
		}
		if order.Price != nil {
			values = append(values, *order.Price)
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode spreadsheet: %w", err)
	}
	return buf, nil
}

// ImportCSV reads an uploaded CSV, discards the header line and creates
// one order per well-formed row. Rows with a field count other than 4,
// or whose quantity does not parse as a non-negative integer, are
// skipped without failing the batch. Returns the number of accepted
// rows. Persistence is best effort: a storage failure mid-batch leaves
// the rows already written in place.
func (s *TransferService) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row shape is validated per record below

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var pending []models.Order
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed line, treated like any other bad row.
				continue
			}
			// A real reader failure would repeat forever; surface it.
			return 0, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) != 4 {
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || quantity < 0 {
			continue
		}
		pending = append(pending, models.Order{
			CustomerName: record[0],
			OrderItem:    record[1],
			Quantity:     quantity,
			Status:       record[3],
		})
	}

	for i := range pending {
		if err := s.orderRepo.Create(&pending[i]); err != nil {
			return i, fmt.Errorf("failed to persist imported order: %w", err)
		}
	}

	if len(pending) > 0 && s.events != nil {
		body, err := json.Marshal(map[string]interface{}{"count": len(pending)})
		if err == nil {
			if err := s.events.Publish("orders.imported", body); err != nil {
				log.Printf("Warning: failed to publish orders.imported event: %v", err)
			}
		}
	}
	return len(pending), nil
}
