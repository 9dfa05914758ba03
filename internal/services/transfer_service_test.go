package services_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"bakeshop/internal/models"
	"bakeshop/internal/repositories"
	"bakeshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func seedOrders(t *testing.T, repo repositories.OrderRepository, orders ...models.Order) {
	t.Helper()
	for i := range orders {
		assert.NoError(t, repo.Create(&orders[i]))
	}
}

func TestTransferService_ExportCSV(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	transferService := services.NewTransferService(repo, nil)

	price := 4.20
	seedOrders(t, repo,
		models.Order{CustomerName: "Alice", OrderItem: "Sourdough", Quantity: 3, Status: "done", Price: &price},
		models.Order{CustomerName: "Bob", OrderItem: "Baguette", Quantity: 1, Status: "pending"},
	)

	var buf bytes.Buffer
	assert.NoError(t, transferService.ExportCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Customer Name,Order Item,Quantity,Status",
		"Alice,Sourdough,3,done",
		"Bob,Baguette,1,pending",
	}, lines)
}

func TestTransferService_ImportSkipsMalformedRows(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	events := &capturePublisher{}
	transferService := services.NewTransferService(repo, events)

	input := strings.Join([]string{
		"Customer Name,Order Item,Quantity,Status",
		"A,Bread,3,done",
		"B,bad",              // wrong field count
		"C,Cake,x,done",      // non-integer quantity
		"E,Tart,-1,done",     // negative quantity
		`F"ake,Rye,1,done`,   // bare quote, CSV parse error
		"D,Pie,2,pending",
	}, "\n")

	accepted, err := transferService.ImportCSV(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 2, accepted)

	orders, err := repo.GetAll()
	assert.NoError(t, err)
	if assert.Len(t, orders, 2) {
		assert.Equal(t, "A", orders[0].CustomerName)
		assert.Equal(t, "Bread", orders[0].OrderItem)
		assert.Equal(t, 3, orders[0].Quantity)
		assert.Equal(t, "done", orders[0].Status)
		assert.Equal(t, "D", orders[1].CustomerName)
		assert.Equal(t, 2, orders[1].Quantity)
	}
	assert.Equal(t, []string{"orders.imported"}, events.events)
}

func TestTransferService_ImportReaderFailure(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	transferService := services.NewTransferService(repo, nil)

	// A failing reader is an error, not an endless stream of skipped rows
	input := io.MultiReader(
		strings.NewReader("Customer Name,Order Item,Quantity,Status\nA,Bread,3,done\n"),
		iotest.ErrReader(errors.New("read: connection reset")),
	)
	accepted, err := transferService.ImportCSV(input)
	assert.Error(t, err)
	assert.Zero(t, accepted)

	orders, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestTransferService_ImportEmptyFile(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	transferService := services.NewTransferService(repo, nil)

	accepted, err := transferService.ImportCSV(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Zero(t, accepted)

	// A header-only file is also a no-op
	accepted, err = transferService.ImportCSV(strings.NewReader("Customer Name,Order Item,Quantity,Status\n"))
	assert.NoError(t, err)
	assert.Zero(t, accepted)
}

func TestTransferService_ExportImportRoundTrip(t *testing.T) {
	source := repositories.NewInMemoryOrderRepository()
	seedOrders(t, source,
		models.Order{CustomerName: "Alice", OrderItem: "Sourdough", Quantity: 3, Status: "done"},
		models.Order{CustomerName: "Bob", OrderItem: "Baguette", Quantity: 0, Status: "pending"},
		models.Order{CustomerName: "Carol", OrderItem: "Croissant", Quantity: 12, Status: "baking"},
	)

	var buf bytes.Buffer
	assert.NoError(t, services.NewTransferService(source, nil).ExportCSV(&buf))

	target := repositories.NewInMemoryOrderRepository()
	accepted, err := services.NewTransferService(target, nil).ImportCSV(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, accepted)

	sourceOrders, _ := source.GetAll()
	targetOrders, _ := target.GetAll()
	if assert.Len(t, targetOrders, len(sourceOrders)) {
		for i := range sourceOrders {
			// Ids are reassigned on import; the field values round-trip
			assert.Equal(t, sourceOrders[i].CustomerName, targetOrders[i].CustomerName)
			assert.Equal(t, sourceOrders[i].OrderItem, targetOrders[i].OrderItem)
			assert.Equal(t, sourceOrders[i].Quantity, targetOrders[i].Quantity)
			assert.Equal(t, sourceOrders[i].Status, targetOrders[i].Status)
			assert.NotEqual(t, sourceOrders[i].ID, targetOrders[i].ID)
		}
	}
}

func TestTransferService_ExportXLSX(t *testing.T) {
	repo := repositories.NewInMemoryOrderRepository()
	transferService := services.NewTransferService(repo, nil)

	price := 12.5
	seedOrders(t, repo,
		models.Order{CustomerName: "Alice", OrderItem: "Sourdough", Quantity: 3, Status: "done", Price: &price},
		models.Order{CustomerName: "Bob", OrderItem: "Baguette", Quantity: 1, Status: "pending"},
	)

	buf, err := transferService.ExportXLSX()
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	assert.NoError(t, err)
	if assert.Len(t, rows, 3) {
		assert.Equal(t, []string{"Customer Name", "Order Item", "Quantity", "Status", "Price"}, rows[0])
		assert.Equal(t, "Alice", rows[1][0])
		assert.Equal(t, "3", rows[1][2])
		assert.Equal(t, "12.5", rows[1][4])
		assert.Equal(t, "Bob", rows[2][0])
		// Bob has no price, the cell stays blank
		if len(rows[2]) > 4 {
			assert.Equal(t, "", rows[2][4])
		}
	}
}
