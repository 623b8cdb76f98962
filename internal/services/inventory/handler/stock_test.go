package handler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"labstock-system/internal/database/models"
	"labstock-system/internal/services/inventory/handler"
)

func mustInbound(t *testing.T, svc *handler.InventoryHandler, productID, warehouseID int64, quantity int32) {
	t.Helper()
	price := decimal.NewFromFloat(5.00)
	_, err := svc.RecordInbound(context.Background(), handler.InboundRequest{
		ProductID:             productID,
		WarehouseID:           warehouseID,
		Quantity:              quantity,
		ProductExpirationDate: "2027-12-31",
		PurchasePrice:         &price,
	})
	if err != nil {
		t.Fatalf("RecordInbound failed: %v", err)
	}
}

func TestReserveStock_Validation(t *testing.T) {
	svc := newUnitHandler()
	ctx := context.Background()

	cases := []struct {
		name string
		req  handler.ReserveStockRequest
	}{
		{"missing product", handler.ReserveStockRequest{WarehouseID: 1, Quantity: 5}},
		{"missing warehouse", handler.ReserveStockRequest{ProductID: 1, Quantity: 5}},
		{"zero quantity", handler.ReserveStockRequest{ProductID: 1, WarehouseID: 1, Quantity: 0}},
		{"negative quantity", handler.ReserveStockRequest{ProductID: 1, WarehouseID: 1, Quantity: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ReserveStock(ctx, tc.req)
			var validation *handler.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestReserveRelease_RoundTrip(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 10)

	resp, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 4,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}

	stock := getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity != 6 || stock.ReservedQuantity != 4 {
		t.Fatalf("after reserve: available=%d reserved=%d, want 6/4", stock.AvailableQuantity, stock.ReservedQuantity)
	}

	if _, err := svc.ReleaseStock(ctx, handler.ReleaseStockRequest{ReservationID: resp.ReservationID}); err != nil {
		t.Fatalf("ReleaseStock failed: %v", err)
	}

	stock = getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity != 10 || stock.ReservedQuantity != 0 {
		t.Fatalf("after release: available=%d reserved=%d, want 10/0", stock.AvailableQuantity, stock.ReservedQuantity)
	}

	var reservation models.Reservation
	if err := db.First(&reservation, resp.ReservationID).Error; err != nil {
		t.Fatalf("failed to load reservation: %v", err)
	}
	if reservation.StatusID != models.ReservationStatusReleased {
		t.Fatalf("reservation status = %d, want %d", reservation.StatusID, models.ReservationStatusReleased)
	}
}

func TestReserveStock_Insufficient(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 10)

	_, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 11,
	})
	var insufficient *handler.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	stock := getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity != 10 || stock.ReservedQuantity != 0 {
		t.Fatalf("failed reserve mutated stock: available=%d reserved=%d", stock.AvailableQuantity, stock.ReservedQuantity)
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed reserve left %d reservation rows", count)
	}
}

func TestReleaseStock_Idempotent(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 10)

	resp, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.ReleaseStock(ctx, handler.ReleaseStockRequest{ReservationID: resp.ReservationID}); err != nil {
			t.Fatalf("ReleaseStock call %d failed: %v", i+1, err)
		}
	}

	stock := getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity != 10 || stock.ReservedQuantity != 0 {
		t.Fatalf("double release adjusted stock twice: available=%d reserved=%d", stock.AvailableQuantity, stock.ReservedQuantity)
	}
}

func TestReleaseStock_NotFound(t *testing.T) {
	svc, _ := newTestHandler(t)

	_, err := svc.ReleaseStock(context.Background(), handler.ReleaseStockRequest{ReservationID: 9999})
	var notFound *handler.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReserveStock_ConcurrentExhaustion(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 10)

	const workers = 10
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ReserveStock(ctx, handler.ReserveStockRequest{
				ProductID: productID, WarehouseID: warehouseID, Quantity: 2,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			var insufficient *handler.InsufficientStockError
			if !errors.As(err, &insufficient) {
				t.Fatalf("unexpected error from concurrent reserve: %v", err)
			}
			rejected++
		}
	}

	if succeeded != 5 || rejected != 5 {
		t.Fatalf("succeeded=%d rejected=%d, want exactly 5/5", succeeded, rejected)
	}

	stock := getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity != 0 || stock.ReservedQuantity != 10 {
		t.Fatalf("after exhaustion: available=%d reserved=%d, want 0/10", stock.AvailableQuantity, stock.ReservedQuantity)
	}
}

func TestStockAggregate_MatchesLedger(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 20)
	mustInbound(t, svc, productID, warehouseID, 5)

	held, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 7,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}
	released, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}
	if _, err := svc.ReleaseStock(ctx, handler.ReleaseStockRequest{ReservationID: released.ReservationID}); err != nil {
		t.Fatalf("ReleaseStock failed: %v", err)
	}
	if _, err := svc.RecordOutbound(ctx, handler.OutboundRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 6,
	}); err != nil {
		t.Fatalf("RecordOutbound failed: %v", err)
	}
	if _, err := svc.RecordOutbound(ctx, handler.OutboundRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 7, ReservationID: &held.ReservationID,
	}); err != nil {
		t.Fatalf("RecordOutbound with reservation failed: %v", err)
	}

	stock := getStock(t, db, productID, warehouseID)
	if stock.AvailableQuantity < 0 {
		t.Fatalf("availableQuantity went negative: %d", stock.AvailableQuantity)
	}
	if want := ledgerBalance(t, db, productID, warehouseID); int64(stock.AvailableQuantity) != want {
		t.Fatalf("availableQuantity=%d, ledger-derived balance=%d", stock.AvailableQuantity, want)
	}
}

func TestListReservations_NewestFirstWithNames(t *testing.T) {
	svc, db := newTestHandler(t)
	productID, warehouseID := seedCatalog(t, db)
	ctx := context.Background()

	mustInbound(t, svc, productID, warehouseID, 10)

	first, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}
	second, err := svc.ReserveStock(ctx, handler.ReserveStockRequest{
		ProductID: productID, WarehouseID: warehouseID, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("ReserveStock failed: %v", err)
	}
	if _, err := svc.ReleaseStock(ctx, handler.ReleaseStockRequest{ReservationID: first.ReservationID}); err != nil {
		t.Fatalf("ReleaseStock failed: %v", err)
	}

	reservations, err := svc.ListReservations(ctx)
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(reservations) != 2 {
		t.Fatalf("got %d reservations, want 2 (terminal ones included)", len(reservations))
	}
	if reservations[0].ReservationID != second.ReservationID {
		t.Fatalf("newest reservation not first: got %d, want %d", reservations[0].ReservationID, second.ReservationID)
	}
	if reservations[0].ProductName == "" || reservations[0].WarehouseName == "" {
		t.Fatalf("denormalized names missing: %+v", reservations[0])
	}
	if reservations[1].StatusID != models.ReservationStatusReleased {
		t.Fatalf("released reservation statusId = %d, want %d", reservations[1].StatusID, models.ReservationStatusReleased)
	}
}
