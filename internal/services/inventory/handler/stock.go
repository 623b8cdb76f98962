package handler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labstock-system/internal/database/models"
)

type ReserveStockRequest struct {
	ProductID   int64 `json:"productId"`
	WarehouseID int64 `json:"warehouseId"`
	Quantity    int32 `json:"quantity"`
}

type ReleaseStockRequest struct {
	ReservationID int64 `json:"reservationId"`
}

type ReservationResponse struct {
	ReservationID int64     `json:"reservationId"`
	ExecutedAt    time.Time `json:"executedAt"`
}

type ReservationListResponse struct {
	ReservationID    int64     `json:"reservationId"`
	ProductID        int64     `json:"productId"`
	ProductName      string    `json:"productName,omitempty"`
	WarehouseID      int64     `json:"warehouseId"`
	WarehouseName    string    `json:"warehouseName,omitempty"`
	ReservedQuantity int32     `json:"reservedQuantity"`
	StatusID         int32     `json:"statusId"`
	ReservationDate  time.Time `json:"reservationDate"`
}

// adjustStock is the single mutation point for the stock aggregate. The row
// is taken FOR UPDATE (created first if the pair has never moved stock), so
// concurrent writers on the same (product, warehouse) key serialize here.
// Must run inside tx; callers roll the transaction back on error.
func (s *InventoryHandler) adjustStock(tx *gorm.DB, productID, warehouseID int64, availableDelta, reservedDelta int32) (*models.WarehouseStock, error) {
	stock := models.WarehouseStock{
		ProductID:   productID,
		WarehouseID: warehouseID,
	}
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		FirstOrCreate(&stock)
	if result.Error != nil {
		return nil, result.Error
	}

	newAvailable := stock.AvailableQuantity + availableDelta
	if newAvailable < 0 {
		return nil, &InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Available:   stock.AvailableQuantity,
			Requested:   -availableDelta,
		}
	}

	newReserved := stock.ReservedQuantity + reservedDelta
	if newReserved < 0 {
		return nil, consistencyFaultf("reserved quantity for product %d in warehouse %d would drop to %d",
			productID, warehouseID, newReserved)
	}

	stock.AvailableQuantity = newAvailable
	stock.ReservedQuantity = newReserved
	stock.UpdatedAt = time.Now()

	if err := tx.Save(&stock).Error; err != nil {
		return nil, err
	}

	return &stock, nil
}

// ReserveStock places a hold on available stock. The aggregate adjustment and
// the reservation row commit together; on insufficient stock nothing is
// written.
func (s *InventoryHandler) ReserveStock(ctx context.Context, req ReserveStockRequest) (*ReservationResponse, error) {
	if req.ProductID == 0 {
		return nil, validationErrorf("productId is required")
	}
	if req.WarehouseID == 0 {
		return nil, validationErrorf("warehouseId is required")
	}
	if req.Quantity <= 0 {
		return nil, validationErrorf("quantity must be greater than 0")
	}

	lock, err := s.lockStock(ctx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer releaseLock(ctx, lock)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if _, err := s.adjustStock(tx, req.ProductID, req.WarehouseID, -req.Quantity, req.Quantity); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	reservation := models.Reservation{
		ProductID:        req.ProductID,
		WarehouseID:      req.WarehouseID,
		ReservedQuantity: req.Quantity,
		StatusID:         models.ReservationStatusReserved,
		ReservationDate:  now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)
	s.log.WithFields(logrus.Fields{
		"reservationId": reservation.ID,
		"productId":     req.ProductID,
		"warehouseId":   req.WarehouseID,
		"quantity":      req.Quantity,
	}).Info("stock reserved")

	return &ReservationResponse{ReservationID: reservation.ID, ExecutedAt: now}, nil
}

// ReleaseStock returns a hold to available stock. Releasing a reservation
// that is already RELEASED or CONSUMED is a no-op, not an error.
func (s *InventoryHandler) ReleaseStock(ctx context.Context, req ReleaseStockRequest) (*ReservationResponse, error) {
	if req.ReservationID == 0 {
		return nil, validationErrorf("reservationId is required")
	}

	var reservation models.Reservation
	if err := s.db.First(&reservation, req.ReservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "reservation", ID: req.ReservationID}
		}
		return nil, err
	}

	now := time.Now()
	if reservation.StatusID != models.ReservationStatusReserved {
		return &ReservationResponse{ReservationID: reservation.ID, ExecutedAt: now}, nil
	}

	lock, err := s.lockStock(ctx, reservation.ProductID, reservation.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer releaseLock(ctx, lock)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Re-read under lock: a concurrent release or outbound may have already
	// terminated the hold.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, req.ReservationID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if reservation.StatusID != models.ReservationStatusReserved {
		tx.Rollback()
		return &ReservationResponse{ReservationID: reservation.ID, ExecutedAt: now}, nil
	}

	if _, err := s.adjustStock(tx, reservation.ProductID, reservation.WarehouseID,
		reservation.ReservedQuantity, -reservation.ReservedQuantity); err != nil {
		tx.Rollback()
		return nil, err
	}

	reservation.StatusID = models.ReservationStatusReleased
	reservation.UpdatedAt = now
	if err := tx.Save(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)
	s.log.WithFields(logrus.Fields{
		"reservationId": reservation.ID,
		"productId":     reservation.ProductID,
		"warehouseId":   reservation.WarehouseID,
		"quantity":      reservation.ReservedQuantity,
	}).Info("reservation released")

	return &ReservationResponse{ReservationID: reservation.ID, ExecutedAt: now}, nil
}

// ListReservations returns every reservation, terminal ones included, newest
// first, with product and warehouse names denormalized for display.
func (s *InventoryHandler) ListReservations(ctx context.Context) ([]ReservationListResponse, error) {
	var reservations []models.Reservation
	if err := s.db.Preload("Product").Preload("Warehouse").
		Where("is_deleted = ?", false).
		Order("reservation_date DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	result := make([]ReservationListResponse, len(reservations))
	for i, r := range reservations {
		item := ReservationListResponse{
			ReservationID:    r.ID,
			ProductID:        r.ProductID,
			WarehouseID:      r.WarehouseID,
			ReservedQuantity: r.ReservedQuantity,
			StatusID:         r.StatusID,
			ReservationDate:  r.ReservationDate,
		}
		if r.Product != nil {
			item.ProductName = r.Product.Name
		}
		if r.Warehouse != nil {
			item.WarehouseName = r.Warehouse.Name
		}
		result[i] = item
	}

	return result, nil
}
