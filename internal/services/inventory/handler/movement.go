package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labstock-system/internal/database/models"
)

type InboundRequest struct {
	ProductID             int64            `json:"productId"`
	WarehouseID           int64            `json:"warehouseId"`
	Quantity              int32            `json:"quantity"`
	ProductExpirationDate string           `json:"productExpirationDate"`
	PurchasePrice         *decimal.Decimal `json:"purchasePrice"`
}

type OutboundRequest struct {
	ProductID     int64  `json:"productId"`
	WarehouseID   int64  `json:"warehouseId"`
	Quantity      int32  `json:"quantity"`
	ReservationID *int64 `json:"reservationId,omitempty"`
}

type MovementResponse struct {
	MovementID int64     `json:"movementId"`
	ExecutedAt time.Time `json:"executedAt"`
}

type MonthlyStats struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	MonthName         string          `json:"monthName"`
	TotalInbound      int64           `json:"totalInbound"`
	TotalOutbound     int64           `json:"totalOutbound"`
	TotalPurchaseCost decimal.Decimal `json:"totalPurchaseCost"`
}

type ProductMovementStats struct {
	MonthlyStats []MonthlyStats `json:"monthlyStats"`
}

func parseExpirationDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// RecordInbound appends an ENTRY movement and credits available stock in one
// transaction.
func (s *InventoryHandler) RecordInbound(ctx context.Context, req InboundRequest) (*MovementResponse, error) {
	if req.ProductID == 0 {
		return nil, validationErrorf("productId is required")
	}
	if req.WarehouseID == 0 {
		return nil, validationErrorf("warehouseId is required")
	}
	if req.Quantity <= 0 {
		return nil, validationErrorf("quantity must be greater than 0")
	}
	if req.PurchasePrice == nil || !req.PurchasePrice.IsPositive() {
		return nil, validationErrorf("purchasePrice must be greater than 0")
	}
	if req.ProductExpirationDate == "" {
		return nil, validationErrorf("productExpirationDate is required")
	}
	expiration, err := parseExpirationDate(req.ProductExpirationDate)
	if err != nil {
		return nil, validationErrorf("productExpirationDate %q is not a valid date", req.ProductExpirationDate)
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

	now := time.Now()
	movement := models.InventoryMovement{
		MovementType:          models.MovementTypeEntry,
		MovementDate:          now,
		ProductID:             req.ProductID,
		WarehouseID:           req.WarehouseID,
		Quantity:              req.Quantity,
		ProductExpirationDate: &expiration,
		PurchasePrice:         req.PurchasePrice,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := s.adjustStock(tx, req.ProductID, req.WarehouseID, req.Quantity, 0); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)
	s.log.WithFields(logrus.Fields{
		"movementId":  movement.ID,
		"productId":   req.ProductID,
		"warehouseId": req.WarehouseID,
		"quantity":    req.Quantity,
	}).Info("inbound movement recorded")

	return &MovementResponse{MovementID: movement.ID, ExecutedAt: now}, nil
}

// RecordOutbound appends an EXIT movement. With a reservationId the hold is
// consumed instead of debiting available stock again: the quantity already
// left availableQuantity at reserve time, so only reservedQuantity drops.
// Without one, available stock is debited directly.
func (s *InventoryHandler) RecordOutbound(ctx context.Context, req OutboundRequest) (*MovementResponse, error) {
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

	now := time.Now()

	if req.ReservationID != nil {
		var reservation models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reservation, *req.ReservationID).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, &NotFoundError{Resource: "reservation", ID: *req.ReservationID}
			}
			return nil, err
		}
		if reservation.StatusID != models.ReservationStatusReserved {
			tx.Rollback()
			return nil, validationErrorf("reservation %d is not active", reservation.ID)
		}
		if reservation.ProductID != req.ProductID || reservation.WarehouseID != req.WarehouseID {
			tx.Rollback()
			return nil, validationErrorf("reservation %d does not match product %d in warehouse %d",
				reservation.ID, req.ProductID, req.WarehouseID)
		}
		if reservation.ReservedQuantity != req.Quantity {
			tx.Rollback()
			return nil, validationErrorf("reservation %d holds %d units, outbound of %d requires an exact match",
				reservation.ID, reservation.ReservedQuantity, req.Quantity)
		}

		reservation.StatusID = models.ReservationStatusConsumed
		reservation.UpdatedAt = now
		if err := tx.Save(&reservation).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if _, err := s.adjustStock(tx, req.ProductID, req.WarehouseID, 0, -req.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		if _, err := s.adjustStock(tx, req.ProductID, req.WarehouseID, -req.Quantity, 0); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	movement := models.InventoryMovement{
		MovementType:  models.MovementTypeExit,
		MovementDate:  now,
		ProductID:     req.ProductID,
		WarehouseID:   req.WarehouseID,
		Quantity:      req.Quantity,
		ReservationID: req.ReservationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)
	s.log.WithFields(logrus.Fields{
		"movementId":  movement.ID,
		"productId":   req.ProductID,
		"warehouseId": req.WarehouseID,
		"quantity":    req.Quantity,
	}).Info("outbound movement recorded")

	return &MovementResponse{MovementID: movement.ID, ExecutedAt: now}, nil
}

// ListMovements returns non-deleted ledger entries, most recent first.
func (s *InventoryHandler) ListMovements(ctx context.Context) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	if err := s.db.Preload("Product").Preload("Warehouse").
		Where("is_deleted = ?", false).
		Order("movement_date DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

type monthlyStatsRow struct {
	Month             int
	TotalInbound      int64
	TotalOutbound     int64
	TotalPurchaseCost decimal.Decimal
}

// MonthlyStats groups the ledger by calendar month for one year. Months with
// no activity are present with zero values so a chart over the response is
// always twelve points wide.
func (s *InventoryHandler) MonthlyStats(ctx context.Context, year int) (*ProductMovementStats, error) {
	if year <= 0 {
		return nil, validationErrorf("year must be a positive number")
	}

	var rows []monthlyStatsRow
	err := s.db.Raw(`
		SELECT
			EXTRACT(MONTH FROM movement_date)::int AS month,
			COALESCE(SUM(CASE WHEN movement_type = ? THEN quantity ELSE 0 END), 0) AS total_inbound,
			COALESCE(SUM(CASE WHEN movement_type = ? THEN quantity ELSE 0 END), 0) AS total_outbound,
			COALESCE(SUM(CASE WHEN movement_type = ? THEN purchase_price * quantity ELSE 0 END), 0) AS total_purchase_cost
		FROM inventory_movements
		WHERE is_deleted = false AND EXTRACT(YEAR FROM movement_date) = ?
		GROUP BY 1
		ORDER BY 1`,
		models.MovementTypeEntry, models.MovementTypeExit, models.MovementTypeEntry, year,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]monthlyStatsRow, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	stats := make([]MonthlyStats, 12)
	for m := 1; m <= 12; m++ {
		entry := MonthlyStats{
			Year:              year,
			Month:             m,
			MonthName:         time.Month(m).String(),
			TotalPurchaseCost: decimal.Zero,
		}
		if row, ok := byMonth[m]; ok {
			entry.TotalInbound = row.TotalInbound
			entry.TotalOutbound = row.TotalOutbound
			entry.TotalPurchaseCost = row.TotalPurchaseCost
		}
		stats[m-1] = entry
	}

	return &ProductMovementStats{MonthlyStats: stats}, nil
}
