package handler

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"labstock-system/internal/database/models"
)

type WarehouseRequest struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

type WarehouseResponse struct {
	WarehouseID int64     `json:"warehouseId"`
	ExecutedAt  time.Time `json:"executedAt"`
}

func (s *InventoryHandler) CreateWarehouse(ctx context.Context, req WarehouseRequest) (*WarehouseResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationErrorf("name is required")
	}

	now := time.Now()
	warehouse := models.Warehouse{
		Name:      req.Name,
		Location:  req.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&warehouse).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &WarehouseResponse{WarehouseID: warehouse.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) UpdateWarehouse(ctx context.Context, warehouseID int64, req WarehouseRequest) (*WarehouseResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationErrorf("name is required")
	}

	var warehouse models.Warehouse
	if err := s.db.Where("id = ? AND is_deleted = ?", warehouseID, false).First(&warehouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "warehouse", ID: warehouseID}
		}
		return nil, err
	}

	now := time.Now()
	warehouse.Name = req.Name
	warehouse.Location = req.Location
	warehouse.UpdatedAt = now
	if err := s.db.Save(&warehouse).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &WarehouseResponse{WarehouseID: warehouse.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) DeleteWarehouse(ctx context.Context, warehouseID int64) (*WarehouseResponse, error) {
	var warehouse models.Warehouse
	if err := s.db.Where("id = ? AND is_deleted = ?", warehouseID, false).First(&warehouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "warehouse", ID: warehouseID}
		}
		return nil, err
	}

	now := time.Now()
	warehouse.IsDeleted = true
	warehouse.UpdatedAt = now
	if err := s.db.Save(&warehouse).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &WarehouseResponse{WarehouseID: warehouse.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if s.cacheGet(ctx, WAREHOUSES_CACHE_KEY, &warehouses) {
		return warehouses, nil
	}

	if err := s.db.Where("is_deleted = ?", false).Order("id").Find(&warehouses).Error; err != nil {
		return nil, err
	}

	s.cacheSet(ctx, WAREHOUSES_CACHE_KEY, warehouses, CACHE_TTL_MEDIUM)

	return warehouses, nil
}

func (s *InventoryHandler) GetWarehouse(ctx context.Context, warehouseID int64) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := s.db.Where("id = ? AND is_deleted = ?", warehouseID, false).First(&warehouse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "warehouse", ID: warehouseID}
		}
		return nil, err
	}
	return &warehouse, nil
}
