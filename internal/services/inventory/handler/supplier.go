package handler

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"labstock-system/internal/database/models"
)

type SupplierRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type SupplierResponse struct {
	SupplierID int64     `json:"supplierId"`
	ExecutedAt time.Time `json:"executedAt"`
}

func (s *InventoryHandler) CreateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationErrorf("name is required")
	}

	now := time.Now()
	supplier := models.Supplier{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &SupplierResponse{SupplierID: supplier.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) UpdateSupplier(ctx context.Context, supplierID int64, req SupplierRequest) (*SupplierResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationErrorf("name is required")
	}

	var supplier models.Supplier
	if err := s.db.Where("id = ? AND is_deleted = ?", supplierID, false).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "supplier", ID: supplierID}
		}
		return nil, err
	}

	now := time.Now()
	supplier.Name = req.Name
	supplier.Description = req.Description
	supplier.UpdatedAt = now
	if err := s.db.Save(&supplier).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &SupplierResponse{SupplierID: supplier.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) DeleteSupplier(ctx context.Context, supplierID int64) (*SupplierResponse, error) {
	var supplier models.Supplier
	if err := s.db.Where("id = ? AND is_deleted = ?", supplierID, false).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "supplier", ID: supplierID}
		}
		return nil, err
	}

	now := time.Now()
	supplier.IsDeleted = true
	supplier.UpdatedAt = now
	if err := s.db.Save(&supplier).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &SupplierResponse{SupplierID: supplier.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if s.cacheGet(ctx, SUPPLIERS_CACHE_KEY, &suppliers) {
		return suppliers, nil
	}

	if err := s.db.Where("is_deleted = ?", false).Order("id").Find(&suppliers).Error; err != nil {
		return nil, err
	}

	s.cacheSet(ctx, SUPPLIERS_CACHE_KEY, suppliers, CACHE_TTL_MEDIUM)

	return suppliers, nil
}

func (s *InventoryHandler) GetSupplier(ctx context.Context, supplierID int64) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Where("id = ? AND is_deleted = ?", supplierID, false).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "supplier", ID: supplierID}
		}
		return nil, err
	}
	return &supplier, nil
}
