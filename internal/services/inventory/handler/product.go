package handler

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"labstock-system/internal/database/models"
)

type ProductRequest struct {
	Name                string           `json:"name"`
	Description         *string          `json:"description"`
	CommonPurchasePrice *decimal.Decimal `json:"commonPurchasePrice"`
	RegularSalePrice    *decimal.Decimal `json:"regularSalePrice"`
	MaxSalePrice        *decimal.Decimal `json:"maxSalePrice"`
	MinSalePrice        *decimal.Decimal `json:"minSalePrice"`
	SupplierID          *int64           `json:"supplierId"`
	IsActive            bool             `json:"isActive"`
}

type ProductResponse struct {
	ProductID  int64     `json:"productId"`
	ExecutedAt time.Time `json:"executedAt"`
}

type ProductAvailabilityResponse struct {
	ProductID      int64  `json:"productId"`
	ProductName    string `json:"productName,omitempty"`
	TotalAvailable int64  `json:"totalAvailable"`
}

type ProductStockResponse struct {
	ProductID      int64     `json:"productId"`
	ExecutedAt     time.Time `json:"executedAt"`
	TotalAvailable int64     `json:"totalAvailable"`
}

func validateProductRequest(req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return validationErrorf("name is required")
	}
	if req.MinSalePrice != nil && req.RegularSalePrice != nil && req.MaxSalePrice != nil {
		if req.MinSalePrice.GreaterThan(*req.RegularSalePrice) || req.RegularSalePrice.GreaterThan(*req.MaxSalePrice) {
			return validationErrorf("sale prices must satisfy minSalePrice <= regularSalePrice <= maxSalePrice")
		}
	}
	return nil
}

func (s *InventoryHandler) supplierExists(supplierID int64) error {
	var supplier models.Supplier
	if err := s.db.Where("id = ? AND is_deleted = ?", supplierID, false).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Resource: "supplier", ID: supplierID}
		}
		return err
	}
	return nil
}

func (s *InventoryHandler) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	if err := validateProductRequest(&req); err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		if err := s.supplierExists(*req.SupplierID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := models.Product{
		Name:                req.Name,
		Description:         req.Description,
		CommonPurchasePrice: req.CommonPurchasePrice,
		RegularSalePrice:    req.RegularSalePrice,
		MaxSalePrice:        req.MaxSalePrice,
		MinSalePrice:        req.MinSalePrice,
		SupplierID:          req.SupplierID,
		IsActive:            req.IsActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &ProductResponse{ProductID: product.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) UpdateProduct(ctx context.Context, productID int64, req ProductRequest) (*ProductResponse, error) {
	if err := validateProductRequest(&req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.Where("id = ? AND is_deleted = ?", productID, false).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "product", ID: productID}
		}
		return nil, err
	}

	if req.SupplierID != nil {
		if err := s.supplierExists(*req.SupplierID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product.Name = req.Name
	product.Description = req.Description
	product.CommonPurchasePrice = req.CommonPurchasePrice
	product.RegularSalePrice = req.RegularSalePrice
	product.MaxSalePrice = req.MaxSalePrice
	product.MinSalePrice = req.MinSalePrice
	product.SupplierID = req.SupplierID
	product.IsActive = req.IsActive
	product.UpdatedAt = now

	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &ProductResponse{ProductID: product.ID, ExecutedAt: now}, nil
}

// DeleteProduct soft-deletes: the row stays for ledger references and audit.
func (s *InventoryHandler) DeleteProduct(ctx context.Context, productID int64) (*ProductResponse, error) {
	var product models.Product
	if err := s.db.Where("id = ? AND is_deleted = ?", productID, false).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "product", ID: productID}
		}
		return nil, err
	}

	now := time.Now()
	product.IsDeleted = true
	product.UpdatedAt = now
	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}

	s.InvalidateInventoryCaches(ctx)

	return &ProductResponse{ProductID: product.ID, ExecutedAt: now}, nil
}

func (s *InventoryHandler) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.cacheGet(ctx, PRODUCTS_CACHE_KEY, &products) {
		return products, nil
	}

	if err := s.db.Preload("Supplier").
		Where("is_deleted = ?", false).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}

	s.cacheSet(ctx, PRODUCTS_CACHE_KEY, products, CACHE_TTL_SHORT)

	return products, nil
}

func (s *InventoryHandler) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Supplier").
		Where("id = ? AND is_deleted = ?", productID, false).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "product", ID: productID}
		}
		return nil, err
	}
	return &product, nil
}

// GetAvailability sums available stock across warehouses for every
// non-deleted product. Products that never moved stock report zero.
func (s *InventoryHandler) GetAvailability(ctx context.Context) ([]ProductAvailabilityResponse, error) {
	var availability []ProductAvailabilityResponse
	if s.cacheGet(ctx, AVAILABILITY_CACHE_KEY, &availability) {
		return availability, nil
	}

	err := s.db.Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			COALESCE(SUM(ws.available_quantity), 0) AS total_available
		FROM products p
		LEFT JOIN warehouse_stocks ws ON ws.product_id = p.id
		WHERE p.is_deleted = false
		GROUP BY p.id, p.name
		ORDER BY p.id`).Scan(&availability).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, AVAILABILITY_CACHE_KEY, availability, CACHE_TTL_SHORT)

	return availability, nil
}

func (s *InventoryHandler) GetProductStock(ctx context.Context, productID int64) (*ProductStockResponse, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	var totalAvailable int64
	err := s.db.Model(&models.WarehouseStock{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(available_quantity), 0)").
		Scan(&totalAvailable).Error
	if err != nil {
		return nil, err
	}

	return &ProductStockResponse{
		ProductID:      productID,
		ExecutedAt:     time.Now(),
		TotalAvailable: totalAvailable,
	}, nil
}
