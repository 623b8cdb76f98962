package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labstock-system/internal/services/inventory/handler"
)

// Product endpoints

func (s *InventoryHTTPHandler) CreateProduct(c *gin.Context) {
	var req handler.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var req handler.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	resp, err := s.svc.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ListProducts(c *gin.Context) {
	products, err := s.svc.ListProducts(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (s *InventoryHTTPHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	product, err := s.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *InventoryHTTPHandler) GetProductAvailability(c *gin.Context) {
	availability, err := s.svc.GetAvailability(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

func (s *InventoryHTTPHandler) GetProductStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	resp, err := s.svc.GetProductStock(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Supplier endpoints

func (s *InventoryHTTPHandler) CreateSupplier(c *gin.Context) {
	var req handler.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) UpdateSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid supplier ID"})
		return
	}

	var req handler.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) DeleteSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid supplier ID"})
		return
	}

	resp, err := s.svc.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := s.svc.ListSuppliers(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

func (s *InventoryHTTPHandler) GetSupplier(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid supplier ID"})
		return
	}

	supplier, err := s.svc.GetSupplier(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// Warehouse endpoints

func (s *InventoryHTTPHandler) CreateWarehouse(c *gin.Context) {
	var req handler.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) UpdateWarehouse(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid warehouse ID"})
		return
	}

	var req handler.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.UpdateWarehouse(c.Request.Context(), id, req)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) DeleteWarehouse(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid warehouse ID"})
		return
	}

	resp, err := s.svc.DeleteWarehouse(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *InventoryHTTPHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := s.svc.ListWarehouses(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, warehouses)
}

func (s *InventoryHTTPHandler) GetWarehouse(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid warehouse ID"})
		return
	}

	warehouse, err := s.svc.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		s.error(c, err)
		return
	}

	c.JSON(http.StatusOK, warehouse)
}
