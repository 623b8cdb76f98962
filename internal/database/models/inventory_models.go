package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MovementTypeEntry = "ENTRY"
	MovementTypeExit  = "EXIT"
)

const (
	ReservationStatusReserved int32 = 1
	ReservationStatusReleased int32 = 2
	ReservationStatusConsumed int32 = 3
)

type Supplier struct {
	ID          int64     `gorm:"primaryKey" json:"supplierId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"size:255" json:"description,omitempty"`
	IsDeleted   bool      `gorm:"default:false" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Products []Product `gorm:"foreignKey:SupplierID" json:"-"`
}

type Product struct {
	ID                  int64            `gorm:"primaryKey" json:"productId"`
	Name                string           `gorm:"size:255;not null" json:"name"`
	Description         *string          `gorm:"size:255" json:"description,omitempty"`
	CommonPurchasePrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"commonPurchasePrice,omitempty"`
	RegularSalePrice    *decimal.Decimal `gorm:"type:numeric(12,2)" json:"regularSalePrice,omitempty"`
	MaxSalePrice        *decimal.Decimal `gorm:"type:numeric(12,2)" json:"maxSalePrice,omitempty"`
	MinSalePrice        *decimal.Decimal `gorm:"type:numeric(12,2)" json:"minSalePrice,omitempty"`
	SupplierID          *int64           `json:"supplierId,omitempty"`
	IsActive            bool             `gorm:"default:true" json:"isActive"`
	IsDeleted           bool             `gorm:"default:false" json:"isDeleted"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

type Warehouse struct {
	ID        int64     `gorm:"primaryKey" json:"warehouseId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	IsDeleted bool      `gorm:"default:false" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Stocks []WarehouseStock `gorm:"foreignKey:WarehouseID" json:"-"`
}

// WarehouseStock is the materialized per-(product,warehouse) aggregate.
// AvailableQuantity must always equal the ledger balance minus active
// reservations for the pair and never goes negative.
type WarehouseStock struct {
	ID                int64     `gorm:"primaryKey" json:"stockId"`
	ProductID         int64     `gorm:"uniqueIndex:idx_stock_product_warehouse" json:"productId"`
	WarehouseID       int64     `gorm:"uniqueIndex:idx_stock_product_warehouse" json:"warehouseId"`
	AvailableQuantity int32     `gorm:"default:0" json:"availableQuantity"`
	ReservedQuantity  int32     `gorm:"default:0" json:"reservedQuantity"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

type Reservation struct {
	ID               int64     `gorm:"primaryKey" json:"reservationId"`
	ProductID        int64     `gorm:"index" json:"productId"`
	WarehouseID      int64     `gorm:"index" json:"warehouseId"`
	ReservedQuantity int32     `gorm:"not null" json:"reservedQuantity"`
	StatusID         int32     `gorm:"not null;default:1" json:"statusId"`
	ReservationDate  time.Time `gorm:"index" json:"reservationDate"`
	IsDeleted        bool      `gorm:"default:false" json:"isDeleted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// InventoryMovement is an append-only ledger row. Rows are never updated or
// physically removed; IsDeleted only suppresses them from audit listings.
type InventoryMovement struct {
	ID                    int64            `gorm:"primaryKey" json:"movementId"`
	MovementType          string           `gorm:"size:10;not null" json:"movementType"`
	MovementDate          time.Time        `gorm:"index" json:"movementDate"`
	ProductID             int64            `gorm:"index" json:"productId"`
	WarehouseID           int64            `gorm:"index" json:"warehouseId"`
	Quantity              int32            `gorm:"not null" json:"quantity"`
	ProductExpirationDate *time.Time       `json:"productExpirationDate,omitempty"`
	PurchasePrice         *decimal.Decimal `gorm:"type:numeric(12,2)" json:"purchasePrice,omitempty"`
	ReservationID         *int64           `json:"reservationId,omitempty"`
	IsDeleted             bool             `gorm:"default:false" json:"isDeleted"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`

	Product     *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Warehouse   *Warehouse   `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}

func MigrateInventoryDB(db *gorm.DB) error {
	db.AutoMigrate(&Supplier{})
	db.AutoMigrate(&Product{})
	db.AutoMigrate(&Warehouse{})
	db.AutoMigrate(&WarehouseStock{})
	db.AutoMigrate(&Reservation{})
	db.AutoMigrate(&InventoryMovement{})
	return nil
}
