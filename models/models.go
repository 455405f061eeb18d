package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer        = "CUSTOMER"
	RoleInventoryStaff  = "INVENTORY_STAFF"
	RoleDeliveryPartner = "DELIVERY_PARTNER"
)

// Payment statuses
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// User model
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `gorm:"type:varchar(20);not null;index" json:"role"`
	CityID    uint      `gorm:"index" json:"city_id"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// City rows are upserted by name at signup; the unique index makes the
// upsert deterministic.
type City struct {
	ID   uint   `gorm:"primaryKey" json:"city_id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// InventoryLocation is a dark store bound to a city.
type InventoryLocation struct {
	ID        uint      `gorm:"primaryKey" json:"location_id"`
	CityID    uint      `gorm:"index;not null" json:"city_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// DeliveryPartner extends a User with an availability status.
type DeliveryPartner struct {
	UserID    uuid.UUID     `gorm:"type:uuid;primaryKey" json:"user_id"`
	Status    PartnerStatus `gorm:"type:varchar(20);not null;default:'INACTIVE'" json:"status"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product catalog item. Stock is tracked per location in InventoryStock,
// never on the product row.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"product_id"`
	Name        string    `gorm:"not null" json:"product_name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

// InventoryStock holds the per-location counters. quantity_available must
// never go negative; writers use a conditional update and check the
// affected-row count.
type InventoryStock struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	ProductID         uint      `gorm:"uniqueIndex:idx_stock_product_location;not null" json:"product_id"`
	LocationID        uint      `gorm:"uniqueIndex:idx_stock_product_location;not null" json:"location_id"`
	QuantityAvailable int       `gorm:"not null;default:0" json:"quantity_available"`
	QuantityReserved  int       `gorm:"not null;default:0" json:"quantity_reserved"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"order_id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	LocationID      uint        `gorm:"not null;index" json:"location_id"`
	CityID          uint        `gorm:"not null;index" json:"city_id"`
	PartnerID       *uuid.UUID  `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'PLACED'" json:"status"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	DeliveryAddress string      `json:"delivery_address"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"-"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem lines are immutable once created.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal float64   `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

// DeliveryTracking mirrors order status for customer polling. One row per
// transition; the newest row is the current status.
type DeliveryTracking struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"last_updated"`
}

// Migrate function for auto migration
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&City{},
		&InventoryLocation{},
		&DeliveryPartner{},
		&Product{},
		&InventoryStock{},
		&Order{},
		&OrderItem{},
		&DeliveryTracking{},
	)
}
