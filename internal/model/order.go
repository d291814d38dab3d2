package model

import (
	"time"
)

// Order is a purchase of one or more products. TotalAmount always equals the
// sum of the items' TotalPrice.
type Order struct {
	ID              uint          `json:"id" gorm:"primarykey"`
	UserID          uint          `json:"user_id" gorm:"index;not null"`
	OrderNumber     string        `json:"order_number" gorm:"type:varchar(50);unique;not null"`
	TotalAmount     float64       `json:"total_amount" gorm:"not null"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	PaymentMethod   string        `json:"payment_method" gorm:"type:varchar(50)"`
	ShippingAddress string        `json:"shipping_address" gorm:"type:text"`
	BillingAddress  string        `json:"billing_address" gorm:"type:text"`
	Notes           string        `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is a line of an order. UnitPrice is a snapshot of the product
// price at order time and never changes afterwards.
type OrderItem struct {
	ID         uint    `json:"id" gorm:"primarykey"`
	OrderID    uint    `json:"order_id" gorm:"index;not null"`
	ProductID  uint    `json:"product_id" gorm:"index;not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	UnitPrice  float64 `json:"unit_price" gorm:"not null"`
	TotalPrice float64 `json:"total_price" gorm:"not null"`
}
