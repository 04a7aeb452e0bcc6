package model

import "time"

type OrderStatus string

const (
	OrderPending             OrderStatus = "pending"
	OrderConfirmed           OrderStatus = "confirmed"
	OrderProcessing          OrderStatus = "processing"
	OrderShipped             OrderStatus = "shipped"
	OrderDelivered           OrderStatus = "delivered"
	OrderCancelled           OrderStatus = "cancelled"
	OrderConsultationPending OrderStatus = "consultation_pending"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order represents a row in the orders table. Tax amounts are two separate
// numeric columns; total_amount = sum(line totals) + vat + service tax.
type Order struct {
	OrderID          int64         `json:"orderid"`
	OrderNumber      string        `json:"ordernumber"`
	IdempotencyKey   string        `json:"-"`
	CustomerID       int64         `json:"customerid"`
	CustomerName     string        `json:"customername"`
	CustomerEmail    string        `json:"customeremail"`
	CustomerPhone    string        `json:"customerphone"`
	Address          string        `json:"address,omitempty"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentstatus"`
	IsConsultation   bool          `json:"isconsultation"`
	Subtotal         float64       `json:"subtotal"`
	VATAmount        float64       `json:"vatamount"`
	ServiceTaxAmount float64       `json:"servicetaxamount"`
	TotalAmount      float64       `json:"totalamount"`
	ServiceDate      time.Time     `json:"servicedate"`
	ServiceTime      string        `json:"servicetime"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// OrderItem snapshots the product at order time so later catalog edits do
// not rewrite historical orders.
type OrderItem struct {
	OrderItemID  int64           `json:"orderitemid"`
	OrderID      int64           `json:"orderid"`
	ProductID    int64           `json:"productid"`
	ProductName  string          `json:"productname"`
	ProductImage string          `json:"productimage,omitempty"`
	ProductSKU   string          `json:"productsku,omitempty"`
	VariantTitle string          `json:"varianttitle,omitempty"` // "Size: Large, Color: Blue"
	Quantity     int             `json:"quantity"`
	UnitPrice    float64         `json:"unitprice"`
	LineTotal    float64         `json:"linetotal"`
	Addons       []SelectedAddon `json:"addons,omitempty"`
}

// OrderConfirmation is returned to the client after a successful checkout.
type OrderConfirmation struct {
	OrderID     int64   `json:"orderid"`
	OrderNumber string  `json:"ordernumber"`
	Status      string  `json:"status"`
	Total       float64 `json:"total"`
	Idempotent  bool    `json:"idempotent"`
}
