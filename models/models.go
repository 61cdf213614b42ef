package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses.
const (
	StatusPending       = "Pending"
	StatusProcessing    = "Processing"
	StatusShipped       = "Shipped"
	StatusDelivered     = "Delivered"
	StatusCancelled     = "Cancelled"
	StatusPaymentFailed = "Payment Failed"
	StatusPaid          = "Paid"
)

type Address struct {
	Label    string `bson:"label" json:"label"`
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	Postcode string `bson:"postcode" json:"postcode"`
	Phone    string `bson:"phone" json:"phone"`
}

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID        string             `bson:"userid" json:"userid"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Role          []string           `bson:"role" json:"role"`
	Addresses     []Address          `bson:"addresses" json:"addresses"`
	RefreshToken  string             `bson:"refresh_token,omitempty" json:"-"`
	RefreshExpiry time.Time          `bson:"refresh_expiry,omitempty" json:"-"`
	LastLogin     time.Time          `bson:"last_login,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID       string             `bson:"productid" json:"productid"`
	Name            string             `bson:"name" json:"name"`
	Slug            string             `bson:"slug" json:"slug"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	DiscountedPrice float64            `bson:"discounted_price,omitempty" json:"discounted_price,omitempty"`
	Images          []string           `bson:"images" json:"images"`
	Stock           int                `bson:"stock" json:"stock"`
	Categories      []string           `bson:"categories" json:"categories"`
	Featured        bool               `bson:"featured" json:"featured"`
	NewArrival      bool               `bson:"new_arrival" json:"new_arrival"`
	BestSelling     bool               `bson:"best_selling" json:"best_selling"`
	Active          bool               `bson:"active" json:"active"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// SalePrice is what a unit actually costs right now.
func (p Product) SalePrice() float64 {
	if p.DiscountedPrice > 0 && p.DiscountedPrice < p.Price {
		return p.DiscountedPrice
	}
	return p.Price
}

// Variation is a sized sub-SKU of a product with its own stock. Its stock is
// decremented independently of the parent product's stock.
type Variation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	VariationID string             `bson:"variationid" json:"variationid"`
	ProductID   string             `bson:"productid" json:"productid"`
	Size        string             `bson:"size" json:"size"`
	Stock       int                `bson:"stock" json:"stock"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
}

type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CategoryID string             `bson:"categoryid" json:"categoryid"`
	Name       string             `bson:"name" json:"name"`
	Slug       string             `bson:"slug" json:"slug"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Active     bool               `bson:"active" json:"active"`
}

type Slider struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SliderID string             `bson:"sliderid" json:"sliderid"`
	Title    string             `bson:"title" json:"title"`
	Subtitle string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image    string             `bson:"image" json:"image"`
	Link     string             `bson:"link,omitempty" json:"link,omitempty"`
	Order    int                `bson:"order" json:"order"`
	Active   bool               `bson:"active" json:"active"`
}

type Page struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PageID  string             `bson:"pageid" json:"pageid"`
	Title   string             `bson:"title" json:"title"`
	Slug    string             `bson:"slug" json:"slug"`
	Content string             `bson:"content" json:"content"`
	Active  bool               `bson:"active" json:"active"`
}

type CartItem struct {
	ProductID   string `bson:"productid" json:"productid"`
	VariationID string `bson:"variationid,omitempty" json:"variationid,omitempty"`
	Quantity    int    `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID string             `bson:"userid" json:"userid"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// OrderItem is a snapshot of the product at order time, not a live
// reference. Later catalog edits never alter what the order displays.
type OrderItem struct {
	ProductID   string  `bson:"productid" json:"productid"`
	VariationID string  `bson:"variationid,omitempty" json:"variationid,omitempty"`
	Name        string  `bson:"name" json:"name"`
	Size        string  `bson:"size,omitempty" json:"size,omitempty"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

type ShippingInfo struct {
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	Postcode string `bson:"postcode,omitempty" json:"postcode,omitempty"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID       string             `bson:"orderid" json:"orderid"`
	UserID        string             `bson:"userid,omitempty" json:"userid,omitempty"`
	Items         []OrderItem        `bson:"items" json:"items"`
	ShippingInfo  ShippingInfo       `bson:"shipping_info" json:"shipping_info"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	TotalPrice    float64            `bson:"total_price" json:"total_price"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

type Shipment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShipmentID         string             `bson:"shipmentid" json:"shipmentid"`
	OrderID            string             `bson:"orderid,omitempty" json:"orderid,omitempty"`
	Provider           string             `bson:"provider" json:"provider"`
	ProviderShipmentID string             `bson:"provider_shipment_id" json:"provider_shipment_id"`
	TrackingURL        string             `bson:"tracking_url,omitempty" json:"tracking_url,omitempty"`
	LabelURL           string             `bson:"label_url,omitempty" json:"label_url,omitempty"`
	Rate               float64            `bson:"rate" json:"rate"`
	Currency           string             `bson:"currency" json:"currency"`
	Status             string             `bson:"status" json:"status"`
	Metadata           map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	LastWebhookEventID string             `bson:"last_webhook_event_id,omitempty" json:"-"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

type IdempotencyRecord struct {
	Key         string         `bson:"key"`
	Method      string         `bson:"method"`
	Path        string         `bson:"path"`
	UserID      string         `bson:"user_id"`
	RequestHash string         `bson:"request_hash"`
	Response    map[string]any `bson:"response,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	ExpiresAt   time.Time      `bson:"expires_at"`
}

// Event rides the order-events Redis channel out to dashboard clients.
type Event struct {
	Type       string `json:"type"`
	EntityID   string `json:"entity_id"`
	Status     string `json:"status,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}
