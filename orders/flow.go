package orders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tokri/db"
	"tokri/models"
	"tokri/products"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrEmptyItems = errors.New("order has no items")

// InsufficientStockError names the entity that could not cover the
// requested quantity.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// RequestItem is one line of an incoming order request.
type RequestItem struct {
	ProductID   string  `json:"productid"`
	VariationID string  `json:"variationid,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderRequest struct {
	Items         []RequestItem       `json:"items"`
	ShippingInfo  models.ShippingInfo `json:"shipping_info"`
	PaymentMethod string              `json:"payment_method"`
	TotalPrice    float64             `json:"total_price"`
}

// validateOrderRequest rejects structurally bad requests before anything is
// read or written.
func validateOrderRequest(req OrderRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.ProductID == "" && item.VariationID == "" {
			return fmt.Errorf("item %d: product or variation id is required", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1", i)
		}
	}
	if req.ShippingInfo.Name == "" || req.ShippingInfo.Phone == "" || req.ShippingInfo.Address == "" {
		return errors.New("shipping name, phone and address are required")
	}
	if req.TotalPrice <= 0 {
		return errors.New("total price must be a positive number")
	}
	if req.PaymentMethod == "" {
		return errors.New("payment method is required")
	}
	return nil
}

// resolvedItem carries the snapshot plus what reserveStock needs to touch.
type resolvedItem struct {
	snapshot models.OrderItem
	// variation orders decrement the variation document only; product and
	// variation stock are deliberately independent.
	collectionKey string // "productid" or "variationid"
	entityID      string
}

// resolveItems looks up every referenced product/variation and fails the
// whole request before any mutation when a reference is missing or stock is
// short. The check here is advisory; reserveStock re-checks atomically.
func resolveItems(ctx context.Context, items []RequestItem) ([]resolvedItem, error) {
	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		if item.VariationID != "" {
			var variation models.Variation
			err := db.VariationCollection.FindOne(ctx, bson.M{"variationid": item.VariationID}).Decode(&variation)
			if err != nil {
				return nil, fmt.Errorf("variation %s not found", item.VariationID)
			}

			var product models.Product
			err = db.ProductCollection.FindOne(ctx, bson.M{"productid": variation.ProductID}).Decode(&product)
			if err != nil {
				return nil, fmt.Errorf("product %s not found", variation.ProductID)
			}

			if variation.Stock < item.Quantity {
				return nil, &InsufficientStockError{
					Name:      product.Name + " (" + variation.Size + ")",
					Requested: item.Quantity,
					Available: variation.Stock,
				}
			}

			price := variation.Price
			if price <= 0 {
				price = product.SalePrice()
			}

			resolved = append(resolved, resolvedItem{
				snapshot: models.OrderItem{
					ProductID:   variation.ProductID,
					VariationID: variation.VariationID,
					Name:        product.Name,
					Size:        variation.Size,
					UnitPrice:   price,
					Quantity:    item.Quantity,
				},
				collectionKey: "variationid",
				entityID:      variation.VariationID,
			})
			continue
		}

		var product models.Product
		err := db.ProductCollection.FindOne(ctx, bson.M{"productid": item.ProductID}).Decode(&product)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}

		if product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				Name:      product.Name,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}

		resolved = append(resolved, resolvedItem{
			snapshot: models.OrderItem{
				ProductID: product.ProductID,
				Name:      product.Name,
				UnitPrice: product.SalePrice(),
				Quantity:  item.Quantity,
			},
			collectionKey: "productid",
			entityID:      product.ProductID,
		})
	}
	return resolved, nil
}

// reservationFilter matches the entity only while its stock still covers the
// quantity, so the check and the decrement are one write.
func reservationFilter(item resolvedItem) bson.M {
	return bson.M{item.collectionKey: item.entityID, "stock": bson.M{"$gte": item.snapshot.Quantity}}
}

func reservationUpdate(item resolvedItem) bson.M {
	return bson.M{"$inc": bson.M{"stock": -item.snapshot.Quantity}}
}

func releaseUpdate(item resolvedItem) bson.M {
	return bson.M{"$inc": bson.M{"stock": item.snapshot.Quantity}}
}

// reservedBefore selects the items whose decrements were already applied when
// the line at failed hit an error. The failing line itself never decremented.
func reservedBefore(items []resolvedItem, failed int) []resolvedItem {
	return items[:failed]
}

// cachedProductIDs lists the product documents a reservation touches. Their
// cached copies go stale the moment stock moves and must be dropped.
// Variation stock is not cached.
func cachedProductIDs(items []resolvedItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.collectionKey == "productid" {
			ids = append(ids, item.entityID)
		}
	}
	return ids
}

func stockCollection(item resolvedItem) *mongo.Collection {
	if item.collectionKey == "variationid" {
		return db.VariationCollection
	}
	return db.ProductCollection
}

// currentStock re-reads the document after a failed conditional decrement so
// the error reports what is actually left, not what the advisory pre-check
// saw.
func currentStock(ctx context.Context, item resolvedItem) int {
	var doc struct {
		Stock int `bson:"stock"`
	}
	if err := stockCollection(item).FindOne(ctx, bson.M{item.collectionKey: item.entityID}).Decode(&doc); err != nil {
		return 0
	}
	return doc.Stock
}

// reserveStock decrements each referenced stock with a conditional update
// (stock must still cover the quantity at write time). If a later line
// fails, every decrement already applied in this request is rolled back
// before the error is returned, so one losing request never strands
// reserved stock.
func reserveStock(ctx context.Context, items []resolvedItem) error {
	for i, item := range items {
		result, err := stockCollection(item).UpdateOne(ctx, reservationFilter(item), reservationUpdate(item))
		if err == nil && result.MatchedCount == 0 {
			err = &InsufficientStockError{
				Name:      item.snapshot.Name,
				Requested: item.snapshot.Quantity,
				Available: currentStock(ctx, item),
			}
		}
		if err != nil {
			releaseStock(ctx, reservedBefore(items, i))
			return err
		}
	}

	for _, id := range cachedProductIDs(items) {
		products.InvalidateCache(id)
	}
	return nil
}

// releaseStock undoes decrements from a partially reserved request.
func releaseStock(ctx context.Context, items []resolvedItem) {
	for _, item := range items {
		_, err := stockCollection(item).UpdateOne(ctx,
			bson.M{item.collectionKey: item.entityID}, releaseUpdate(item))
		if err != nil {
			log.Printf("orders: failed to release %d units of %s: %v", item.snapshot.Quantity, item.entityID, err)
		}
	}

	for _, id := range cachedProductIDs(items) {
		products.InvalidateCache(id)
	}
}

func orderTotal(items []resolvedItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.snapshot.UnitPrice * float64(item.snapshot.Quantity)
	}
	return total
}
