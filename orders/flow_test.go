package orders

import (
	"testing"

	"tokri/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func validRequest() OrderRequest {
	return OrderRequest{
		Items: []RequestItem{
			{ProductID: "p1234567890", Quantity: 2},
		},
		ShippingInfo: models.ShippingInfo{
			Name:    "Rahim Uddin",
			Phone:   "01712345678",
			Address: "House 1, Road 2, Dhanmondi",
			City:    "Dhaka",
		},
		PaymentMethod: "cod",
		TotalPrice:    1500,
	}
}

func TestValidateOrderRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateOrderRequest(validRequest()))
	})

	t.Run("no items", func(t *testing.T) {
		req := validRequest()
		req.Items = nil
		assert.ErrorIs(t, validateOrderRequest(req), ErrEmptyItems)
	})

	t.Run("item without any id", func(t *testing.T) {
		req := validRequest()
		req.Items[0].ProductID = ""
		err := validateOrderRequest(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product or variation id")
	})

	t.Run("variation id alone is enough", func(t *testing.T) {
		req := validRequest()
		req.Items[0].ProductID = ""
		req.Items[0].VariationID = "v1234567890"
		assert.NoError(t, validateOrderRequest(req))
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := validRequest()
		req.Items[0].Quantity = 0
		err := validateOrderRequest(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("negative quantity", func(t *testing.T) {
		req := validRequest()
		req.Items[0].Quantity = -3
		assert.Error(t, validateOrderRequest(req))
	})

	t.Run("missing shipping fields", func(t *testing.T) {
		for _, mutate := range []func(*OrderRequest){
			func(r *OrderRequest) { r.ShippingInfo.Name = "" },
			func(r *OrderRequest) { r.ShippingInfo.Phone = "" },
			func(r *OrderRequest) { r.ShippingInfo.Address = "" },
		} {
			req := validRequest()
			mutate(&req)
			assert.Error(t, validateOrderRequest(req))
		}
	})

	t.Run("non-positive total", func(t *testing.T) {
		req := validRequest()
		req.TotalPrice = 0
		assert.Error(t, validateOrderRequest(req))

		req.TotalPrice = -50
		assert.Error(t, validateOrderRequest(req))
	})

	t.Run("missing payment method", func(t *testing.T) {
		req := validRequest()
		req.PaymentMethod = ""
		assert.Error(t, validateOrderRequest(req))
	})
}

func TestReservationOps(t *testing.T) {
	product := resolvedItem{
		snapshot:      models.OrderItem{Name: "Cotton Panjabi", Quantity: 3},
		collectionKey: "productid",
		entityID:      "p1234567890",
	}
	variation := resolvedItem{
		snapshot:      models.OrderItem{Name: "Cotton Panjabi", Size: "L", Quantity: 1},
		collectionKey: "variationid",
		entityID:      "v1234567890",
	}

	t.Run("filter guards remaining stock", func(t *testing.T) {
		assert.Equal(t, bson.M{
			"productid": "p1234567890",
			"stock":     bson.M{"$gte": 3},
		}, reservationFilter(product))
		assert.Equal(t, bson.M{
			"variationid": "v1234567890",
			"stock":       bson.M{"$gte": 1},
		}, reservationFilter(variation))
	})

	t.Run("release mirrors reserve", func(t *testing.T) {
		assert.Equal(t, bson.M{"$inc": bson.M{"stock": -3}}, reservationUpdate(product))
		assert.Equal(t, bson.M{"$inc": bson.M{"stock": 3}}, releaseUpdate(product))
		assert.Equal(t, bson.M{"$inc": bson.M{"stock": -1}}, reservationUpdate(variation))
		assert.Equal(t, bson.M{"$inc": bson.M{"stock": 1}}, releaseUpdate(variation))
	})
}

func TestReservedBefore(t *testing.T) {
	items := []resolvedItem{
		{entityID: "p1"},
		{entityID: "p2"},
		{entityID: "p3"},
	}

	t.Run("first line failing rolls back nothing", func(t *testing.T) {
		assert.Empty(t, reservedBefore(items, 0))
	})

	t.Run("mid-request failure rolls back only applied lines", func(t *testing.T) {
		rolled := reservedBefore(items, 2)
		require.Len(t, rolled, 2)
		assert.Equal(t, "p1", rolled[0].entityID)
		assert.Equal(t, "p2", rolled[1].entityID)
	})
}

func TestCachedProductIDs(t *testing.T) {
	items := []resolvedItem{
		{collectionKey: "productid", entityID: "p1"},
		{collectionKey: "variationid", entityID: "v1"},
		{collectionKey: "productid", entityID: "p2"},
	}
	assert.Equal(t, []string{"p1", "p2"}, cachedProductIDs(items))
	assert.Empty(t, cachedProductIDs(nil))
}

func TestOrderTotal(t *testing.T) {
	items := []resolvedItem{
		{snapshot: models.OrderItem{UnitPrice: 500, Quantity: 2}},
		{snapshot: models.OrderItem{UnitPrice: 249.5, Quantity: 1}},
	}
	assert.Equal(t, 1249.5, orderTotal(items))
	assert.Equal(t, 0.0, orderTotal(nil))
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{Name: "Cotton Panjabi (L)", Requested: 3, Available: 1}
	assert.Equal(t, "insufficient stock for Cotton Panjabi (L): requested 3, available 1", err.Error())
}

func TestValidStatuses(t *testing.T) {
	for _, s := range []string{
		models.StatusPending, models.StatusProcessing, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled, models.StatusPaymentFailed,
		models.StatusPaid,
	} {
		assert.True(t, validStatuses[s], "status %q", s)
	}
	assert.False(t, validStatuses["Refunded"])
	assert.False(t, validStatuses["pending"])
}
