package shipments

import (
	"testing"

	"tokri/courier"
	"tokri/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildFromOrder(t *testing.T) {
	order := models.Order{
		OrderID:    "o123456789012",
		TotalPrice: 1850,
		Status:     models.StatusPending,
		Items: []models.OrderItem{
			{Quantity: 2},
			{Quantity: 1},
		},
		ShippingInfo: models.ShippingInfo{
			Name:    "Salma Khatun",
			Phone:   "01912345678",
			Address: "Agrabad, Chattogram",
			City:    "Chattogram",
		},
	}

	payload := buildFromOrder(order)
	assert.Equal(t, "o123456789012", payload.Invoice)
	assert.Equal(t, "Salma Khatun", payload.RecipientName)
	assert.Equal(t, "01912345678", payload.RecipientPhone)
	assert.Equal(t, "Agrabad, Chattogram", payload.RecipientAddress)
	assert.Equal(t, "Chattogram", payload.RecipientCity)
	assert.Equal(t, 1850.0, payload.CODAmount)
	assert.Equal(t, 3, payload.Quantity)
}

func TestBuildFromOrderPrepaidCollectsNothing(t *testing.T) {
	order := models.Order{
		OrderID:    "o1",
		TotalPrice: 900,
		Status:     models.StatusPaid,
		ShippingInfo: models.ShippingInfo{
			Name: "A", Phone: "01712345678", Address: "X",
		},
	}
	assert.Equal(t, 0.0, buildFromOrder(order).CODAmount)
}

func TestValidatePayload(t *testing.T) {
	valid := courier.ShipmentRequest{
		Invoice:          "o1",
		RecipientName:    "Rahim",
		RecipientPhone:   "01712345678",
		RecipientAddress: "House 1, Road 2",
		CODAmount:        500,
	}
	assert.NoError(t, validatePayload(valid))

	t.Run("missing invoice", func(t *testing.T) {
		p := valid
		p.Invoice = ""
		assert.Error(t, validatePayload(p))
	})

	t.Run("missing name", func(t *testing.T) {
		p := valid
		p.RecipientName = ""
		assert.Error(t, validatePayload(p))
	})

	t.Run("missing address", func(t *testing.T) {
		p := valid
		p.RecipientAddress = ""
		assert.Error(t, validatePayload(p))
	})

	t.Run("bad phone", func(t *testing.T) {
		p := valid
		p.RecipientPhone = "+8801712345678"
		assert.Error(t, validatePayload(p))
	})

	t.Run("negative cod", func(t *testing.T) {
		p := valid
		p.CODAmount = -1
		assert.Error(t, validatePayload(p))
	})

	t.Run("zero cod is fine", func(t *testing.T) {
		p := valid
		p.CODAmount = 0
		assert.NoError(t, validatePayload(p))
	})
}

func TestMapDeliveryStatus(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"delivered", models.StatusDelivered, true},
		{"Delivered", models.StatusDelivered, true},
		{"cancelled", models.StatusCancelled, true},
		{"returned", models.StatusCancelled, true},
		{"in_review", "", false},
		{"on_the_way", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := mapDeliveryStatus(tc.in)
		assert.Equal(t, tc.wantOK, ok, "status %q", tc.in)
		assert.Equal(t, tc.want, got, "status %q", tc.in)
	}
}

func TestStringish(t *testing.T) {
	assert.Equal(t, "abc", stringish("abc"))
	assert.Equal(t, "12345", stringish(12345.0))
	assert.Equal(t, "12.5", stringish(12.5))
	assert.Equal(t, "", stringish(nil))
	assert.Equal(t, "", stringish(true))
}
