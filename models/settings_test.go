package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPathao() *PathaoConfig {
	return &PathaoConfig{
		BaseURL:      "https://api-hermes.pathao.com",
		ClientID:     "cid",
		ClientSecret: "csecret",
		Username:     "merchant@example.com",
		Password:     "pw",
		StoreID:      1,
	}
}

func validSteadfast() *SteadfastConfig {
	return &SteadfastConfig{
		BaseURLs:  []string{"https://portal.packzy.com/api/v1"},
		APIKey:    "key",
		SecretKey: "secret",
	}
}

func TestCourierConfigValidate(t *testing.T) {
	t.Run("pathao ok", func(t *testing.T) {
		cfg := CourierConfig{Name: "pathao", Pathao: validPathao()}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("pathao member missing", func(t *testing.T) {
		cfg := CourierConfig{Name: "pathao"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("pathao incomplete credentials", func(t *testing.T) {
		p := validPathao()
		p.ClientSecret = ""
		cfg := CourierConfig{Name: "pathao", Pathao: p}
		assert.Error(t, cfg.Validate())
	})

	t.Run("steadfast ok", func(t *testing.T) {
		cfg := CourierConfig{Name: "steadfast", Steadfast: validSteadfast()}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("steadfast no base urls", func(t *testing.T) {
		s := validSteadfast()
		s.BaseURLs = nil
		cfg := CourierConfig{Name: "steadfast", Steadfast: s}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider name", func(t *testing.T) {
		cfg := CourierConfig{Name: "redx"}
		assert.Error(t, cfg.Validate())
	})
}

func TestPaymentMethodConfigValidate(t *testing.T) {
	t.Run("cod needs nothing", func(t *testing.T) {
		cfg := PaymentMethodConfig{Name: "cod"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sslcommerz ok", func(t *testing.T) {
		cfg := PaymentMethodConfig{Name: "sslcommerz", SSLCommerz: &SSLCommerzConfig{
			BaseURL:   "https://sandbox.sslcommerz.com",
			StoreID:   "store",
			StorePass: "pass",
		}}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sslcommerz member missing", func(t *testing.T) {
		cfg := PaymentMethodConfig{Name: "sslcommerz"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("sslcommerz incomplete credentials", func(t *testing.T) {
		cfg := PaymentMethodConfig{Name: "sslcommerz", SSLCommerz: &SSLCommerzConfig{
			BaseURL: "https://sandbox.sslcommerz.com",
		}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown method name", func(t *testing.T) {
		cfg := PaymentMethodConfig{Name: "bkash"}
		assert.Error(t, cfg.Validate())
	})
}

func TestProductSalePrice(t *testing.T) {
	assert.Equal(t, 800.0, Product{Price: 1000, DiscountedPrice: 800}.SalePrice())
	assert.Equal(t, 1000.0, Product{Price: 1000}.SalePrice())
	assert.Equal(t, 1000.0, Product{Price: 1000, DiscountedPrice: 1200}.SalePrice())
	assert.Equal(t, 1000.0, Product{Price: 1000, DiscountedPrice: 0}.SalePrice())
}
