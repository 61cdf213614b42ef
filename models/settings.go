package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PathaoConfig is the token-based courier credential set.
type PathaoConfig struct {
	BaseURL      string `bson:"base_url" json:"base_url"`
	ClientID     string `bson:"client_id" json:"client_id"`
	ClientSecret string `bson:"client_secret" json:"client_secret"`
	Username     string `bson:"username" json:"username"`
	Password     string `bson:"password" json:"password"`
	StoreID      int    `bson:"store_id" json:"store_id"`
}

func (c PathaoConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("pathao: base_url is required")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("pathao: client_id and client_secret are required")
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("pathao: username and password are required")
	}
	return nil
}

// SteadfastConfig is the static key-pair courier credential set.
type SteadfastConfig struct {
	// BaseURLs are tried in order; the next one is used only when the
	// request itself fails.
	BaseURLs  []string `bson:"base_urls" json:"base_urls"`
	APIKey    string   `bson:"api_key" json:"api_key"`
	SecretKey string   `bson:"secret_key" json:"secret_key"`
}

func (c SteadfastConfig) Validate() error {
	if len(c.BaseURLs) == 0 {
		return errors.New("steadfast: at least one base_url is required")
	}
	if c.APIKey == "" || c.SecretKey == "" {
		return errors.New("steadfast: api_key and secret_key are required")
	}
	return nil
}

// SSLCommerzConfig is the hosted payment gateway credential set.
type SSLCommerzConfig struct {
	BaseURL   string `bson:"base_url" json:"base_url"`
	StoreID   string `bson:"store_id" json:"store_id"`
	StorePass string `bson:"store_pass" json:"store_pass"`
	Sandbox   bool   `bson:"sandbox" json:"sandbox"`
}

func (c SSLCommerzConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("sslcommerz: base_url is required")
	}
	if c.StoreID == "" || c.StorePass == "" {
		return errors.New("sslcommerz: store_id and store_pass are required")
	}
	return nil
}

// CourierConfig is a tagged union keyed by Name. Exactly the member matching
// the provider name must be set; Validate enforces that at write time so no
// free-form blob ever reaches an adapter.
type CourierConfig struct {
	Name      string           `bson:"name" json:"name"`
	Enabled   bool             `bson:"enabled" json:"enabled"`
	Pathao    *PathaoConfig    `bson:"pathao,omitempty" json:"pathao,omitempty"`
	Steadfast *SteadfastConfig `bson:"steadfast,omitempty" json:"steadfast,omitempty"`
}

func (c CourierConfig) Validate() error {
	switch c.Name {
	case "pathao":
		if c.Pathao == nil {
			return errors.New("pathao: config missing")
		}
		return c.Pathao.Validate()
	case "steadfast":
		if c.Steadfast == nil {
			return errors.New("steadfast: config missing")
		}
		return c.Steadfast.Validate()
	default:
		return fmt.Errorf("unknown courier provider %q", c.Name)
	}
}

// PaymentMethodConfig is the same tagged-union idea for payment methods.
// "cod" needs no credentials, so its union member is nil.
type PaymentMethodConfig struct {
	Name       string            `bson:"name" json:"name"`
	Enabled    bool              `bson:"enabled" json:"enabled"`
	Logo       string            `bson:"logo,omitempty" json:"logo,omitempty"`
	SSLCommerz *SSLCommerzConfig `bson:"sslcommerz,omitempty" json:"sslcommerz,omitempty"`
}

func (c PaymentMethodConfig) Validate() error {
	switch c.Name {
	case "cod":
		return nil
	case "sslcommerz":
		if c.SSLCommerz == nil {
			return errors.New("sslcommerz: config missing")
		}
		return c.SSLCommerz.Validate()
	default:
		return fmt.Errorf("unknown payment method %q", c.Name)
	}
}

type Brand struct {
	Name  string `bson:"name" json:"name"`
	Logo  string `bson:"logo,omitempty" json:"logo,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Settings is the single process-wide configuration document.
type Settings struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty" json:"-"`
	Brand          Brand                 `bson:"brand" json:"brand"`
	Currency       string                `bson:"currency" json:"currency"`
	PaymentMethods []PaymentMethodConfig `bson:"payment_methods" json:"payment_methods"`
	Couriers       []CourierConfig       `bson:"couriers" json:"couriers"`
}
