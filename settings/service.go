package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tokri/db"
	"tokri/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrProviderDisabled = errors.New("provider is disabled")

// Service owns the settings document. It is loaded once at startup and
// injected into the handlers that need provider configuration, instead of
// every request fetching the document on its own.
type Service struct {
	mu      sync.RWMutex
	current models.Settings
}

func NewService() *Service {
	return &Service{}
}

// Load reads the settings document, creating the default one when the
// collection is empty. At most one document ever exists.
func (s *Service) Load(ctx context.Context) error {
	var doc models.Settings
	err := db.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		doc = Defaults()
		if _, insErr := db.SettingsCollection.InsertOne(ctx, doc); insErr != nil {
			return insErr
		}
		err = db.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&doc)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	return nil
}

// Refresh re-reads after an admin write.
func (s *Service) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Service) Get() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Courier returns the enabled configuration for a provider name.
func (s *Service) Courier(name string) (models.CourierConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.current.Couriers {
		if c.Name == name {
			if !c.Enabled {
				return models.CourierConfig{}, fmt.Errorf("courier %q: %w", name, ErrProviderDisabled)
			}
			return c, nil
		}
	}
	return models.CourierConfig{}, fmt.Errorf("courier %q is not configured", name)
}

// PaymentMethod returns the enabled configuration for a payment method name.
func (s *Service) PaymentMethod(name string) (models.PaymentMethodConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.current.PaymentMethods {
		if p.Name == name {
			if !p.Enabled {
				return models.PaymentMethodConfig{}, fmt.Errorf("payment method %q: %w", name, ErrProviderDisabled)
			}
			return p, nil
		}
	}
	return models.PaymentMethodConfig{}, fmt.Errorf("payment method %q is not configured", name)
}

// Defaults is the document written on very first startup. Providers ship
// disabled until an admin fills in credentials.
func Defaults() models.Settings {
	return models.Settings{
		Brand: models.Brand{
			Name: "Tokri",
		},
		Currency: "BDT",
		PaymentMethods: []models.PaymentMethodConfig{
			{Name: "cod", Enabled: true},
			{Name: "sslcommerz", Enabled: false, SSLCommerz: &models.SSLCommerzConfig{
				BaseURL: "https://sandbox.sslcommerz.com",
				Sandbox: true,
			}},
		},
		Couriers: []models.CourierConfig{
			{Name: "pathao", Enabled: false, Pathao: &models.PathaoConfig{
				BaseURL: "https://api-hermes.pathao.com",
			}},
			{Name: "steadfast", Enabled: false, Steadfast: &models.SteadfastConfig{
				BaseURLs: []string{
					"https://portal.packzy.com/api/v1",
					"https://portal.steadfast.com.bd/api/v1",
				},
			}},
		},
	}
}
