package cases

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"case-mirror/core/mirror"
	"case-mirror/core/upstream"
	"case-mirror/feature/cases/store"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Cases feature.
func NewFeature(client upstream.Client, store *store.Store, syncer *mirror.Synchronizer, logger *zap.Logger) *Feature {
	svc := NewService(client, store, syncer, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "cases"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
