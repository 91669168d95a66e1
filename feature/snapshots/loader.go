package snapshots

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"case-mirror/core/storage"
	"case-mirror/feature/cases/store"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Snapshots feature. client may be nil when object
// storage is not configured; the feature then reports itself disabled.
func NewFeature(client storage.Client, bucket string, store *store.Store, retention int, logger *zap.Logger) *Feature {
	if client == nil {
		return &Feature{}
	}
	svc := NewService(client, bucket, store, retention, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the underlying service, nil when disabled. The
// synchronizer uses it as its archiver.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "snapshots"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
