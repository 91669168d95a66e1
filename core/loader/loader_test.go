package loader_test

import (
	"errors"
	"testing"

	"case-mirror/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

func TestLoadAllSkipsDisabledFeatures(t *testing.T) {
	enabled := &fakeFeature{name: "on", enabled: true}
	disabled := &fakeFeature{name: "off", enabled: false}

	mgr := loader.NewManager()
	mgr.Register(enabled)
	mgr.Register(disabled)

	err := mgr.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.True(t, enabled.loaded)
	assert.False(t, disabled.loaded)
}

func TestLoadAllStopsOnFirstFailure(t *testing.T) {
	failing := &fakeFeature{name: "broken", enabled: true, loadErr: errors.New("route clash")}
	after := &fakeFeature{name: "later", enabled: true}

	mgr := loader.NewManager()
	mgr.Register(failing)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.False(t, after.loaded)
}

func TestLoadAllWithoutFeatures(t *testing.T) {
	err := loader.NewManager().LoadAll(fiber.New())
	assert.NoError(t, err)
}
