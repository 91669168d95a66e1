package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// LocalsKey is the fiber locals key the ray id is stored under.
	LocalsKey = "ray_id"
	// HeaderName is the header carrying the ray id on the response.
	HeaderName = "X-Ray-Id"
)

// New returns a middleware that assigns a ray id to every request. A ray id
// already present on the request is kept, so ids survive proxy hops.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.New().String()
		}

		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}
