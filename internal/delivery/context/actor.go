package context

import (
	"gatekeeper/internal/domain/policy"

	"github.com/labstack/echo/v4"
)

// KeyActor is the key for storing the authenticated actor in echo.Context.
const KeyActor = "actor"

// GetActor extracts the authenticated actor from echo.Context.
func GetActor(c echo.Context) (policy.Actor, bool) {
	actor, ok := c.Get(KeyActor).(policy.Actor)

	return actor, ok
}

// SetActor stores the authenticated actor in echo.Context.
func SetActor(c echo.Context, actor policy.Actor) {
	c.Set(KeyActor, actor)
}
