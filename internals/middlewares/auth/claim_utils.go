package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// storeClaimsToLocals copies user_id, role, and the building scope list so
// handlers can build an explicit helper.BuildingScope without re-parsing.
func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	if v, ok := claims["user_id"].(string); ok {
		c.Locals("user_id", v)
	} else if v, ok := claims["sub"].(string); ok {
		c.Locals("user_id", v)
	}

	if v, ok := claims["role"].(string); ok {
		c.Locals("role", v)
	}

	if v, ok := claims["user_name"].(string); ok {
		c.Locals("user_name", v)
	}

	// building_ids: []any of strings in the token
	if raw, ok := claims["building_ids"].([]interface{}); ok {
		ids := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				ids = append(ids, s)
			}
		}
		c.Locals("building_ids", ids)
	}
}
