package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// ViewerMiddleware extracts the authenticated user from a bearer
// token. Missing or invalid tokens leave the request anonymous; read
// paths accept that, mutation handlers reject it.
func ViewerMiddleware(secret string, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Warn(c.UserContext()).Logs("Rejected invalid bearer token")
			return c.Next()
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			return c.Next()
		}
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || userID == 0 {
			return c.Next()
		}

		c.Locals("viewer_id", uint(userID))
		c.Locals("user_id", sub)
		return c.Next()
	}
}

// ToggleLimiter shapes reaction and follow toggles to one state change
// per user per target per window. The engines' idempotent toggles make
// this limiter safe to retry against.
func ToggleLimiter(window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        1,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			viewer := "anon:" + c.IP()
			if id, ok := c.Locals("viewer_id").(uint); ok {
				viewer = fmt.Sprintf("user:%d", id)
			}
			return viewer + ":" + c.Path()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, utils.ErrTooManyRequests)
		},
	})
}
