package middleware

import (
	"study-buddy/internal/util"

	"github.com/gofiber/fiber/v2"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	requestIDLocalsKey = "request_id"
	maxRequestIDLength = 128
)

// RequestID reuses a sane inbound X-Request-ID or assigns a new ULID, stores it
// in the request locals and echoes it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = util.NewULID()
		}
		c.Locals(requestIDLocalsKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside of it.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocalsKey).(string)
	return id
}
