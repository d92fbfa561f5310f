package handlers

import "github.com/labstack/echo/v4"

// getActorID returns the authenticated user's ID from the request context,
// or 0 when the request is anonymous (optional-auth routes).
func getActorID(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}
