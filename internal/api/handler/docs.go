package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SwaggerIndex is where echo-swagger serves the UI.
const SwaggerIndex = "/swagger/index.html"

// APIDocs handles GET /api-docs by redirecting to the Swagger UI.
func APIDocs(c echo.Context) error {
	return c.Redirect(http.StatusFound, SwaggerIndex)
}
