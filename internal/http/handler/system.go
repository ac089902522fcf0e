package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  statusHealthy,
		"service": serviceID,
	})
}

// Info reports service identity and version.
func Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":        serviceName,
		"version":     serviceVersion,
		"description": serviceDescription,
	})
}
