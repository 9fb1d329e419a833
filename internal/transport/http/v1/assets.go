package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListAssets lists every asset with its current location.
// GET /v1/assets
func (h *Handler) ListAssets(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"assets": h.service.ListAssets(),
	})
}

// GetAsset gets a specific asset by ID.
// GET /v1/assets/:asset_id
func (h *Handler) GetAsset(c echo.Context) error {
	assetID := c.Param("asset_id")
	asset := h.service.GetAsset(assetID)
	if asset == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "asset not found"})
	}
	return c.JSON(http.StatusOK, asset)
}

// AssetsGeoJSON returns the fleet as a GeoJSON feature collection.
// GET /v1/assets/geojson
func (h *Handler) AssetsGeoJSON(c echo.Context) error {
	data, err := h.service.AssetsGeoJSON().MarshalJSON()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "application/geo+json", data)
}
