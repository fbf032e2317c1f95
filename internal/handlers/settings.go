package handlers

import (
	"net/http"
	"strings"

	"amc_simulator/internal/models"
	"amc_simulator/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsRequest updates the configuration panel. Every field is optional.
type SettingsRequest struct {
	// Preset bundle to select; custom keeps the supplied parameters
	Preset string `json:"preset,omitempty" example:"strict"`
	// Hand-edited thresholds; switches the preset to custom when no preset is given
	Parameters *models.SystemParameters `json:"parameters,omitempty"`
	// Generation form defaults
	Generation *GenerateRequest `json:"generation,omitempty"`
}

func (r SettingsRequest) toService() (service.SettingsUpdate, error) {
	u := service.SettingsUpdate{
		Preset:     models.PresetMode(strings.ToLower(strings.TrimSpace(r.Preset))),
		Parameters: r.Parameters,
	}
	if r.Generation != nil {
		g, err := r.Generation.toService()
		if err != nil {
			return service.SettingsUpdate{}, err
		}
		cfg := models.GenerationConfig{
			DayCount:        g.DayCount,
			StartDate:       g.StartDate,
			IntervalMinutes: g.IntervalMinutes,
			QualityMode:     g.QualityMode,
			AnomalyRatio:    g.AnomalyRatio,
		}
		if g.Seed != nil {
			cfg.Seed = *g.Seed
		}
		u.Generation = &cfg
	}
	return u, nil
}

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	st, err := h.services.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "settings_get_failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      SettingsRequest  true  "Settings patch"
// @Success      200   {object}  models.Settings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var body SettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	u, err := body.toService()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartDate})
		return
	}
	st, err := h.services.Settings.UpdateSettings(c.Request.Context(), u)
	if err != nil {
		h.respondError(c, err, "settings_update_failed", "preset", u.Preset)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      List presets
// @Tags         settings
// @Produce      json
// @Success      200  {array}  service.PresetView
// @Router       /api/v1/presets [get]
// @Security     BearerAuth
func (h *Handler) listPresets(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Settings.Presets())
}
