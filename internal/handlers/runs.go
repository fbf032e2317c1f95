package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"amc_simulator/internal/export"
	"amc_simulator/internal/models"
	"amc_simulator/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	defaultListLimit = 50
	errInvalidBody   = "invalid body: "
	errStartDate     = "invalid start_date; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'"
)

// GenerateRequest is the payload of POST /api/v1/runs.
type GenerateRequest struct {
	// Number of simulated days
	DayCount int `json:"day_count" example:"7"`
	// First timestamp; defaults to today 00:00 UTC
	StartDate string `json:"start_date,omitempty" example:"2024-01-01"`
	// Minutes between samples, 1..1440
	IntervalMinutes int `json:"interval_minutes" example:"30"`
	// normal | with_anomaly | severe_anomaly | mixed
	QualityMode string `json:"quality_mode" example:"normal"`
	// Anomaly probability in percent
	AnomalyRatio int `json:"anomaly_ratio" example:"10"`
	// Optional seed; the same seed reproduces the same run
	Seed *int64 `json:"seed,omitempty" example:"42"`
}

func (r GenerateRequest) toService() (service.GenerateRequest, error) {
	var start time.Time
	if s := strings.TrimSpace(r.StartDate); s != "" {
		t, err := parseQueryTime(s)
		if err != nil {
			return service.GenerateRequest{}, err
		}
		start = t
	}
	return service.GenerateRequest{
		DayCount:        r.DayCount,
		StartDate:       start,
		IntervalMinutes: r.IntervalMinutes,
		QualityMode:     models.QualityMode(strings.ToLower(strings.TrimSpace(r.QualityMode))),
		AnomalyRatio:    r.AnomalyRatio,
		Seed:            r.Seed,
	}, nil
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %q: must be a non-negative integer", key)
	}
	return v, nil
}

func queryFormat(c *gin.Context) (export.Format, error) {
	return export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Generate a run
// @Description  Synthesizes a record sequence and stores it. Omitting seed draws a fresh one.
// @Tags         runs
// @Accept       json
// @Produce      json
// @Param        body  body      GenerateRequest  true  "Generation config"
// @Success      201   {object}  models.Run
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runs [post]
// @Security     BearerAuth
func (h *Handler) generateRun(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}
	req, err := body.toService()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errStartDate})
		return
	}

	run, err := h.services.Generation.Generate(c.Request.Context(), c.GetInt(userCtx), req)
	if err != nil {
		h.respondError(c, err, "run_generate_failed", "days", body.DayCount, "interval", body.IntervalMinutes)
		return
	}
	c.JSON(http.StatusCreated, run)
}

// @Summary      List runs
// @Tags         runs
// @Produce      json
// @Param        limit   query  int  false  "Page size"  default(50)
// @Param        offset  query  int  false  "Offset"     default(0)
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runs, err := h.services.Generation.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err, "runs_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(runs), "runs": runs})
}

// @Summary      Get a run
// @Tags         runs
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  models.Run
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	id := c.Param("id")
	run, err := h.services.Generation.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "run_get_failed", "run_id", id)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Delete a run
// @Tags         runs
// @Param        id   path  string  true  "Run ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteRun(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Generation.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "run_delete_failed", "run_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Page through records
// @Tags         runs
// @Produce      json
// @Param        id         path   string  true   "Run ID"
// @Param        page       query  int     false  "1-based page"  default(1)
// @Param        page_size  query  int     false  "Records per page, 0 uses the server default"
// @Success      200  {object}  models.RecordPage
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id}/records [get]
// @Security     BearerAuth
func (h *Handler) getRecords(c *gin.Context) {
	id := c.Param("id")
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size, err := queryInt(c, "page_size", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.services.Generation.Records(c.Request.Context(), id, page, size)
	if err != nil {
		h.respondError(c, err, "run_records_failed", "run_id", id, "page", page)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Analyse a run
// @Description  Statistics, correlation matrix and radar scores against a preset.
// @Tags         analysis
// @Produce      json
// @Param        id      path   string  true   "Run ID"
// @Param        preset  query  string  false  "Preset; defaults to the selected one"  Enums(custom,standard,strict,loose,test)
// @Success      200  {object}  models.RunSummary
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id}/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	id := c.Param("id")
	preset := models.PresetMode(strings.ToLower(strings.TrimSpace(c.Query("preset"))))
	sum, err := h.services.Analysis.Summarize(c.Request.Context(), id, preset)
	if err != nil {
		h.respondError(c, err, "run_summary_failed", "run_id", id, "preset", preset)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary      Download a run
// @Tags         distribution
// @Produce      octet-stream
// @Param        id      path   string  true   "Run ID"
// @Param        format  query  string  false  "File format"  Enums(csv,xlsx,jsonl)  default(csv)
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/runs/{id}/export [get]
// @Security     BearerAuth
func (h *Handler) exportRun(c *gin.Context) {
	id := c.Param("id")
	f, err := queryFormat(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	file, err := h.services.Distribution.Export(c.Request.Context(), id, f)
	if err != nil {
		h.respondError(c, err, "run_export_failed", "run_id", id, "format", f)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// @Summary      Archive a run export
// @Description  Uploads the export to object storage and returns a presigned link.
// @Tags         distribution
// @Produce      json
// @Param        id      path   string  true   "Run ID"
// @Param        format  query  string  false  "File format"  Enums(csv,xlsx,jsonl)  default(csv)
// @Success      201  {object}  service.ArchiveResult
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/runs/{id}/archive [post]
// @Security     BearerAuth
func (h *Handler) archiveRun(c *gin.Context) {
	id := c.Param("id")
	f, err := queryFormat(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.services.Distribution.Archive(c.Request.Context(), id, f)
	if err != nil {
		h.respondError(c, err, "run_archive_failed", "run_id", id, "format", f)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary      Publish a run to MQTT
// @Tags         distribution
// @Produce      json
// @Param        id   path  string  true  "Run ID"
// @Success      200  {object}  service.PublishResult
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/runs/{id}/publish [post]
// @Security     BearerAuth
func (h *Handler) publishRun(c *gin.Context) {
	id := c.Param("id")
	res, err := h.services.Distribution.Publish(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "run_publish_failed", "run_id", id, "published", res.Published)
		return
	}
	c.JSON(http.StatusOK, res)
}
