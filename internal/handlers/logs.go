package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"labclimate/internal/export"
	"labclimate/internal/models"
	"labclimate/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLimitInvalid = "invalid 'limit'; use a non-negative integer"
	errListLogs     = "failed to load logs"
	errClearLogs    = "failed to clear logs"
	errExportLogs   = "failed to export logs"
)

// ExportLogRequest selects the export format and, optionally, the target path.
type ExportLogRequest struct {
	// Allowed: text, csv, document, pdf, sqlite
	Format string `json:"format" binding:"required" example:"csv"`
	// Target file; the extension is added when missing. Empty uses the export dir.
	Path string `json:"path,omitempty" example:"exports/lab_log"`
}

// @Summary      List log entries
// @Tags         logs
// @Produce      json
// @Param        contains  query  string  false  "Case-insensitive substring"
// @Param        limit     query  int     false  "Newest N entries"
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f := service.LogFilter{Contains: c.Query("contains")}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		f.Limit = n
	}

	entries, err := h.services.Journal.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListLogs, "logs_list_failed", err, "contains", f.Contains)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// @Summary      Clear the log
// @Tags         logs
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/logs [delete]
// @Security     BearerAuth
func (h *Handler) clearLogs(c *gin.Context) {
	if err := h.services.Journal.Clear(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errClearLogs, "logs_clear_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCleared})
}

// @Summary      Export the log
// @Description  Write failures are reported in the result and appended to the log.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body      ExportLogRequest  true  "Export target"
// @Success      200   {object}  map[string]interface{}  "status, result"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]interface{}  "status, error, result"
// @Router       /api/v1/logs/export [post]
// @Security     BearerAuth
func (h *Handler) exportLogs(c *gin.Context) {
	var req ExportLogRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}

	res, err := h.services.Journal.Export(c.Request.Context(), models.ExportRequest{
		Format: models.ExportFormat(req.Format),
		Path:   req.Path,
	})
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errExportLogs, "logs_export_failed", err, "format", req.Format)
		return
	}

	if !res.OK {
		if h.log != nil {
			h.log.Errorw("logs_export_failed", "format", req.Format, "path", res.Path, "err", res.Error)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": statusExportErr,
			"error":  res.Status,
			"result": res,
		})
		return
	}

	if h.log != nil {
		h.log.Infow("logs_exported", "format", req.Format, "path", res.Path, "entries", res.Entries)
	}
	c.JSON(http.StatusOK, gin.H{"status": statusExported, "result": res})
}
