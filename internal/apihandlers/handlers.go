package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ticketclassifier/internal/app"
	"ticketclassifier/internal/models"
	"ticketclassifier/internal/ticketcsv"
	"ticketclassifier/internal/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIHandler struct {
	App *app.App
}

// ClassifySingleHandler handles POST /api/classify_single.
//
//	{"description": "..."} -> {"category": "<label>"}
func (h *APIHandler) ClassifySingleHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		Internal(c, err)
		return
	}

	description, err := parseDescription(body)
	if err != nil {
		log.WithField("request_id", c.GetString(requestIDKey)).Debugf("Rejected single classification request: %v", err)
		BadRequest(c, msgMissingDescription)
		return
	}

	result := h.App.SingleCategorizer.Classify(c.Request.Context(), description)
	c.JSON(http.StatusOK, gin.H{models.CategoryField: result.Label()})
}

// parseDescription extracts the description field. A JSON null counts as an
// empty description; a missing field or a non-string value is rejected.
func parseDescription(body []byte) (string, error) {
	if util.IsBlank(body) {
		return "", models.ErrEmptyBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", errors.Join(models.ErrValidation, err)
	}
	raw, ok := fields[models.DescriptionField]
	if !ok {
		return "", models.ErrMissingDescription
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return "", nil
	}
	var description string
	if err := json.Unmarshal(raw, &description); err != nil {
		return "", errors.Join(models.ErrMissingDescription, err)
	}
	return description, nil
}

// ClassifyTicketsHandler handles POST /api/classify_tickets. The body is a CSV
// file with a Description column; the response is the same CSV with a
// Category column appended.
func (h *APIHandler) ClassifyTicketsHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		Internal(c, err)
		return
	}
	if util.IsBlank(body) {
		BadRequest(c, msgMissingCSV)
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		BadRequest(c, msgInvalidLimit)
		return
	}

	text, err := util.CleanCSVBody(body, "request body")
	if err != nil {
		Internal(c, err)
		return
	}
	table, err := ticketcsv.DecodeString(text)
	if err != nil {
		Internal(c, err)
		return
	}
	if err := table.RequireColumn(models.DescriptionColumn); err != nil {
		BadRequest(c, msgMissingColumn)
		return
	}

	log.WithFields(log.Fields{
		"request_id": c.GetString(requestIDKey),
		"rows":       len(table.Rows),
		"limit":      limit,
	}).Info("Classifying CSV batch")

	// A batch runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	batch := h.App.NewBatchService(h.App.BatchCategorizer, h.App.Config.Batch.Delay, nil)
	rows, stats := batch.Process(ctx, table.Rows, limit)
	h.App.Metrics.ObserveBatch(stats.Classified, stats.Empty, stats.Failed, stats.Dropped)

	var out bytes.Buffer
	if err := ticketcsv.Encode(&out, ticketcsv.OutputHeader(table.Header, batch.CategoryField()), rows); err != nil {
		Internal(c, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Bytes())
}

// parseLimit reads the optional limit query value; "" means no limit.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, models.ErrInvalidLimit
	}
	return n, nil
}

// SystemCheckHandler handles GET /api/system_check.
func (h *APIHandler) SystemCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, app.SystemCheck(h.App.Config))
}

// HealthHandler handles GET /health.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"provider":        h.App.CompletionService.Name(),
		"model":           h.App.CompletionService.ModelName(),
		"provider_status": h.App.CompletionService.Status().String(),
	})
}
