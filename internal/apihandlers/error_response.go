package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Response messages that are part of the HTTP contract.
const (
	msgMissingDescription = "Please pass a description in the request body"
	msgMissingCSV         = "Please pass a CSV file in the request body"
	msgMissingColumn      = "CSV must contain a 'Description' column"
	msgInvalidLimit       = "Invalid limit parameter: must be a positive integer"
)

// TextError sends a plain-text error body.
func TextError(ctx *gin.Context, status int, msg string) {
	ctx.String(status, msg)
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	TextError(ctx, http.StatusBadRequest, msg)
}

// Internal logs err and sends "Error processing request: <err>".
func Internal(ctx *gin.Context, err error) {
	log.WithField("request_id", ctx.GetString(requestIDKey)).WithError(err).Error("Request failed")
	TextError(ctx, http.StatusInternalServerError, "Error processing request: "+err.Error())
}
