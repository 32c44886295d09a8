package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/orders/internal/apperr"
)

// abortWithError writes the JSON error body for err with its mapped status
func abortWithError(c *gin.Context, err error, log *slog.Logger) {
	status := apperr.HTTPStatus(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.String(requestIDKey, c.GetString(requestIDKey)),
			slog.Any("err", err),
		}
		var storageErr *apperr.StorageError
		if errors.As(err, &storageErr) {
			attrs = append(attrs, slog.String("kind", storageErr.Kind), slog.String("op", storageErr.Op))
			message = "failed to " + storageErr.Op + " " + storageErr.Kind
		} else {
			message = "internal server error"
		}
		log.Error("request failed", attrs...)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// readJSON decodes the request body into a generic JSON value
func readJSON(c *gin.Context, entity string) (any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.Invalid(entity, "", "body of request contained no data")
		}
		return nil, apperr.Invalid(entity, "", "body of request is not valid JSON - "+err.Error())
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, apperr.Invalid(entity, "", "body of request must hold a single JSON value")
	}
	return body, nil
}

// pathID parses an integer path parameter. A malformed id cannot name a
// stored resource, so it is reported as not found.
func pathID(c *gin.Context, param, kind string) (int64, error) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NotFound(kind, raw)
	}
	return id, nil
}
