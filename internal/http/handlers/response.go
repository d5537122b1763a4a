// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by the card and asset
// endpoints: the error envelope, the storage-failure detail format, and the
// client-facing card shape.
//
// Conventions:
//   - Every error response is an ErrorResponse with a stable `code` and a
//     human-readable `detail`.
//   - `fail()` writes the envelope; 5xx responses are also logged with the
//     request-scoped logger.
//   - `failStorage()` renders "An error occurred while <verb> the card: <err>"
//     and attaches err to the gin context for the access log.
//   - Cards leave this package only as CardResponse, so a NULL back text is
//     always rendered as "" and an empty list as [].
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "detail": "Card with ID 7 not found!"
//	}
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
	"github.com/hristiyandudev55/flipcards-learner/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Detail string `json:"detail" example:"Card with ID 7 not found!"`
}

// CardResponse is the client-facing card. A NULL back text is rendered as "".
type CardResponse struct {
	ID        uint   `json:"id" example:"1"`
	FrontText string `json:"front_text" example:"What is a goroutine?"`
	BackText  string `json:"back_text" example:"A lightweight thread managed by the Go runtime."`
	Category  string `json:"category" example:"GENERAL"`
}

// DetailResponse carries a human-readable confirmation.
type DetailResponse struct {
	Detail string `json:"detail" example:"Card with ID 1 deleted successfully."`
}

// requestID prefers the id stored by middleware.RequestID and falls back to
// the echoed response header.
func requestID(c *gin.Context) string {
	if id := middleware.RequestIDFrom(c); id != "" {
		return id
	}
	return c.Writer.Header().Get("X-Request-ID")
}

// fail aborts the request with the error envelope. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("detail", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: requestID(c),
		Code:      code,
		Detail:    msg,
	})
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// storageDetail renders the 500 detail of a failed card operation. verb is
// one of creating, listing, updating, deleting.
func storageDetail(verb string, err error) string {
	return fmt.Sprintf("An error occurred while %s the card: %s", verb, err.Error())
}

// failStorage answers 500 for a card storage failure. err is attached to the
// gin context so the access log carries it.
func failStorage(c *gin.Context, code, verb string, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, code, storageDetail(verb, err))
}

// cause strips the sentinel prefix from a wrapped error message, so
// "error uploading file: AccessDenied" becomes "AccessDenied".
func cause(err, sentinel error) string {
	msg := err.Error()
	if rest, found := strings.CutPrefix(msg, sentinel.Error()+": "); found {
		return rest
	}
	return msg
}

// failCause answers status with prefix followed by the cause of err.
func failCause(c *gin.Context, status int, code, prefix string, err, sentinel error) {
	fail(c, status, code, prefix+cause(err, sentinel))
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func toCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		FrontText: c.FrontText,
		BackText:  c.Back(),
		Category:  string(c.Category),
	}
}

func toCardResponses(cards []domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toCardResponse(&cards[i]))
	}
	return out
}

// okCard writes one card.
func okCard(c *gin.Context, card *domain.Card) { ok(c, http.StatusOK, toCardResponse(card)) }

// okCards writes a card list; nil renders as [].
func okCards(c *gin.Context, cards []domain.Card) { ok(c, http.StatusOK, toCardResponses(cards)) }
