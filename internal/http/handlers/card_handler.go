// Card HTTP handlers.
//
// This file exposes REST endpoints for flashcards:
//   - POST   /cards/            (create)
//   - GET    /cards/            (list all)
//   - GET    /cards/{category}  (filter by category)
//   - PATCH  /cards/{id}        (partial edit)
//   - DELETE /cards/{id}        (delete)
//
// Handlers are transport-thin: they bind input, call the card service, and
// translate service errors into status codes and detail messages.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
	"github.com/hristiyandudev55/flipcards-learner/internal/services"
)

//
// Service contracts (context-aware)
//

// CardService defines the card operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CardService interface {
	// Create validates and inserts a card.
	Create(ctx context.Context, in services.CreateCardInput) (*domain.Card, error)
	// List returns every card.
	List(ctx context.Context) ([]domain.Card, error)
	// ListByCategory returns the cards of one category, or an error when empty.
	ListByCategory(ctx context.Context, category string) ([]domain.Card, error)
	// Edit applies a partial update.
	Edit(ctx context.Context, id uint, patch domain.CardPatch) (*domain.Card, error)
	// Delete removes a card.
	Delete(ctx context.Context, id uint) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for cards and assets. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	cardSvc  CardService
	assetSvc AssetService
}

// New constructs a Handlers instance. assetSvc may be nil when object storage
// is not configured; asset endpoints then answer 503.
func New(cardSvc CardService, assetSvc AssetService) *Handlers {
	return &Handlers{cardSvc: cardSvc, assetSvc: assetSvc}
}

//
// DTOs
//

// CreateCardRequest is the JSON payload for creating a card.
type CreateCardRequest struct {
	FrontText string  `json:"front_text" binding:"required" example:"What is a goroutine?"`
	BackText  *string `json:"back_text" example:"A lightweight thread managed by the Go runtime."`
	Category  string  `json:"category" example:"GENERAL"`
}

// EditCardRequest is the JSON payload for a partial edit. Omitted or null
// fields are left unchanged.
type EditCardRequest struct {
	FrontText *string `json:"front_text" example:"What is a channel?"`
	BackText  *string `json:"back_text" example:"A typed conduit between goroutines."`
	Category  *string `json:"category" example:"GENERAL"`
}

// cardID parses the {id} path parameter.
func cardID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Card ID must be a non-negative integer.")
		return 0, false
	}
	return uint(id), true
}

//
// Handlers
//

// CreateCard godoc
// @ID          createCard
// @Summary     Create a card
// @Description Creates a flashcard. The category must be one of the fixed set and the front text must be unique.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateCardRequest  true  "Card payload"
// @Success     200   {object}  handlers.CardResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid category, duplicate card, or bad JSON"
// @Failure     500   {object}  handlers.ErrorResponse  "Storage error"
// @Router      /cards/ [post]
func (h *Handlers) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: front_text is required")
		return
	}

	card, err := h.cardSvc.Create(c.Request.Context(), services.CreateCardInput{
		FrontText: req.FrontText,
		BackText:  req.BackText,
		Category:  req.Category,
	})
	switch {
	case err == nil:
		okCard(c, card)
	case errors.Is(err, services.ErrInvalidCategory):
		fail(c, http.StatusBadRequest, ErrCodeInvalidCategory, fmt.Sprintf("Category '%s' is not a valid category!", req.Category))
	case errors.Is(err, services.ErrDuplicateCard):
		fail(c, http.StatusBadRequest, ErrCodeDuplicateCard, "This card already exists!")
	default:
		failStorage(c, ErrCodeCreateFailed, "creating", err)
	}
}

// ListCards godoc
// @ID          listCards
// @Summary     List all cards
// @Description Returns every card in insertion order. An empty store yields an empty array.
// @Tags        Cards
// @Produce     json
// @Success     200  {array}   handlers.CardResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /cards/ [get]
func (h *Handlers) ListCards(c *gin.Context) {
	cards, err := h.cardSvc.List(c.Request.Context())
	if err != nil {
		failStorage(c, ErrCodeListFailed, "listing", err)
		return
	}
	okCards(c, cards)
}

// ListCardsByCategory godoc
// @ID          listCardsByCategory
// @Summary     List cards in a category
// @Description Returns the cards whose category matches exactly. No match is a 404.
// @Tags        Cards
// @Produce     json
// @Param       category  path      string  true  "Category"  example(DSA)
// @Success     200       {array}   handlers.CardResponse
// @Failure     404       {object}  handlers.ErrorResponse  "No cards in category"
// @Failure     500       {object}  handlers.ErrorResponse  "Storage error"
// @Router      /cards/{category} [get]
func (h *Handlers) ListCardsByCategory(c *gin.Context) {
	category := c.Param("category")
	cards, err := h.cardSvc.ListByCategory(c.Request.Context(), category)
	switch {
	case err == nil:
		okCards(c, cards)
	case errors.Is(err, services.ErrNoCardsInCategory):
		fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("No cards found in category %s.", category))
	default:
		failStorage(c, ErrCodeListFailed, "listing", err)
	}
}

// EditCard godoc
// @ID          editCard
// @Summary     Edit a card
// @Description Updates only the supplied fields. At least one field must be present and non-null.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       id    path      int                       true  "Card ID"  example(1)
// @Param       body  body      handlers.EditCardRequest  true  "Fields to change"
// @Success     200   {object}  handlers.CardResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Empty patch, duplicate front text, or bad id"
// @Failure     404   {object}  handlers.ErrorResponse  "Card not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Storage error"
// @Router      /cards/{id} [patch]
func (h *Handlers) EditCard(c *gin.Context) {
	id, valid := cardID(c)
	if !valid {
		return
	}
	var req EditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	card, err := h.cardSvc.Edit(c.Request.Context(), id, domain.CardPatch{
		FrontText: req.FrontText,
		BackText:  req.BackText,
		Category:  req.Category,
	})
	switch {
	case err == nil:
		okCard(c, card)
	case errors.Is(err, services.ErrCardNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Card with ID %d not found. Please try a different ID.", id))
	case errors.Is(err, services.ErrEmptyPatch):
		fail(c, http.StatusBadRequest, ErrCodeEmptyPatch, "No valid fields provided for update.")
	case errors.Is(err, services.ErrDuplicateCard):
		fail(c, http.StatusBadRequest, ErrCodeDuplicateCard, "This card already exists!")
	default:
		failStorage(c, ErrCodeUpdateFailed, "updating", err)
	}
}

// DeleteCard godoc
// @ID          deleteCard
// @Summary     Delete a card
// @Description Permanently removes a card.
// @Tags        Cards
// @Produce     json
// @Param       id   path      int  true  "Card ID"  example(1)
// @Success     200  {object}  handlers.DetailResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Card not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /cards/{id} [delete]
func (h *Handlers) DeleteCard(c *gin.Context) {
	id, valid := cardID(c)
	if !valid {
		return
	}
	err := h.cardSvc.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, DetailResponse{Detail: fmt.Sprintf("Card with ID %d deleted successfully.", id)})
	case errors.Is(err, services.ErrCardNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Card with ID %d not found!", id))
	default:
		failStorage(c, ErrCodeDeleteFailed, "deleting", err)
	}
}
