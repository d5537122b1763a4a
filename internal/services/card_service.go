// Package services – CardService
//
// This file implements CardService, which owns the rules around flashcards:
// category membership on create, duplicate detection, partial edits, and
// deletes. Every mutation runs in a single transaction; after it settles the
// injected audit.Logger is told what happened.
//
// Duplicate detection has two layers. The (front_text, category) lookup gives
// a friendly error in the common case, while the unique index on front_text is
// authoritative and catches concurrent inserts that slip past the lookup.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/hristiyandudev55/flipcards-learner/internal/audit"
	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
	"github.com/hristiyandudev55/flipcards-learner/internal/repo"
)

// CreateCardInput is the payload accepted by Create.
type CreateCardInput struct {
	FrontText string
	BackText  *string
	Category  string
}

// CardService provides card CRUD with validation and auditing.
type CardService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Audit receives a record of every mutation and failure.
	Audit audit.Logger
}

// NewCardService constructs a CardService. A nil logger disables auditing.
func NewCardService(db *gorm.DB, a audit.Logger) *CardService {
	if a == nil {
		a = audit.Nop{}
	}
	return &CardService{DB: db, Audit: a}
}

func (s *CardService) tracer() trace.Tracer { return otel.Tracer("services/CardService") }

// Create validates and inserts a new card.
func (s *CardService) Create(ctx context.Context, in CreateCardInput) (*domain.Card, error) {
	ctx, span := s.tracer().Start(ctx, "Create",
		trace.WithAttributes(attribute.String("card.category", in.Category)),
	)
	defer span.End()

	category := domain.Category(in.Category)
	if !category.Valid() {
		s.auditFailure(ctx, "create", ErrInvalidCategory, map[string]any{
			"category": in.Category,
			"allowed":  domain.CategoryNames(),
		})
		return nil, ErrInvalidCategory
	}
	front := norm.NFC.String(in.FrontText)

	var card *domain.Card
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := repo.FindCardByFrontAndCategory(ctx, tx, front, category)
		switch {
		case err == nil:
			return ErrDuplicateCard
		case !errors.Is(err, repo.ErrNotFound):
			return storageErr(err)
		}

		c, err := repo.CreateCard(ctx, tx, front, in.BackText, category)
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrDuplicateCard
		}
		if err != nil {
			return storageErr(err)
		}
		card = c
		return nil
	})
	if err != nil {
		err = classify(err)
		s.fail(ctx, span, "create", err, map[string]any{"front_text": front, "category": in.Category})
		return nil, err
	}

	span.SetAttributes(attribute.Int("card.id", int(card.ID)))
	s.Audit.Log(ctx, audit.ActionCardCreated, map[string]any{
		"card_id":    card.ID,
		"front_text": card.FrontText,
		"category":   string(card.Category),
	})
	return card, nil
}

// List returns every card in insertion order. An empty store yields an
// empty, non-nil slice.
func (s *CardService) List(ctx context.Context) ([]domain.Card, error) {
	ctx, span := s.tracer().Start(ctx, "List")
	defer span.End()

	cards, err := repo.ListCards(ctx, s.DB)
	if err != nil {
		err = storageErr(err)
		s.fail(ctx, span, "list", err, nil)
		return nil, err
	}
	span.SetAttributes(attribute.Int("cards.count", len(cards)))
	return cards, nil
}

// ListByCategory returns the cards in category, or ErrNoCardsInCategory when
// there are none. The category is not validated; an unknown one matches
// nothing.
func (s *CardService) ListByCategory(ctx context.Context, category string) ([]domain.Card, error) {
	ctx, span := s.tracer().Start(ctx, "ListByCategory",
		trace.WithAttributes(attribute.String("card.category", category)),
	)
	defer span.End()

	cards, err := repo.ListCardsByCategory(ctx, s.DB, category)
	if err != nil {
		err = storageErr(err)
		s.fail(ctx, span, "list", err, map[string]any{"category": category})
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsInCategory
	}
	return cards, nil
}

type fieldChange struct {
	field    string
	old, new string
}

// Edit applies the supplied fields of patch to the card with id. Existence is
// checked before emptiness, so an empty patch on a missing card reports
// ErrCardNotFound. Category is not re-validated here; storage rejects values
// outside the set.
func (s *CardService) Edit(ctx context.Context, id uint, patch domain.CardPatch) (*domain.Card, error) {
	ctx, span := s.tracer().Start(ctx, "Edit",
		trace.WithAttributes(attribute.Int("card.id", int(id))),
	)
	defer span.End()

	if patch.FrontText != nil {
		nfc := norm.NFC.String(*patch.FrontText)
		patch.FrontText = &nfc
	}

	var (
		card    *domain.Card
		changes []fieldChange
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repo.GetCard(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCardNotFound
		}
		if err != nil {
			return storageErr(err)
		}
		if patch.Empty() {
			return ErrEmptyPatch
		}

		fields := make(map[string]any, 3)
		for _, f := range patch.Fields() {
			fields[f.Column] = f.Value
			changes = append(changes, fieldChange{field: f.Column, old: columnValue(current, f.Column), new: f.Value})
		}
		if err := repo.UpdateCard(ctx, tx, id, fields); err != nil {
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				return ErrDuplicateCard
			case errors.Is(err, repo.ErrNotFound):
				return ErrCardNotFound
			}
			return storageErr(err)
		}

		updated, err := repo.GetCard(ctx, tx, id)
		if err != nil {
			return storageErr(err)
		}
		card = updated
		return nil
	})
	if err != nil {
		err = classify(err)
		if !errors.Is(err, ErrCardNotFound) {
			s.fail(ctx, span, "update", err, map[string]any{"card_id": id})
		}
		return nil, err
	}

	for _, ch := range changes {
		if ch.old == ch.new {
			continue
		}
		s.Audit.Log(ctx, audit.ActionCardUpdated, map[string]any{
			"card_id": id,
			"field":   ch.field,
			"old":     ch.old,
			"new":     ch.new,
		})
	}
	return card, nil
}

// Delete removes the card with id permanently.
func (s *CardService) Delete(ctx context.Context, id uint) error {
	ctx, span := s.tracer().Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int("card.id", int(id))),
	)
	defer span.End()

	var removed *domain.Card
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCard(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCardNotFound
		}
		if err != nil {
			return storageErr(err)
		}
		if err := repo.DeleteCard(ctx, tx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCardNotFound
			}
			return storageErr(err)
		}
		removed = c
		return nil
	})
	if err != nil {
		err = classify(err)
		if !errors.Is(err, ErrCardNotFound) {
			s.fail(ctx, span, "delete", err, map[string]any{"card_id": id})
		}
		return err
	}

	s.Audit.Log(ctx, audit.ActionCardDeleted, map[string]any{
		"card_id":    id,
		"front_text": removed.FrontText,
		"category":   string(removed.Category),
	})
	return nil
}

// classify leaves service sentinels alone and wraps anything else (for
// example a failed COMMIT) as a storage error.
func classify(err error) error {
	for _, known := range []error{ErrInvalidCategory, ErrDuplicateCard, ErrCardNotFound, ErrEmptyPatch, ErrStorage} {
		if errors.Is(err, known) {
			return err
		}
	}
	return storageErr(err)
}

// fail records a failed operation on the span and in the audit trail.
func (s *CardService) fail(ctx context.Context, span trace.Span, op string, err error, details map[string]any) {
	span.RecordError(err)
	if errors.Is(err, ErrStorage) {
		span.SetStatus(codes.Error, err.Error())
	}
	s.auditFailure(ctx, op, err, details)
}

func (s *CardService) auditFailure(ctx context.Context, op string, err error, details map[string]any) {
	entry := map[string]any{"operation": op, "error": err.Error()}
	if errors.Is(err, ErrStorage) {
		entry["kind"] = "storage"
	} else {
		entry["kind"] = "validation"
	}
	for k, v := range details {
		entry[k] = v
	}
	s.Audit.Log(ctx, audit.ActionError, entry)
}

func columnValue(c *domain.Card, column string) string {
	switch column {
	case "front_text":
		return c.FrontText
	case "back_text":
		return c.Back()
	case "category":
		return string(c.Category)
	}
	return ""
}
