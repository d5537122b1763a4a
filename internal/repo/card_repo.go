// Package repo implements the data persistence layer for flashcards, backed
// by GORM. This file provides repository functions for the Card model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can
// run inside a transaction opened by the service layer. They follow the
// "thin repository" approach: no business rules, only persistence and query
// composition.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (an alias of gorm.ErrRecordNotFound).
//   - Unique-constraint violations surface as ErrDuplicate.
//   - Any other driver error is propagated unchanged.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hristiyandudev55/flipcards-learner/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate is returned when a write collides with a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// CreateCard inserts a new card and returns it with its generated ID.
func CreateCard(ctx context.Context, db *gorm.DB, frontText string, backText *string, category domain.Category) (*domain.Card, error) {
	c := &domain.Card{
		FrontText: frontText,
		BackText:  backText,
		Category:  category,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// FindCardByFrontAndCategory looks up an exact (front_text, category) match.
func FindCardByFrontAndCategory(ctx context.Context, db *gorm.DB, frontText string, category domain.Category) (*domain.Card, error) {
	var c domain.Card
	err := db.WithContext(ctx).
		Where("front_text = ? AND category = ?", frontText, category).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCard fetches a card by primary key.
func GetCard(ctx context.Context, db *gorm.DB, id uint) (*domain.Card, error) {
	var c domain.Card
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCards returns every card ordered by ID ascending.
func ListCards(ctx context.Context, db *gorm.DB) ([]domain.Card, error) {
	out := []domain.Card{}
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// ListCardsByCategory returns the cards in one category ordered by ID.
// Matching is exact; an unknown category simply yields no rows.
func ListCardsByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Card, error) {
	out := []domain.Card{}
	err := db.WithContext(ctx).
		Where("category = ?", category).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// UpdateCard writes the given column values to the card with id. A nil value
// in fields stores NULL. ErrNotFound is returned when no row matched.
func UpdateCard(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCard removes the card with id, or returns ErrNotFound.
func DeleteCard(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Card{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps unique-constraint violations to ErrDuplicate.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
