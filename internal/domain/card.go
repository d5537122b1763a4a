// Package domain defines the persistence model for flashcards. The Card type
// is mapped with GORM and is the only entity stored by the service.
package domain

import "strings"

// Category is a topic label attached to a Card. Only the values returned by
// Categories are accepted when a card is created.
type Category string

const (
	CategoryOOP        Category = "OOP"
	CategoryDSA        Category = "DSA"
	CategoryWeb        Category = "WEB"
	CategoryDocker     Category = "DOCKER"
	CategoryKubernetes Category = "KUBERNETES"
	CategoryLinux      Category = "LINUX"
	CategoryAzure      Category = "AZURE"
	CategoryCICD       Category = "CI_CD"
	CategoryGeneral    Category = "GENERAL"
)

var categories = []Category{
	CategoryOOP,
	CategoryDSA,
	CategoryWeb,
	CategoryDocker,
	CategoryKubernetes,
	CategoryLinux,
	CategoryAzure,
	CategoryCICD,
	CategoryGeneral,
}

// Categories returns the closed set of categories in declaration order.
// The returned slice is a copy and may be modified by the caller.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a member of the category set. The comparison
// is case-sensitive: "oop" is not a valid category.
func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Card is a single flashcard.
//
// Fields:
//   - ID: auto-incremented primary key, assigned by the database and never changed.
//   - FrontText: the question side; unique across all cards (unique index).
//   - BackText: the answer side; optional.
//   - Category: one of Categories(); a CHECK constraint makes storage reject
//     unknown values even when an edit bypasses validation.
type Card struct {
	ID        uint     `json:"id"         gorm:"primaryKey;autoIncrement"`
	FrontText string   `json:"front_text" gorm:"not null;uniqueIndex:ux_flipcards_front_text"`
	BackText  *string  `json:"back_text"`
	Category  Category `json:"category"   gorm:"type:varchar(32);not null;index;check:chk_flipcards_category,category IN ('OOP','DSA','WEB','DOCKER','KUBERNETES','LINUX','AZURE','CI_CD','GENERAL')"`
}

// TableName returns the database table name for Card.
func (Card) TableName() string { return "flipcards" }

// Back returns the back text, or "" when it is NULL.
func (c Card) Back() string {
	if c.BackText == nil {
		return ""
	}
	return *c.BackText
}

// CardPatch is a partial update of a Card. A nil field is left unchanged.
type CardPatch struct {
	FrontText *string
	BackText  *string
	Category  *string
}

// Empty reports whether the patch supplies no field at all.
func (p CardPatch) Empty() bool {
	return p.FrontText == nil && p.BackText == nil && p.Category == nil
}

// Fields returns the supplied fields keyed by column name, in a stable
// column order (front_text, back_text, category).
func (p CardPatch) Fields() []PatchField {
	var out []PatchField
	if p.FrontText != nil {
		out = append(out, PatchField{Column: "front_text", Value: *p.FrontText})
	}
	if p.BackText != nil {
		out = append(out, PatchField{Column: "back_text", Value: *p.BackText})
	}
	if p.Category != nil {
		out = append(out, PatchField{Column: "category", Value: *p.Category})
	}
	return out
}

// PatchField is one supplied column of a CardPatch.
type PatchField struct {
	Column string
	Value  string
}

// CategoryNames joins the category set for human-readable messages.
func CategoryNames() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
