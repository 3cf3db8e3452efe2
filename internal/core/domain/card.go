package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CardStatus represents the workflow state of a card.
type CardStatus string

const (
	StatusTodo       CardStatus = "TODO"
	StatusInProgress CardStatus = "IN_PROGRESS"
	StatusDone       CardStatus = "DONE"
)

// CardStatuses lists every valid status in display order.
var CardStatuses = []CardStatus{StatusTodo, StatusInProgress, StatusDone}

var ErrCardNotFound = errors.New("card not found")

// colorPattern matches "#" followed by exactly six alphanumeric characters.
var colorPattern = regexp.MustCompile(`^#[A-Za-z0-9]{6}$`)

const (
	colorFormatMessage  = "invalid format, should be 6 alphanumeric characters prefixed with #"
	statusFormatMessage = "invalid format, should be one of TODO, IN_PROGRESS, DONE"
)

// Card is a unit of work owned by the user who created it.
type Card struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color,omitempty"`
	Status      CardStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatorID   string     `json:"creator_id"`
}

// NewCard validates the supplied fields and returns a TODO card owned by
// creatorID. A nil color leaves the card uncolored.
func NewCard(name, description string, color *string, creatorID string, now time.Time) (*Card, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var hex string
	if color != nil {
		if err := ValidateColor(*color); err != nil {
			return nil, err
		}
		hex = *color
	}
	return &Card{
		Name:        name,
		Description: description,
		Color:       hex,
		Status:      StatusTodo,
		CreatedAt:   now.UTC(),
		CreatorID:   creatorID,
	}, nil
}

// CardPatch carries a partial update. Nil fields are left untouched.
type CardPatch struct {
	Name        *string
	Description *string
	Color       *string
	Status      *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p CardPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Color == nil && p.Status == nil
}

// Validate checks every provided field against its write-path constraint.
func (p CardPatch) Validate() error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Color != nil {
		if err := ValidateColor(*p.Color); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if _, err := ParseStatus(*p.Status); err != nil {
			return err
		}
	}
	return nil
}

// Apply overwrites the provided fields on c. It leaves c untouched when any
// field is invalid.
func (p CardPatch) Apply(c *Card) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Status != nil {
		c.Status = CardStatus(*p.Status)
	}
	return nil
}

// ValidateName rejects blank card names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "mandatory field is required"}
	}
	return nil
}

// ValidateColor accepts only a #XXXXXX value. Callers express "no color" by
// not providing one.
func ValidateColor(color string) error {
	if colorPattern.MatchString(color) {
		return nil
	}
	return &ValidationError{Field: "color", Message: colorFormatMessage}
}

// ParseStatus converts s into a CardStatus. Matching is exact.
func ParseStatus(s string) (CardStatus, error) {
	for _, st := range CardStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: statusFormatMessage}
}

// ErrValidation is the sentinel every *ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a single field that failed its constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
