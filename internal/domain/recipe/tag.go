package recipe

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Tag labels recipes (breakfast, lunch, ...). Name, color and slug are
// each unique.
type Tag struct {
	ID    uuid.UUID
	Name  string
	Color string
	Slug  string
}

// NewTag validates and creates a tag
func NewTag(name, color, slug string) (*Tag, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	color = strings.ToUpper(strings.TrimSpace(color))

	if name == "" {
		return nil, shared.NewDomainError("INVALID_TAG_NAME", "Tag name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, shared.NewDomainError("INVALID_TAG_NAME", "Tag name cannot exceed 200 characters")
	}
	if !hexColorRegex.MatchString(color) {
		return nil, shared.NewDomainError("INVALID_TAG_COLOR", "Tag color must be a HEX value like #49B64E")
	}
	if slug == "" || len(slug) > maxNameLength || !slugRegex.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_TAG_SLUG", "Tag slug can only contain letters, numbers, hyphens and underscores")
	}

	return &Tag{
		ID:    uuid.New(),
		Name:  name,
		Color: color,
		Slug:  slug,
	}, nil
}
