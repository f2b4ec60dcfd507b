package errors

import (
	"strings"
	"unicode"
)

// MaxRoomSide bounds room dimensions (cm) so occupancy grids stay small.
const MaxRoomSide = 5000

// ValidateRoomDimensions checks that both floor dimensions are positive and
// within MaxRoomSide. Height may be zero (unknown) but not negative.
func ValidateRoomDimensions(width, depth, height int) error {
	if width <= 0 || depth <= 0 {
		return New(ErrCodeInvalidRoom, "room dimensions must be positive, got %dx%d", width, depth)
	}
	if width > MaxRoomSide || depth > MaxRoomSide {
		return New(ErrCodeInvalidRoom, "room dimensions too large (max %d cm per side), got %dx%d", MaxRoomSide, width, depth)
	}
	if height < 0 {
		return New(ErrCodeInvalidRoom, "room height cannot be negative, got %d", height)
	}
	return nil
}

// ValidateFixtureName validates a fixture type name before catalog lookup.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 64 characters
func ValidateFixtureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "fixture name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "fixture name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "fixture name contains invalid characters: %q", name)
		}
	}
	return nil
}

// ValidateOpeningSpan checks that an opening of the given width starting at
// offset fits on a wall of length wallLength.
func ValidateOpeningSpan(id string, offset, width, wallLength int) error {
	if width <= 0 {
		return New(ErrCodeInvalidOpening, "opening %q: width must be positive, got %d", id, width)
	}
	if offset < 0 || offset+width > wallLength {
		return New(ErrCodeInvalidOpening, "opening %q: span [%d,%d) outside wall of length %d", id, offset, offset+width, wallLength)
	}
	return nil
}

// NormalizeFixtureName lowercases a fixture name and joins words with
// underscores, so "Double Sink" and "double_sink" resolve alike.
func NormalizeFixtureName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
