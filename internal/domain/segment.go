package domain

import "strings"

// Segment is an ordered, non-overlapping slice of the source text.
// Segments are created once per upload and are immutable afterwards;
// concatenating them in Order reconstructs the source modulo whitespace.
type Segment struct {
	ID        int
	Order     int
	Heading   string // empty when the segment has no detected heading
	Text      string
	WordCount int
}

// NewSegment creates a Segment with its word count computed from text.
func NewSegment(id, order int, heading, text string) Segment {
	return Segment{
		ID:        id,
		Order:     order,
		Heading:   heading,
		Text:      text,
		WordCount: len(strings.Fields(text)),
	}
}

// Validate validates the segment
func (s Segment) Validate() error {
	if s.Order < 0 {
		return NewInvalidInputError("segment order must not be negative")
	}
	if strings.TrimSpace(s.Text) == "" {
		return NewInvalidInputError("segment text is required")
	}
	return nil
}

// ValidateSegments checks that segments are order-contiguous from 0.
func ValidateSegments(segments []Segment) error {
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return err
		}
		if seg.Order != i {
			return NewInvalidInputError("segment order must be contiguous from 0")
		}
	}
	return nil
}
