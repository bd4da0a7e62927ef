package segmenter

import (
	"regexp"
	"strings"
	"unicode"

	"quizcraft/internal/domain"
)

// Config tunes the boundary-detection heuristics. The heading rules and
// window sizes are policies, not fixed algorithms; adjust here rather
// than in the detection code.
type Config struct {
	MaxHeadingLen     int     // headings longer than this are body text
	CapitalizedRatio  float64 // fraction of capitalized words for a title-cased heading
	MinWindowWords    int     // lower bound for the fixed-size fallback window
	MaxWindowWords    int     // no segment may exceed this many words
	TargetWindowWords int     // preferred window size when splitting
}

// DefaultConfig returns the segmentation policy used in production.
func DefaultConfig() Config {
	return Config{
		MaxHeadingLen:     80,
		CapitalizedRatio:  0.5,
		MinWindowWords:    150,
		MaxWindowWords:    300,
		TargetWindowWords: 225,
	}
}

var (
	headingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[0-9]+\.\s`),        // "1. Introduction"
		regexp.MustCompile(`^[0-9]+\.[0-9]+`),    // "1.1 Overview"
		regexp.MustCompile(`^[A-Z][A-Z\s]+$`),    // ALL CAPS
		regexp.MustCompile(`(?i)^Chapter\s+\d+`), // chapter headings
		regexp.MustCompile(`(?i)^Section\s+\d+`), // section headings
		regexp.MustCompile(`^[IVX]+\.\s`),        // roman numerals
	}
	bulletPattern   = regexp.MustCompile(`^([-*•]|\d+[.)])\s+`)
	pageNumberLine  = regexp.MustCompile(`\n\s*\d+\s*\n`)
	pageLabel       = regexp.MustCompile(`(?i)Page\s+\d+`)
	ruleLine        = regexp.MustCompile(`\n[-_=]{3,}\n`)
	blankRuns       = regexp.MustCompile(`\n\s*\n\s*\n+`)
	spaceRuns       = regexp.MustCompile(` +`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Segmenter splits raw study text into ordered topic segments.
type Segmenter struct {
	cfg Config
}

// New creates a Segmenter with the given configuration.
func New(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Clean strips extraction artifacts: page numbers, "Page N" labels,
// horizontal rules and excessive whitespace.
func Clean(text string) string {
	text = pageNumberLine.ReplaceAllString(text, "\n")
	text = pageLabel.ReplaceAllString(text, "")
	text = ruleLine.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Normalize collapses all whitespace runs to single spaces. Segment
// concatenation equals the cleaned input under this normalization.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
}

// Segment splits rawText into ordered, non-overlapping segments. Lines
// that look like headings open a new segment; bullet runs stay attached
// to the segment they appear in (a heading-shaped line inside a bullet
// run is body text). Oversized segments fall back to fixed word windows
// so no segment exceeds MaxWindowWords.
func (s *Segmenter) Segment(rawText string) ([]domain.Segment, error) {
	text := Clean(rawText)
	if len(strings.Fields(text)) == 0 {
		return nil, domain.NewEmptyInputError()
	}

	type block struct {
		heading string
		lines   []string
	}

	var blocks []block
	current := block{}
	inBulletRun := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			inBulletRun = false
			continue
		}

		isBullet := bulletPattern.MatchString(line)
		if s.isHeading(line) && !(isBullet && inBulletRun) {
			// Consecutive heading lines form one multi-line heading.
			if current.heading != "" && len(current.lines) == 0 {
				current.heading += "\n" + line
				continue
			}
			if len(current.lines) > 0 || current.heading != "" {
				blocks = append(blocks, current)
			}
			current = block{heading: line}
			inBulletRun = false
			continue
		}

		current.lines = append(current.lines, line)
		inBulletRun = isBullet
	}
	if len(current.lines) > 0 || current.heading != "" {
		blocks = append(blocks, current)
	}

	var segments []domain.Segment
	for _, b := range blocks {
		body := strings.Join(b.lines, "\n")
		// A heading with no content is demoted to body text so no source
		// words are lost.
		if body == "" && b.heading != "" {
			body, b.heading = b.heading, ""
		}
		for i, window := range s.split(body) {
			heading := ""
			if i == 0 {
				heading = b.heading
			}
			id := len(segments)
			segments = append(segments, domain.NewSegment(id, id, heading, window))
		}
	}

	if err := domain.ValidateSegments(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// isHeading reports whether a line is likely a section heading.
func (s *Segmenter) isHeading(line string) bool {
	for _, re := range headingPatterns {
		if re.MatchString(line) {
			return true
		}
	}

	// Short capitalized lines without terminal punctuation
	if len(line) < s.cfg.MaxHeadingLen &&
		unicode.IsUpper([]rune(line)[0]) &&
		!strings.HasSuffix(line, ".") && !strings.HasSuffix(line, ",") && !strings.HasSuffix(line, ";") {
		words := strings.Fields(line)
		capitalized := 0
		for _, w := range words {
			if r := []rune(w)[0]; unicode.IsUpper(r) || unicode.IsDigit(r) {
				capitalized++
			}
		}
		if float64(capitalized)/float64(len(words)) > s.cfg.CapitalizedRatio {
			return true
		}
	}
	return false
}

// split breaks an oversized body into word windows near the target size.
// Bodies within the limit come back as a single window; an empty body
// (heading with no content yet) yields no windows.
func (s *Segmenter) split(body string) []string {
	words := strings.Fields(body)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= s.cfg.MaxWindowWords {
		return []string{body}
	}

	var windows []string
	for start := 0; start < len(words); {
		end := start + s.cfg.TargetWindowWords
		if end > len(words) {
			end = len(words)
		}
		// Absorb a trailing sliver below the minimum window size, but
		// never let a window grow past the hard cap.
		if remaining := len(words) - end; remaining > 0 && remaining < s.cfg.MinWindowWords &&
			end-start+remaining <= s.cfg.MaxWindowWords {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
		start = end
	}
	return windows
}
