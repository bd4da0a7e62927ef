package segmenter

import (
	"strings"
	"testing"

	"quizcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct joins headings and bodies in order, the way the source
// text would read.
func reconstruct(segments []domain.Segment) string {
	var parts []string
	for _, seg := range segments {
		if seg.Heading != "" {
			parts = append(parts, seg.Heading)
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

func TestSegmentEmptyInput(t *testing.T) {
	s := New(DefaultConfig())

	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		_, err := s.Segment(input)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.ErrEmptyInput))
	}
}

func TestSegmentByHeadings(t *testing.T) {
	s := New(DefaultConfig())
	input := "Cell Division\n" +
		"Mitosis is the process by which a cell divides into two identical cells.\n" +
		"\n" +
		"Photosynthesis Basics\n" +
		"Plants convert light energy into chemical energy using chlorophyll."

	segments, err := s.Segment(input)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, "Cell Division", segments[0].Heading)
	assert.Contains(t, segments[0].Text, "Mitosis")
	assert.Equal(t, "Photosynthesis Basics", segments[1].Heading)
	assert.Contains(t, segments[1].Text, "chlorophyll")

	for i, seg := range segments {
		assert.Equal(t, i, seg.Order)
		assert.Equal(t, len(strings.Fields(seg.Text)), seg.WordCount)
	}
}

func TestSegmentReconstructsSource(t *testing.T) {
	s := New(DefaultConfig())
	input := "1. The Cell\n" +
		"Every living organism is made of cells, the smallest unit of life.\n" +
		"\n" +
		"2. Energy\n" +
		"Cells release energy from glucose through respiration.\n" +
		"Some organisms can also ferment sugars without oxygen."

	segments, err := s.Segment(input)
	require.NoError(t, err)

	assert.Equal(t, Normalize(Clean(input)), Normalize(reconstruct(segments)))
}

func TestSegmentBulletRunKeepsHeadingShapedLines(t *testing.T) {
	s := New(DefaultConfig())
	input := "Key Points\n" +
		"- Mitosis produces two identical daughter cells.\n" +
		"1. DNA Replication\n" +
		"- Each daughter cell keeps the full genome."

	segments, err := s.Segment(input)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	// The numbered line sits inside a bullet run, so it is body text,
	// not a new section.
	assert.Equal(t, "Key Points", segments[0].Heading)
	assert.Contains(t, segments[0].Text, "DNA Replication")
}

func TestSegmentConsecutiveHeadings(t *testing.T) {
	s := New(DefaultConfig())
	input := "Chapter 1\n" +
		"Cell Biology\n" +
		"The cell is the structural unit of every known organism."

	segments, err := s.Segment(input)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	assert.Equal(t, "Chapter 1\nCell Biology", segments[0].Heading)
	assert.Equal(t, Normalize(Clean(input)), Normalize(reconstruct(segments)))
}

func TestSegmentHeadingOnlyInput(t *testing.T) {
	s := New(DefaultConfig())

	segments, err := s.Segment("Cell Division")
	require.NoError(t, err)
	require.Len(t, segments, 1)

	// A lone heading is demoted to body text rather than dropped.
	assert.Equal(t, "", segments[0].Heading)
	assert.Equal(t, "Cell Division", segments[0].Text)
}

func TestSegmentWindowFallback(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	// 500 words of unheaded prose must split into fixed windows.
	input := strings.TrimSpace(strings.Repeat("cell division cycle metabolism ", 125))

	segments, err := s.Segment(input)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	total := 0
	for _, seg := range segments {
		assert.LessOrEqual(t, seg.WordCount, cfg.MaxWindowWords)
		total += seg.WordCount
	}
	assert.Equal(t, 500, total)
	assert.Equal(t, Normalize(input), Normalize(reconstruct(segments)))
}

func TestClean(t *testing.T) {
	input := "Intro text\n 12 \n---\nPage 4\nmore text"
	assert.Equal(t, "Intro text\n\nmore text", Clean(input))
}
