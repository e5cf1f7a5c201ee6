package versioning

import (
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// Revision is one side of a comparison.
type Revision struct {
	VersionNumber int
	Title         string
	Content       string
	CreatedAt     time.Time
	IsCurrent     bool
}

type LineChange string

const (
	LineUnchanged LineChange = "unchanged"
	LineAdded     LineChange = "added"
	LineRemoved   LineChange = "removed"
	LineModified  LineChange = "modified"
)

type RenderedLine struct {
	Number int        `json:"number"`
	Text   string     `json:"text"`
	Change LineChange `json:"change"`
}

type RenderedRevision struct {
	VersionNumber int            `json:"version_number"`
	Title         string         `json:"title"`
	CreatedAt     time.Time      `json:"created_at"`
	Lines         []RenderedLine `json:"lines"`
}

// Comparison is a side-by-side view, newer revision on the left.
type Comparison struct {
	Left           RenderedRevision `json:"left"`
	Right          RenderedRevision `json:"right"`
	IsCurrentLeft  bool             `json:"is_current_left"`
	IsCurrentRight bool             `json:"is_current_right"`
	TitleChanged   bool             `json:"title_changed"`
	Identical      bool             `json:"identical"`
}

// Compare renders a and b for manual comparison. Argument order does not
// matter: the higher version goes left, ties go to the later timestamp.
func Compare(a, b Revision) Comparison {
	newer, older := a, b
	if isOlder(a, b) {
		newer, older = b, a
	}

	oldLines := splitLines(older.Content)
	newLines := splitLines(newer.Content)

	left := make([]RenderedLine, len(newLines))
	right := make([]RenderedLine, len(oldLines))
	for i, text := range newLines {
		left[i] = RenderedLine{Number: i + 1, Text: text, Change: LineUnchanged}
	}
	for i, text := range oldLines {
		right[i] = RenderedLine{Number: i + 1, Text: text, Change: LineUnchanged}
	}

	matcher := difflib.NewMatcher(oldLines, newLines)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'r':
			mark(right, op.I1, op.I2, LineModified)
			mark(left, op.J1, op.J2, LineModified)
		case 'd':
			mark(right, op.I1, op.I2, LineRemoved)
		case 'i':
			mark(left, op.J1, op.J2, LineAdded)
		}
	}

	titleChanged := newer.Title != older.Title
	return Comparison{
		Left: RenderedRevision{
			VersionNumber: newer.VersionNumber,
			Title:         newer.Title,
			CreatedAt:     newer.CreatedAt,
			Lines:         left,
		},
		Right: RenderedRevision{
			VersionNumber: older.VersionNumber,
			Title:         older.Title,
			CreatedAt:     older.CreatedAt,
			Lines:         right,
		},
		IsCurrentLeft:  newer.IsCurrent,
		IsCurrentRight: older.IsCurrent,
		TitleChanged:   titleChanged,
		Identical:      !titleChanged && newer.Content == older.Content,
	}
}

func isOlder(a, b Revision) bool {
	if a.VersionNumber != b.VersionNumber {
		return a.VersionNumber < b.VersionNumber
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func mark(lines []RenderedLine, from, to int, change LineChange) {
	for i := from; i < to; i++ {
		lines[i].Change = change
	}
}
