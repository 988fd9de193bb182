package term

import (
	"strings"

	"github.com/vtcore/vtcore/pkg/rangeset"
)

// ZoneKind classifies a semantic zone installed by an OSC 133 shell
// integration mark.
type ZoneKind int

const (
	ZonePrompt ZoneKind = iota
	ZoneInput
	ZoneOutput
)

// SemanticZone is a half-open range of rows, from the row the mark began
// on to (but not including) the row the next mark began on.
type SemanticZone struct {
	Kind       ZoneKind
	StartRow   rangeset.StableRowIndex
	StartCol   int
	EndRow     rangeset.StableRowIndex
	ExitCode   *int // set on a ZoneOutput end boundary when known
}

// SemanticZones records OSC 133 prompt/command/output marks keyed by the
// row they started on, in the order they were installed.
type SemanticZones struct {
	zones []SemanticZone
}

// NewSemanticZones returns an empty zone tracker.
func NewSemanticZones() *SemanticZones { return &SemanticZones{} }

// Mark installs a new zone boundary starting at (row, col), closing off
// the previous open zone (if any) at this row.
func (z *SemanticZones) Mark(kind ZoneKind, row rangeset.StableRowIndex, col int) {
	if n := len(z.zones); n > 0 && z.zones[n-1].EndRow == 0 {
		z.zones[n-1].EndRow = row
	}
	z.zones = append(z.zones, SemanticZone{Kind: kind, StartRow: row, StartCol: col})
}

// SetExitCode records the exit status of the most recently opened output
// zone, per OSC 133;D;<code>.
func (z *SemanticZones) SetExitCode(code int) {
	for i := len(z.zones) - 1; i >= 0; i-- {
		if z.zones[i].Kind == ZoneOutput {
			c := code
			z.zones[i].ExitCode = &c
			return
		}
	}
}

// Zones returns every recorded zone in installation order. The final zone
// may have a zero EndRow meaning "still open".
func (z *SemanticZones) Zones() []SemanticZone { return z.zones }

// ZonesOfKind filters Zones by kind.
func (z *SemanticZones) ZonesOfKind(kind ZoneKind) []SemanticZone {
	var out []SemanticZone
	for _, zone := range z.zones {
		if zone.Kind == kind {
			out = append(out, zone)
		}
	}
	return out
}

// GetTextFromSemanticZone reconstructs the plain text covered by a zone
// from a snapshot of screen lines (scrollback ++ viewport, see
// Screen.VisibleLines), preserving wrapped continuations — no newline is
// inserted between a wrapped line and its continuation — and trimming
// trailing whitespace only on the final physical line of each logical
// line.
func GetTextFromSemanticZone(lines []Line, firstStable rangeset.StableRowIndex, z SemanticZone) string {
	start := int(z.StartRow - firstStable)
	end := len(lines)
	if z.EndRow != 0 {
		if e := int(z.EndRow - firstStable); e < end {
			end = e
		}
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return ""
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		line := lines[i]
		text := lineRunes(line)
		if !line.Wrapped {
			text = strings.TrimRight(text, " ")
		}
		b.WriteString(text)
		// A newline separates this line from the next unless the next
		// line is this one's wrapped continuation.
		if !line.Wrapped && i != end-1 {
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func lineRunes(l Line) string {
	runes := make([]rune, 0, len(l.Cells))
	for _, c := range l.Cells {
		if c.IsWideSpacer() {
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}
