package ir

import "fmt"

// Location is a source position: a file name and a line number. Line 0
// means the position is unknown.
type Location struct {
	File string
	Line int
}

// UnknownLoc is the position used for synthesized nodes.
var UnknownLoc = Location{}

// Known reports whether the location carries a real source position.
func (l Location) Known() bool {
	return l.Line > 0
}

func (l Location) String() string {
	if !l.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CompareLoc orders locations by file name, then line.
func CompareLoc(a, b Location) int {
	if a.File != b.File {
		if a.File < b.File {
			return -1
		}
		return 1
	}
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	}
	return 0
}

// currentLoc tracks the position of the node being processed. The visitor
// updates it at each global, statement and instruction boundary; error
// messages and the line-directive emitter read it. Owned by a single
// logical client.
var currentLoc = UnknownLoc

// CurrentLoc returns the position of the node currently being processed.
func CurrentLoc() Location {
	return currentLoc
}

// SetCurrentLoc updates the current-position cell.
func SetCurrentLoc(l Location) {
	currentLoc = l
}
