package graph

import "strings"

// StyleClass names a visual class a renderer can map to colours.
type StyleClass string

const (
	StyleInactive StyleClass = "inactive"
	StyleTerminal StyleClass = "terminal"
	StyleRegular  StyleClass = "regular"
	StyleOnPath   StyleClass = "path"

	EdgeNeutral StyleClass = "neutral"
	EdgeOnPath  StyleClass = "path"
)

// Classify picks the default class of a stop. A fully upper-case name marks a
// terminus; names with no cased letters compare equal to their upper form and
// count as terminal too.
func Classify(active bool, name string) StyleClass {
	if !active {
		return StyleInactive
	}
	if name == strings.ToUpper(name) {
		return StyleTerminal
	}
	return StyleRegular
}

type Swatch struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

type NodeColor struct {
	Background string  `json:"background"`
	Border     string  `json:"border"`
	Highlight  *Swatch `json:"highlight,omitempty"`
}

type EdgeColor struct {
	Color     string `json:"color"`
	Highlight string `json:"highlight,omitempty"`
}

var nodePalette = map[StyleClass]NodeColor{
	StyleInactive: {Background: "#9fa8da", Border: "#7986cb", Highlight: &Swatch{Background: "#c5cae9", Border: "#9fa8da"}},
	StyleTerminal: {Background: "#1a237e", Border: "#0d1533", Highlight: &Swatch{Background: "#303f9f", Border: "#1a237e"}},
	StyleRegular:  {Background: "#3949ab", Border: "#1a237e", Highlight: &Swatch{Background: "#5c6bc0", Border: "#3949ab"}},
	StyleOnPath:   {Background: "#28a745", Border: "#1e7e34", Highlight: &Swatch{Background: "#34ce57", Border: "#28a745"}},
}

var edgePalette = map[StyleClass]EdgeColor{
	EdgeNeutral: {Color: "#5D6D7E", Highlight: "#7f8c8d"},
	EdgeOnPath:  {Color: "#28a745"},
}

// NodeColorFor returns the colours of a node class. Unknown classes fall back
// to the inactive swatch without a highlight.
func NodeColorFor(c StyleClass) NodeColor {
	if col, ok := nodePalette[c]; ok {
		return col
	}
	return NodeColor{Background: "#9fa8da", Border: "#7986cb"}
}

func EdgeColorFor(c StyleClass) EdgeColor {
	if col, ok := edgePalette[c]; ok {
		return col
	}
	return edgePalette[EdgeNeutral]
}
