// Package render draws visit graphs as SVG circle scatters.
//
// Each node becomes one circle centred on its (Sibling, Depth) lane, sized by
// a square-root scale over visit counts, with a tooltip carrying the visit
// count and state. Rendering is a pure function of the graph snapshot; the
// only side effect is replacing the circles held by the target Surface.
package render

import (
	"strconv"
	"strings"

	"github.com/persistorai/visitgraph/internal/models"
)

// Lane geometry and paint shared by every circle.
const (
	LaneWidth  = 20.0
	LaneHeight = 20.0
	LaneOffset = 10.0
	Fill       = "white"
	Stroke     = "black"
)

// Circle is one drawn node.
type Circle struct {
	ID    string
	CX    float64
	CY    float64
	R     float64
	Title string
}

// Surface receives the circles of a render. Implementations must discard any
// previously drawn circles.
type Surface interface {
	ReplaceCircles(circles []Circle)
}

// Result summarises a render.
type Result struct {
	Drawn   int      `json:"drawn"`
	Skipped []string `json:"skipped,omitempty"`
}

// Render draws g onto target, replacing whatever target held before.
// Nodes with invalid values are skipped and listed in the result, along with
// the nodes already dropped when g was decoded. A nil or empty graph clears
// the target.
func Render(g *models.Graph, target Surface) Result {
	circles, skipped := Layout(g)
	target.ReplaceCircles(circles)

	if g != nil {
		skipped = models.MergeIDs(g.Skipped, skipped)
	}

	return Result{Drawn: len(circles), Skipped: skipped}
}

// Layout computes the circles for g without drawing them. Circles are ordered
// by node id.
func Layout(g *models.Graph) ([]Circle, []string) {
	var skipped []string
	valid := make([]string, 0, g.Len())
	maxVisits := 0

	for _, id := range g.IDs() {
		n := g.Nodes[id]
		if n == nil || n.Validate() != nil {
			skipped = append(skipped, id)

			continue
		}
		valid = append(valid, id)
		if n.Visits > maxVisits {
			maxVisits = n.Visits
		}
	}

	scale := NewRadiusScale(maxVisits)
	circles := make([]Circle, 0, len(valid))

	for _, id := range valid {
		n := g.Nodes[id]
		cx, cy := Position(n.Sibling, n.Depth)
		circles = append(circles, Circle{
			ID:    id,
			CX:    cx,
			CY:    cy,
			R:     scale.Radius(n.Visits),
			Title: Tooltip(n),
		})
	}

	return circles, skipped
}

// Position returns the circle centre for a lane coordinate.
func Position(sibling, depth int) (float64, float64) {
	return float64(sibling)*LaneWidth + LaneOffset, float64(depth) * LaneHeight
}

// Tooltip returns the three-line hover text for a node.
func Tooltip(n *models.Node) string {
	return strings.Join([]string{
		"Visits: " + strconv.Itoa(n.Visits),
		"State:",
		n.State,
	}, "\n")
}
