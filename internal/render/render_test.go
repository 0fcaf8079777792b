package render_test

import (
	"encoding/xml"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

func graphOf(nodes map[string]*models.Node) *models.Graph {
	g := models.NewGraph()
	for id, n := range nodes {
		g.Nodes[id] = n
	}

	return g
}

func scenario() *models.Graph {
	return graphOf(map[string]*models.Node{
		"a": {Visits: 10, Depth: 0, Sibling: 0, State: "root"},
		"b": {Visits: 5, Depth: 1, Sibling: 0, State: "leaf"},
	})
}

func TestRender_Scenario(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	res := render.Render(scenario(), canvas)

	if res.Drawn != 2 || len(res.Skipped) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	circles := canvas.Circles()
	if len(circles) != 2 {
		t.Fatalf("expected 2 circles, got %d", len(circles))
	}

	a, b := circles[0], circles[1]
	if a.ID != "a" || a.CX != 10 || a.CY != 0 || a.R != 10 {
		t.Errorf("circle a = %+v", a)
	}
	if b.ID != "b" || b.CX != 10 || b.CY != 20 {
		t.Errorf("circle b = %+v", b)
	}
	if math.Abs(b.R-10*math.Sqrt(0.5)) > 1e-9 {
		t.Errorf("circle b radius = %v, want ~7.07", b.R)
	}
}

func TestRender_EmptyGraph(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	res := render.Render(models.NewGraph(), canvas)

	if res.Drawn != 0 || len(canvas.Circles()) != 0 {
		t.Fatalf("expected nothing drawn, got %+v", res)
	}

	render.Render(nil, canvas)
	if len(canvas.Circles()) != 0 {
		t.Fatal("nil graph must draw nothing")
	}
}

func TestRender_ReplacesPreviousCircles(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	render.Render(scenario(), canvas)
	render.Render(models.NewGraph(), canvas)

	if n := len(canvas.Circles()); n != 0 {
		t.Fatalf("expected stale circles to be cleared, got %d", n)
	}
	if canvas.Renders() != 2 {
		t.Errorf("expected 2 renders, got %d", canvas.Renders())
	}
}

func TestRender_ZeroVisitsDegenerateDomain(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	render.Render(graphOf(map[string]*models.Node{
		"a": {Visits: 0, Depth: 0, Sibling: 0},
		"b": {Visits: 0, Depth: 1, Sibling: 3},
	}), canvas)

	for _, c := range canvas.Circles() {
		if c.R != 0 {
			t.Errorf("circle %s radius = %v, want 0", c.ID, c.R)
		}
	}
}

func TestRadiusScale_MonotoneAndExactAtMax(t *testing.T) {
	t.Parallel()

	s := render.NewRadiusScale(37)
	prev := -1.0
	for v := 0; v <= 37; v++ {
		r := s.Radius(v)
		if r < prev {
			t.Fatalf("radius decreased at v=%d: %v < %v", v, r, prev)
		}
		prev = r
	}

	if r := s.Radius(37); r != render.MaxRadius {
		t.Errorf("radius(max) = %v, want %v", r, render.MaxRadius)
	}
	if r := render.NewRadiusScale(0).Radius(5); r != 0 {
		t.Errorf("degenerate scale radius = %v, want 0", r)
	}
}

func TestRender_PositionDependsOnlyOnLane(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	render.Render(graphOf(map[string]*models.Node{
		"x": {Visits: 1, Depth: 3, Sibling: 2, State: "one"},
		"y": {Visits: 100, Depth: 3, Sibling: 2, State: "two"},
	}), canvas)

	c := canvas.Circles()
	if c[0].CX != c[1].CX || c[0].CY != c[1].CY {
		t.Errorf("expected identical centres, got (%v,%v) and (%v,%v)", c[0].CX, c[0].CY, c[1].CX, c[1].CY)
	}
	if c[0].CX != 50 || c[0].CY != 60 {
		t.Errorf("centre = (%v,%v), want (50,60)", c[0].CX, c[0].CY)
	}
}

func TestRender_SkipsMalformedNodes(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	res := render.Render(graphOf(map[string]*models.Node{
		"good": {Visits: 4, Depth: 0, Sibling: 0},
		"bad":  {Visits: 4, Depth: -1, Sibling: 0},
		"nil":  nil,
	}), canvas)

	if res.Drawn != 1 {
		t.Fatalf("expected 1 drawn, got %d", res.Drawn)
	}
	if len(res.Skipped) != 2 || res.Skipped[0] != "bad" || res.Skipped[1] != "nil" {
		t.Errorf("skipped = %v", res.Skipped)
	}
	if canvas.Circles()[0].R != render.MaxRadius {
		t.Error("malformed nodes must not affect the radius domain")
	}
}

func TestRender_ReportsNodesDroppedAtDecode(t *testing.T) {
	t.Parallel()

	g, _, err := models.ParseGraph([]byte(`{"Nodes":{
		"a":{"Visits":2,"Depth":0,"Sibling":0},
		"b":{"Depth":1,"Sibling":0},
		"c":{"Visits":1,"Depth":-3,"Sibling":0}
	}}`))
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}
	g.Nodes["d"] = &models.Node{Visits: 1, Depth: 0, Sibling: -1}

	res := render.Render(g, render.NewCanvas())

	if res.Drawn != 1 {
		t.Fatalf("expected 1 drawn, got %d", res.Drawn)
	}
	if got := strings.Join(res.Skipped, ","); got != "b,c,d" {
		t.Errorf("skipped = %q, want b,c,d", got)
	}
}

func TestTooltip_Template(t *testing.T) {
	t.Parallel()

	got := render.Tooltip(&models.Node{Visits: 12, State: "term=3\nleader=n1"})
	want := "Visits: 12\nState:\nterm=3\nleader=n1"
	if got != want {
		t.Errorf("tooltip = %q, want %q", got, want)
	}
}

func TestCanvas_WriteSVGRoundTripsTooltip(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	render.Render(scenario(), canvas)

	data, err := canvas.SVG()
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}

	var doc struct {
		ViewBox string `xml:"viewBox,attr"`
		G       struct {
			Stroke  string `xml:"stroke,attr"`
			Circles []struct {
				CX    string `xml:"cx,attr"`
				CY    string `xml:"cy,attr"`
				R     string `xml:"r,attr"`
				Fill  string `xml:"fill,attr"`
				Title string `xml:"title"`
			} `xml:"circle"`
		} `xml:"g"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid SVG: %v\n%s", err, data)
	}

	if doc.G.Stroke != render.Stroke {
		t.Errorf("stroke = %q", doc.G.Stroke)
	}
	if len(doc.G.Circles) != 2 {
		t.Fatalf("expected 2 circles, got %d", len(doc.G.Circles))
	}

	a := doc.G.Circles[0]
	if a.CX != "10" || a.CY != "0" || a.R != "10" || a.Fill != render.Fill {
		t.Errorf("unexpected circle attrs %+v", a)
	}
	if a.Title != "Visits: 10\nState:\nroot" {
		t.Errorf("title = %q", a.Title)
	}
	if doc.ViewBox != "0 -10 20 40" {
		t.Errorf("viewBox = %q", doc.ViewBox)
	}
}

func TestCanvas_ConcurrentRenders(t *testing.T) {
	t.Parallel()

	canvas := render.NewCanvas()
	g := scenario()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			render.Render(g, canvas)
		}()
	}
	wg.Wait()

	if n := len(canvas.Circles()); n != 2 {
		t.Fatalf("expected 2 circles after concurrent renders, got %d", n)
	}
}
