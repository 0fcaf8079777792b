package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"sync"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Canvas is an in-memory SVG surface. It keeps exactly one circle group, the
// one written by the latest render, and is safe for concurrent use.
type Canvas struct {
	mu      sync.RWMutex
	circles []Circle
	renders uint64
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// ReplaceCircles implements Surface.
func (c *Canvas) ReplaceCircles(circles []Circle) {
	cp := make([]Circle, len(circles))
	copy(cp, circles)

	c.mu.Lock()
	c.circles = cp
	c.renders++
	c.mu.Unlock()
}

// Circles returns a copy of the currently drawn circles.
func (c *Canvas) Circles() []Circle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Circle, len(c.circles))
	copy(out, c.circles)

	return out
}

// Renders returns how many renders the canvas has received.
func (c *Canvas) Renders() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.renders
}

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	Xmlns   string   `xml:"xmlns,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Group   svgGroup `xml:"g"`
}

type svgGroup struct {
	Stroke  string      `xml:"stroke,attr"`
	Circles []svgCircle `xml:"circle"`
}

type svgCircle struct {
	ID    string `xml:"data-id,attr"`
	CX    string `xml:"cx,attr"`
	CY    string `xml:"cy,attr"`
	R     string `xml:"r,attr"`
	Fill  string `xml:"fill,attr"`
	Title string `xml:"title"`
}

// WriteSVG encodes the current circles as a standalone SVG document.
// The view box starts MaxRadius above the first row so depth-0 circles are
// not clipped.
func (c *Canvas) WriteSVG(w io.Writer) error {
	circles := c.Circles()

	width, height := LaneOffset+MaxRadius, MaxRadius
	doc := svgDoc{
		Xmlns: svgNamespace,
		Group: svgGroup{Stroke: Stroke, Circles: make([]svgCircle, 0, len(circles))},
	}

	for _, ci := range circles {
		width = max(width, ci.CX+MaxRadius)
		height = max(height, ci.CY+MaxRadius)
		doc.Group.Circles = append(doc.Group.Circles, svgCircle{
			ID:    ci.ID,
			CX:    formatNum(ci.CX),
			CY:    formatNum(ci.CY),
			R:     formatNum(ci.R),
			Fill:  Fill,
			Title: ci.Title,
		})
	}

	viewHeight := height + MaxRadius
	doc.Width = formatNum(width)
	doc.Height = formatNum(viewHeight)
	doc.ViewBox = fmt.Sprintf("0 %s %s %s", formatNum(-MaxRadius), formatNum(width), formatNum(viewHeight))

	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding svg: %w", err)
	}

	return enc.Flush()
}

// SVG returns the current circles as an SVG document.
func (c *Canvas) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
