package chart

import (
	"bytes"
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Renderer turns a chart into an HTML node.
type Renderer interface {
	Render(c Chart) (g.Node, error)
}

// NewRenderer returns the static SVG renderer when static is true, otherwise
// the interactive Vega-Lite renderer.
func NewRenderer(static bool) Renderer {
	if static {
		return StaticRenderer{Width: 720, Height: 360}
	}
	return InteractiveRenderer{}
}

// InteractiveRenderer embeds a Vega-Lite spec rendered client-side by vega-embed.
type InteractiveRenderer struct{}

// Scripts are the client libraries the interactive renderer depends on.
var Scripts = []string{
	"https://cdn.jsdelivr.net/npm/vega@5",
	"https://cdn.jsdelivr.net/npm/vega-lite@5",
	"https://cdn.jsdelivr.net/npm/vega-embed@6",
}

func (InteractiveRenderer) Render(c Chart) (g.Node, error) {
	if c.Empty() {
		return emptyChart(c), nil
	}
	spec, err := c.VegaLite()
	if err != nil {
		return nil, fmt.Errorf("build chart spec %s: %w", c.ID, err)
	}
	return h.Div(
		h.Class("chart"),
		h.Div(h.ID(c.ID), h.Style("width:100%")),
		h.Script(g.Raw(fmt.Sprintf("vegaEmbed(%s, %s, {actions: {export: true, source: false, compiled: false, editor: false}});",
			strconv.Quote("#"+c.ID), spec))),
	), nil
}

// StaticRenderer draws the chart with gonum/plot and inlines the SVG.
type StaticRenderer struct {
	Width  int
	Height int
}

func (r StaticRenderer) Render(c Chart) (g.Node, error) {
	if c.Empty() {
		return emptyChart(c), nil
	}
	p, err := c.gonumPlot(vg.Points(float64(r.Width)))
	if err != nil {
		return nil, fmt.Errorf("plot chart %s: %w", c.ID, err)
	}
	wt, err := p.WriterTo(vg.Points(float64(r.Width)), vg.Points(float64(r.Height)), "svg")
	if err != nil {
		return nil, fmt.Errorf("render chart %s: %w", c.ID, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart %s: %w", c.ID, err)
	}
	svg := buf.Bytes()
	// Drop the XML prolog so the document can be inlined in HTML.
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return h.Div(h.Class("chart"), h.ID(c.ID), g.Raw(string(svg))), nil
}

// gonumPlot lays the chart out on a gonum plot: stacked bars share one column per
// term; lines put term i at x = i.
func (c Chart) gonumPlot(width vg.Length) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Y.Min = 0
	p.Legend.Top = true
	p.Legend.Left = true
	p.NominalX(c.X...)

	switch c.Kind {
	case KindLine:
		for i, s := range c.Series {
			pts := make(plotter.XYs, len(s.Values))
			for j, v := range s.Values {
				pts[j].X = float64(j)
				pts[j].Y = v
			}
			line, points, err := plotter.NewLinePoints(pts)
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", s.Name, err)
			}
			line.Color = plotutil.Color(i)
			points.Color = plotutil.Color(i)
			points.Shape = draw.CircleGlyph{}
			p.Add(line, points)
			p.Legend.Add(s.Name, line, points)
		}
	default:
		barWidth := width / vg.Length(2*(len(c.X)+1))
		var below *plotter.BarChart
		for i, s := range c.Series {
			bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", s.Name, err)
			}
			bars.Color = plotutil.Color(i)
			bars.LineStyle.Width = 0
			if below != nil {
				bars.StackOn(below)
			}
			p.Add(bars)
			p.Legend.Add(s.Name, bars)
			below = bars
		}
	}
	return p, nil
}

func emptyChart(c Chart) g.Node {
	return h.Div(h.Class("chart chart-empty"), h.ID(c.ID), h.P(g.Text("No data for the current selection.")))
}
