package chart

import (
	"encoding/json"
)

// VegaLite returns the chart as a Vega-Lite v5 spec.
func (c Chart) VegaLite() ([]byte, error) {
	values := make([]map[string]interface{}, 0, len(c.X)*len(c.Series))
	for _, s := range c.Series {
		for i, x := range c.X {
			values = append(values, map[string]interface{}{
				"term":   x,
				"series": s.Name,
				"value":  s.Values[i],
			})
		}
	}

	x := map[string]interface{}{
		"field": "term", "type": "ordinal", "title": c.XLabel,
		"axis": map[string]interface{}{"labelAngle": 0},
	}
	y := map[string]interface{}{"field": "value", "type": "quantitative", "title": c.YLabel}
	color := map[string]interface{}{"field": "series", "type": "nominal", "title": nil}
	tooltip := []map[string]interface{}{
		{"field": "term", "title": c.XLabel},
		{"field": "series"},
		{"field": "value", "format": ",.2f"},
	}

	spec := map[string]interface{}{
		"$schema":  "https://vega.github.io/schema/vega-lite/v5.json",
		"title":    c.Title,
		"width":    "container",
		"height":   320,
		"data":     map[string]interface{}{"values": values},
		"encoding": map[string]interface{}{"x": x, "y": y, "color": color, "tooltip": tooltip},
	}
	switch c.Kind {
	case KindLine:
		spec["mark"] = map[string]interface{}{"type": "line", "point": true}
	default:
		y["stack"] = "zero"
		spec["mark"] = map[string]interface{}{"type": "bar"}
	}
	return json.Marshal(spec)
}
