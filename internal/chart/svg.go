package chart

import (
	"bytes"
	"fmt"
	"html"

	"quotesentinel/internal/model"
)

// Point is one sample on a line.
type Point struct{ X, Y float64 }

// Marker highlights a trade on a line.
type Marker struct {
	X    float64
	Y    float64
	Kind model.Action
}

// Panel is one stacked sub-chart.
type Panel struct {
	Title   string
	Color   string
	Line    []Point
	Markers []Marker
}

const (
	padLeft   = 60
	padRight  = 20
	padTop    = 30
	padBottom = 20
)

// Render draws panels stacked vertically into one SVG document.
func Render(w, panelH int, title string, panels ...Panel) []byte {
	if w <= 0 {
		w = 900
	}
	if panelH <= 0 {
		panelH = 260
	}
	h := panelH*len(panels) + 24

	var b bytes.Buffer
	fmt.Fprintf(&b, "<svg xmlns='http://www.w3.org/2000/svg' width='%d' height='%d' viewBox='0 0 %d %d'>", w, h, w, h)
	b.WriteString("<rect width='100%' height='100%' fill='#0b0f17'/>")
	fmt.Fprintf(&b, "<text x='16' y='18' fill='#e6edf3' font-family='sans-serif' font-size='14'>%s</text>", html.EscapeString(title))
	for i, p := range panels {
		renderPanel(&b, w, panelH, 24+i*panelH, p)
	}
	b.WriteString("</svg>")
	return b.Bytes()
}

func renderPanel(b *bytes.Buffer, w, panelH, offsetY int, p Panel) {
	plotW := float64(w - padLeft - padRight)
	plotH := float64(panelH - padTop - padBottom)

	fmt.Fprintf(b, "<g transform='translate(%d,%d)'>", padLeft, offsetY+padTop)
	fmt.Fprintf(b, "<text x='0' y='-10' fill='#9da7b3' font-family='sans-serif' font-size='12'>%s</text>", html.EscapeString(p.Title))
	fmt.Fprintf(b, "<line x1='0' y1='0' x2='0' y2='%.0f' stroke='#1f2837'/>", plotH)
	fmt.Fprintf(b, "<line x1='0' y1='%.0f' x2='%.0f' y2='%.0f' stroke='#1f2837'/>", plotH, plotW, plotH)

	if len(p.Line) == 0 {
		fmt.Fprintf(b, "<text x='%.0f' y='%.0f' fill='#9da7b3' font-family='sans-serif' font-size='12' text-anchor='middle'>no data</text>", plotW/2, plotH/2)
		b.WriteString("</g>")
		return
	}

	minx, maxx := p.Line[0].X, p.Line[len(p.Line)-1].X
	miny, maxy := p.Line[0].Y, p.Line[0].Y
	for _, pt := range p.Line {
		if pt.Y < miny {
			miny = pt.Y
		}
		if pt.Y > maxy {
			maxy = pt.Y
		}
	}
	sx := plotW / (maxx - minx + 1e-9)
	sy := plotH / (maxy - miny + 1e-9)
	project := func(x, y float64) (float64, float64) {
		return (x - minx) * sx, plotH - (y-miny)*sy
	}

	fmt.Fprintf(b, "<text x='-6' y='8' fill='#9da7b3' font-family='sans-serif' font-size='10' text-anchor='end'>%s</text>", axisLabel(maxy))
	fmt.Fprintf(b, "<text x='-6' y='%.0f' fill='#9da7b3' font-family='sans-serif' font-size='10' text-anchor='end'>%s</text>", plotH, axisLabel(miny))

	color := p.Color
	if color == "" {
		color = "#59a6ff"
	}
	fmt.Fprintf(b, "<polyline fill='none' stroke='%s' stroke-width='1.5' points='", color)
	for i, pt := range p.Line {
		x, y := project(pt.X, pt.Y)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", x, y)
	}
	b.WriteString("'/>")

	for _, m := range p.Markers {
		x, y := project(m.X, m.Y)
		switch m.Kind {
		case model.ActionBuy:
			fmt.Fprintf(b, "<polygon class='buy' points='%.2f,%.2f %.2f,%.2f %.2f,%.2f' fill='#8bff9b'/>", x, y-6, x-5, y+4, x+5, y+4)
		case model.ActionSell:
			fmt.Fprintf(b, "<polygon class='sell' points='%.2f,%.2f %.2f,%.2f %.2f,%.2f' fill='#ff7a7a'/>", x, y+6, x-5, y-4, x+5, y-4)
		}
	}
	b.WriteString("</g>")
}

func axisLabel(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func xOf(r model.Record) float64 {
	return float64(r.Timestamp.UnixNano()) / 1e9
}

// ValueAndReturn charts estimated value and cumulative return over time.
func ValueAndReturn(records []model.Record) []byte {
	value := Panel{Title: "Portfolio Value (USD)", Color: "#b38cff"}
	ret := Panel{Title: "Cumulative Return (%)", Color: "#4cd07d"}
	for _, r := range records {
		value.Line = append(value.Line, Point{X: xOf(r), Y: r.EstimatedValue})
		ret.Line = append(ret.Line, Point{X: xOf(r), Y: r.CumulativeReturn})
	}
	return Render(900, 260, "Portfolio Value Over Time", value, ret)
}

// PriceAndValue charts the price with BUY/SELL markers above the estimated value.
func PriceAndValue(records []model.Record) []byte {
	price := Panel{Title: "Price with Trade Signals", Color: "#59a6ff"}
	value := Panel{Title: "Estimated Portfolio Value Over Time", Color: "#b38cff"}
	for _, r := range records {
		x := xOf(r)
		price.Line = append(price.Line, Point{X: x, Y: r.Price})
		if r.Action.IsTrade() {
			price.Markers = append(price.Markers, Marker{X: x, Y: r.Price, Kind: r.Action})
		}
		value.Line = append(value.Line, Point{X: x, Y: r.EstimatedValue})
	}
	return Render(1400, 400, "Trade Visualization", price, value)
}
