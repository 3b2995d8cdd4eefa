// Package chart renders per-category spending as a PNG bar chart or as text
// bars for terminals.
package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"

	"finbot/internal/core"
)

const (
	Title     = "Spending by Category"
	AxisLabel = "Amount ($)"
)

var ErrNoData = errors.New("no categories to plot")

// PNG writes a bar chart of data to w.
func PNG(w io.Writer, data []core.CategoryAmount) error {
	if len(data) == 0 {
		return ErrNoData
	}

	lo, hi := 0.0, 0.0
	bars := make([]gochart.Value, 0, len(data))
	for _, d := range data {
		bars = append(bars, gochart.Value{Label: d.Name, Value: d.Amount})
		lo = math.Min(lo, d.Amount)
		hi = math.Max(hi, d.Amount)
	}
	if hi == lo {
		hi = lo + 1
	}

	graph := gochart.BarChart{
		Title:      Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Width:      1000,
		Height:     500,
		BarWidth:   60,
		YAxis: gochart.YAxis{
			Name:  AxisLabel,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// PNGBase64 renders data and returns the PNG as standard base64.
func PNGBase64(data []core.CategoryAmount) (string, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, data); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Bar is one line of a text chart.
type Bar struct {
	Label  string
	Amount float64
	Fill   string
}

// TextBars scales data so the largest amount spans width cells.
func TextBars(data []core.CategoryAmount, width int) []Bar {
	if width <= 0 {
		width = 40
	}
	var hi float64
	for _, d := range data {
		hi = math.Max(hi, d.Amount)
	}

	out := make([]Bar, 0, len(data))
	for _, d := range data {
		cells := 0
		if hi > 0 && d.Amount > 0 {
			cells = int(math.Round(d.Amount / hi * float64(width)))
			if cells == 0 {
				cells = 1
			}
		}
		out = append(out, Bar{Label: d.Name, Amount: d.Amount, Fill: strings.Repeat("█", cells)})
	}
	return out
}
