// Package chart lays out the points bar charts.
//
// Layout is pure geometry on a fixed-size [Surface]; [SVG] and [Terminal]
// turn a drawn surface into output. Drawing always clears the surface first,
// so redrawing with the same input yields the same bars.
package chart

import (
	"strconv"
	"time"

	"github.com/idilsaglam/chores/internal/model"
)

const (
	DailyChartID  = "daily-chart"
	WeeklyChartID = "weekly-chart"

	DailyColor  = "steelblue"
	WeeklyColor = "orange"

	// BarPadding separates neighbouring bars.
	BarPadding = 5.0
	// LabelSpace is reserved under the bars for the date labels.
	LabelSpace = 20.0
	// MinBarHeight keeps zero-value bars visible.
	MinBarHeight = 1.0

	heightFill = 0.9
	dateFormat = "02/01"
)

// Interval is the time step between neighbouring bars.
type Interval int

const (
	Daily Interval = iota
	Weekly
)

func (i Interval) days() int {
	if i == Weekly {
		return 7
	}
	return 1
}

// Label is a piece of text anchored at its centre point.
type Label struct {
	X, Y float64
	Text string
}

type Bar struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Value         int
	ValueLabel    Label
	DateLabel     Label
}

// Surface is a drawing target with fixed pixel dimensions.
type Surface struct {
	ID       string
	Width    float64
	Height   float64
	Interval Interval
	Bars     []Bar
}

func NewSurface(id string, width, height float64) *Surface {
	s := &Surface{ID: id, Width: width, Height: height}
	if id == WeeklyChartID {
		s.Interval = Weekly
	}
	return s
}

func (s *Surface) Clear() { s.Bars = s.Bars[:0] }

// RenderBarChart replaces the surface content with one bar per value.
// Index len(series)-1 is the most recent period and is dated today.
func RenderBarChart(s *Surface, series []int, color string, today time.Time) {
	s.Clear()
	if len(series) == 0 {
		return
	}

	n := float64(len(series))
	barWidth := s.Width/n - BarPadding

	maxValue := series[0]
	for _, v := range series[1:] {
		maxValue = max(maxValue, v)
	}
	scale := 0.0
	if maxValue > 0 {
		scale = (s.Height - LabelSpace) / float64(maxValue)
	}

	step := s.Interval.days()
	for i, v := range series {
		h := float64(v) * scale * heightFill
		if v == 0 {
			h = MinBarHeight
		}
		x := float64(i) * (barWidth + BarPadding)
		y := s.Height - h - LabelSpace
		date := today.AddDate(0, 0, -(len(series)-1-i)*step)

		s.Bars = append(s.Bars, Bar{
			X:      x,
			Y:      y,
			Width:  barWidth,
			Height: h,
			Fill:   color,
			Value:  v,
			ValueLabel: Label{
				X:    x + barWidth/2,
				Y:    y + h/2,
				Text: strconv.Itoa(v),
			},
			DateLabel: Label{
				X:    x + barWidth/2,
				Y:    s.Height - 5,
				Text: date.Format(dateFormat),
			},
		})
	}
}

// Set is the pair of surfaces the points view draws on.
type Set struct {
	Daily  *Surface
	Weekly *Surface
}

func NewSet(width, height float64) *Set {
	return &Set{
		Daily:  NewSurface(DailyChartID, width, height),
		Weekly: NewSurface(WeeklyChartID, width, height),
	}
}

// Draw redraws both charts from a points snapshot.
func (cs *Set) Draw(p model.PointsData, today time.Time) {
	RenderBarChart(cs.Daily, p.DailyData, DailyColor, today)
	RenderBarChart(cs.Weekly, p.WeeklyData, WeeklyColor, today)
}
