package dashboard

import (
	"net/url"
	"strconv"
)

// Layout holds the responsive sizes derived from the reported screen
// resolution. All values are pixels.
type Layout struct {
	ScreenW     int `json:"screen_w"`
	ScreenH     int `json:"screen_h"`
	FontBase    int `json:"font_base"`
	FontLabel   int `json:"font_label"`
	FontKPI     int `json:"font_kpi"`
	FontHeader  int `json:"font_header"`
	ChartHeight int `json:"chart_height"`
	TableHeight int `json:"table_height"`
}

// ComputeLayout derives font and widget sizes from a screen resolution,
// clamped to stay readable on anything from a small laptop up. Non-positive
// dimensions fall back to the given defaults.
func ComputeLayout(w, h, fallbackW, fallbackH int) Layout {
	if w <= 0 {
		w = fallbackW
	}
	if h <= 0 {
		h = fallbackH
	}

	base := clamp(w/100, 12, 16)
	return Layout{
		ScreenW:     w,
		ScreenH:     h,
		FontBase:    base,
		FontLabel:   base - 2,
		FontKPI:     clamp(w/70, 20, 28),
		FontHeader:  clamp(w/60, 24, 32),
		ChartHeight: minInt(h*30/100, 350),
		TableHeight: minInt(h*25/100, 250),
	}
}

// screenHints reads the w/h query parameters the page bootstrap script
// appends on its first load. Missing or garbage values yield 0.
func screenHints(q url.Values) (int, int) {
	w, _ := strconv.Atoi(q.Get("w"))
	h, _ := strconv.Atoi(q.Get("h"))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
