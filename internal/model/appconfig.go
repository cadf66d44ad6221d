package model

import "time"

// Editor size limits for square shape and world grids.
const (
	MinShapeSize  = 4
	MaxShapeSize  = 50
	InitShapeSize = 6

	MinWorldSize  = 4
	MaxWorldSize  = 256
	InitWorldSize = 40
)

// ClampSize keeps size within [lo, hi] and never below 1.
func ClampSize(size, lo, hi int) int {
	return max(1, min(hi, max(lo, size)))
}

// AppConfig holds application-wide preferences and search defaults.
type AppConfig struct {
	// Search defaults
	DelayMillis       int  `json:"delay_millis"`        // throttle between sink calls, 0 = none
	PausePollMillis   int  `json:"pause_poll_millis"`   // how often a paused search re-checks
	Animated          bool `json:"animated"`            // report every failed placement
	WorldFillPercent  int  `json:"world_fill_percent"`  // probability of a true cell in a new world
	InitialShapeSize  int  `json:"initial_shape_size"`  // side of a new shape grid
	InitialWorldSize  int  `json:"initial_world_size"`  // side of a new world grid
	CheckBeforeSearch bool `json:"check_before_search"` // refuse ill-formed shapes

	// Application preferences
	LogLevel       string   `json:"log_level"`  // "debug", "info", "warn", "error"
	LogFormat      string   `json:"log_format"` // "text" or "json"
	RecentPatterns []string `json:"recent_patterns"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DelayMillis:       0,
		PausePollMillis:   50,
		Animated:          false,
		WorldFillPercent:  50,
		InitialShapeSize:  InitShapeSize,
		InitialWorldSize:  InitWorldSize,
		CheckBeforeSearch: true,
		LogLevel:          "info",
		LogFormat:         "text",
		RecentPatterns:    []string{},
		Theme:             "system",
	}
}

// Delay returns the configured throttle as a duration.
func (c AppConfig) Delay() time.Duration {
	if c.DelayMillis <= 0 {
		return 0
	}
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// PollInterval returns the pause polling interval, falling back to 50ms.
func (c AppConfig) PollInterval() time.Duration {
	if c.PausePollMillis <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.PausePollMillis) * time.Millisecond
}

// FillProbability returns WorldFillPercent as a probability in [0, 1].
func (c AppConfig) FillProbability() float64 {
	p := float64(c.WorldFillPercent) / 100.0
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// AddRecent records a pattern path at the front of RecentPatterns, removing
// duplicates and keeping at most ten entries.
func (c *AppConfig) AddRecent(path string) {
	out := []string{path}
	for _, p := range c.RecentPatterns {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.RecentPatterns = out
}

// BumpDelay grows the delay by 20% or 1ms, whichever is larger.
func BumpDelay(ms float64) float64 {
	return max(ms+1, ms*1.2)
}

// DropDelay shrinks the delay by about 20% or 1ms, whichever is larger.
// Delays under 1ms are left alone.
func DropDelay(ms float64) float64 {
	if ms < 1.0 {
		return ms
	}
	return max(0, min(ms-1, ms/1.2))
}
