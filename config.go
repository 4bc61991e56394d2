package tack

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config holds the engine's tuning knobs. All values have working defaults;
// zero or negative values are normalized back to them, so a partially filled
// config file is fine.
type Config struct {
	// GridStep is the snapping granularity for committed positions and sizes.
	GridStep float64 `toml:"grid_step"`
	// PushBuffer is the clearance added between separated entities.
	PushBuffer float64 `toml:"push_buffer"`
	// PushDepth caps the push-physics displacement chain.
	PushDepth int `toml:"push_depth"`

	// MinZoom and MaxZoom clamp the viewport zoom factor.
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`

	// Minimum entity sizes. Widths and heights never fall below these.
	MinWidgetWidth     float64 `toml:"min_widget_width"`
	MinWidgetHeight    float64 `toml:"min_widget_height"`
	MinContainerWidth  float64 `toml:"min_container_width"`
	MinContainerHeight float64 `toml:"min_container_height"`

	// Default sizes for newly created entities.
	WidgetWidth     float64 `toml:"widget_width"`
	WidgetHeight    float64 `toml:"widget_height"`
	ContainerWidth  float64 `toml:"container_width"`
	ContainerHeight float64 `toml:"container_height"`

	// HeaderOffset is the vertical inset reserved for a container's title
	// bar; nested coordinates are relative to the content origin below it.
	HeaderOffset float64 `toml:"header_offset"`
	// ContainerPadding is the margin kept around nested entities when a
	// container auto-sizes to fit its contents.
	ContainerPadding float64 `toml:"container_padding"`

	// PlacementStep is the spiral step used when searching for a free spot
	// for a new entity.
	PlacementStep float64 `toml:"placement_step"`

	// HandleMargin is the border width (world units) within which a press
	// grabs a resize handle instead of starting a drag.
	HandleMargin float64 `toml:"handle_margin"`

	// HistoryLimit caps the undo/redo snapshot list.
	HistoryLimit int `toml:"history_limit"`

	// Autosave scheduling. Autosave disables itself for the session after
	// AutosaveMaxRetries consecutive failures.
	AutosaveInterval   Duration `toml:"autosave_interval"`
	AutosaveBackoff    Duration `toml:"autosave_backoff"`
	AutosaveMaxRetries int      `toml:"autosave_max_retries"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		GridStep:           10,
		PushBuffer:         5,
		PushDepth:          DefaultPushDepth,
		MinZoom:            DefaultMinZoom,
		MaxZoom:            DefaultMaxZoom,
		MinWidgetWidth:     120,
		MinWidgetHeight:    80,
		MinContainerWidth:  200,
		MinContainerHeight: 150,
		WidgetWidth:        200,
		WidgetHeight:       150,
		ContainerWidth:     400,
		ContainerHeight:    300,
		HeaderOffset:       40,
		ContainerPadding:   20,
		PlacementStep:      20,
		HandleMargin:       8,
		HistoryLimit:       50,
		AutosaveInterval:   Duration{30 * time.Second},
		AutosaveBackoff:    Duration{2 * time.Second},
		AutosaveMaxRetries: 5,
	}
}

// LoadConfig reads a TOML config file and merges it over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize rewrites degenerate values back to their defaults so every
// downstream consumer can trust the config.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.GridStep <= 0 {
		c.GridStep = def.GridStep
	}
	if c.PushBuffer < 0 {
		c.PushBuffer = def.PushBuffer
	}
	if c.PushDepth <= 0 {
		c.PushDepth = def.PushDepth
	}
	if c.MinZoom <= 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom <= c.MinZoom {
		c.MaxZoom = def.MaxZoom
	}
	if c.MinWidgetWidth <= 0 {
		c.MinWidgetWidth = def.MinWidgetWidth
	}
	if c.MinWidgetHeight <= 0 {
		c.MinWidgetHeight = def.MinWidgetHeight
	}
	if c.MinContainerWidth <= 0 {
		c.MinContainerWidth = def.MinContainerWidth
	}
	if c.MinContainerHeight <= 0 {
		c.MinContainerHeight = def.MinContainerHeight
	}
	if c.WidgetWidth < c.MinWidgetWidth {
		c.WidgetWidth = def.WidgetWidth
	}
	if c.WidgetHeight < c.MinWidgetHeight {
		c.WidgetHeight = def.WidgetHeight
	}
	if c.ContainerWidth < c.MinContainerWidth {
		c.ContainerWidth = def.ContainerWidth
	}
	if c.ContainerHeight < c.MinContainerHeight {
		c.ContainerHeight = def.ContainerHeight
	}
	if c.HeaderOffset < 0 {
		c.HeaderOffset = def.HeaderOffset
	}
	if c.ContainerPadding < 0 {
		c.ContainerPadding = def.ContainerPadding
	}
	if c.PlacementStep <= 0 {
		c.PlacementStep = def.PlacementStep
	}
	if c.HandleMargin <= 0 {
		c.HandleMargin = def.HandleMargin
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.AutosaveInterval.Duration <= 0 {
		c.AutosaveInterval = def.AutosaveInterval
	}
	if c.AutosaveBackoff.Duration <= 0 {
		c.AutosaveBackoff = def.AutosaveBackoff
	}
	if c.AutosaveMaxRetries <= 0 {
		c.AutosaveMaxRetries = def.AutosaveMaxRetries
	}
}

// minSize returns the minimum width and height for an entity type.
func (c *Config) minSize(t EntityType) (w, h float64) {
	if t == EntityContainer {
		return c.MinContainerWidth, c.MinContainerHeight
	}
	return c.MinWidgetWidth, c.MinWidgetHeight
}
