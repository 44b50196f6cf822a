package lines

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxLineBufferSize is the default byte capacity of each of the vertex
// and index buffers.
const MaxLineBufferSize = 2400

// DefaultAssetRoot is the directory walked by the asset cache.
const DefaultAssetRoot = "resources/models"

// Config is the YAML configuration shared by the renderer, the asset
// cache and the demo command.
type Config struct {
	Renderer RendererConfig `yaml:"renderer"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// RendererConfig holds the renderer defaults.
type RendererConfig struct {
	// MaxBufferSize is the byte capacity of each line buffer.
	MaxBufferSize uint64 `yaml:"max_buffer_size"`

	// LineWidth is the line thickness in pixels.
	LineWidth float32 `yaml:"line_width"`

	// Color is RGBA in [0, 1].
	Color [4]float32 `yaml:"color,flow"`
}

// AssetsConfig controls the model directory walk.
type AssetsConfig struct {
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions,flow"`
	Progress   bool     `yaml:"progress"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Renderer: RendererConfig{
			MaxBufferSize: MaxLineBufferSize,
			LineWidth:     1,
			Color:         [4]float32{1, 0, 0, 1},
		},
		Assets: AssetsConfig{
			Root:       DefaultAssetRoot,
			Extensions: []string{".gltf", ".glb"},
			Progress:   true,
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults. Keys missing from data keep
// their default values. The result is validated.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the buffer size, line width, color range and extensions.
func (c Config) Validate() error {
	r := c.Renderer
	switch {
	case r.MaxBufferSize == 0:
		return fmt.Errorf("%w: renderer.max_buffer_size must be positive", ErrInvalidConfig)
	case r.MaxBufferSize%4 != 0:
		return fmt.Errorf("%w: renderer.max_buffer_size %d is not a multiple of 4", ErrInvalidConfig, r.MaxBufferSize)
	case r.MaxBufferSize < SegmentVertexBytes:
		return fmt.Errorf("%w: renderer.max_buffer_size %d cannot hold one segment (%d bytes)",
			ErrInvalidConfig, r.MaxBufferSize, SegmentVertexBytes)
	case r.LineWidth <= 0:
		return fmt.Errorf("%w: renderer.line_width must be positive", ErrInvalidConfig)
	}
	for i, v := range r.Color {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: renderer.color[%d] = %v outside [0, 1]", ErrInvalidConfig, i, v)
		}
	}
	if c.Assets.Root == "" {
		return fmt.Errorf("%w: assets.root is empty", ErrInvalidConfig)
	}
	for _, ext := range c.Assets.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: assets.extensions entry %q must start with '.'", ErrInvalidConfig, ext)
		}
	}
	return nil
}
