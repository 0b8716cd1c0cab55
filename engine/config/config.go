package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/renderer"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/systems"
)

type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting width.
	Width uint32 `toml:"width"`
	// Window starting height.
	Height uint32 `toml:"height"`
	// Window starting position x axis.
	StartPosX uint32 `toml:"start_x"`
	// Window starting position y axis.
	StartPosY uint32 `toml:"start_y"`
}

type RendererConfig struct {
	AutoClear               bool       `toml:"auto_clear"`
	AutoClearColor          bool       `toml:"auto_clear_color"`
	AutoClearDepth          bool       `toml:"auto_clear_depth"`
	AutoClearStencil        bool       `toml:"auto_clear_stencil"`
	ClearColor              [4]float32 `toml:"clear_color"`
	SortObjects             bool       `toml:"sort_objects"`
	GammaFactor             float32    `toml:"gamma_factor"`
	PhysicallyCorrectLights bool       `toml:"physically_correct_lights"`
	Precision               string     `toml:"precision"`
	OutputEncoding          string     `toml:"output_encoding"`
	MaxPrograms             uint16     `toml:"max_programs"`
}

type ShadersConfig struct {
	// Directory holding <id>.vert / <id>.frag overrides of the built-in shaders.
	Directory string `toml:"directory"`
	HotReload bool   `toml:"hot_reload"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	Directory   string `toml:"directory"`
	Workers     int    `toml:"workers"`
	MaxTextures uint32 `toml:"max_textures"`
}

/** @brief Everything read from the engine's TOML file. */
type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Shaders     ShadersConfig     `toml:"shaders"`
	Assets      AssetsConfig      `toml:"assets"`
	Log         LogConfig         `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:   "Vista",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			AutoClear:        true,
			AutoClearColor:   true,
			AutoClearDepth:   true,
			AutoClearStencil: true,
			ClearColor:       [4]float32{0, 0, 0, 1},
			SortObjects:      true,
			GammaFactor:      2.2,
			Precision:        "highp",
			OutputEncoding:   "linear",
			MaxPrograms:      256,
		},
		Assets: AssetsConfig{
			Directory:   "assets",
			Workers:     2,
			MaxTextures: 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates a TOML file. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", core.ErrInvalidConfig, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid value, wrapped in core.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Application.Width == 0 || c.Application.Height == 0 {
		return fmt.Errorf("%w: window size %dx%d", core.ErrInvalidConfig, c.Application.Width, c.Application.Height)
	}
	if c.Renderer.GammaFactor <= 0 {
		return fmt.Errorf("%w: gamma_factor must be > 0, got %g", core.ErrInvalidConfig, c.Renderer.GammaFactor)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %g is outside [0, 1]", core.ErrInvalidConfig, i, v)
		}
	}
	if _, err := ParsePrecision(c.Renderer.Precision); err != nil {
		return err
	}
	if _, err := ParseEncoding(c.Renderer.OutputEncoding); err != nil {
		return err
	}
	if c.Renderer.MaxPrograms == 0 {
		return fmt.Errorf("%w: max_programs must be > 0", core.ErrInvalidConfig)
	}
	if c.Shaders.HotReload && c.Shaders.Directory == "" {
		return fmt.Errorf("%w: shaders.hot_reload needs shaders.directory", core.ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: unknown log level `%s`", core.ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

func ParsePrecision(s string) (metadata.Precision, error) {
	switch strings.ToLower(s) {
	case "highp", "high", "":
		return metadata.PrecisionHigh, nil
	case "mediump", "medium":
		return metadata.PrecisionMedium, nil
	case "lowp", "low":
		return metadata.PrecisionLow, nil
	}
	return metadata.PrecisionHigh, fmt.Errorf("%w: unknown precision `%s`", core.ErrInvalidConfig, s)
}

func ParseEncoding(s string) (metadata.Encoding, error) {
	switch strings.ToLower(s) {
	case "linear", "":
		return metadata.EncodingLinear, nil
	case "srgb":
		return metadata.EncodingSRGB, nil
	case "gamma":
		return metadata.EncodingGamma, nil
	}
	return metadata.EncodingLinear, fmt.Errorf("%w: unknown output encoding `%s`", core.ErrInvalidConfig, s)
}

// RendererConfig converts the [renderer] section. The config must have
// passed Validate.
func (c *Config) RendererConfig() *renderer.RendererConfig {
	precision, _ := ParsePrecision(c.Renderer.Precision)
	encoding, _ := ParseEncoding(c.Renderer.OutputEncoding)
	return &renderer.RendererConfig{
		AutoClear:               c.Renderer.AutoClear,
		AutoClearColor:          c.Renderer.AutoClearColor,
		AutoClearDepth:          c.Renderer.AutoClearDepth,
		AutoClearStencil:        c.Renderer.AutoClearStencil,
		ClearColor:              mgl32.Vec4(c.Renderer.ClearColor),
		SortObjects:             c.Renderer.SortObjects,
		GammaFactor:             c.Renderer.GammaFactor,
		PhysicallyCorrectLights: c.Renderer.PhysicallyCorrectLights,
		Precision:               precision,
		OutputEncoding:          encoding,
		Width:                   int32(c.Application.Width),
		Height:                  int32(c.Application.Height),
	}
}

func (c *Config) SystemManagerConfig() *systems.SystemManagerConfig {
	return &systems.SystemManagerConfig{
		Workers:         c.Assets.Workers,
		MaxTextureCount: c.Assets.MaxTextures,
		MaxProgramCount: c.Renderer.MaxPrograms,
		AssetBasePath:   c.Assets.Directory,
	}
}
