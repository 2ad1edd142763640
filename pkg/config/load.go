package config

import (
	"bytes"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Environment variables read by FromEnv and the CLI.
const (
	EnvShapeSeed = "SERPENTINE_SHAPE_SEED"
	EnvColorSeed = "SERPENTINE_COLOR_SEED"
	EnvPreset    = "SERPENTINE_PRESET"
	EnvGrain     = "SERPENTINE_GRAIN"
	EnvFooter    = "SERPENTINE_FOOTER"
	EnvCacheDir  = "SERPENTINE_CACHE_DIR"
	EnvRedisAddr = "SERPENTINE_REDIS_ADDR"
)

// Load reads a TOML config file. A top-level preset key selects the base
// the file is layered on; [[chain]] tables replace the preset's chains.
func Load(path string) (RenderConfig, error) {
	if err := errors.ValidatePath(path); err != nil {
		return RenderConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RenderConfig{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return RenderConfig{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML config data. Unknown keys are rejected. Keys the file
// omits keep the preset's values; keys it sets, including zeros, are kept
// as written and checked by Validate.
func Parse(data []byte) (RenderConfig, error) {
	var head struct {
		Preset string           `toml:"preset"`
		Chains []map[string]any `toml:"chain"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return RenderConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return RenderConfig{}, err
	}
	if len(head.Chains) > 0 {
		// Decoding into the preset's slice would merge field by field.
		cfg.Chains = nil
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return RenderConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return RenderConfig{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %v", undecoded)
	}
	for i, raw := range head.Chains {
		chainDefaults(&cfg.Chains[i], raw)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(cfg RenderConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", p)
		}
	}
	return nil
}

// FromEnv applies seed and toggle overrides from the environment. lookup is
// usually os.LookupEnv.
func FromEnv(cfg RenderConfig, lookup func(string) (string, bool)) (RenderConfig, error) {
	if v, ok := lookup(EnvShapeSeed); ok {
		cfg.ShapeSeed = seed.Parse(v)
	}
	if v, ok := lookup(EnvColorSeed); ok {
		cfg.ColorSeed = seed.Parse(v)
	}
	if v, ok := lookup(EnvGrain); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvGrain)
		}
		cfg.ShowGrain = b
	}
	if v, ok := lookup(EnvFooter); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvFooter)
		}
		cfg.PrintFooter = b
	}
	return cfg, nil
}

// Overrides are explicit per-run settings, typically from flags. Nil
// fields leave the config unchanged.
type Overrides struct {
	Width, Height *int
	ShapeSeed     *seed.Seed
	ColorSeed     *seed.Seed

	// Segments and Blend apply to every chain; BaseRadius and Thickness
	// apply to the first (primary) chain.
	Segments   *int
	BaseRadius *float64
	Thickness  *float64
	Blend      *render.BlendMode

	ShowGrain    *bool
	GrainStyle   *grain.Style
	PrintFooter  *bool
	ChainStreams *ChainStreams
	Palette      *string
	Prefix       *string
}

// Apply returns a copy of cfg with the overrides set. cfg is not modified.
func (o Overrides) Apply(cfg RenderConfig) RenderConfig {
	cfg.Chains = append([]ChainConfig(nil), cfg.Chains...)
	if o.Width != nil {
		cfg.Dimensions[0] = *o.Width
	}
	if o.Height != nil {
		cfg.Dimensions[1] = *o.Height
	}
	if o.ShapeSeed != nil {
		cfg.ShapeSeed = *o.ShapeSeed
	}
	if o.ColorSeed != nil {
		cfg.ColorSeed = *o.ColorSeed
	}
	for i := range cfg.Chains {
		if o.Segments != nil {
			cfg.Chains[i].Segments = *o.Segments
		}
		if o.Blend != nil {
			cfg.Chains[i].Blend = *o.Blend
		}
	}
	if len(cfg.Chains) > 0 {
		if o.BaseRadius != nil {
			cfg.Chains[0].BaseRadius = *o.BaseRadius
		}
		if o.Thickness != nil {
			cfg.Chains[0].Thickness = *o.Thickness
		}
	}
	if o.ShowGrain != nil {
		cfg.ShowGrain = *o.ShowGrain
	}
	if o.GrainStyle != nil {
		cfg.GrainStyle = *o.GrainStyle
	}
	if o.PrintFooter != nil {
		cfg.PrintFooter = *o.PrintFooter
	}
	if o.ChainStreams != nil {
		cfg.ChainStreams = *o.ChainStreams
	}
	if o.Palette != nil {
		cfg.Palette = *o.Palette
	}
	if o.Prefix != nil {
		cfg.Prefix = *o.Prefix
	}
	return cfg
}
