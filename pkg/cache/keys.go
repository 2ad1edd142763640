package cache

// RenderKeyOpts identifies one rendered artifact.
type RenderKeyOpts struct {
	ShapeSeed  uint64 `json:"shape_seed"`
	ColorSeed  uint64 `json:"color_seed"`
	ConfigHash string `json:"config_hash"`
	Format     string `json:"format"`
}

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey is the key of an encoded image.
	RenderKey(opts RenderKeyOpts) string
	// ManifestKey is the key of the scene manifest for the same render.
	ManifestKey(opts RenderKeyOpts) string
}

// DefaultKeyer hashes the key options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) RenderKey(opts RenderKeyOpts) string {
	return hashKey("render", opts)
}

func (DefaultKeyer) ManifestKey(opts RenderKeyOpts) string {
	opts.Format = "manifest"
	return hashKey("manifest", opts)
}
