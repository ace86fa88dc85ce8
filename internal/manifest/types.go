package manifest

// Manifest is the top-level output of a ravif build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	Encoder     *EncoderInfo     `json:"encoder,omitempty"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// EncoderInfo records the settings every output was encoded with.
type EncoderInfo struct {
	Quality      float64 `json:"quality"`
	AlphaQuality float64 `json:"alpha_quality"`
	Speed        uint8   `json:"speed"`
	AlphaMode    string  `json:"alpha_mode"` // "unassociated-dirty" or "unassociated-clean"
	Threads      uint32  `json:"threads"`    // 0 = engine default
	Premultiply  bool    `json:"premultiply"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
}

// Asset describes a single source image and its AVIF output.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Output   Output       `json:"output"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Pixel    string `json:"pixel"` // source sample layout, e.g. "rgba16"
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Output is the encoded AVIF file of an asset.
type Output struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int64  `json:"size"`        // bytes on disk
	ColorBytes int    `json:"color_bytes"` // coded color plane
	AlphaBytes int    `json:"alpha_bytes"` // coded alpha plane, 0 when opaque
	Hash       string `json:"hash"`        // first 16 hex chars of xxhash64
	Path       string `json:"path"`        // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalColorBytes  int64 `json:"total_color_bytes"`
	TotalAlphaBytes  int64 `json:"total_alpha_bytes"`
	TotalAssets      int   `json:"total_assets"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // outputs skipped (not smaller than original)
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "ravif.manifest.json"
