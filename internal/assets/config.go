package assets

type Config struct {
	// Absolute directory entry points, outdir and metafile paths are resolved against
	WorkDir string
	// Whether esbuild writes outputs to disk
	Write bool
	// Whether to write a zstd compressed sibling (.zst) for each output
	Precompress bool
	// Manifest file name written into the output directory (empty disables)
	ManifestName string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		Write:        true,
		Precompress:  false,
		ManifestName: "manifest.json",
	}
}
