package config

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	// OutDir overrides the output directory declared by the app.
	OutDir string
	// StrictTypes rejects state vars declared without a type.
	StrictTypes bool
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithOutDir sets the output directory
func WithOutDir(dir string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.OutDir = dir
	}
}

// WithStrictTypes sets whether state vars must declare a type
func WithStrictTypes(strict bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.StrictTypes = strict
	}
}

// ResolveOutDir returns the configured output directory, falling back to
// the one declared by the app, then to "build".
func (c *CompilerConfig) ResolveOutDir(declared string) string {
	if c.OutDir != "" {
		return c.OutDir
	}
	if declared != "" {
		return declared
	}
	return "build"
}
