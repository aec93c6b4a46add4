package config

// Config represents the complete dev-kit server configuration.
// It can be loaded from .devkit/config.yml with environment variable overrides.
type Config struct {
	Root     string              `yaml:"root" mapstructure:"root"`
	Analysis AnalysisConfig      `yaml:"analysis" mapstructure:"analysis"`
	Commands map[string][]string `yaml:"commands" mapstructure:"commands"`
	Log      LogConfig           `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig tunes repository analysis.
type AnalysisConfig struct {
	Ignore             []string `yaml:"ignore" mapstructure:"ignore"`                           // glob patterns excluded from discovery
	AbstractDecorators []string `yaml:"abstract_decorators" mapstructure:"abstract_decorators"` // extra decorator names marking methods abstract
	GetterDecorators   []string `yaml:"getter_decorators" mapstructure:"getter_decorators"`     // extra decorator names recognized as property getters
	MaxFiles           int      `yaml:"max_files" mapstructure:"max_files"`                     // cap on files per repo-wide analysis
}

// LogConfig controls diagnostic output. Logs go to stderr; stdout belongs
// to the MCP stdio transport.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // zerolog level name
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Root: ".",
		Analysis: AnalysisConfig{
			Ignore: []string{
				"build/**",
				"dist/**",
				"*.egg-info/**",
			},
			MaxFiles: 5000,
		},
		Commands: map[string][]string{},
		Log: LogConfig{
			Level: "info",
		},
	}
}
