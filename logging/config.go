package logging

import "time"

type Config struct {
	EnabledSinks     []string       `yaml:"enabled_sinks"`
	BufferSize       int            `yaml:"buffer_size"`
	MinimumSeverity  Severity       `yaml:"minimum_severity"`
	Fields           map[string]any `yaml:"fields"`
	Debug            DebugConfig    `yaml:"debug"`
	JSON             JSONConfig     `yaml:"json"`
	Stream           StreamConfig   `yaml:"stream"`
	DropWarnInterval time.Duration  `yaml:"drop_warn_interval"`
}

// DebugConfig controls the line-oriented debug log the addon keeps
// next to the game client.
type DebugConfig struct {
	FilePath      string `yaml:"file_path"`
	KeepRotated   int    `yaml:"keep_rotated"`
	FlushEachLine bool   `yaml:"flush_each_line"`
}

type JSONConfig struct {
	FilePath      string        `yaml:"file_path"`
	Compress      bool          `yaml:"compress"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// StreamConfig controls the local websocket live-tail endpoint.
type StreamConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"debug"},
		BufferSize:       512,
		MinimumSeverity:  SeverityDebug,
		DropWarnInterval: 5 * time.Second,
		Debug: DebugConfig{
			FilePath:      "Logs/interact_debug.log",
			KeepRotated:   3,
			FlushEachLine: true,
		},
		JSON: JSONConfig{
			FilePath:      "Logs/interact_events.jsonl",
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
