package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds solver settings for DRT computations.
type Config struct {
	Method         string
	Optimizer      string
	Kernel         string
	WidthCoeff     float64
	Lambda         float64
	PeakStrictness float64
	Quiet          bool
}

// ServerConfig holds HTTP-service settings.
type ServerConfig struct {
	Port            string
	WorkerCount     int
	WebhookURL      string
	EnableProfiling bool
	ProfilingPort   string
}

// DefaultConfig returns solver settings with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Method:         "im",
		Optimizer:      "lbfgs",
		Kernel:         "gaussian",
		WidthCoeff:     0.10,
		Lambda:         1e-2,
		PeakStrictness: 0.01,
	}
}

// DefaultServerConfig returns server settings with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          "8080",
		WorkerCount:   5,
		WebhookURL:    "http://webplot:3001/webhook",
		ProfilingPort: "6060",
	}
}

// Load reads configuration from an optional file plus GODRT_* environment
// variables, falling back to the defaults above.
func Load(path string) (*Config, *ServerConfig, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("method", def.Method)
	v.SetDefault("optimizer", def.Optimizer)
	v.SetDefault("kernel", def.Kernel)
	v.SetDefault("width_coeff", def.WidthCoeff)
	v.SetDefault("lambda", def.Lambda)
	v.SetDefault("peak_strictness", def.PeakStrictness)
	v.SetDefault("quiet", false)

	sdef := DefaultServerConfig()
	v.SetDefault("server.port", sdef.Port)
	v.SetDefault("server.workers", sdef.WorkerCount)
	v.SetDefault("server.webhook_url", sdef.WebhookURL)
	v.SetDefault("server.enable_profiling", sdef.EnableProfiling)
	v.SetDefault("server.profiling_port", sdef.ProfilingPort)

	v.SetEnvPrefix("GODRT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, err
		}
	}

	cfg := &Config{
		Method:         v.GetString("method"),
		Optimizer:      v.GetString("optimizer"),
		Kernel:         v.GetString("kernel"),
		WidthCoeff:     v.GetFloat64("width_coeff"),
		Lambda:         v.GetFloat64("lambda"),
		PeakStrictness: v.GetFloat64("peak_strictness"),
		Quiet:          v.GetBool("quiet"),
	}
	srv := &ServerConfig{
		Port:            v.GetString("server.port"),
		WorkerCount:     v.GetInt("server.workers"),
		WebhookURL:      v.GetString("server.webhook_url"),
		EnableProfiling: v.GetBool("server.enable_profiling"),
		ProfilingPort:   v.GetString("server.profiling_port"),
	}
	return cfg, srv, nil
}
