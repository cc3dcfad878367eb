package common

import (
	"flag"
)

// CommonFlags contains flags that are shared across the commands
type CommonFlags struct {
	// Environment and configuration
	EnvFile    *string
	ConfigFile *string
	DataRoot   *string

	// Logging and output
	Silent   *bool
	NoEmojis *bool

	// Help and version
	Version *bool
}

// RegisterCommonFlags registers common flags with the default flag set
func RegisterCommonFlags() *CommonFlags {
	return &CommonFlags{
		EnvFile:    flag.String("env", ".env", "Environment file path"),
		ConfigFile: flag.String("config", "", "JSON run configuration file"),
		DataRoot:   flag.String("data-root", "data", "Data root directory"),

		Silent:   flag.Bool("silent", false, "Enable silent mode (minimal output)"),
		NoEmojis: flag.Bool("no-emojis", false, "Disable emoji output"),

		Version: flag.Bool("version", false, "Show version information"),
	}
}

// Apply configures the global logger and environment from the parsed
// flags. Returns true when the command should exit (version request).
func (f *CommonFlags) Apply(appName string) bool {
	if *f.Version {
		PrintVersion(appName)
		return true
	}

	SetSilentMode(*f.Silent)
	DefaultLogger.ShowEmojis = !*f.NoEmojis

	if err := LoadEnvFile(*f.EnvFile); err != nil {
		Warn("Continuing with system environment")
	}

	return false
}
