package rotation

import (
	"strings"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	configurationDryRunKeyConstant   = "dry_run"
	configurationParallelKeyConstant = "parallel"
	configurationKeySeparator        = "."
)

// CommandConfiguration captures configuration values for the rotate command.
type CommandConfiguration struct {
	Directory    string   `mapstructure:"directory"`
	Repositories []string `mapstructure:"repositories"`
	DryRun       bool     `mapstructure:"dry_run"`
	Parallel     bool     `mapstructure:"parallel"`
}

// DefaultCommandConfiguration provides baseline configuration values for coverage rotation.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:    "",
		Repositories: nil,
		DryRun:       false,
		Parallel:     false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the rotate command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationDryRunKeyConstant:   defaults.DryRun,
		rootKey + configurationKeySeparator + configurationParallelKeyConstant: defaults.Parallel,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.Repositories = shared.SanitizeRepositoryNames(configuration.Repositories)
	return sanitized
}
