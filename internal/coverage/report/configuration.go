package report

import (
	"strings"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	configurationThresholdKeyConstant = "threshold"
	configurationKeySeparator         = "."
	defaultCoverageThresholdConstant  = 90
)

// CommandConfiguration captures configuration values for the report command.
type CommandConfiguration struct {
	Directory    string   `mapstructure:"directory"`
	Repositories []string `mapstructure:"repositories"`
	Threshold    float64  `mapstructure:"threshold"`
}

// DefaultCommandConfiguration provides baseline configuration values for coverage reporting.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:    "",
		Repositories: nil,
		Threshold:    defaultCoverageThresholdConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the report command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationThresholdKeyConstant: defaults.Threshold,
	}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.Repositories = shared.SanitizeRepositoryNames(configuration.Repositories)
	return sanitized
}
