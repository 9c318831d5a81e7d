package cleanup

import (
	"strings"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

// CommandConfiguration captures configuration values for the cleanup command.
type CommandConfiguration struct {
	Directory    string   `mapstructure:"directory"`
	Repositories []string `mapstructure:"repositories"`
}

// DefaultCommandConfiguration provides baseline configuration values for work file cleanup.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Directory: "", Repositories: nil}
}

// Sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.Repositories = shared.SanitizeRepositoryNames(configuration.Repositories)
	return sanitized
}
