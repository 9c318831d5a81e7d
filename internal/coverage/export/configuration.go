package export

import (
	"strings"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	configurationHistoryFileKeyConstant = "history_file"
	configurationKeySeparator           = "."
	defaultHistoryFileNameConstant      = "dashboard.csv"
)

// CommandConfiguration captures configuration values for the export command.
type CommandConfiguration struct {
	Directory    string   `mapstructure:"directory"`
	Repositories []string `mapstructure:"repositories"`
	HistoryFile  string   `mapstructure:"history_file"`
}

// DefaultCommandConfiguration provides baseline configuration values for history export.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:    "",
		Repositories: nil,
		HistoryFile:  defaultHistoryFileNameConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the export command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + configurationHistoryFileKeyConstant: defaults.HistoryFile,
	}
}

// Sanitize trims configuration values and restores the default history file name when blank.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.HistoryFile = strings.TrimSpace(configuration.HistoryFile)
	if len(sanitized.HistoryFile) == 0 {
		sanitized.HistoryFile = defaultHistoryFileNameConstant
	}
	sanitized.Repositories = shared.SanitizeRepositoryNames(configuration.Repositories)
	return sanitized
}
