package export

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	commandUseNameConstant            = "export"
	commandShortDescriptionConstant   = "Append current coverage to the CSV history file"
	commandLongDescriptionConstant    = "export appends one dated record to the CSV history file with the current coverage percentage of every configured repository in list order. The file is created with a header row when absent, and unreadable reports produce empty fields. Repository names given as arguments override the configured list."
	commandExampleConstant            = "covhist export --history-file dashboard.csv"
	directoryFlagNameConstant         = "directory"
	directoryFlagUsageConstant        = "Directory holding the coverage report files."
	historyFileFlagNameConstant       = "history-file"
	historyFileFlagUsageConstant      = "CSV file receiving one record per run."
	exportedMessageTemplateConstant   = "EXPORTED: %s (%s)\n"
	historyExportedLogMessageConstant = "coverage history record appended"
	logFieldHistoryFileConstant       = "history_file"
	logFieldRecordedDateConstant      = "recorded_date"
	logFieldHeaderWrittenConstant     = "header_written"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the export command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	FileSystem            afero.Fs
	Clock                 shared.Clock
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the export command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	command.Flags().String(directoryFlagNameConstant, "", directoryFlagUsageConstant)
	command.Flags().String(historyFileFlagNameConstant, defaultHistoryFileNameConstant, historyFileFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	directory := configuration.Directory
	if command.Flags().Changed(directoryFlagNameConstant) {
		directory, _ = command.Flags().GetString(directoryFlagNameConstant)
	}

	historyFilePath := configuration.HistoryFile
	if command.Flags().Changed(historyFileFlagNameConstant) {
		historyFilePath, _ = command.Flags().GetString(historyFileFlagNameConstant)
	}

	repositoryNames := configuration.Repositories
	if len(arguments) > 0 {
		repositoryNames = arguments
	}

	target := shared.NewCoverageTarget(directory, repositoryNames)
	if validationError := target.Validate(); validationError != nil {
		return validationError
	}

	service, serviceError := NewService(ServiceDependencies{
		FileSystem: builder.resolveFileSystem(),
		Clock:      builder.Clock,
	})
	if serviceError != nil {
		return serviceError
	}

	result, exportError := service.Export(command.Context(), Options{Target: target, HistoryFilePath: historyFilePath})
	if exportError != nil {
		return exportError
	}

	fmt.Fprintf(command.OutOrStdout(), exportedMessageTemplateConstant, result.HistoryFilePath, result.RecordedDate)

	builder.resolveLogger().Info(
		historyExportedLogMessageConstant,
		zap.String(logFieldHistoryFileConstant, result.HistoryFilePath),
		zap.String(logFieldRecordedDateConstant, result.RecordedDate),
		zap.Bool(logFieldHeaderWrittenConstant, result.HeaderWritten),
	)

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem == nil {
		return afero.NewOsFs()
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
