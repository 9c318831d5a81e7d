package cleanup

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	commandUseNameConstant              = "cleanup"
	commandShortDescriptionConstant     = "Remove per-repository analysis work files"
	commandLongDescriptionConstant      = "cleanup removes the source-count, linter, and docstyle work files an analysis run leaves behind for each configured repository. Missing files are skipped silently. Repository names given as arguments override the configured list."
	commandExampleConstant              = "covhist cleanup fabric8-analytics-worker"
	directoryFlagNameConstant           = "directory"
	directoryFlagUsageConstant          = "Directory holding the work files."
	cleanedMessageTemplateConstant      = "CLEANED: %s (%d file(s))\n"
	cleanupFailureMessageTemplate       = "%v\n"
	cleanupFailureLogMessageConstant    = "work file removal failed"
	cleanupSummaryErrorTemplateConstant = "cleanup completed with %d failure(s)"
	logFieldRepositoryNameConstant      = "repository"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the cleanup command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	FileSystem            afero.Fs
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the cleanup command.
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

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	directory := configuration.Directory
	if command.Flags().Changed(directoryFlagNameConstant) {
		directory, _ = command.Flags().GetString(directoryFlagNameConstant)
	}

	repositoryNames := configuration.Repositories
	if len(arguments) > 0 {
		repositoryNames = arguments
	}

	target := shared.NewCoverageTarget(directory, repositoryNames)
	if validationError := target.Validate(); validationError != nil {
		return validationError
	}

	service, serviceError := NewService(ServiceDependencies{FileSystem: builder.resolveFileSystem()})
	if serviceError != nil {
		return serviceError
	}

	logger := builder.resolveLogger()

	failureCount := 0
	for _, repositoryName := range target.Repositories {
		result, cleanError := service.Clean(command.Context(), Options{
			Directory:      target.Directory,
			RepositoryName: repositoryName,
		})
		if cleanError != nil {
			return cleanError
		}

		fmt.Fprintf(command.OutOrStdout(), cleanedMessageTemplateConstant, result.RepositoryName, len(result.RemovedPaths))

		for _, failure := range result.Failures {
			failureCount++
			fmt.Fprintf(command.ErrOrStderr(), cleanupFailureMessageTemplate, failure)
			logger.Warn(
				cleanupFailureLogMessageConstant,
				zap.String(logFieldRepositoryNameConstant, result.RepositoryName),
				zap.Error(failure),
			)
		}
	}

	if failureCount > 0 {
		return fmt.Errorf(cleanupSummaryErrorTemplateConstant, failureCount)
	}

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
