package rotation

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	commandUseNameConstant               = "rotate"
	commandShortDescriptionConstant      = "Rotate retained coverage report generations"
	commandLongDescriptionConstant       = "rotate shifts each configured repository's coverage reports by one generation: the previous report replaces the oldest and the current report replaces the previous. The current report is produced by an external test run and is never modified. Repository names given as arguments override the configured list."
	commandExampleConstant               = "covhist rotate --directory ./reports fabric8-analytics-worker"
	directoryFlagNameConstant            = "directory"
	directoryFlagUsageConstant           = "Directory holding the coverage report files."
	dryRunFlagNameConstant               = "dry-run"
	dryRunFlagUsageConstant              = "Print the planned copies without touching the filesystem."
	parallelFlagNameConstant             = "parallel"
	parallelFlagUsageConstant            = "Rotate repositories concurrently; output order still follows the configured list."
	plannedCopyMessageTemplateConstant   = "PLANNED: %s -> %s\n"
	stepFailureMessageTemplateConstant   = "%v\n"
	rotationFailureLogMessageConstant    = "coverage rotation step failed"
	rotationSummaryErrorTemplateConstant = "coverage rotation completed with %d failed step(s)"
	logFieldRepositoryNameConstant       = "repository"
	logFieldSourcePathConstant           = "source_path"
	logFieldDestinationPathConstant      = "destination_path"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the rotate command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	FileSystem            afero.Fs
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the rotate command.
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
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().Bool(parallelFlagNameConstant, false, parallelFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	directory := configuration.Directory
	if command.Flags().Changed(directoryFlagNameConstant) {
		directory, _ = command.Flags().GetString(directoryFlagNameConstant)
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
	}

	parallel := configuration.Parallel
	if command.Flags().Changed(parallelFlagNameConstant) {
		parallel, _ = command.Flags().GetBool(parallelFlagNameConstant)
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

	var results []Result
	var rotationError error
	if parallel {
		results, rotationError = builder.rotateConcurrently(command, service, target, dryRun)
	} else {
		results, rotationError = builder.rotateSequentially(command, service, target, dryRun)
	}
	if rotationError != nil {
		return rotationError
	}

	failedStepCount := 0
	for resultIndex, result := range results {
		if parallel {
			fmt.Fprintln(command.OutOrStdout(), target.Repositories[resultIndex])
		}
		failedStepCount += builder.reportResult(command, logger, result, dryRun)
	}

	if failedStepCount > 0 {
		return fmt.Errorf(rotationSummaryErrorTemplateConstant, failedStepCount)
	}

	return nil
}

func (builder *CommandBuilder) rotateSequentially(command *cobra.Command, service *Service, target shared.CoverageTarget, dryRun bool) ([]Result, error) {
	results := make([]Result, 0, len(target.Repositories))
	for _, repositoryName := range target.Repositories {
		fmt.Fprintln(command.OutOrStdout(), repositoryName)

		result, rotateError := service.Rotate(command.Context(), Options{
			Directory:      target.Directory,
			RepositoryName: repositoryName,
			DryRun:         dryRun,
		})
		if rotateError != nil {
			return nil, rotateError
		}
		results = append(results, result)
	}
	return results, nil
}

func (builder *CommandBuilder) rotateConcurrently(command *cobra.Command, service *Service, target shared.CoverageTarget, dryRun bool) ([]Result, error) {
	results := make([]Result, len(target.Repositories))

	rotationGroup, groupContext := errgroup.WithContext(command.Context())
	for repositoryIndex, repositoryName := range target.Repositories {
		repositoryIndex, repositoryName := repositoryIndex, repositoryName
		rotationGroup.Go(func() error {
			result, rotateError := service.Rotate(groupContext, Options{
				Directory:      target.Directory,
				RepositoryName: repositoryName,
				DryRun:         dryRun,
			})
			if rotateError != nil {
				return rotateError
			}
			results[repositoryIndex] = result
			return nil
		})
	}

	if waitError := rotationGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	return results, nil
}

func (builder *CommandBuilder) reportResult(command *cobra.Command, logger *zap.Logger, result Result, dryRun bool) int {
	failedStepCount := 0
	for _, step := range result.Steps {
		if dryRun {
			fmt.Fprintf(command.OutOrStdout(), plannedCopyMessageTemplateConstant, step.SourcePath, step.DestinationPath)
			continue
		}
		if step.Failure == nil {
			continue
		}

		failedStepCount++
		fmt.Fprintf(command.ErrOrStderr(), stepFailureMessageTemplateConstant, step.Failure)
		logger.Warn(
			rotationFailureLogMessageConstant,
			zap.String(logFieldRepositoryNameConstant, result.RepositoryName),
			zap.String(logFieldSourcePathConstant, step.SourcePath),
			zap.String(logFieldDestinationPathConstant, step.DestinationPath),
			zap.Error(step.Failure),
		)
	}
	return failedStepCount
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
