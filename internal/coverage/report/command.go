package report

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	commandUseNameConstant              = "report"
	commandShortDescriptionConstant     = "Report coverage trends across retained generations"
	commandLongDescriptionConstant      = "report parses the TOTAL line of every retained coverage report generation, prints a per-repository trend from oldest to current, flags repositories whose current coverage sits below the configured threshold, and summarizes mean and median current coverage. Repository names given as arguments override the configured list."
	commandExampleConstant              = "covhist report --threshold 85"
	directoryFlagNameConstant           = "directory"
	directoryFlagUsageConstant          = "Directory holding the coverage report files."
	thresholdFlagNameConstant           = "threshold"
	thresholdFlagUsageConstant          = "Coverage percentage below which a repository is flagged."
	trendMessageTemplateConstant        = "COVERAGE: %s oldest=%s previous=%s current=%s\n"
	thresholdWarningTemplateConstant    = "WARNING: %s current coverage %s below threshold %s\n"
	statisticsMessageTemplateConstant   = "SUMMARY: mean=%s median=%s\n"
	unreadableGenerationValueConstant   = "n/a"
	reportGeneratedLogMessageConstant   = "coverage report generated"
	logFieldRepositoryCountConstant     = "repository_count"
	logFieldBelowThresholdCountConstant = "below_threshold_count"
	thresholdRangeErrorMessageConstant  = "threshold must be between 0 and 100"
	percentageValueSuffixConstant       = "%"
	percentageFloatFormatByteConstant   = 'f'
	percentageFloatPrecisionConstant    = -1
	percentageFloatBitSizeConstant      = 64
)

// ErrThresholdOutOfRange indicates the requested threshold fell outside 0-100.
var ErrThresholdOutOfRange = errors.New(thresholdRangeErrorMessageConstant)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the report command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	FileSystem            afero.Fs
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the report command.
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
	command.Flags().Float64(thresholdFlagNameConstant, defaultCoverageThresholdConstant, thresholdFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	directory := configuration.Directory
	if command.Flags().Changed(directoryFlagNameConstant) {
		directory, _ = command.Flags().GetString(directoryFlagNameConstant)
	}

	threshold := configuration.Threshold
	if command.Flags().Changed(thresholdFlagNameConstant) {
		threshold, _ = command.Flags().GetFloat64(thresholdFlagNameConstant)
	}
	if threshold < 0 || threshold > 100 {
		return ErrThresholdOutOfRange
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

	summary, reportError := service.Report(command.Context(), Options{Target: target, Threshold: threshold})
	if reportError != nil {
		return reportError
	}

	belowThresholdCount := 0
	for _, trend := range summary.Trends {
		fmt.Fprintf(
			command.OutOrStdout(),
			trendMessageTemplateConstant,
			trend.RepositoryName,
			formatReading(trend.Oldest),
			formatReading(trend.Previous),
			formatReading(trend.Current),
		)

		if trend.BelowThreshold(threshold) {
			belowThresholdCount++
			fmt.Fprintf(
				command.OutOrStdout(),
				thresholdWarningTemplateConstant,
				trend.RepositoryName,
				formatPercentage(trend.Current.Percentage),
				formatPercentage(threshold),
			)
		}
	}

	if summary.StatisticsAvailable {
		fmt.Fprintf(
			command.OutOrStdout(),
			statisticsMessageTemplateConstant,
			formatPercentage(summary.MeanCurrent),
			formatPercentage(summary.MedianCurrent),
		)
	}

	builder.resolveLogger().Info(
		reportGeneratedLogMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(summary.Trends)),
		zap.Int(logFieldBelowThresholdCountConstant, belowThresholdCount),
	)

	return nil
}

func formatReading(reading GenerationReading) string {
	if !reading.Readable {
		return unreadableGenerationValueConstant
	}
	return formatPercentage(reading.Percentage)
}

func formatPercentage(percentageValue float64) string {
	return strconv.FormatFloat(
		percentageValue,
		percentageFloatFormatByteConstant,
		percentageFloatPrecisionConstant,
		percentageFloatBitSizeConstant,
	) + percentageValueSuffixConstant
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
