package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/cleanup"
	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/export"
	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/report"
	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/rotation"
	"github.com/rootAvish/fabric8-analytics-common/internal/utils"
)

const (
	applicationNameConstant                 = "covhist"
	applicationShortDescriptionConstant     = "Command-line interface for QA dashboard coverage history maintenance"
	applicationLongDescriptionConstant      = "covhist maintains the generational history of per-repository test-coverage reports: it rotates the retained generations, reports coverage trends, exports a CSV history record, and cleans up analysis work files."
	applicationVersionConstant              = "0.1.0"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "COVHIST"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "covhist CLI executed"
	configurationSourceLogMessageConstant   = "configuration loaded from file"
	rootCommandDebugMessageConstant         = "covhist CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	coverageConfigurationKeyConstant        = "coverage"
	coverageDirectoryConfigKeyConstant      = coverageConfigurationKeyConstant + ".directory"
	coverageRepositoriesConfigKeyConstant   = coverageConfigurationKeyConstant + ".repositories"
	rotateConfigurationKeyConstant          = coverageConfigurationKeyConstant + ".rotate"
	reportConfigurationKeyConstant          = coverageConfigurationKeyConstant + ".report"
	exportConfigurationKeyConstant          = coverageConfigurationKeyConstant + ".export"
	defaultCoverageDirectoryConstant        = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration   `mapstructure:"common"`
	Coverage ApplicationCoverageConfiguration `mapstructure:"coverage"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationCoverageConfiguration groups the coverage directory, the ordered
// repository list, and the per-command configuration sections.
type ApplicationCoverageConfiguration struct {
	Directory    string                        `mapstructure:"directory"`
	Repositories []string                      `mapstructure:"repositories"`
	Rotate       rotation.CommandConfiguration `mapstructure:"rotate"`
	Report       report.CommandConfiguration   `mapstructure:"report"`
	Export       export.CommandConfiguration   `mapstructure:"export"`
	Cleanup      cleanup.CommandConfiguration  `mapstructure:"cleanup"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       applicationVersionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	rotateBuilder := rotation.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() rotation.CommandConfiguration {
			return application.rotateConfiguration()
		},
	}
	rotateCommand, rotateBuildError := rotateBuilder.Build()
	if rotateBuildError == nil {
		cobraCommand.AddCommand(rotateCommand)
	}

	reportBuilder := report.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() report.CommandConfiguration {
			return application.reportConfiguration()
		},
	}
	reportCommand, reportBuildError := reportBuilder.Build()
	if reportBuildError == nil {
		cobraCommand.AddCommand(reportCommand)
	}

	exportBuilder := export.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() export.CommandConfiguration {
			return application.exportConfiguration()
		},
	}
	exportCommand, exportBuildError := exportBuilder.Build()
	if exportBuildError == nil {
		cobraCommand.AddCommand(exportCommand)
	}

	cleanupBuilder := cleanup.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() cleanup.CommandConfiguration {
			return application.cleanupConfiguration()
		},
	}
	cleanupCommand, cleanupBuildError := cleanupBuilder.Build()
	if cleanupBuildError == nil {
		cobraCommand.AddCommand(cleanupCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:       string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:      string(utils.LogFormatStructured),
		coverageDirectoryConfigKeyConstant:    defaultCoverageDirectoryConstant,
		coverageRepositoriesConfigKeyConstant: DefaultRepositoryNames(),
	}
	for configurationKey, configurationValue := range rotation.DefaultConfigurationValues(rotateConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range report.DefaultConfigurationValues(reportConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range export.DefaultConfigurationValues(exportConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationSource(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// rotateConfiguration resolves the rotate section, inheriting the shared
// coverage directory and repository list when the section leaves them unset.
func (application *Application) rotateConfiguration() rotation.CommandConfiguration {
	configuration := application.configuration.Coverage.Rotate
	configuration.Directory = application.inheritDirectory(configuration.Directory)
	configuration.Repositories = application.inheritRepositories(configuration.Repositories)
	return configuration
}

func (application *Application) reportConfiguration() report.CommandConfiguration {
	configuration := application.configuration.Coverage.Report
	configuration.Directory = application.inheritDirectory(configuration.Directory)
	configuration.Repositories = application.inheritRepositories(configuration.Repositories)
	return configuration
}

func (application *Application) exportConfiguration() export.CommandConfiguration {
	configuration := application.configuration.Coverage.Export
	configuration.Directory = application.inheritDirectory(configuration.Directory)
	configuration.Repositories = application.inheritRepositories(configuration.Repositories)
	return configuration
}

func (application *Application) cleanupConfiguration() cleanup.CommandConfiguration {
	configuration := application.configuration.Coverage.Cleanup
	configuration.Directory = application.inheritDirectory(configuration.Directory)
	configuration.Repositories = application.inheritRepositories(configuration.Repositories)
	return configuration
}

func (application *Application) inheritDirectory(sectionDirectory string) string {
	if len(strings.TrimSpace(sectionDirectory)) > 0 {
		return sectionDirectory
	}
	return application.configuration.Coverage.Directory
}

func (application *Application) inheritRepositories(sectionRepositories []string) []string {
	if len(sectionRepositories) > 0 {
		return sectionRepositories
	}
	return application.configuration.Coverage.Repositories
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	configurationSource, configurationSourceStored := application.commandContextAccessor.ConfigurationSource(command.Context())
	if configurationSourceStored && len(configurationSource) > 0 {
		application.logger.Info(
			configurationSourceLogMessageConstant,
			zap.String(configurationFileFieldConstant, configurationSource),
		)
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
