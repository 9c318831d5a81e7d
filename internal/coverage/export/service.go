package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	filesystemMissingMessageConstant       = "filesystem not configured"
	historyFilePathRequiredMessageConstant = "history file path must be provided"
	historyFileStatFailureTemplateConstant = "failed to inspect %s: %w"
	historyFileOpenFailureTemplateConstant = "failed to open %s: %w"
	historyRecordWriteFailureTemplate      = "failed to append history record to %s: %w"
	historyDateColumnNameConstant          = "date"
	historyDateLayoutConstant              = "2006-01-02"
	historyFilePermissionsConstant         = 0o644
	percentageFloatFormatByteConstant      = 'f'
	percentageFloatPrecisionConstant       = -1
	percentageFloatBitSizeConstant         = 64
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(filesystemMissingMessageConstant)

// ErrHistoryFilePathRequired indicates the history file option was empty.
var ErrHistoryFilePathRequired = errors.New(historyFilePathRequiredMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem afero.Fs
	Clock      shared.Clock
}

// Options configure a history export run.
type Options struct {
	Target          shared.CoverageTarget
	HistoryFilePath string
}

// Result captures the outcome of appending one history record.
type Result struct {
	HistoryFilePath string
	RecordedDate    string
	HeaderWritten   bool
	CoverageValues  []string
}

// Service appends dated per-repository coverage records to a CSV history file.
type Service struct {
	fileSystem afero.Fs
	clock      shared.Clock
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	serviceClock := dependencies.Clock
	if serviceClock == nil {
		serviceClock = shared.SystemClock{}
	}

	return &Service{fileSystem: dependencies.FileSystem, clock: serviceClock}, nil
}

// Export appends one record holding the current coverage percentage of every
// repository in list order, creating the history file with a header row first
// when it does not exist yet. Unreadable reports become empty fields.
func (service *Service) Export(executionContext context.Context, options Options) (Result, error) {
	if len(options.HistoryFilePath) == 0 {
		return Result{}, ErrHistoryFilePathRequired
	}

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, contextError
	}

	coverageValues := make([]string, 0, len(options.Target.Repositories))
	for _, fileSet := range options.Target.FileSets() {
		coverageValues = append(coverageValues, service.readCurrentCoverage(fileSet.CurrentPath))
	}

	headerRequired, statError := service.headerRequired(options.HistoryFilePath)
	if statError != nil {
		return Result{}, statError
	}

	historyFile, openError := service.fileSystem.OpenFile(
		options.HistoryFilePath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		historyFilePermissionsConstant,
	)
	if openError != nil {
		return Result{}, fmt.Errorf(historyFileOpenFailureTemplateConstant, options.HistoryFilePath, openError)
	}
	defer historyFile.Close()

	recordedDate := service.clock.Now().Format(historyDateLayoutConstant)

	recordWriter := csv.NewWriter(historyFile)
	if headerRequired {
		headerRecord := append([]string{historyDateColumnNameConstant}, options.Target.Repositories...)
		if writeError := recordWriter.Write(headerRecord); writeError != nil {
			return Result{}, fmt.Errorf(historyRecordWriteFailureTemplate, options.HistoryFilePath, writeError)
		}
	}

	historyRecord := append([]string{recordedDate}, coverageValues...)
	if writeError := recordWriter.Write(historyRecord); writeError != nil {
		return Result{}, fmt.Errorf(historyRecordWriteFailureTemplate, options.HistoryFilePath, writeError)
	}

	recordWriter.Flush()
	if flushError := recordWriter.Error(); flushError != nil {
		return Result{}, fmt.Errorf(historyRecordWriteFailureTemplate, options.HistoryFilePath, flushError)
	}

	return Result{
		HistoryFilePath: options.HistoryFilePath,
		RecordedDate:    recordedDate,
		HeaderWritten:   headerRequired,
		CoverageValues:  coverageValues,
	}, nil
}

func (service *Service) headerRequired(historyFilePath string) (bool, error) {
	_, statError := service.fileSystem.Stat(historyFilePath)
	if statError == nil {
		return false, nil
	}
	if os.IsNotExist(statError) {
		return true, nil
	}
	return false, fmt.Errorf(historyFileStatFailureTemplateConstant, historyFilePath, statError)
}

func (service *Service) readCurrentCoverage(reportPath string) string {
	reportContent, readError := afero.ReadFile(service.fileSystem, reportPath)
	if readError != nil {
		return ""
	}

	percentageValue, parseError := shared.ExtractTotalPercentage(reportContent)
	if parseError != nil {
		return ""
	}

	return strconv.FormatFloat(
		percentageValue,
		percentageFloatFormatByteConstant,
		percentageFloatPrecisionConstant,
		percentageFloatBitSizeConstant,
	)
}
