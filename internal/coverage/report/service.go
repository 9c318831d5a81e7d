package report

import (
	"context"
	"errors"

	"github.com/montanaflynn/stats"
	"github.com/spf13/afero"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	filesystemMissingMessageConstant = "filesystem not configured"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(filesystemMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem afero.Fs
}

// Options configure a coverage report run.
type Options struct {
	Target    shared.CoverageTarget
	Threshold float64
}

// GenerationReading holds the parsed percentage of one retained report generation.
type GenerationReading struct {
	Percentage float64
	Readable   bool
}

// RepositoryTrend captures the readings across all retained generations of one repository.
type RepositoryTrend struct {
	RepositoryName string
	Oldest         GenerationReading
	Previous       GenerationReading
	Current        GenerationReading
}

// BelowThreshold reports whether the current generation is readable and under the threshold.
func (trend RepositoryTrend) BelowThreshold(threshold float64) bool {
	return trend.Current.Readable && trend.Current.Percentage < threshold
}

// Summary aggregates the per-repository trends and cross-repository statistics.
type Summary struct {
	Trends              []RepositoryTrend
	MeanCurrent         float64
	MedianCurrent       float64
	StatisticsAvailable bool
}

// Service reads retained coverage report generations and derives trends.
type Service struct {
	fileSystem afero.Fs
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Service{fileSystem: dependencies.FileSystem}, nil
}

// Report parses every retained generation of every repository in list order and
// computes mean and median current coverage over the readable repositories.
func (service *Service) Report(executionContext context.Context, options Options) (Summary, error) {
	summary := Summary{Trends: make([]RepositoryTrend, 0, len(options.Target.Repositories))}
	var currentPercentages []float64

	for _, fileSet := range options.Target.FileSets() {
		if contextError := executionContext.Err(); contextError != nil {
			return Summary{}, contextError
		}

		trend := RepositoryTrend{
			RepositoryName: fileSet.RepositoryName,
			Oldest:         service.readGeneration(fileSet.OldestPath),
			Previous:       service.readGeneration(fileSet.PreviousPath),
			Current:        service.readGeneration(fileSet.CurrentPath),
		}
		summary.Trends = append(summary.Trends, trend)

		if trend.Current.Readable {
			currentPercentages = append(currentPercentages, trend.Current.Percentage)
		}
	}

	if len(currentPercentages) > 0 {
		meanValue, meanError := stats.Mean(currentPercentages)
		medianValue, medianError := stats.Median(currentPercentages)
		if meanError == nil && medianError == nil {
			summary.MeanCurrent = meanValue
			summary.MedianCurrent = medianValue
			summary.StatisticsAvailable = true
		}
	}

	return summary, nil
}

// readGeneration treats any read or parse failure as an unreadable generation;
// absent generations are expected while the retention window fills up.
func (service *Service) readGeneration(reportPath string) GenerationReading {
	reportContent, readError := afero.ReadFile(service.fileSystem, reportPath)
	if readError != nil {
		return GenerationReading{}
	}

	percentageValue, parseError := shared.ExtractTotalPercentage(reportContent)
	if parseError != nil {
		return GenerationReading{}
	}

	return GenerationReading{Percentage: percentageValue, Readable: true}
}
