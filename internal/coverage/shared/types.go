package shared

import (
	"path/filepath"
	"time"
)

const (
	// CurrentCoverageFileSuffixConstant names the newest coverage report produced by the external test run.
	CurrentCoverageFileSuffixConstant = ".coverage.txt"
	// PreviousCoverageFileSuffixConstant names the previous retained coverage report generation.
	PreviousCoverageFileSuffixConstant = ".coverage.1.txt"
	// OldestCoverageFileSuffixConstant names the oldest retained coverage report generation.
	OldestCoverageFileSuffixConstant = ".coverage.0.txt"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// CoverageFileSet holds the three retained coverage report paths for one repository.
type CoverageFileSet struct {
	RepositoryName string
	CurrentPath    string
	PreviousPath   string
	OldestPath     string
}

// NewCoverageFileSet resolves the coverage report triple for the repository inside the directory.
func NewCoverageFileSet(directory string, repositoryName string) CoverageFileSet {
	return CoverageFileSet{
		RepositoryName: repositoryName,
		CurrentPath:    filepath.Join(directory, repositoryName+CurrentCoverageFileSuffixConstant),
		PreviousPath:   filepath.Join(directory, repositoryName+PreviousCoverageFileSuffixConstant),
		OldestPath:     filepath.Join(directory, repositoryName+OldestCoverageFileSuffixConstant),
	}
}
