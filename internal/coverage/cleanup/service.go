package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	filesystemMissingMessageConstant      = "filesystem not configured"
	repositoryNameRequiredMessageConstant = "repository name must be provided"
	workFileRemoveFailureTemplateConstant = "failed to remove %s: %w"
	sourceCountFileSuffixConstant         = ".count"
	linterResultFileSuffixConstant        = ".linter.txt"
	docstyleResultFileSuffixConstant      = ".pydocstyle.txt"
)

// workFileSuffixes lists the per-repository analysis leftovers removed by cleanup.
var workFileSuffixes = []string{
	sourceCountFileSuffixConstant,
	linterResultFileSuffixConstant,
	docstyleResultFileSuffixConstant,
}

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(filesystemMissingMessageConstant)

// ErrRepositoryNameRequired indicates the repository name option was empty.
var ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem afero.Fs
}

// Options configure a work file cleanup for a single repository.
type Options struct {
	Directory      string
	RepositoryName string
}

// Result captures the outcome of cleaning one repository's work files.
type Result struct {
	RepositoryName string
	RemovedPaths   []string
	Failures       []error
}

// Service removes the per-repository work files left behind by analysis runs.
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

// Clean removes the repository's work files. Missing files are not failures;
// any other removal error is recorded and the remaining files are still tried.
func (service *Service) Clean(executionContext context.Context, options Options) (Result, error) {
	if len(options.RepositoryName) == 0 {
		return Result{}, ErrRepositoryNameRequired
	}

	result := Result{RepositoryName: options.RepositoryName}

	for _, workFileSuffix := range workFileSuffixes {
		if contextError := executionContext.Err(); contextError != nil {
			result.Failures = append(result.Failures, contextError)
			continue
		}

		workFilePath := filepath.Join(options.Directory, options.RepositoryName+workFileSuffix)
		removeError := service.fileSystem.Remove(workFilePath)
		switch {
		case removeError == nil:
			result.RemovedPaths = append(result.RemovedPaths, workFilePath)
		case os.IsNotExist(removeError):
		default:
			result.Failures = append(result.Failures, fmt.Errorf(workFileRemoveFailureTemplateConstant, workFilePath, removeError))
		}
	}

	return result, nil
}
