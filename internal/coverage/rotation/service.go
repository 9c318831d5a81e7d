package rotation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/shared"
)

const (
	filesystemMissingMessageConstant       = "filesystem not configured"
	repositoryNameRequiredMessageConstant  = "repository name must be provided"
	copySourceOpenFailureTemplateConstant  = "failed to open %s: %w"
	copyDestinationFailureTemplateConstant = "failed to create %s: %w"
	copyTransferFailureTemplateConstant    = "failed to copy %s to %s: %w"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(filesystemMissingMessageConstant)

// ErrRepositoryNameRequired indicates the repository name option was empty.
var ErrRepositoryNameRequired = errors.New(repositoryNameRequiredMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem afero.Fs
}

// Options configure a coverage rotation for a single repository.
type Options struct {
	Directory      string
	RepositoryName string
	DryRun         bool
}

// StepResult captures one generation shift attempt.
type StepResult struct {
	SourcePath      string
	DestinationPath string
	Failure         error
}

// Result captures the outcome of rotating one repository's coverage reports.
type Result struct {
	RepositoryName string
	Steps          []StepResult
}

// Failures collects the errors of the failed steps in execution order.
func (result Result) Failures() []error {
	var failures []error
	for _, step := range result.Steps {
		if step.Failure != nil {
			failures = append(failures, step.Failure)
		}
	}
	return failures
}

// Service shifts the three-generation coverage report retention window.
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

// Rotate shifts the retained coverage generations for one repository. The previous
// generation is copied over the oldest before the current report is copied over the
// previous; reversing that order would propagate the newest report into both slots.
// Step failures are recorded in the result so the remaining step still runs.
func (service *Service) Rotate(executionContext context.Context, options Options) (Result, error) {
	if len(options.RepositoryName) == 0 {
		return Result{}, ErrRepositoryNameRequired
	}

	fileSet := shared.NewCoverageFileSet(options.Directory, options.RepositoryName)
	result := Result{RepositoryName: options.RepositoryName}

	copyPlan := []struct {
		sourcePath      string
		destinationPath string
	}{
		{sourcePath: fileSet.PreviousPath, destinationPath: fileSet.OldestPath},
		{sourcePath: fileSet.CurrentPath, destinationPath: fileSet.PreviousPath},
	}

	for _, plannedCopy := range copyPlan {
		stepResult := StepResult{SourcePath: plannedCopy.sourcePath, DestinationPath: plannedCopy.destinationPath}

		if contextError := executionContext.Err(); contextError != nil {
			stepResult.Failure = contextError
			result.Steps = append(result.Steps, stepResult)
			continue
		}

		if !options.DryRun {
			stepResult.Failure = service.copyFile(plannedCopy.sourcePath, plannedCopy.destinationPath)
		}

		result.Steps = append(result.Steps, stepResult)
	}

	return result, nil
}

// copyFile copies source over destination, overwriting any existing destination.
// The source is opened first so a missing source leaves the destination untouched.
func (service *Service) copyFile(sourcePath string, destinationPath string) error {
	sourceFile, openError := service.fileSystem.Open(sourcePath)
	if openError != nil {
		return fmt.Errorf(copySourceOpenFailureTemplateConstant, sourcePath, openError)
	}
	defer sourceFile.Close()

	destinationFile, createError := service.fileSystem.Create(destinationPath)
	if createError != nil {
		return fmt.Errorf(copyDestinationFailureTemplateConstant, destinationPath, createError)
	}

	if _, transferError := io.Copy(destinationFile, sourceFile); transferError != nil {
		destinationFile.Close()
		return fmt.Errorf(copyTransferFailureTemplateConstant, sourcePath, destinationPath, transferError)
	}

	if closeError := destinationFile.Close(); closeError != nil {
		return fmt.Errorf(copyTransferFailureTemplateConstant, sourcePath, destinationPath, closeError)
	}

	return nil
}
