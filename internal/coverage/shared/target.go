package shared

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultCoverageDirectoryConstant      = "."
	targetValidationErrorTemplateConstant = "invalid coverage target: %w"
)

// CoverageTarget identifies the directory and ordered repository names a command operates on.
type CoverageTarget struct {
	Directory    string   `validate:"required"`
	Repositories []string `validate:"min=1,unique,dive,required"`
}

// NewCoverageTarget normalizes the directory and repository list into a CoverageTarget.
func NewCoverageTarget(directory string, repositories []string) CoverageTarget {
	resolvedDirectory := directory
	if len(resolvedDirectory) == 0 {
		resolvedDirectory = defaultCoverageDirectoryConstant
	}

	duplicatedRepositories := make([]string, len(repositories))
	copy(duplicatedRepositories, repositories)

	return CoverageTarget{Directory: resolvedDirectory, Repositories: duplicatedRepositories}
}

// Validate checks the target for structural problems such as duplicate or empty repository names.
func (target CoverageTarget) Validate() error {
	structValidator := validator.New()
	if validationError := structValidator.Struct(target); validationError != nil {
		return fmt.Errorf(targetValidationErrorTemplateConstant, validationError)
	}
	return nil
}

// SanitizeRepositoryNames trims each repository name and drops the blank
// entries, returning nil when nothing usable remains.
func SanitizeRepositoryNames(repositoryNames []string) []string {
	sanitized := make([]string, 0, len(repositoryNames))
	for _, candidateName := range repositoryNames {
		trimmedName := strings.TrimSpace(candidateName)
		if len(trimmedName) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmedName)
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}

// FileSets resolves the coverage report triple for every repository in list order.
func (target CoverageTarget) FileSets() []CoverageFileSet {
	fileSets := make([]CoverageFileSet, 0, len(target.Repositories))
	for _, repositoryName := range target.Repositories {
		fileSets = append(fileSets, NewCoverageFileSet(target.Directory, repositoryName))
	}
	return fileSets
}
