package cleanup_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/cleanup"
)

const (
	cleanupTestRepositoryNameConstant = "alpha"
)

func newCleanupService(testInstance *testing.T, fileSystem afero.Fs) *cleanup.Service {
	testInstance.Helper()

	service, serviceError := cleanup.NewService(cleanup.ServiceDependencies{FileSystem: fileSystem})
	require.NoError(testInstance, serviceError)
	return service
}

func TestCleanRemovesWorkFiles(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	workFilePaths := []string{"alpha.count", "alpha.linter.txt", "alpha.pydocstyle.txt"}
	for _, workFilePath := range workFilePaths {
		require.NoError(testInstance, afero.WriteFile(fileSystem, workFilePath, []byte("work"), 0o644))
	}
	require.NoError(testInstance, afero.WriteFile(fileSystem, "alpha.coverage.txt", []byte("TOTAL 100 10 90%\n"), 0o644))

	service := newCleanupService(testInstance, fileSystem)

	result, cleanError := service.Clean(context.Background(), cleanup.Options{RepositoryName: cleanupTestRepositoryNameConstant})
	require.NoError(testInstance, cleanError)
	require.Empty(testInstance, result.Failures)
	require.Equal(testInstance, workFilePaths, result.RemovedPaths)

	for _, workFilePath := range workFilePaths {
		workFileExists, existsError := afero.Exists(fileSystem, workFilePath)
		require.NoError(testInstance, existsError)
		require.False(testInstance, workFileExists)
	}

	coverageExists, existsError := afero.Exists(fileSystem, "alpha.coverage.txt")
	require.NoError(testInstance, existsError)
	require.True(testInstance, coverageExists)
}

func TestCleanSkipsMissingWorkFiles(testInstance *testing.T) {
	service := newCleanupService(testInstance, afero.NewMemMapFs())

	result, cleanError := service.Clean(context.Background(), cleanup.Options{RepositoryName: cleanupTestRepositoryNameConstant})
	require.NoError(testInstance, cleanError)
	require.Empty(testInstance, result.Failures)
	require.Empty(testInstance, result.RemovedPaths)
}

func TestCleanValidatesInputs(testInstance *testing.T) {
	_, serviceError := cleanup.NewService(cleanup.ServiceDependencies{})
	require.ErrorIs(testInstance, serviceError, cleanup.ErrFileSystemNotConfigured)

	service := newCleanupService(testInstance, afero.NewMemMapFs())
	_, cleanError := service.Clean(context.Background(), cleanup.Options{})
	require.ErrorIs(testInstance, cleanError, cleanup.ErrRepositoryNameRequired)
}
