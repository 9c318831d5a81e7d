package rotation_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rootAvish/fabric8-analytics-common/internal/coverage/rotation"
)

const (
	rotationTestRepositoryNameConstant  = "demo"
	rotationTestDirectoryConstant       = ""
	rotationTestCurrentPathConstant     = "demo.coverage.txt"
	rotationTestPreviousPathConstant    = "demo.coverage.1.txt"
	rotationTestOldestPathConstant      = "demo.coverage.0.txt"
	rotationTestRunOneContentConstant   = "run1"
	rotationTestRunTwoContentConstant   = "run2"
	rotationTestRunThreeContentConstant = "run3"
)

func newRotationService(testInstance *testing.T, fileSystem afero.Fs) *rotation.Service {
	testInstance.Helper()

	service, serviceError := rotation.NewService(rotation.ServiceDependencies{FileSystem: fileSystem})
	require.NoError(testInstance, serviceError)
	return service
}

func writeCoverageFile(testInstance *testing.T, fileSystem afero.Fs, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, afero.WriteFile(fileSystem, path, []byte(content), 0o644))
}

func readCoverageFile(testInstance *testing.T, fileSystem afero.Fs, path string) string {
	testInstance.Helper()

	content, readError := afero.ReadFile(fileSystem, path)
	require.NoError(testInstance, readError)
	return string(content)
}

func TestRotateShiftsGenerations(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant, rotationTestRunThreeContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant, rotationTestRunTwoContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant, rotationTestRunOneContentConstant)

	service := newRotationService(testInstance, fileSystem)

	result, rotateError := service.Rotate(context.Background(), rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
	})
	require.NoError(testInstance, rotateError)
	require.Empty(testInstance, result.Failures())
	require.Len(testInstance, result.Steps, 2)

	require.Equal(testInstance, rotationTestRunTwoContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant))
	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant))
	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant))
}

func TestRotateTwiceReachesSteadyState(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant, rotationTestRunThreeContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant, rotationTestRunTwoContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant, rotationTestRunOneContentConstant)

	service := newRotationService(testInstance, fileSystem)
	rotateOptions := rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
	}

	for rotationRound := 0; rotationRound < 2; rotationRound++ {
		result, rotateError := service.Rotate(context.Background(), rotateOptions)
		require.NoError(testInstance, rotateError)
		require.Empty(testInstance, result.Failures())
	}

	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant))
	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant))
	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant))
}

func TestRotateMissingPreviousLeavesOldestUntouched(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant, rotationTestRunThreeContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant, rotationTestRunOneContentConstant)

	service := newRotationService(testInstance, fileSystem)

	result, rotateError := service.Rotate(context.Background(), rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
	})
	require.NoError(testInstance, rotateError)

	failures := result.Failures()
	require.Len(testInstance, failures, 1)
	require.ErrorContains(testInstance, failures[0], rotationTestPreviousPathConstant)

	require.Equal(testInstance, rotationTestRunOneContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant))
	require.Equal(testInstance, rotationTestRunThreeContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant))
}

func TestRotateMissingCurrentStillShiftsPrevious(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant, rotationTestRunTwoContentConstant)

	service := newRotationService(testInstance, fileSystem)

	result, rotateError := service.Rotate(context.Background(), rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
	})
	require.NoError(testInstance, rotateError)

	failures := result.Failures()
	require.Len(testInstance, failures, 1)
	require.ErrorContains(testInstance, failures[0], rotationTestCurrentPathConstant)

	require.Equal(testInstance, rotationTestRunTwoContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestOldestPathConstant))
	require.Equal(testInstance, rotationTestRunTwoContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant))
}

func TestRotateDryRunTouchesNothing(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant, rotationTestRunThreeContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant, rotationTestRunTwoContentConstant)

	service := newRotationService(testInstance, fileSystem)

	result, rotateError := service.Rotate(context.Background(), rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
		DryRun:         true,
	})
	require.NoError(testInstance, rotateError)
	require.Empty(testInstance, result.Failures())
	require.Len(testInstance, result.Steps, 2)

	oldestExists, existsError := afero.Exists(fileSystem, rotationTestOldestPathConstant)
	require.NoError(testInstance, existsError)
	require.False(testInstance, oldestExists)
	require.Equal(testInstance, rotationTestRunTwoContentConstant, readCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant))
}

func TestRotateValidatesInputs(testInstance *testing.T) {
	_, serviceError := rotation.NewService(rotation.ServiceDependencies{})
	require.ErrorIs(testInstance, serviceError, rotation.ErrFileSystemNotConfigured)

	service := newRotationService(testInstance, afero.NewMemMapFs())
	_, rotateError := service.Rotate(context.Background(), rotation.Options{})
	require.ErrorIs(testInstance, rotateError, rotation.ErrRepositoryNameRequired)
}

func TestRotateHonorsCancelledContext(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeCoverageFile(testInstance, fileSystem, rotationTestCurrentPathConstant, rotationTestRunThreeContentConstant)
	writeCoverageFile(testInstance, fileSystem, rotationTestPreviousPathConstant, rotationTestRunTwoContentConstant)

	cancelledContext, cancelFunction := context.WithCancel(context.Background())
	cancelFunction()

	service := newRotationService(testInstance, fileSystem)

	result, rotateError := service.Rotate(cancelledContext, rotation.Options{
		Directory:      rotationTestDirectoryConstant,
		RepositoryName: rotationTestRepositoryNameConstant,
	})
	require.NoError(testInstance, rotateError)
	require.Len(testInstance, result.Failures(), 2)

	oldestExists, existsError := afero.Exists(fileSystem, rotationTestOldestPathConstant)
	require.NoError(testInstance, existsError)
	require.False(testInstance, oldestExists)
}
