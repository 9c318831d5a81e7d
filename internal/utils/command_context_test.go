package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rootAvish/fabric8-analytics-common/internal/utils"
)

const (
	testConfigurationSourceConstant = "config.yaml"
)

func TestCommandContextAccessorRoundTripsConfigurationSource(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	contextWithSource := accessor.WithConfigurationSource(context.Background(), testConfigurationSourceConstant)

	configurationSource, configurationSourceStored := accessor.ConfigurationSource(contextWithSource)
	require.True(testInstance, configurationSourceStored)
	require.Equal(testInstance, testConfigurationSourceConstant, configurationSource)
}

func TestCommandContextAccessorDistinguishesEmptyFromMissing(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	contextWithEmptySource := accessor.WithConfigurationSource(context.Background(), "")
	configurationSource, configurationSourceStored := accessor.ConfigurationSource(contextWithEmptySource)
	require.True(testInstance, configurationSourceStored)
	require.Empty(testInstance, configurationSource)

	_, missingSourceStored := accessor.ConfigurationSource(context.Background())
	require.False(testInstance, missingSourceStored)
}

func TestCommandContextAccessorToleratesNilContext(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	contextFromNil := accessor.WithConfigurationSource(nil, testConfigurationSourceConstant)
	configurationSource, configurationSourceStored := accessor.ConfigurationSource(contextFromNil)
	require.True(testInstance, configurationSourceStored)
	require.Equal(testInstance, testConfigurationSourceConstant, configurationSource)

	_, nilContextSourceStored := accessor.ConfigurationSource(nil)
	require.False(testInstance, nilContextSourceStored)
}
