package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// defaultRepositoryNames lists the production repositories whose coverage
// history the QA dashboard tracks, in reporting order.
var defaultRepositoryNames = []string{
	"f8a-server-backbone",
	"fabric8-analytics-data-model",
	"fabric8-analytics-jobs",
	"fabric8-analytics-license-analysis",
	"fabric8-analytics-server",
	"fabric8-analytics-stack-analysis",
	"fabric8-analytics-tagger",
	"fabric8-analytics-worker",
	"fabric8-gemini-server",
}

// EmbeddedDefaultConfiguration returns the embedded default configuration data and type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// DefaultRepositoryNames returns the production repository list in reporting order.
func DefaultRepositoryNames() []string {
	duplicatedNames := make([]string, len(defaultRepositoryNames))
	copy(duplicatedNames, defaultRepositoryNames)
	return duplicatedNames
}
