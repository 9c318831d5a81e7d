package utils

import "context"

type commandContextKey string

const configurationSourceContextKeyConstant = commandContextKey("configurationSource")

// CommandContextAccessor carries command-scoped values through execution
// contexts, currently the path of the configuration file the loader resolved.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationSource stores the resolved configuration file path on the
// provided context. An empty path is stored as-is so readers can distinguish
// "loaded from defaults" from "never initialized".
func (accessor CommandContextAccessor) WithConfigurationSource(parentContext context.Context, configurationSource string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationSourceContextKeyConstant, configurationSource)
}

// ConfigurationSource reads the resolved configuration file path from the
// provided context, reporting whether one was stored.
func (accessor CommandContextAccessor) ConfigurationSource(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationSource, configurationSourceStored := executionContext.Value(configurationSourceContextKeyConstant).(string)
	if !configurationSourceStored {
		return "", false
	}
	return configurationSource, true
}
