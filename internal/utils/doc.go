// Package utils holds the infrastructure shared by every covhist command:
// the Viper-backed ConfigurationLoader with embedded defaults and COVHIST
// environment overrides, the zap LoggerFactory, and the context accessor
// carrying the resolved configuration source.
package utils
