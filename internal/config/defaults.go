package config

import "github.com/agentpack/agentpack/internal/source"

// Default values applied when configuration files omit a field.
const (
	// DefaultSourcePosition puts global sources first so project sources
	// override them during composition.
	DefaultSourcePosition = source.PositionFirst
)

// NewDefaultGlobal returns the global configuration used when no config
// file exists.
func NewDefaultGlobal() *Global {
	return &Global{
		SourcePosition: DefaultSourcePosition,
	}
}
