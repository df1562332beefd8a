package core

import "strings"

// Level is the severity of a log entry as understood by the ingestion
// service. Levels are ordered: debug < info < warn < error.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelWeights = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Known reports whether the level is one the ingestion service accepts.
func (l Level) Known() bool {
	_, ok := levelWeights[l]
	return ok
}

// AtLeast reports whether the level is at or above min in severity.
// Unknown levels are never at least anything.
func (l Level) AtLeast(min Level) bool {
	lw, ok := levelWeights[l]
	if !ok {
		return false
	}
	mw, ok := levelWeights[min]
	if !ok {
		return false
	}
	return lw >= mw
}

// ParseLevel normalizes a level name. An empty name defaults to debug.
func ParseLevel(s string) (Level, bool) {
	if s == "" {
		return LevelDebug, true
	}
	l := Level(strings.ToLower(s))
	return l, l.Known()
}

// Environment identifies the deployment stage entries are attributed to.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Known reports whether the environment is a recognized stage.
func (e Environment) Known() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	}
	return false
}

// ParseEnvironment normalizes an environment name.
func ParseEnvironment(s string) (Environment, bool) {
	e := Environment(strings.ToLower(s))
	return e, e.Known()
}
