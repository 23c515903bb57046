package appconf

import "strings"

// Environment is the operating environment the service runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the --env flag value to an Environment.
// Unrecognized values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}
