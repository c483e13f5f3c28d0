package config

import (
	"os"
	"strings"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Config is the resolver configuration. It is built once and passed down;
// no other package reads the environment.
type Config struct {
	// OutDir is the output root that holds install directories.
	OutDir string

	// ForceProtocPath and ForceIncludePath bypass installation when set.
	ForceProtocPath  string
	ForceIncludePath string

	// CheckVersion compares the requested version with the one the binary reports.
	CheckVersion bool

	// UseProxy enables HTTPProxy for requests not excluded by NoProxy.
	UseProxy  bool
	HTTPProxy string
	NoProxy   string

	// Token is the GitHub authorization token, empty for none.
	Token string
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup LookupFunc) *Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := &Config{
		OutDir:           get(EnvOutDir),
		ForceProtocPath:  get(EnvForceProtocPath),
		ForceIncludePath: get(EnvForceIncludePath),
		CheckVersion:     !varBool(lookup, EnvNotCheckVersion),
		UseProxy:         !varBool(lookup, EnvNotUseProxy),
		HTTPProxy:        firstSet(lookup, proxyEnvNames),
		NoProxy:          firstSet(lookup, noProxyEnvNames),
	}

	if !varBool(lookup, EnvNotAddToken) {
		cfg.Token = token(lookup)
	}

	return cfg
}

// FromOS builds a Config from the process environment.
func FromOS() *Config {
	return FromEnv(os.LookupEnv)
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// ParseBool reports whether value enables a toggle. "", "0", "no", "off" and
// "false" disable it; anything else enables it. Matching is case-sensitive.
func ParseBool(value string) bool {
	switch value {
	case "", "0", "no", "off", "false":
		return false
	default:
		return true
	}
}

func varBool(lookup LookupFunc, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	return ParseBool(v)
}

func firstSet(lookup LookupFunc, keys []string) string {
	for _, key := range keys {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// token reads the GitHub token from the variable named by EnvTokenEnvName,
// defaulting to GITHUB_TOKEN. Surrounding whitespace is trimmed.
func token(lookup LookupFunc) string {
	name, ok := lookup(EnvTokenEnvName)
	if !ok {
		name = DefaultTokenEnvName
	}

	v, _ := lookup(name)
	return strings.TrimSpace(v)
}
