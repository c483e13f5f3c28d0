package config

// Environment variable names.
const (
	EnvOutDir           = "OUT_DIR"
	EnvForceProtocPath  = "PROTOC_PREBUILT_FORCE_PROTOC_PATH"
	EnvForceIncludePath = "PROTOC_PREBUILT_FORCE_INCLUDE_PATH"
	EnvNotCheckVersion  = "PROTOC_PREBUILT_NOT_CHECK_VERSION"
	EnvNotUseProxy      = "PROTOC_PREBUILT_NOT_USE_PROXY"
	EnvNotAddToken      = "PROTOC_PREBUILT_NOT_ADD_GITHUB_TOKEN"
	EnvTokenEnvName     = "PROTOC_PREBUILT_GITHUB_TOKEN_ENV_NAME"

	// DefaultTokenEnvName is consulted when EnvTokenEnvName is unset.
	DefaultTokenEnvName = "GITHUB_TOKEN"
)

// proxyEnvNames are checked in order; the first non-empty value wins.
var proxyEnvNames = []string{"http_proxy", "HTTP_PROXY", "https_proxy", "HTTPS_PROXY"}

// noProxyEnvNames are checked in order; the first non-empty value wins.
var noProxyEnvNames = []string{"no_proxy", "NO_PROXY"}

// Lua schema field names and globals
const (
	luaGlobalProtoc  = "protoc"
	luaFieldVersion  = "version"
	luaFieldOutDir   = "out_dir"
	luaFieldCheckVer = "check_version"
	luaFieldUseProxy = "use_proxy"
	luaFieldAddToken = "add_github_token"
)
