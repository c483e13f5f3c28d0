// Package config builds the resolver configuration.
//
// Configuration comes from two places. The environment is read once by
// FromEnv into a Config value; nothing else in the module consults the process
// environment. An optional Lua pin file (conventionally protoc.lua) selects a
// version and output directory per platform:
//
//	protoc = {
//	  version = platform.is_windows and "21.12" or "22.0",
//	  out_dir = "build/protoc",
//	  check_version = true,
//	}
//
// Pin files run in a sandboxed gopher-lua VM: os, io, require, dofile,
// loadfile, load, loadstring and debug are removed. The read-only platform
// table from package platform is available as the global "platform".
package config
