//go:build !windows

package config

// Non-Windows installs have no registry; MT_HOME is the only source.
func registryMTHome() string {
	return ""
}
