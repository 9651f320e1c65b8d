//go:build windows

package config

import (
	"golang.org/x/sys/windows/registry"

	"github.com/enhanced-telerobotics/go-mt4/internal/log"
)

// The installer publishes MTHome as a system environment variable; reading
// the registry directly picks it up even in sessions started before install.
const envKeyPath = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

func registryMTHome() string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, envKeyPath, registry.QUERY_VALUE)
	if err != nil {
		log.Warn("cannot open environment registry key", "error", err)
		return ""
	}
	defer key.Close()

	home, _, err := key.GetStringValue("MTHome")
	if err != nil {
		log.Warn("MTHome not found in the registry", "error", err)
		return ""
	}
	return home
}
