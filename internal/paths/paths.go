package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cruciblehq/medusa/internal"
)

const (

	// Environment variable overriding the registry location.
	RegistryEnv = "MEDUSA_REGISTRY"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory holding medusa's persistent data.
//
//	Linux:   $XDG_DATA_HOME/medusa or ~/.local/share/medusa
//	macOS:   ~/Library/Application Support/medusa
func Data() string {
	return filepath.Join(xdg.DataHome, internal.Name)
}

// Path to the registry file.
//
// The [RegistryEnv] environment variable takes precedence over the default
// location.
//
//	Linux:   $XDG_DATA_HOME/medusa/medusa.json
//	macOS:   ~/Library/Application Support/medusa/medusa.json
func Registry() string {
	if p := os.Getenv(RegistryEnv); p != "" {
		return p
	}
	return filepath.Join(Data(), internal.Name+".json")
}

// Default directory scanned for servers when the registry does not name one.
//
//	Linux:   $XDG_DATA_HOME/medusa/servers
//	macOS:   ~/Library/Application Support/medusa/servers
func Servers() string {
	return filepath.Join(Data(), "servers")
}
