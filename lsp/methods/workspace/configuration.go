package workspace

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/internal/uriutil"
	"bennypowers.dev/decomment/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration re-reads configuration from the workspace. Client
// settings are ignored; the project files are the single source.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed, reloading")
	return req.Server.LoadConfig()
}

// DidChangeWatchedFiles reloads configuration when package.json or a file
// under .config/ named decomment changes
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		if IsConfigFile(uriutil.URIToPath(change.URI)) {
			log.Info("Configuration file changed: %s", change.URI)
			return req.Server.LoadConfig()
		}
	}
	return nil
}

// IsConfigFile reports whether path names a file config.Load reads
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	if base == "package.json" {
		return true
	}
	if filepath.Base(filepath.Dir(path)) != ".config" {
		return false
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name == config.PackageJSONField
}
