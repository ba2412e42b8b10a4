package lifecycle

import (
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized stores the client context and loads workspace configuration.
// A broken configuration file is reported but keeps the defaults.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadConfig(); err != nil {
		req.AddWarning(err)
	}
	return nil
}
