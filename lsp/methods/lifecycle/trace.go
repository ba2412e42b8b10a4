package lifecycle

import (
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace maps the client's trace setting onto the log level
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)

	switch params.Value {
	case protocol.TraceValueVerbose:
		log.SetLevel(log.LevelDebug)
	case protocol.TraceValueMessage, protocol.TraceValueOff:
		log.SetLevel(log.LevelInfo)
	}
	return nil
}
