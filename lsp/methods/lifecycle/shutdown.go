package lifecycle

import (
	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/internal/parser/css"
	"bennypowers.dev/decomment/internal/parser/html"
	"bennypowers.dev/decomment/internal/parser/js"
	"bennypowers.dev/decomment/lsp/types"
)

// Shutdown releases the pooled parsers
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")

	html.ClosePool()
	js.ClosePool()
	css.ClosePool()

	return nil
}
