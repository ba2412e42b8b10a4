package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/decomment/internal/log"
	"bennypowers.dev/decomment/lsp/methods/workspace"
	"bennypowers.dev/decomment/lsp/types"
	"github.com/tliron/glsp"
)

// recoverPanic turns a handler panic into an error for the client
func recoverPanic(ctx *glsp.Context, methodName string, err *error) {
	if r := recover(); r != nil {
		log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
		workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
		*err = fmt.Errorf("internal error in %s", methodName)
	}
}

// finish logs the outcome of a handler and reports warnings or the error to
// the client
func finish(ctx *glsp.Context, req *types.RequestContext, methodName string, err error) error {
	if err != nil {
		workspace.LogError(ctx, "%s: %v", methodName, err)
		return fmt.Errorf("%s: %w", methodName, err)
	}
	for _, warning := range req.Warnings() {
		workspace.LogWarning(ctx, "%s: %v", methodName, warning)
	}
	log.Debug("%s completed", methodName)
	return nil
}

// method wraps an LSP request handler with logging and panic recovery.
// It returns the function type protocol.Handler fields expect.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)
		return result, finish(ctx, req, methodName, err)
	}
}

// notify wraps an LSP notification handler
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(ctx, req, methodName, handler(req, params))
	}
}

// noParam wraps an LSP handler that takes no params (like shutdown)
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer recoverPanic(ctx, methodName, &err)

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		return finish(ctx, req, methodName, handler(req))
	}
}
