package app

import (
	"fmt"
	"regexp"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]remittance.Handler
}

var _ remittance.Registry = (*Router)(nil)
var _ remittance.Handler = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]remittance.Handler),
	}
}

// Handle adds a new Handler for the given message type.
// It panics if the path is malformed or already registered.
func (r *Router) Handle(msg remittance.Msg, h remittance.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, the returned handler always fails with ErrNotFound.
func (r *Router) handler(path string) remittance.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound.
type notFoundHandler string

func (path notFoundHandler) Check(remittance.Context, remittance.KVStore, remittance.Tx) (*remittance.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}

func (path notFoundHandler) Deliver(remittance.Context, remittance.KVStore, remittance.Tx) (*remittance.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}
