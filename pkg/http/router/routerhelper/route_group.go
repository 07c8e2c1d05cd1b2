package routerhelper

import (
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup. httprouter routes sharing a path prefix
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

func (rg *RouteGroup) Group(prefix string) *RouteGroup {
	return NewRouteGroup(rg.router, rg.path(prefix))
}

func (rg *RouteGroup) path(p string) string {
	joined := path.Join(rg.prefix, p)
	if len(p) > 0 && p[len(p)-1] == '/' && joined[len(joined)-1] != '/' {
		return joined + "/"
	}
	return joined
}

func (rg *RouteGroup) GET(p string, handle httprouter.Handle) {
	rg.router.GET(rg.path(p), handle)
}

func (rg *RouteGroup) POST(p string, handle httprouter.Handle) {
	rg.router.POST(rg.path(p), handle)
}

func (rg *RouteGroup) Handler(method, p string, handler http.Handler) {
	rg.router.Handler(method, rg.path(p), handler)
}
