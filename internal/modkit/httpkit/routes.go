package httpkit

import "net/http"

// MountUnder mounts a subrouter at prefix and applies per-module middlewares first
// An empty prefix mounts inline through a group
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	body := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if prefix == "" || prefix == "/" {
		r.Group(body)
		return
	}
	r.Route(prefix, body)
}
