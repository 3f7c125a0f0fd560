package llm

// Router selects the remote completer for each aspect.
type Router struct {
	routes map[Aspect]Completer
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[Aspect]Completer)}
}

// Route assigns c to aspect. A nil c leaves the aspect without a remote model.
func (r *Router) Route(aspect Aspect, c Completer) *Router {
	if c == nil {
		delete(r.routes, aspect)
		return r
	}
	r.routes[aspect] = c
	return r
}

// For returns the completer for aspect, or nil when none is routed.
func (r *Router) For(aspect Aspect) Completer {
	if r == nil {
		return nil
	}
	return r.routes[aspect]
}

// Models reports the routed model name per aspect.
func (r *Router) Models() map[Aspect]string {
	out := make(map[Aspect]string, len(r.routes))
	for aspect, c := range r.routes {
		out[aspect] = c.Name()
	}
	return out
}
