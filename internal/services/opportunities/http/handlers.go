// Package http provides http transport for opportunities
package http

import (
	stdhttp "net/http"

	"certifica/internal/modkit/httpkit"
	"certifica/internal/platform/identity"
	"certifica/internal/services/opportunities/domain"
	svc "certifica/internal/services/opportunities/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Protected(r, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.CreateInput](pr, "/", h.create)
		httpkit.Get(pr, "/", h.list)
		httpkit.Get(pr, "/{id}", h.get)
		httpkit.Post(pr, "/{id}/apply", h.apply)
	})
	httpkit.Restricted(r, identity.RoleAdmin, func(ar httpkit.Router) {
		httpkit.PutJSON[domain.UpdateInput](ar, "/{id}", h.update)
		httpkit.Delete(ar, "/{id}", h.delete)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route POST /opportunity Opportunities create
// @Summary Create an opportunity
// @Tags opportunities
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param payload body domain.CreateInput true "Opportunity"
// @Success 201 {object} domain.Opportunity "created"
// @Router /opportunity [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	o, err := h.svc.Create(r.Context(), caller, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(o), nil
}

// @Summary List opportunities
// @Tags opportunities
// @Produce json
// @Security bearerAuth
// @Success 200 {array} domain.Opportunity "ok"
// @Router /opportunity [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// @Summary Get an opportunity
// @Tags opportunities
// @Produce json
// @Security bearerAuth
// @Param id path string true "Opportunity id"
// @Success 200 {object} domain.Opportunity "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /opportunity/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.URLParam(r, "id"))
}

// @Summary Update an opportunity
// @Tags opportunities
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param id path string true "Opportunity id"
// @Param payload body domain.UpdateInput true "Changes"
// @Success 200 {object} domain.Opportunity "ok"
// @Failure 403 {object} httpkit.Envelope "admin only"
// @Router /opportunity/{id} [put]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), httpkit.URLParam(r, "id"), caller, in)
}

// @Summary Delete an opportunity
// @Tags opportunities
// @Security bearerAuth
// @Param id path string true "Opportunity id"
// @Success 204 "deleted"
// @Router /opportunity/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), httpkit.URLParam(r, "id"), caller); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// @Summary Apply to an opportunity
// @Description Applying twice is a no-op
// @Tags opportunities
// @Produce json
// @Security bearerAuth
// @Param id path string true "Opportunity id"
// @Success 200 {object} domain.Opportunity "ok"
// @Failure 409 {object} httpkit.Envelope "opportunity closed"
// @Router /opportunity/{id}/apply [post]
func (h *handlers) apply(r *stdhttp.Request) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Apply(r.Context(), httpkit.URLParam(r, "id"), caller)
}
