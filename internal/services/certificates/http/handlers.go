// Package http provides http transport for certificates
package http

import (
	"errors"
	"io"
	stdhttp "net/http"

	"certifica/internal/modkit/httpkit"
	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/identity"
	"certifica/internal/platform/net/http/bind"
	"certifica/internal/services/certificates/domain"
	svc "certifica/internal/services/certificates/service"
)

// multipartMemory is how much of a form is buffered in memory before spilling to disk
const multipartMemory = 8 << 20

// Register mounts the router
// Submission and reads need a caller; listing, deletion and decisions need an admin
func Register(r httpkit.Router, s svc.Service, maxUpload int64) {
	h := &handlers{svc: s, maxUpload: maxUpload}

	httpkit.Protected(r, func(pr httpkit.Router) {
		httpkit.Post(pr, "/", h.submit)
		httpkit.Get(pr, "/my-documents", h.mine)
		httpkit.Get(pr, "/{id}", h.get)
		httpkit.Get(pr, "/{id}/view-url", h.viewURL)
	})
	httpkit.Restricted(r, identity.RoleAdmin, func(ar httpkit.Router) {
		httpkit.Get(ar, "/", h.list)
		httpkit.Delete(ar, "/{id}", h.delete)
		httpkit.PostJSON[domain.ValidateInput](ar, "/{id}/validate", h.validate)
	})
}

type handlers struct {
	svc       svc.Service
	maxUpload int64
}

// swagger:route POST /certificate Certificates submit
// @Summary Submit a certificate
// @Description Multipart form with a JSON part "request" (title, category, durationInHours, expirationDate) and a binary part "file" (PDF, PNG or JPEG)
// @Tags certificates
// @Accept multipart/form-data
// @Produce json
// @Security bearerAuth
// @Param request formData string true "SubmitInput as JSON"
// @Param file formData file true "Certificate document"
// @Success 201 {object} domain.Certificate "created"
// @Failure 400 {object} httpkit.Envelope "invalid file or metadata, or duplicate title and category"
// @Failure 403 {object} httpkit.Envelope "unauthenticated"
// @Failure 502 {object} httpkit.Envelope "storage unavailable"
// @Router /certificate [post]
func (h *handlers) submit(r *stdhttp.Request) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	in, f, err := h.readForm(r)
	if err != nil {
		return nil, err
	}
	cert, err := h.svc.Submit(r.Context(), caller, in, f)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(cert), nil
}

// readForm extracts the metadata part and the file part
// The metadata may arrive as a plain field or as a file part with a JSON body
func (h *handlers) readForm(r *stdhttp.Request) (domain.SubmitInput, domain.File, error) {
	var in domain.SubmitInput
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return in, domain.File{}, perr.FieldErrf("file", "request exceeds %d bytes", tooBig.Limit)
		}
		return in, domain.File{}, perr.Validationf("expected a multipart/form-data body: %v", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	raw, err := requestPart(r)
	if err != nil {
		return in, domain.File{}, err
	}
	in, err = bind.Decode[domain.SubmitInput](raw)
	if err != nil {
		return in, domain.File{}, perr.WithField(err, fieldOr(err, "request"))
	}

	fh, hdr, err := r.FormFile("file")
	if err != nil {
		return in, domain.File{}, perr.FieldErrf("file", "file part is required")
	}
	defer func() { _ = fh.Close() }()

	// one byte past the limit is enough for the service to reject the size
	data, err := io.ReadAll(io.LimitReader(fh, h.maxUpload+1))
	if err != nil {
		return in, domain.File{}, perr.FieldErrf("file", "could not read file part")
	}
	return in, domain.File{
		Bytes:               data,
		OriginalFilename:    hdr.Filename,
		DeclaredContentType: hdr.Header.Get("Content-Type"),
	}, nil
}

func requestPart(r *stdhttp.Request) ([]byte, error) {
	if v := r.MultipartForm.Value["request"]; len(v) > 0 {
		return []byte(v[0]), nil
	}
	if fs := r.MultipartForm.File["request"]; len(fs) > 0 {
		f, err := fs[0].Open()
		if err != nil {
			return nil, perr.FieldErrf("request", "could not read request part")
		}
		defer func() { _ = f.Close() }()
		return io.ReadAll(io.LimitReader(f, 1<<20))
	}
	return nil, perr.FieldErrf("request", "request part is required")
}

func fieldOr(err error, def string) string {
	if e, ok := perr.As(err); ok && e.Field() != "" {
		return e.Field()
	}
	return def
}

// swagger:route GET /certificate/{id} Certificates get
// @Summary Get a certificate
// @Tags certificates
// @Produce json
// @Security bearerAuth
// @Param id path string true "Certificate id"
// @Success 200 {object} domain.Certificate "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /certificate/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.URLParam(r, "id"))
}

// swagger:route GET /certificate Certificates list
// @Summary List every certificate
// @Tags certificates
// @Produce json
// @Security bearerAuth
// @Success 200 {array} domain.Certificate "ok"
// @Failure 403 {object} httpkit.Envelope "admin only"
// @Router /certificate [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.ListAll(r.Context())
}

// swagger:route GET /certificate/my-documents Certificates mine
// @Summary List the caller's certificates
// @Tags certificates
// @Produce json
// @Security bearerAuth
// @Success 200 {array} domain.Certificate "ok"
// @Router /certificate/my-documents [get]
func (h *handlers) mine(r *stdhttp.Request) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListBySubmitter(r.Context(), caller)
}

// swagger:route DELETE /certificate/{id} Certificates delete
// @Summary Delete a certificate and its file
// @Tags certificates
// @Security bearerAuth
// @Param id path string true "Certificate id"
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Failure 502 {object} httpkit.Envelope "storage unavailable; record kept"
// @Router /certificate/{id} [delete]
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

// swagger:route POST /certificate/{id}/validate Certificates validate
// @Summary Approve or deny a certificate
// @Tags certificates
// @Accept json
// @Produce json
// @Security bearerAuth
// @Param id path string true "Certificate id"
// @Param payload body domain.ValidateInput true "Decision"
// @Success 200 {object} domain.Certificate "ok"
// @Failure 400 {object} httpkit.Envelope "invalid decision"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /certificate/{id}/validate [post]
func (h *handlers) validate(r *stdhttp.Request, in domain.ValidateInput) (any, error) {
	caller, err := httpkit.Caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Validate(r.Context(), httpkit.URLParam(r, "id"), caller, in)
}

// swagger:route GET /certificate/{id}/view-url Certificates viewURL
// @Summary URL to view the certificate file
// @Tags certificates
// @Produce json
// @Security bearerAuth
// @Param id path string true "Certificate id"
// @Success 200 {object} domain.ViewURL "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /certificate/{id}/view-url [get]
func (h *handlers) viewURL(r *stdhttp.Request) (any, error) {
	return h.svc.ViewURL(r.Context(), httpkit.URLParam(r, "id"))
}
