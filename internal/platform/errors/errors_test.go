package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeDuplicateKey, http.StatusBadRequest},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeUnauthorized, http.StatusForbidden},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeStorage, http.StatusBadGateway},
		{ErrorCodeQueue, http.StatusServiceUnavailable},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%s) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWireHidesServerMessages(t *testing.T) {
	t.Parallel()

	client := FieldErrf("file", "file is empty")
	w := WireFrom(client)
	if w.Code != ErrorCodeValidation || w.Message != "file is empty" || w.Field != "file" {
		t.Fatalf("client wire = %+v", w)
	}

	st := Storage(stderrs.New("s3: access denied for bucket certs"), "put")
	w = WireFrom(st)
	if w.Code != ErrorCodeStorage || w.Message != "storage unavailable" {
		t.Fatalf("storage wire = %+v", w)
	}

	w = WireFrom(stderrs.New("dial tcp 10.0.0.1:5432: refused"))
	if w.Code != ErrorCodeUnknown || w.Message != "internal error" {
		t.Fatalf("foreign wire = %+v", w)
	}

	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v, want zero", wf)
	}
}

func TestWrapAndInspect(t *testing.T) {
	t.Parallel()

	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q", nilErr.Error())
	}

	src := stderrs.New("root")
	e := Wrapf(src, ErrorCodeForbidden, "nope %s", "here")
	if want := "nope here: root"; e.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e.Error(), want)
	}
	if stderrs.Unwrap(e) != src {
		t.Fatalf("Wrapf did not keep orig")
	}
	if got, ok := As(e); !ok || got.Code() != ErrorCodeForbidden {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	base := Validationf("bad")
	withField := WithField(base, "title")
	withOp := WithOp(withField, "validate_content")
	if fe, _ := As(withField); fe.Field() != "title" {
		t.Fatalf("WithField failed")
	}
	if OpOf(withOp) != "validate_content" {
		t.Fatalf("OpOf = %q", OpOf(withOp))
	}
	if b, _ := As(base); b.Field() != "" || b.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src {
		t.Fatalf("WithField should pass foreign errors through")
	}

	wrapped := fmt.Errorf("submit: %w", Queue(src, "publish"))
	if !IsCode(wrapped, ErrorCodeQueue) || OpOf(wrapped) != "publish" {
		t.Fatalf("Queue wrap lost code or op: %v", wrapped)
	}
	if Root(wrapped) != src {
		t.Fatalf("Root() = %v", Root(wrapped))
	}
}

func TestSugarCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want ErrorCode
	}{
		{Validationf("x"), ErrorCodeValidation},
		{NotFoundf("x"), ErrorCodeNotFound},
		{DuplicateKeyf("x"), ErrorCodeDuplicateKey},
		{DBf("x"), ErrorCodeDB},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unauthorizedf("x"), ErrorCodeUnauthorized},
		{Forbiddenf("x"), ErrorCodeForbidden},
		{Conflictf("x"), ErrorCodeConflict},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{Internalf("x"), ErrorCodeUnknown},
		{Storage(nil, "delete"), ErrorCodeStorage},
		{ErrNotFound, ErrorCodeNotFound},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Fatalf("CodeOf(%v) = %s, want %s", c.err, got, c.want)
		}
	}

	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	if !Retryable(Storage(stderrs.New("timeout"), "put")) {
		t.Fatalf("storage errors should be retryable")
	}
	if Retryable(Validationf("bad")) {
		t.Fatalf("validation errors are not retryable")
	}
}
