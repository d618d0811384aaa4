package net

import (
	"net/http"

	perr "certifica/internal/platform/errors"
)

// Wire is the error envelope written by middleware that sits below the handler layer
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error maps err to its status and envelope; a nil err is a 200
func Error(err error, reqID string) (int, Wire) {
	status, w := perr.HTTP(err)
	out := Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID}
	if err != nil {
		out.Code, out.Error, out.Field = w.Code, w.Message, w.Field
	}
	return status, out
}
