package service

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"path/filepath"
	"strings"

	perr "certifica/internal/platform/errors"
	pstrings "certifica/internal/platform/strings"
	"certifica/internal/services/certificates/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
)

const maxTitleRunes = 200

// accepted maps each allowed content type to its extensions; the first is canonical
var accepted = map[string][]string{
	"application/pdf": {".pdf"},
	"image/png":       {".png"},
	"image/jpeg":      {".jpg", ".jpeg"},
}

// checked is a submission that passed every content and metadata rule
type checked struct {
	title       string
	category    domain.Category
	contentType string
	size        int64
	checksum    string
}

// check applies the content and metadata rules in order and stops at the first failure
func (s *Svc) check(in domain.SubmitInput, f domain.File) (checked, error) {
	size := int64(len(f.Bytes))
	if size == 0 {
		return checked{}, perr.FieldErrf("file", "file is empty")
	}
	if size > s.cfg.MaxUploadBytes {
		return checked{}, perr.FieldErrf("file", "file exceeds the %d byte limit", s.cfg.MaxUploadBytes)
	}

	ct, err := normalizeContentType(f.DeclaredContentType)
	if err != nil {
		return checked{}, err
	}
	if s.cfg.SniffContent {
		if got := mimetype.Detect(f.Bytes); !got.Is(ct) {
			return checked{}, perr.FieldErrf("file", "file content is %s, not the declared %s", got.String(), ct)
		}
	}

	title := pstrings.Normalize(in.Title)
	if n := pstrings.RuneLen(title); n == 0 || n > maxTitleRunes {
		return checked{}, perr.FieldErrf("title", "title must be 1..%d characters", maxTitleRunes)
	}
	cat, err := domain.ParseCategory(in.Category)
	if err != nil {
		return checked{}, err
	}
	if in.DurationInHours <= 0 {
		return checked{}, perr.FieldErrf("durationInHours", "durationInHours must be positive")
	}

	sum := sha256.Sum256(f.Bytes)
	return checked{
		title:       title,
		category:    cat,
		contentType: ct,
		size:        size,
		checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

// normalizeContentType lowercases the media type, drops parameters and checks it is accepted
func normalizeContentType(declared string) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", perr.FieldErrf("file", "file content type is missing")
	}
	ct, _, err := mime.ParseMediaType(declared)
	if err != nil {
		ct, _, _ = strings.Cut(strings.ToLower(declared), ";")
		ct = strings.TrimSpace(ct)
	}
	if _, ok := accepted[ct]; !ok {
		return "", perr.FieldErrf("file", "content type %s is not accepted; use PDF, PNG or JPEG", ct)
	}
	return ct, nil
}

// objectKey is a fresh ULID plus an extension consistent with the content type
// The original filename's extension is kept only when it belongs to that type
func objectKey(contentType, filename string) string {
	exts := accepted[contentType]
	ext := exts[0]
	if fe := strings.ToLower(filepath.Ext(filename)); fe != "" {
		for _, e := range exts {
			if fe == e {
				ext = e
				break
			}
		}
	}
	return ulid.Make().String() + ext
}
