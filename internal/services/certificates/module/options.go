package module

import (
	"time"

	"certifica/internal/platform/config"
	svc "certifica/internal/services/certificates/service"
)

// Options are the certificate pipeline settings
type Options struct {
	MaxUploadBytes int64
	SniffContent   bool
	ViewURLMode    string
	PresignTTL     time.Duration
	Topic          string
}

// FromConfig reads CERT_MAX_UPLOAD_BYTES, CERT_SNIFF_CONTENT, CERT_VIEW_URL_MODE,
// BLOB_PRESIGN_TTL and QUEUE_TOPIC
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CERT_")
	return Options{
		MaxUploadBytes: c.MayBytes("MAX_UPLOAD_BYTES", 15<<20),
		SniffContent:   c.MayBool("SNIFF_CONTENT", true),
		ViewURLMode:    c.MayEnum("VIEW_URL_MODE", svc.ViewStored, svc.ViewStored, svc.ViewPresigned),
		PresignTTL:     cfg.Prefix("BLOB_").MayDuration("PRESIGN_TTL", 15*time.Minute),
		Topic:          cfg.Prefix("QUEUE_").MayString("TOPIC", "certificate-processing"),
	}
}

func (o Options) service() svc.Config {
	return svc.Config{
		MaxUploadBytes: o.MaxUploadBytes,
		SniffContent:   o.SniffContent,
		ViewURLMode:    o.ViewURLMode,
		PresignTTL:     o.PresignTTL,
		Topic:          o.Topic,
	}
}
