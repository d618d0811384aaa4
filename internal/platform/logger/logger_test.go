package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "certifica/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"trace": "trace", "DEBUG": "debug", "info": "info", "warning": "warn",
		"error": "error", "fatal": "fatal", "panic": "panic", "": "debug", " junk ": "debug",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRootNamedAndRequestScoped(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "json",
		Service:      "certifica-api",
		Writer:       &buf,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// resample to N=1 so every line is emitted
	one := &zerolog.BasicSampler{N: 1}

	r := Get().Sample(one)
	r.Info().Msg("root-msg")

	n := Named("processor").Sample(one)
	n.Info().Msg("named-msg")

	ctx := WithRequest(context.Background(), "req-7", "", "")
	ctx = WithRequest(ctx, "", "u-42", "ADMIN")
	c := C(ctx).Sample(one)
	c.Info().Msg("ctx-msg")

	empty := C(context.Background()).Sample(one)
	empty.Info().Msg("bare-msg")

	out := buf.String()
	for _, want := range []string{
		`"service":"certifica-api"`, `"build":"test"`, "root-msg",
		`"component":"processor"`, "named-msg",
		`"request_id":"req-7"`, `"user_id":"u-42"`, `"role":"ADMIN"`, "ctx-msg",
	} {
		kit.MustContain(t, out, want)
	}

	var bare string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "bare-msg") {
			bare = line
		}
	}
	if strings.Contains(bare, "request_id") || strings.Contains(bare, "user_id") {
		t.Fatalf("background logger leaked request fields: %s", bare)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_COMPONENT", "sweep")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Component != "sweep" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if opt.Service != "certifica" {
		t.Fatalf("default service = %q", opt.Service)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample = %+v", opt)
	}
}
