package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"go.trai.ch/linkman/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{"info level", slog.LevelInfo, "Unloaded //chair_Lo.blend", "handler_info"},
		{"warn level", slog.LevelWarn, "No library to unload or reload", "handler_warn"},
		{"error level", slog.LevelError, "Could not delete library", "handler_error"},
		{"debug level filtered", slog.LevelDebug, "scan", "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(h slog.Handler) slog.Handler
		goldenName string
	}{
		{
			name: "single attribute",
			handler: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("path", "//chair_Lo.blend")})
			},
			goldenName: "handler_attrs_single",
		},
		{
			name: "nested group attribute",
			handler: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.Group("snapshot", slog.Group("names", slog.Int("collections", 2)))})
			},
			goldenName: "handler_attrs_nested_group",
		},
		{
			name: "handler group",
			handler: func(h slog.Handler) slog.Handler {
				return h.WithGroup("library").WithAttrs([]slog.Attr{slog.String("path", "//a.blend"), slog.Bool("loaded", true)})
			},
			goldenName: "handler_attrs_with_group",
		},
		{
			name: "empty attribute value",
			handler: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("suffix", "")})
			},
			goldenName: "handler_attrs_empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			base := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
			slog.New(tt.handler(base)).Info("relinked")

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}
