package detector_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/detector"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		ci   string
		in   func(t *testing.T) io.Reader
	}{
		{"buffer is never a terminal", "", func(*testing.T) io.Reader { return &bytes.Buffer{} }},
		{"regular file", "", func(t *testing.T) io.Reader {
			f, err := os.CreateTemp(t.TempDir(), "stdin")
			require.NoError(t, err)
			t.Cleanup(func() { _ = f.Close() })
			return f
		}},
		{"CI=true", "true", func(*testing.T) io.Reader { return &bytes.Buffer{} }},
		{"CI=1", "1", func(*testing.T) io.Reader { return &bytes.Buffer{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			assert.Equal(t, detector.ModeLinear, detector.Detect(tt.in(t)))
		})
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.Mode
		flag     string
		want     detector.Mode
	}{
		{"auto keeps interactive", detector.ModeInteractive, "auto", detector.ModeInteractive},
		{"auto keeps linear", detector.ModeLinear, "auto", detector.ModeLinear},
		{"empty keeps detection", detector.ModeInteractive, "", detector.ModeInteractive},
		{"interactive overrides", detector.ModeLinear, "interactive", detector.ModeInteractive},
		{"linear overrides", detector.ModeInteractive, "linear", detector.ModeLinear},
		{"ci is an alias for linear", detector.ModeInteractive, "ci", detector.ModeLinear},
		{"unknown keeps detection", detector.ModeLinear, "fancy", detector.ModeLinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.detected, tt.flag))
		})
	}
}
