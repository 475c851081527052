package prompt_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/prompt"
)

func TestLinePrompter_PromptPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		suggested string
		want      string
		question  string
	}{
		{name: "typed path", input: "//props/chair.blend\n", want: "//props/chair.blend", question: "Pick a file: "},
		{name: "accept suggestion", input: "\n", suggested: "//chair.blend", want: "//chair.blend", question: "Pick a file: [//chair.blend] "},
		{name: "cancel word", input: "Cancel\n", suggested: "//chair.blend", want: "", question: "Pick a file: [//chair.blend] "},
		{name: "end of input", input: "", suggested: "//chair.blend", want: "", question: "Pick a file: [//chair.blend] "},
		{name: "last line without newline", input: "  //x.blend", want: "//x.blend", question: "Pick a file: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := prompt.New(strings.NewReader(tt.input), &out)

			got, err := p.PromptPath(t.Context(), "Pick a file:", tt.suggested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.question, out.String())
		})
	}
}

func TestLinePrompter_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	p := prompt.New(r, io.Discard)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := p.PromptPath(ctx, "Pick a file:", "")
	require.ErrorIs(t, err, context.Canceled)
}
