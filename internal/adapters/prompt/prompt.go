// Package prompt asks the user for input on a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathPrompter = (*LinePrompter)(nil)

// LinePrompter reads one answer per line. A blank answer accepts the suggestion
// when there is one; the word "cancel" or end of input abandons the choice.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter reading from in and writing questions to out.
func New(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type answer struct {
	line string
	err  error
}

// PromptPath asks for a path. It returns "" when the user cancels.
func (p *LinePrompter) PromptPath(ctx context.Context, message, suggested string) (string, error) {
	if suggested != "" {
		_, _ = fmt.Fprintf(p.out, "%s [%s] ", message, suggested)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s ", message)
	}

	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		line := strings.TrimSpace(a.line)
		if a.err != nil && a.err != io.EOF {
			return "", zerr.Wrap(a.err, "failed to read answer")
		}
		if a.err == io.EOF && line == "" {
			return "", nil
		}
		switch {
		case strings.EqualFold(line, "cancel"):
			return "", nil
		case line == "":
			return suggested, nil
		default:
			return line, nil
		}
	}
}
