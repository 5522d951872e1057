package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/viswa-prakash/estatebot/internal/frontend"
)

// Asker answers one query.
type Asker interface {
	Ask(ctx context.Context, query, transcriptPath string) (frontend.Answer, error)
}

// REPL reads one query per line. Every line is an independent Run.
type REPL struct {
	asker    Asker
	reader   *bufio.Reader
	out      io.Writer
	renderer *frontend.Renderer
	styled   bool
}

func NewREPL(asker Asker, in io.Reader, out io.Writer, styled bool) *REPL {
	return &REPL{
		asker:    asker,
		reader:   bufio.NewReader(in),
		out:      out,
		renderer: frontend.NewRenderer(),
		styled:   styled,
	}
}

func (r *REPL) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Real estate agent ready. Each line is a new question.")
	fmt.Fprintln(r.out, "Type '/exit' to quit.")

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := r.readLine(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (r *REPL) readLine(ctx context.Context) error {
	fmt.Fprint(r.out, "> ")
	text, err := r.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(text) == "") {
		return err
	}

	text = strings.TrimSpace(text)
	switch text {
	case "":
		return nil
	case "/exit", "/quit":
		return io.EOF
	}

	answer, askErr := r.asker.Ask(ctx, text, "")
	if askErr != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("Query failed", "error", askErr)
		fmt.Fprintf(r.out, "Error: %v\n", askErr)
		return err
	}

	if r.styled {
		fmt.Fprint(r.out, r.renderer.RenderAnswer(answer))
	} else {
		fmt.Fprint(r.out, frontend.PlainAnswer(answer))
	}
	return err
}
