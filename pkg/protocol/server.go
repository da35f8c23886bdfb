// Package protocol implements the worker's stdin/stdout line protocol: one
// template per input line, answered by one JSON object line followed by the
// sentinel line.
package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-tplworker/pkg/dispatch"
)

// Sentinel terminates every response record on the output stream.
const Sentinel = "__END__"

// Dispatcher produces a response record for one template.
type Dispatcher interface {
	Dispatch(ctx context.Context, template string) dispatch.Response
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for debug records. Nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server reads templates from in and writes responses to out.
type Server struct {
	dispatcher Dispatcher
	in         *bufio.Reader
	out        *bufio.Writer
	logger     *slog.Logger
}

// NewServer constructs a Server.
func NewServer(d Dispatcher, in io.Reader, out io.Writer, options ...Option) *Server {
	s := &Server{
		dispatcher: d,
		in:         bufio.NewReader(in),
		out:        bufio.NewWriter(out),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Serve answers lines until the input reaches EOF, returning nil in that
// case. Each response and its sentinel are written and flushed before the
// next line is read. Read, write and flush errors are fatal and returned
// wrapped; a cancelled ctx stops the loop between lines.
func (s *Server) Serve(ctx context.Context) error {
	if s.dispatcher == nil {
		return errors.New("protocol: dispatcher is required")
	}

	for lines := 0; ; lines++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("protocol: read line: %w", readErr)
		}
		if errors.Is(readErr, io.EOF) && line == "" {
			s.logger.Debug("input closed", "lines", lines)
			return nil
		}

		if err := s.respond(ctx, strings.TrimSpace(line)); err != nil {
			return err
		}

		if errors.Is(readErr, io.EOF) {
			s.logger.Debug("input closed", "lines", lines+1)
			return nil
		}
	}
}

func (s *Server) respond(ctx context.Context, template string) error {
	resp := s.dispatcher.Dispatch(ctx, template)
	if err := WriteResponse(s.out, resp); err != nil {
		return err
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("protocol: flush: %w", err)
	}
	return nil
}

// WriteResponse writes resp as a single JSON line followed by the sentinel
// line. HTML characters are left unescaped so outputs read verbatim.
func WriteResponse(w io.Writer, resp dispatch.Response) error {
	if resp == nil {
		resp = dispatch.Response{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("protocol: encode response: %w", err)
	}
	if _, err := io.WriteString(w, Sentinel+"\n"); err != nil {
		return fmt.Errorf("protocol: write sentinel: %w", err)
	}
	return nil
}
