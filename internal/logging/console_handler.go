package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/edgeban/edgeban/internal/brand"
)

// ConsoleHandler is a slog.Handler that writes human-readable lines in
// the classic syslog-ish shape:
//
//	2026-01-02T15:04:05Z edgeban[1234]: [info] mirror: message key=value
type ConsoleHandler struct {
	opts       slog.HandlerOptions
	mu         *sync.Mutex
	out        io.Writer
	attrs      []slog.Attr
	group      string
	timeFormat string
}

// NewConsoleHandler creates a console handler writing to out.
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		mu:         &sync.Mutex{},
		out:        out,
		timeFormat: time.RFC3339,
	}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle formats and writes the record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format(h.timeFormat))
	sb.WriteByte(' ')
	fmt.Fprintf(&sb, "%s[%d]: ", brand.LowerName, os.Getpid())
	fmt.Fprintf(&sb, "[%s] ", levelLabel(r.Level))

	// Promote component and domain fields into the message prefix so
	// lines scan like "mirror(example.com): replaced list".
	component := ""
	domain := ""
	var rest []slog.Attr

	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "component":
			component = a.Value.String()
		case "domain":
			domain = a.Value.String()
		default:
			rest = append(rest, a)
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if component != "" {
		sb.WriteString(component)
		if domain != "" {
			fmt.Fprintf(&sb, "(%s)", domain)
		}
		sb.WriteString(": ")
	} else if domain != "" {
		fmt.Fprintf(&sb, "(%s): ", domain)
	}

	sb.WriteString(r.Message)

	for _, a := range rest {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, " %s=%s", key, formatValue(a.Value))
	}

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup returns a new handler with the given group name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if nh.group != "" {
		nh.group = nh.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// formatValue renders an attr value, quoting strings that contain
// whitespace so lines stay parseable with awk.
func formatValue(v slog.Value) string {
	s := v.String()
	if strings.ContainsAny(s, " \t\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
