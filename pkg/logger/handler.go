package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05-07:00"

// sink is the destination shared by a LineHandler and the handlers derived from it.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) write(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(line)

	return err
}

// LineHandler writes one "time LEVEL msg key=value" line per record.
// Attributes added through WithAttrs are rendered once, when they are added.
type LineHandler struct {
	out    *sink
	level  slog.Leveler
	prefix string
	fixed  []byte
}

// NewFileHandler creates a LineHandler that appends to the file at path.
func NewFileHandler(path string, level Level) (*LineHandler, error) {
	//nolint:gosec // log path comes from the CLI user
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return NewWriterHandler(file, level), nil
}

// NewWriterHandler creates a LineHandler that writes to w.
func NewWriterHandler(w io.Writer, level Level) *LineHandler {
	return &LineHandler{
		out:   &sink{w: w},
		level: level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	b.WriteString(ts.Local().Format(timestampLayout))
	b.WriteByte(' ')
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.Write(h.fixed)

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)

		return true
	})

	b.WriteByte('\n')

	return h.out.write([]byte(b.String()))
}

// WithAttrs returns a handler that appends attrs to every line.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var b strings.Builder

	b.Write(h.fixed)

	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}

	next := *h
	next.fixed = []byte(b.String())

	return &next
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.prefix = h.prefix + name + "."

	return &next
}

// Close closes the underlying writer if it implements io.Closer.
func (h *LineHandler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if closer, ok := h.out.w.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// writeAttr renders " prefix.key=value". Group attributes are flattened into
// dotted keys and empty attributes are skipped.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, member := range a.Value.Group() {
			writeAttr(b, prefix, member)
		}

		return
	}

	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string

	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(timestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	default:
		s = v.String()
	}

	if s == "" || strings.ContainsAny(s, " =\"\t\r\n") {
		return strconv.Quote(s)
	}

	return s
}
