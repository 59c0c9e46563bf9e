/*
 * S2200 - Log handler
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Line oriented handler, writes to log file and mirrors to stderr.
type LogHandler struct {
	out    io.Writer
	errOut io.Writer
	h      slog.Handler
	attrs  []slog.Attr
	group  string
	mu     *sync.Mutex
	debug  bool
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *LogHandler) clone() *LogHandler {
	n := *h
	n.attrs = append([]slog.Attr{}, h.attrs...)
	return &n
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := h.clone()
	n.h = h.h.WithAttrs(attrs)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		n.attrs = append(n.attrs, a)
	}
	return n
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	n := h.clone()
	n.h = h.h.WithGroup(name)
	if n.group != "" {
		n.group += "." + name
	} else {
		n.group = name
	}
	return n
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}
	for _, a := range h.attrs {
		strs = append(strs, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		strs = append(strs, key+"="+a.Value.String())
		return true
	})
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}

	if h.debug || r.Level > slog.LevelInfo || h.out == nil {
		if _, e := h.errOut.Write(b); e != nil && err == nil {
			err = e
		}
	}
	return err
}

func (h *LogHandler) SetDebug(debug bool) {
	h.mu.Lock()
	h.debug = debug
	h.mu.Unlock()
}

// Create handler writing to file, which may be nil. Messages above info, or
// all when debug set, also go to stderr.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug bool) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{
		out:    file,
		errOut: os.Stderr,
		h: slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		}),
		mu:    &sync.Mutex{},
		debug: debug,
	}
}
