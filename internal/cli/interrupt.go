package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a running scan on SIGINT or SIGTERM and tells the
// user that partial results follow.
type InterruptHandler struct {
	writer      io.Writer
	cancel      context.CancelFunc
	signals     chan os.Signal
	mu          sync.Mutex
	interrupted bool
}

// NewInterruptHandler creates a handler that writes its notice to w.
func NewInterruptHandler(w io.Writer) *InterruptHandler {
	if w == nil {
		w = os.Stderr
	}
	return &InterruptHandler{writer: w}
}

// Watch returns a context that is canceled on the first interrupt. Call Stop
// once the scan has returned.
func (h *InterruptHandler) Watch(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.signals = make(chan os.Signal, 1)
	h.mu.Unlock()

	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-h.signals:
			h.Interrupt()
		case <-ctx.Done():
		}
	}()
	return ctx
}

// Interrupt cancels the watched context as if a signal had arrived. Only the
// first call prints the notice.
func (h *InterruptHandler) Interrupt() {
	h.mu.Lock()
	first := !h.interrupted
	h.interrupted = true
	cancel := h.cancel
	h.mu.Unlock()

	if first {
		msg := "\n" + FormatWarning("Scan interrupted!") + "\n" +
			SubtleStyle.Render("Finishing in-flight moments; partial results follow.") + "\n"
		if _, err := fmt.Fprint(h.writer, msg); err != nil {
			slog.Warn("Failed to write interrupt notice", "error", err)
		}
	}
	if cancel != nil {
		cancel()
	}
}

// Stop releases the signal subscription and the watched context.
func (h *InterruptHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.signals != nil {
		signal.Stop(h.signals)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// WasInterrupted reports whether an interrupt has been received.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
