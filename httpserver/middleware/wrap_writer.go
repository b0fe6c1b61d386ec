/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"bufio"
	"net"
	"net/http"
)

// WrapResponseWriter is a proxy around an http.ResponseWriter that remembers
// the status code and the number of bytes written to the response.
type WrapResponseWriter interface {
	http.ResponseWriter

	// Status returns the HTTP status of the response, or 0 if one has not yet been sent.
	Status() int

	// BytesWritten returns the total number of bytes sent to the client.
	BytesWritten() int
}

// NewWrapResponseWriter wraps an http.ResponseWriter.
func NewWrapResponseWriter(rw http.ResponseWriter) WrapResponseWriter {
	bw := basicWriter{ResponseWriter: rw}
	if _, ok := rw.(http.Flusher); ok {
		return &flushWriter{bw}
	}
	return &bw
}

// WrapResponseWriterIfNeeded wraps an http.ResponseWriter unless it is already wrapped.
func WrapResponseWriterIfNeeded(rw http.ResponseWriter) WrapResponseWriter {
	if wrw, ok := rw.(WrapResponseWriter); ok {
		return wrw
	}
	return NewWrapResponseWriter(rw)
}

type basicWriter struct {
	http.ResponseWriter
	wroteHeader bool
	status      int
	bytes       int
}

func (b *basicWriter) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
	b.ResponseWriter.WriteHeader(status)
}

func (b *basicWriter) Write(buf []byte) (int, error) {
	b.WriteHeader(http.StatusOK)
	n, err := b.ResponseWriter.Write(buf)
	b.bytes += n
	return n, err
}

func (b *basicWriter) Status() int {
	return b.status
}

func (b *basicWriter) BytesWritten() int {
	return b.bytes
}

// Hijack implements http.Hijacker if the underlying writer supports it.
func (b *basicWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := b.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

type flushWriter struct {
	basicWriter
}

func (f *flushWriter) Flush() {
	f.wroteHeader = true
	f.basicWriter.ResponseWriter.(http.Flusher).Flush()
}

var _ http.Flusher = (*flushWriter)(nil)
