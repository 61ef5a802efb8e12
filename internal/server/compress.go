package server

import (
	"bytes"
	"compress/gzip"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"zenith/internal/domain/errors"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
)

// minCompressSize is the smallest body worth compressing.
const minCompressSize = 1024

var compressibleTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/xml":               true,
	"text/javascript":        true,
}

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// gzipBody closes the decompressor and the original request body together.
type gzipBody struct {
	*gzip.Reader
	body io.ReadCloser
}

func (b *gzipBody) Close() error {
	return stderrors.Join(b.Reader.Close(), b.body.Close())
}

// GzipRequestDecompress transparently inflates gzip or x-gzip request bodies.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}

		zr, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			abort(ctx, invalidField(errors.ErrInvalidGzipRequest))
			return
		}
		ctx.Request.Body = &gzipBody{Reader: zr, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

type compressMode int

const (
	modePending compressMode = iota
	modePassthrough
	modeCompressing
)

// compressWriter holds the first minCompressSize bytes back, then either
// switches to gzip or hands the buffer through untouched.
type compressWriter struct {
	gin.ResponseWriter
	mode compressMode
	buf  bytes.Buffer
	zw   *gzip.Writer
}

func (w *compressWriter) Write(p []byte) (int, error) {
	switch w.mode {
	case modeCompressing:
		if _, err := w.zw.Write(p); err != nil {
			return 0, errors.ErrGzipCompressionFailed
		}
		return len(p), nil
	case modePassthrough:
		return w.ResponseWriter.Write(p)
	}

	w.buf.Write(p)
	if w.buf.Len() < minCompressSize {
		return len(p), nil
	}
	if err := w.decide(); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// decide leaves the pending state and drains whatever was buffered.
func (w *compressWriter) decide() error {
	h := w.Header()
	if h.Get("Content-Encoding") != "" || !compressibleStatus(w.Status()) ||
		!isCompressibleContentType(h.Get("Content-Type")) {
		return w.passthrough()
	}

	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	w.zw = gzipWriters.Get().(*gzip.Writer)
	w.zw.Reset(w.ResponseWriter)
	w.mode = modeCompressing
	if _, err := w.zw.Write(w.buf.Bytes()); err != nil {
		return errors.ErrGzipCompressionFailed
	}
	w.buf.Reset()
	return nil
}

func (w *compressWriter) passthrough() error {
	w.mode = modePassthrough
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *compressWriter) Flush() {
	switch w.mode {
	case modePending:
		_ = w.passthrough()
	case modeCompressing:
		_ = w.zw.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *compressWriter) close() error {
	if w.mode != modeCompressing {
		return w.passthrough()
	}
	err := w.zw.Close()
	w.zw.Reset(io.Discard)
	gzipWriters.Put(w.zw)
	w.zw = nil
	if err != nil {
		return errors.ErrGzipCompressionFailed
	}
	return nil
}

// GzipResponseCompress gzips responses of at least minCompressSize bytes for
// clients that accept it.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead || !acceptsGzip(ctx.GetHeader("Accept-Encoding")) {
			ctx.Next()
			return
		}

		varyOnEncoding(ctx.Writer.Header())
		cw := &compressWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = cw
		defer func() { ctx.Writer = cw.ResponseWriter }()

		ctx.Next()

		if err := cw.close(); err != nil {
			logger.Error("failed to flush response", "path", ctx.Request.URL.Path, "err", err)
			_ = ctx.Error(err)
		}
	}
}

// acceptsGzip reads an Accept-Encoding header; "gzip;q=0" is a refusal.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimSpace(params), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
			return true
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && q > 0
	}
	return false
}

func varyOnEncoding(h http.Header) {
	for _, v := range h.Values("Vary") {
		for _, field := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(field), "Accept-Encoding") {
				return
			}
		}
	}
	h.Add("Vary", "Accept-Encoding")
}

func compressibleStatus(code int) bool {
	switch {
	case code < http.StatusOK, code == http.StatusNoContent, code == http.StatusPartialContent:
		return false
	case code >= http.StatusMultipleChoices && code < http.StatusBadRequest:
		return false
	}
	return true
}

func isCompressibleContentType(ct string) bool {
	mediaType, _, _ := strings.Cut(ct, ";")
	return compressibleTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}
