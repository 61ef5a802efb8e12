package server

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zenith/internal/domain/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestGzipRequestDecompress(t *testing.T) {
	const note = `{"content":"standup notes","tags":["daily"]}`

	tests := []struct {
		name            string
		body            []byte
		contentEncoding string
		want            struct {
			statusCode int
			body       string
		}
	}{
		{
			name: "plain body",
			body: []byte(note),
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusCreated,
				body:       "standup notes",
			},
		},
		{
			name:            "gzip body",
			body:            gzipBytes(t, note),
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusCreated,
				body:       "standup notes",
			},
		},
		{
			name:            "x-gzip body",
			body:            gzipBytes(t, note),
			contentEncoding: "x-gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusCreated,
				body:       "standup notes",
			},
		},
		{
			name:            "corrupt gzip body",
			body:            []byte(note),
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{
				statusCode: http.StatusBadRequest,
				body:       errors.ErrInvalidGzipRequest.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			token, _ := registerUser(t, api, "Ada", "ada@example.com")

			req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			w := httptest.NewRecorder()
			api.httpSrv.Handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want.body)
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	tests := []struct {
		name           string
		todos          int
		method         string
		acceptEncoding string
		want           struct {
			contentEncoding string
			vary            bool
		}
	}{
		{
			name:           "large list with gzip accepted",
			todos:          20,
			method:         http.MethodGet,
			acceptEncoding: "gzip, deflate",
			want: struct {
				contentEncoding string
				vary            bool
			}{contentEncoding: "gzip", vary: true},
		},
		{
			name:   "large list without accept-encoding",
			todos:  20,
			method: http.MethodGet,
			want: struct {
				contentEncoding string
				vary            bool
			}{},
		},
		{
			name:           "large list with deflate only",
			todos:          20,
			method:         http.MethodGet,
			acceptEncoding: "deflate",
			want: struct {
				contentEncoding string
				vary            bool
			}{},
		},
		{
			name:           "small list stays plain",
			todos:          0,
			method:         http.MethodGet,
			acceptEncoding: "gzip",
			want: struct {
				contentEncoding string
				vary            bool
			}{vary: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			token, _ := registerUser(t, api, "Ada", "ada@example.com")
			for i := 0; i < tt.todos; i++ {
				createTodo(t, api, token, gin.H{"title": strings.Repeat("compressible ", 10)})
			}

			req := httptest.NewRequest(tt.method, "/api/todos", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			api.httpSrv.Handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want.contentEncoding, w.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.want.vary, strings.Contains(w.Header().Get("Vary"), "Accept-Encoding"))

			var reader io.Reader = w.Body
			if tt.want.contentEncoding == "gzip" {
				gr, err := gzip.NewReader(w.Body)
				require.NoError(t, err)
				reader = gr
			}
			var body map[string]any
			require.NoError(t, json.NewDecoder(reader).Decode(&body))
			assert.Equal(t, float64(tt.todos), body["total"])
		})
	}
}

func TestGzipResponseSkipsUncompressibleTypes(t *testing.T) {
	payload := strings.Repeat("x", 4*minCompressSize)
	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/export.png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte(payload))
	})
	router.GET("/export.txt", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(payload))
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/export.png", want: ""},
		{path: "/export.txt", want: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Content-Encoding"))
			if tt.want == "" {
				assert.Equal(t, payload, w.Body.String())
			}
		})
	}
}

func TestIsCompressibleContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json; charset=utf-8", true},
		{"Text/Plain", true},
		{"text/event-stream", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, isCompressibleContentType(tt.contentType))
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{header: "gzip", want: true},
		{header: "deflate, GZIP", want: true},
		{header: "br;q=1.0, gzip;q=0.5", want: true},
		{header: "gzip;q=0", want: false},
		{header: "gzip; q=0.0", want: false},
		{header: "x-gzip", want: false},
		{header: "deflate", want: false},
		{header: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptsGzip(tt.header))
		})
	}
}

func TestCompressibleStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{code: http.StatusOK, want: true},
		{code: http.StatusCreated, want: true},
		{code: http.StatusNoContent, want: false},
		{code: http.StatusPartialContent, want: false},
		{code: http.StatusNotModified, want: false},
		{code: http.StatusFound, want: false},
		{code: http.StatusBadRequest, want: true},
		{code: http.StatusInternalServerError, want: true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, compressibleStatus(tt.code))
		})
	}
}

func TestGzipResponseFlushBeforeThreshold(t *testing.T) {
	tail := strings.Repeat("y", 2*minCompressSize)
	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/stream", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain")
		_, _ = c.Writer.WriteString("head;")
		c.Writer.Flush()
		_, _ = c.Writer.WriteString(tail)
	})

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "head;"+tail, w.Body.String())
}
