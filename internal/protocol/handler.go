// Package protocol answers requests issued against the virtual URL scheme
// from files resolved by a resource.Resolver.
package protocol

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"

	"webshell/internal/logger"
	"webshell/internal/mime"
	"webshell/internal/resource"
)

// SchemeName is the scheme the webview routes to Handler. On windows the
// runtime exposes it as http://wails.localhost instead.
const SchemeName = "wails"

// IndexPath is served for requests against the scheme root.
const IndexPath = "index.html"

// originHosts are authorities that denote the scheme root. Any other host is
// read as the first path segment, so "app://index.html" names index.html.
var originHosts = map[string]bool{
	"":                true,
	"wails":           true,
	"wails.localhost": true,
	"localhost":       true,
}

// Request is one intercepted scheme request. Body is carried but unused.
type Request struct {
	URI    string
	Method string
	Body   []byte
}

// Response is handed back to the webview runtime.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Handler holds no mutable state and is safe for concurrent use.
type Handler struct {
	resolver resource.Resolver
	readFile func(string) ([]byte, error)
}

func NewHandler(r resource.Resolver) *Handler {
	return &Handler{resolver: r, readFile: os.ReadFile}
}

// Handle never panics: every failure becomes a 500 text/plain response whose
// body is the error text.
func (h *Handler) Handle(req Request) (resp Response) {
	rid := uuid.New().String()[:8]
	log := logger.NewContext(logger.CatProtocol, rid)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panic: %v", r)
			log.Error("request aborted", logger.F{"uri": req.URI, "error": err.Error()})
			resp = failure(err)
		}
	}()

	// 受限平台不解析请求，一律返回空 200
	if !h.resolver.Local() {
		log.Debug("local resolution disabled", logger.F{"uri": req.URI, "resolver": h.resolver.Kind()})
		return Response{Status: http.StatusOK, Body: []byte{}}
	}

	p, err := RequestPath(req.URI)
	if err != nil {
		log.Warn("bad request uri", logger.F{"uri": req.URI, "error": err.Error()})
		return failure(err)
	}

	resolved, err := h.resolver.Resolve(p)
	if err != nil {
		log.Warn("resolve failed", logger.F{"path": p, "error": err.Error()})
		return failure(err)
	}

	data, err := h.readFile(resolved)
	if err != nil {
		log.Warn("read failed", logger.F{"path": resolved, "error": err.Error()})
		return failure(err)
	}

	contentType, err := mime.Lookup(p)
	if err != nil {
		// 表外扩展名直接拒绝，不猜测类型
		log.Error("unsupported resource type", logger.F{"path": p, "supported": strings.Join(mime.Extensions(), ",")})
		return failure(err)
	}

	log.Debug("served", logger.F{"path": p, "type": contentType, "size": len(data)})
	return Response{Status: http.StatusOK, ContentType: contentType, Body: data}
}

// RequestPath extracts the scheme-relative path from uri, without the leading
// separator. The scheme root maps to IndexPath.
func RequestPath(uri string) (string, error) {
	u, err := url.Parse(hostAsPath(uri))
	if err != nil {
		return "", fmt.Errorf("parse uri: %w", err)
	}
	if u.Opaque != "" {
		return "", fmt.Errorf("opaque uri %q", uri)
	}
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" {
		return IndexPath, nil
	}
	if strings.HasSuffix(p, "/") {
		p += IndexPath
	}
	return p, nil
}

// hostAsPath moves a non-origin authority into the path before parsing, so
// "app://my%20file.html" unescapes like any other path segment instead of
// failing host validation.
func hostAsPath(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 || strings.ContainsAny(uri[:i], "/?#") {
		return uri
	}
	rest := uri[i+3:]
	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	host := rest[:end]
	if j := strings.LastIndex(host, ":"); j >= 0 {
		host = host[:j]
	}
	if originHosts[strings.ToLower(host)] {
		return uri
	}
	return uri[:i] + ":///" + rest
}

func failure(err error) Response {
	msg := err.Error()
	if msg == "" {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	return Response{
		Status:      http.StatusInternalServerError,
		ContentType: "text/plain",
		Body:        []byte(msg),
	}
}
