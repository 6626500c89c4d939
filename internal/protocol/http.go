package protocol

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// ServeHTTP adapts Handler to the webview runtime's asset server, which
// delivers scheme requests as *http.Request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = SchemeName
	}

	resp := h.Handle(Request{URI: u.String(), Method: r.Method})

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.Status)
	if r.Method != http.MethodHead {
		w.Write(resp.Body)
	}
}

// InjectScript returns middleware that places script ahead of every other
// script in successful text/html responses, right after the opening <head>
// tag (or at the very start of the document when there is none).
func InjectScript(script string) func(http.Handler) http.Handler {
	tag := []byte("<script>" + script + "</script>")
	return func(next http.Handler) http.Handler {
		if script == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &bufferedWriter{header: http.Header{}, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			body := rec.body.Bytes()
			if r.Method != http.MethodHead && rec.status == http.StatusOK && strings.HasPrefix(rec.header.Get("Content-Type"), "text/html") {
				body = insertAfterHead(body, tag)
				rec.header.Set("Content-Length", strconv.Itoa(len(body)))
			}

			for k, v := range rec.header {
				w.Header()[k] = v
			}
			w.WriteHeader(rec.status)
			if r.Method != http.MethodHead {
				w.Write(body)
			}
		})
	}
}

func insertAfterHead(doc, tag []byte) []byte {
	at := 0
	lower := bytes.ToLower(doc)
	for off := 0; ; {
		i := bytes.Index(lower[off:], []byte("<head"))
		if i < 0 {
			break
		}
		i += off
		next := i + len("<head")
		if next < len(doc) && (doc[next] == '>' || doc[next] == ' ' || doc[next] == '\t' || doc[next] == '\n' || doc[next] == '\r') {
			if j := bytes.IndexByte(doc[next:], '>'); j >= 0 {
				at = next + j + 1
			}
			break
		}
		off = next
	}
	out := make([]byte, 0, len(doc)+len(tag))
	out = append(out, doc[:at]...)
	out = append(out, tag...)
	return append(out, doc[at:]...)
}

type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.wroteHeader = true
	b.status = status
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.WriteHeader(http.StatusOK)
	return b.body.Write(p)
}
