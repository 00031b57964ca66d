package http

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// NewRouter wires the websocket endpoint, the liveness probe and the join QR code.
// An empty joinURL makes /qr point at the host the request came in on.
func NewRouter(ws *WSHandler, joinURL string) *httprouter.Router {
	mux := httprouter.New()
	mux.GET("/ws", ws.ServeWS)
	mux.GET("/healthz", healthz)
	mux.GET("/qr", qrHandler(joinURL))
	return mux
}

func healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func qrHandler(joinURL string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		url := joinURL
		if url == "" {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}
			if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
				scheme = proto
			}
			url = scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr") + "/"
		}

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
