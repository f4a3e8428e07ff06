package httpserver

import (
	"net/http"

	"github.com/skip2/go-qrcode"
)

// qrSize is mobile-friendly.
const qrSize = 320

// handleQR serves a PNG QR code pointing at this server's browser client, so
// the game can be opened on a phone.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + "/"

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}
