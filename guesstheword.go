// Guess the Word
//
// Players join named rooms and all see the same three-letter challenge
// token, sampled from the word corpus. Each player races to submit a word
// containing the token before the round timer (run by the clients) expires.
// A correct answer scores a point and rolls a fresh token for the room; a
// timeout costs every player a life. The last player holding lives wins.
//
// Features:
// - WebSockets per room: /guesstheword/:roomid and /guesstheword/:roomid/ws
// - Rooms are created on first join and destroyed when the last player leaves
// - Challenge tokens are 3-char prefixes of random corpus entries
// - Two guess policies: strict dictionary+substring validation, or trust the client
// - Lives, scores and win detection tracked per room under one lock
// - Client-driven round timers; pause/resume are rebroadcast untouched
// - Random 8-char room IDs via crypto/rand
// - In-browser QR button to share the current room, backed by go-qrcode

package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newConnID generates a random identifier for one websocket connection.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// newRoomID generates a crypto-random 8-char room ID for the redirect
// landing flow. Collisions just land two parties in the same room, same
// as sharing a link on purpose.
func newRoomID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, 8)
	for i := range out {
		out[i] = letters[int(buf[i])%len(letters)]
	}
	return string(out)
}

// serveWS upgrades the connection and pumps its events into the
// coordinator until the client goes away.
func serveWS(cfg *Config, coord *Coordinator, hub *socketHub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &wsClient{
			conn: conn,
			send: make(chan serverMessage, 8),
			id:   newConnID(),
		}

		hub.add(client)

		go client.writePump()
		client.readPump(coord, hub)
	}
}

func (c *wsClient) readPump(coord *Coordinator, hub *socketHub) {
	defer func() {
		coord.Disconnect(c.id)
		hub.remove(c.id)
		_ = c.conn.Close()
	}()

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case "joinRoom":
			coord.Join(c.id, msg.RoomID, msg.DisplayName)
		case "startGame":
			coord.StartGame(c.id, msg.RoomID)
		case "correctAnswerAttempt":
			coord.Guess(c.id, msg.RoomID, msg.SubmittedWord)
		case "timeOver":
			coord.Timeout(msg.RoomID)
		case "pauseTimer":
			coord.Pause(msg.RoomID)
		case "resumeTimer":
			coord.Resume(msg.RoomID)
		default:
			// ignore unknown events
		}
	}
}

// QR handler: generates a PNG QR code for the current room URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed guesstheword/index.html
var indexHTML []byte

//go:embed guesstheword/app.css
var guessthewordCSS []byte

//go:embed guesstheword/app.js
var guessthewordJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(guessthewordCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(guessthewordJS)
	}
}

// redirectNewRoom handles GET /path by generating a new random room ID
// and redirecting to /path/:roomid.
func redirectNewRoom(cfg *Config, path string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		roomID := newRoomID()
		logf(cfg, "ROOMS: Created room %s/%s", path, roomID)
		http.Redirect(w, r, cfg.prefix+path+"/"+roomID, http.StatusTemporaryRedirect)
	}
}

// registerGuessTheWordGame sets up routes so that:
//   - $path                  → redirects to new random room (8-char ID)
//   - $path/:roomid          → HTML client
//   - $path/:roomid/ws       → WebSocket for that room
//   - $path/:roomid/qr       → PNG QR code for that room URL
func registerGuessTheWordGame(cfg *Config, path string, corpus *Corpus, mux *httprouter.Router) {
	hub := newSocketHub()
	coord := newCoordinator(cfg, corpus, hub)

	// Root path → redirect to new random room
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg, path))

	// Per-room client view (HTML)
	mux.GET(cfg.prefix+path+"/:roomid", getIndexHandler(cfg))

	// Shared assets (no roomid in route)
	mux.GET(cfg.prefix+"/assets/guesstheword/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/guesstheword/app.js", getJsHandler(cfg))

	// Per-room websocket
	mux.GET(cfg.prefix+path+"/:roomid/ws", serveWS(cfg, coord, hub))

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler)
}
