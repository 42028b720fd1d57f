package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchparty/server/pkg/wsrouter"
)

func (c controller) Mux() http.Handler {
	r := chi.NewRouter()
	r.Use(c.requestIdMw)

	r.Get("/healthz", c.Healthz)
	r.Get("/api/rooms/{room-id}", c.GetRoom)
	r.Get("/api/stats", c.GetStats)
	r.HandleFunc("/ws", c.ServeWS)

	return r
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw())
	mux.Use(c.loggerMw())

	mux.Handle("join-room", c.handleJoinRoom)
	mux.Handle("share-media", c.handleShareMedia)
	mux.Handle("play-pause", c.handlePlayPause)
	mux.Handle("seek", c.handleSeek)

	return mux
}
