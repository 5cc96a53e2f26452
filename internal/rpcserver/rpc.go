// Package rpcserver exposes the Kernel's command/event sets over HTTP: a
// JSON-RPC-ish POST /rpc endpoint for commands and a GET /events WebSocket
// stream for pushed KernelToFrontend events (SPEC_FULL.md §6, transport 2).
package rpcserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/kernel"
)

// Request is the envelope a client POSTs to /rpc: a request id it chooses
// itself (or leaves blank, in which case the server mints one), a method
// name matching one of the command cases below, and method-specific params.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Response is the envelope returned from /rpc: exactly one of Result or
// Error is set.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Server adapts an HTTP/WebSocket frontend onto the Kernel's channel pair.
type Server struct {
	toKernel   chan<- kernel.FrontendToKernel
	fromKernel <-chan kernel.KernelToFrontend

	hub *eventHub
}

// New builds a Server around a Kernel's Frontend channel pair (as returned
// by kernel.Spawn) and starts the goroutine that fans KernelToFrontend
// events out to connected /events clients.
func New(toKernel chan<- kernel.FrontendToKernel, fromKernel <-chan kernel.KernelToFrontend) *Server {
	s := &Server{
		toKernel:   toKernel,
		fromKernel: fromKernel,
		hub:        newEventHub(),
	}
	go s.pumpEvents()
	return s
}

// Register installs /rpc and /events onto an existing gin engine so the
// caller can mount Server alongside other routes (e.g. a static UI).
func (s *Server) Register(r gin.IRouter) {
	r.POST("/rpc", s.handleRPC)
	r.GET("/events", s.handleEvents)
}

func (s *Server) pumpEvents() {
	for evt := range s.fromKernel {
		s.hub.broadcast(evt)
	}
}

func (s *Server) handleRPC(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	cmd, err := decodeCommand(req.Method, req.Params)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{ID: req.ID, Error: err.Error()})
		return
	}

	s.toKernel <- cmd
	c.JSON(http.StatusOK, Response{ID: req.ID, Result: "accepted"})
}

// decodeCommand maps a method name onto one FrontendToKernel field,
// unmarshalling params into its argument type when one is required
// (SPEC_FULL.md §6 "JSON command envelope").
func decodeCommand(method string, params json.RawMessage) (kernel.FrontendToKernel, error) {
	switch method {
	case "toggle":
		return kernel.FrontendToKernel{Toggle: true}, nil
	case "play":
		return kernel.FrontendToKernel{Play: true}, nil
	case "pause":
		return kernel.FrontendToKernel{Pause: true}, nil
	case "next":
		return kernel.FrontendToKernel{Next: true}, nil
	case "previous":
		var a kernel.PreviousArgs
		if len(params) > 0 {
			if err := json.Unmarshal(params, &a); err != nil {
				return kernel.FrontendToKernel{}, err
			}
		}
		return kernel.FrontendToKernel{Previous: &a}, nil
	case "stop":
		return kernel.FrontendToKernel{Stop: true}, nil
	case "skip":
		var n int
		if err := json.Unmarshal(params, &n); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Skip: &n}, nil
	case "back":
		var a kernel.BackArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Back: &a}, nil
	case "seek":
		var a kernel.SeekArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Seek: &a}, nil

	case "queue_add_song":
		var a kernel.QueueAddSongArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueAddSong: &a}, nil
	case "queue_add_album":
		var a kernel.QueueAddCollectionArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueAddAlbum: &a}, nil
	case "queue_add_artist":
		var a kernel.QueueAddCollectionArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueAddArtist: &a}, nil
	case "queue_add_playlist":
		var a kernel.QueueAddPlaylistArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueAddPlaylist: &a}, nil
	case "queue_set_index":
		var i int
		if err := json.Unmarshal(params, &i); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueSetIndex: &i}, nil
	case "queue_remove_range":
		var a audioengine.RemoveRangeArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{QueueRemoveRange: &a}, nil
	case "shuffle":
		return kernel.FrontendToKernel{Shuffle: true}, nil
	case "clear":
		var keep bool
		if len(params) > 0 {
			if err := json.Unmarshal(params, &keep); err != nil {
				return kernel.FrontendToKernel{}, err
			}
		}
		return kernel.FrontendToKernel{Clear: &keep}, nil

	case "repeat":
		var r audiostate.Repeat
		if err := json.Unmarshal(params, &r); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Repeat: &r}, nil
	case "volume":
		var v int
		if err := json.Unmarshal(params, &v); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Volume: &v}, nil
	case "set_output_device":
		var name string
		if err := json.Unmarshal(params, &name); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{SetOutputDevice: &name}, nil

	case "new_collection":
		var a kernel.NewCollectionArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{NewCollection: &a}, nil
	case "cache_path":
		var a kernel.CachePathArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{CachePath: &a}, nil
	case "search":
		var a kernel.SearchArgs
		if err := json.Unmarshal(params, &a); err != nil {
			return kernel.FrontendToKernel{}, err
		}
		return kernel.FrontendToKernel{Search: &a}, nil

	case "restore_audio_state":
		return kernel.FrontendToKernel{RestoreAudioState: true}, nil
	case "exit":
		return kernel.FrontendToKernel{Exit: true}, nil

	default:
		return kernel.FrontendToKernel{}, fmt.Errorf("rpcserver: unknown method %q", method)
	}
}
