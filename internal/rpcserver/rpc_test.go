package rpcserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocturne-player/nocturne/internal/audioengine"
	"github.com/nocturne-player/nocturne/internal/audiostate"
	"github.com/nocturne-player/nocturne/internal/catalog"
	"github.com/nocturne-player/nocturne/internal/kernel"
)

func TestDecodeCommandSimpleFlags(t *testing.T) {
	cases := map[string]kernel.FrontendToKernel{
		"toggle":  {Toggle: true},
		"play":    {Play: true},
		"pause":   {Pause: true},
		"next":    {Next: true},
		"stop":    {Stop: true},
		"shuffle": {Shuffle: true},
	}
	for method, want := range cases {
		t.Run(method, func(t *testing.T) {
			got, err := decodeCommand(method, nil)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeCommandWithParams(t *testing.T) {
	t.Run("skip", func(t *testing.T) {
		got, err := decodeCommand("skip", json.RawMessage(`2`))
		require.NoError(t, err)
		require.NotNil(t, got.Skip)
		assert.Equal(t, 2, *got.Skip)
	})

	t.Run("back", func(t *testing.T) {
		got, err := decodeCommand("back", json.RawMessage(`{"N":3}`))
		require.NoError(t, err)
		require.NotNil(t, got.Back)
		assert.Equal(t, 3, got.Back.N)
	})

	t.Run("seek", func(t *testing.T) {
		got, err := decodeCommand("seek", json.RawMessage(`{"Mode":2,"Seconds":30}`))
		require.NoError(t, err)
		require.NotNil(t, got.Seek)
		assert.Equal(t, audioengine.SeekAbsolute, got.Seek.Mode)
		assert.Equal(t, 30, got.Seek.Seconds)
	})

	t.Run("queue_add_song", func(t *testing.T) {
		got, err := decodeCommand("queue_add_song", json.RawMessage(`{"Key":5,"Play":true}`))
		require.NoError(t, err)
		require.NotNil(t, got.QueueAddSong)
		assert.Equal(t, catalog.SongKey(5), got.QueueAddSong.Key)
		assert.True(t, got.QueueAddSong.Play)
	})

	t.Run("queue_add_playlist", func(t *testing.T) {
		got, err := decodeCommand("queue_add_playlist", json.RawMessage(`{"Name":"road trip"}`))
		require.NoError(t, err)
		require.NotNil(t, got.QueueAddPlaylist)
		assert.Equal(t, "road trip", got.QueueAddPlaylist.Name)
	})

	t.Run("queue_set_index", func(t *testing.T) {
		got, err := decodeCommand("queue_set_index", json.RawMessage(`4`))
		require.NoError(t, err)
		require.NotNil(t, got.QueueSetIndex)
		assert.Equal(t, 4, *got.QueueSetIndex)
	})

	t.Run("clear with params", func(t *testing.T) {
		got, err := decodeCommand("clear", json.RawMessage(`true`))
		require.NoError(t, err)
		require.NotNil(t, got.Clear)
		assert.True(t, *got.Clear)
	})

	t.Run("clear without params", func(t *testing.T) {
		got, err := decodeCommand("clear", nil)
		require.NoError(t, err)
		require.NotNil(t, got.Clear)
		assert.False(t, *got.Clear)
	})

	t.Run("repeat", func(t *testing.T) {
		got, err := decodeCommand("repeat", json.RawMessage(`1`))
		require.NoError(t, err)
		require.NotNil(t, got.Repeat)
		assert.Equal(t, audiostate.Repeat(1), *got.Repeat)
	})

	t.Run("volume", func(t *testing.T) {
		got, err := decodeCommand("volume", json.RawMessage(`80`))
		require.NoError(t, err)
		require.NotNil(t, got.Volume)
		assert.Equal(t, 80, *got.Volume)
	})

	t.Run("set_output_device", func(t *testing.T) {
		got, err := decodeCommand("set_output_device", json.RawMessage(`"hdmi"`))
		require.NoError(t, err)
		require.NotNil(t, got.SetOutputDevice)
		assert.Equal(t, "hdmi", *got.SetOutputDevice)
	})

	t.Run("new_collection", func(t *testing.T) {
		got, err := decodeCommand("new_collection", json.RawMessage(`{"Paths":["/music"]}`))
		require.NoError(t, err)
		require.NotNil(t, got.NewCollection)
		assert.Equal(t, []string{"/music"}, got.NewCollection.Paths)
	})

	t.Run("search", func(t *testing.T) {
		got, err := decodeCommand("search", json.RawMessage(`{"Text":"miles davis","Kind":1}`))
		require.NoError(t, err)
		require.NotNil(t, got.Search)
		assert.Equal(t, "miles davis", got.Search.Text)
	})

	t.Run("restore_audio_state", func(t *testing.T) {
		got, err := decodeCommand("restore_audio_state", nil)
		require.NoError(t, err)
		assert.True(t, got.RestoreAudioState)
	})

	t.Run("exit", func(t *testing.T) {
		got, err := decodeCommand("exit", nil)
		require.NoError(t, err)
		assert.True(t, got.Exit)
	})
}

func TestDecodeCommandUnknownMethod(t *testing.T) {
	_, err := decodeCommand("defenestrate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defenestrate")
}

func TestDecodeCommandMalformedParams(t *testing.T) {
	_, err := decodeCommand("seek", json.RawMessage(`not json`))
	require.Error(t, err)
}

func newTestServer(t *testing.T) (*Server, chan kernel.FrontendToKernel) {
	t.Helper()
	toKernel := make(chan kernel.FrontendToKernel, 8)
	fromKernel := make(chan kernel.KernelToFrontend)
	s := New(toKernel, fromKernel)
	t.Cleanup(func() { close(fromKernel) })
	return s, toKernel
}

func TestHandleRPCAcceptsValidCommand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, toKernel := newTestServer(t)
	router := gin.New()
	s.Register(router)

	body, err := json.Marshal(Request{ID: "req-1", Method: "play"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.ID)
	assert.Empty(t, resp.Error)

	select {
	case cmd := <-toKernel:
		assert.True(t, cmd.Play)
	default:
		t.Fatal("expected a command forwarded to the kernel channel")
	}
}

func TestHandleRPCMintsIDWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, toKernel := newTestServer(t)
	router := gin.New()
	s.Register(router)

	body, err := json.Marshal(Request{Method: "stop"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	<-toKernel
}

func TestHandleRPCRejectsUnknownMethod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _ := newTestServer(t)
	router := gin.New()
	s.Register(router)

	body, err := json.Marshal(Request{Method: "defenestrate"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRPCRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _ := newTestServer(t)
	router := gin.New()
	s.Register(router)

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
