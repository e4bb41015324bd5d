package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doHandle(t *testing.T, srv *Server, request string) (resp map[string]any) {
	err := json.Unmarshal(srv.Handle([]byte(request)), &resp)
	require.NoError(t, err)
	return
}

func TestHandlePing(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/")

	resp := doHandle(t, srv, `{"id": 7, "type": "ping"}`)
	assert.Equal(map[string]any{"id": float64(7), "type": "pong"}, resp)

	resp = doHandle(t, srv, `{"id": "abc", "type": "ping"}`)
	assert.Equal("abc", resp["id"])
	assert.Equal("pong", resp["type"])
}

func TestHandleAssemble(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/")

	resp := doHandle(t, srv, `{"id": 1, "type": "assemble", "source": "LDA 0005\nBRK"}`)
	assert.Equal("assembled", resp["type"])
	assert.Equal(float64(1), resp["id"])
	assert.Equal([]any{float64(0xa9), float64(5), float64(0), float64(0)}, resp["program"])

	resp = doHandle(t, srv, `{"id": 2, "type": "assemble", "source": ""}`)
	assert.Equal("assembled", resp["type"])
	assert.Equal([]any{}, resp["program"])

	resp = doHandle(t, srv, `{"id": 3, "type": "assemble", "source": "BNE nowhere"}`)
	assert.Equal("error", resp["type"])
	assert.Equal(float64(3), resp["id"])
	assert.Contains(resp["error"], "line 1")
}

func TestHandleRun(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/")

	resp := doHandle(t, srv, `{"id": 1, "type": "run", "source": "CTA\nSTA 40\nOTT 40\nBRK", "inputs": [18]}`)
	assert.Equal("result", resp["type"])
	assert.Equal(true, resp["halted"])
	assert.Nil(resp["error"])
	assert.Contains(resp, "error")
	assert.Len(resp["trace"], 4)
	assert.Equal([]any{map[string]any{"value": float64(18), "address": float64(0x40)}}, resp["outputs"])

	final := resp["final_state"].(map[string]any)
	assert.Equal(float64(18), final["A"])

	resp = doHandle(t, srv, `{"id": 2, "type": "run", "source": "loop: JMP loop", "maxSteps": 3}`)
	assert.Equal("result", resp["type"])
	assert.Equal(false, resp["halted"])
	assert.Len(resp["trace"], 3)
	assert.Contains(resp["error"], "step limit exceeded")
	assert.Equal([]any{}, resp["outputs"])

	resp = doHandle(t, srv, `{"id": 3, "type": "run", "source": "BRK", "maxSteps": 0}`)
	assert.Equal("result", resp["type"])
	assert.Equal([]any{}, resp["trace"])
	assert.Equal(false, resp["halted"])

	resp = doHandle(t, srv, `{"id": 4, "type": "run", "source": "FF"}`)
	assert.Equal("result", resp["type"])
	assert.Equal("unknown opcode FF", resp["error"])
}

func TestHandleRunCoerce(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/")
	source := `"CTA\nSTA 40\nOTT 40\nloop: JMP loop"`

	resp := doHandle(t, srv, `{"id": 1, "type": "run", "source": `+source+`, "maxSteps": "5", "inputs": [18.0]}`)
	assert.Equal("result", resp["type"])
	assert.Len(resp["trace"], 5)
	assert.Equal([]any{map[string]any{"value": float64(18), "address": float64(0x40)}}, resp["outputs"])

	resp = doHandle(t, srv, `{"id": 2, "type": "run", "source": `+source+`, "maxSteps": 4.9, "inputs": ["7", true]}`)
	assert.Equal("result", resp["type"])
	assert.Len(resp["trace"], 4)
	assert.Equal([]any{map[string]any{"value": float64(7), "address": float64(0x40)}}, resp["outputs"])

	resp = doHandle(t, srv, `{"id": 3, "type": "run", "source": "BRK", "maxSteps": "many"}`)
	assert.Equal("error", resp["type"])
	assert.Equal(float64(3), resp["id"])
	assert.Contains(resp["error"], "maxSteps")

	resp = doHandle(t, srv, `{"id": 4, "type": "run", "source": "BRK", "inputs": [1, {}]}`)
	assert.Equal("error", resp["type"])
	assert.Equal(float64(4), resp["id"])
	assert.Contains(resp["error"], "inputs")
}

func TestToInt(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		value    any
		expected int
		ok       bool
	}{
		{float64(12), 12, true},
		{float64(-2.7), -2, true},
		{"100", 100, true},
		{" -3 ", -3, true},
		{true, 1, true},
		{false, 0, true},
		{"1.5", 0, false},
		{nil, 0, false},
		{[]any{}, 0, false},
	}

	for _, entry := range table {
		n, err := toInt("x", entry.value)
		if entry.ok {
			assert.NoError(err, entry.value)
			assert.Equal(entry.expected, n, entry.value)
		} else {
			var verr ErrValue
			assert.ErrorAs(err, &verr, entry.value)
		}
	}
}

func TestHandleErrors(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/")

	resp := doHandle(t, srv, `{"id": 1,`)
	assert.Equal(map[string]any{"id": nil, "type": "error", "error": "invalid JSON"}, resp)

	resp = doHandle(t, srv, `{"id": 2, "type": "launch"}`)
	assert.Equal("error", resp["type"])
	assert.Equal(float64(2), resp["id"])
	assert.Equal("unknown message type 'launch'", resp["error"])

	resp = doHandle(t, srv, `{"id": 3, "type": "run", "source": "BRK", "inputs": "1,2"}`)
	assert.Equal("error", resp["type"])
	assert.Equal("'inputs' must be an array", resp["error"])

	resp = doHandle(t, srv, `{"id": 4, "type": "run", "source": "LDA"}`)
	assert.Equal("error", resp["type"])
	assert.Equal(float64(4), resp["id"])
}

func TestWebsocket(t *testing.T) {
	assert := assert.New(t)

	srv := NewServer("/ws")
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws"
	conn, _, _, err := ws.Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close()

	for _, id := range []int{1, 2} {
		request, err := json.Marshal(map[string]any{"id": id, "type": "ping"})
		require.NoError(t, err)

		err = wsutil.WriteClientMessage(conn, ws.OpText, request)
		require.NoError(t, err)

		msg, op, err := wsutil.ReadServerData(conn)
		require.NoError(t, err)
		assert.Equal(ws.OpText, op)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(msg, &resp))
		assert.Equal(float64(id), resp["id"])
		assert.Equal("pong", resp["type"])
	}
}
