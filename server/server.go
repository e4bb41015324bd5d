// Package server exposes assemble and run as JSON requests over websockets.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/ezrec/cpu16/cpu"
	"github.com/ezrec/cpu16/emulator"
	"github.com/ezrec/cpu16/translate"
)

var f = translate.From

var (
	ErrInvalidJSON   = errors.New(f("invalid JSON"))
	ErrInputsInvalid = errors.New(f("'inputs' must be an array"))
)

// ErrValue is returned for a request field that is not an integer.
type ErrValue struct {
	Field string
	Value any
}

func (err ErrValue) Error() string {
	return f("'%v' value %v is not an integer", err.Field, err.Value)
}

// ErrMessageType is returned for an unknown request type.
type ErrMessageType string

func (err ErrMessageType) Error() string {
	return f("unknown message type '%v'", string(err))
}

// Request is a client message.
type Request struct {
	ID       any             `json:"id"`
	Type     string          `json:"type"`
	Source   string          `json:"source"`
	MaxSteps any             `json:"maxSteps"`
	Inputs   json.RawMessage `json:"inputs"`
}

// Server handles websocket clients.
type Server struct {
	Verbose bool // If set, logs every request.

	mux *http.ServeMux
}

// NewServer creates a server that upgrades requests on path to websockets.
func NewServer(path string) (s *Server) {
	s = &Server{
		mux: http.NewServeMux(),
	}

	s.mux.Handle(path, http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(req, rw)
		if err != nil {
			log.Printf("server: upgrade: %v", err)
			return
		}

		go s.serveConn(conn)
	}))

	return
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves clients on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("cpu16 websocket server started on ws://%v", addr)
	return http.ListenAndServe(addr, s.mux)
}

// serveConn answers every text frame on a connection until it closes.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	for {
		msg, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			if s.Verbose {
				log.Printf("server: read: %v", err)
			}
			return
		}
		if op != ws.OpText {
			continue
		}

		err = wsutil.WriteServerMessage(conn, ws.OpText, s.Handle(msg))
		if err != nil {
			log.Printf("server: write: %v", err)
			return
		}
	}
}

// reply encodes a response: id, type, and the payload fields.
func reply(id any, kind string, payload map[string]any) []byte {
	resp := map[string]any{
		"id":   id,
		"type": kind,
	}
	for key, val := range payload {
		resp[key] = val
	}

	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(map[string]any{"id": id, "type": "error", "error": err.Error()})
	}

	return data
}

func replyError(id any, err error) []byte {
	return reply(id, "error", map[string]any{"error": err.Error()})
}

// Handle answers a single JSON request.
func (s *Server) Handle(raw []byte) []byte {
	var req Request
	err := json.Unmarshal(raw, &req)
	if err != nil {
		return replyError(nil, ErrInvalidJSON)
	}

	if s.Verbose {
		log.Printf("server: %v %v", req.Type, req.ID)
	}

	switch req.Type {
	case "ping":
		return reply(req.ID, "pong", nil)
	case "assemble":
		image, err := cpu.Assemble(req.Source)
		if err != nil {
			return replyError(req.ID, err)
		}
		return reply(req.ID, "assembled", map[string]any{"program": image})
	case "run":
		limit := emulator.DEFAULT_STEP_LIMIT
		if req.MaxSteps != nil {
			limit, err = toInt("maxSteps", req.MaxSteps)
			if err != nil {
				return replyError(req.ID, err)
			}
		}
		inputs, err := parseInputs(req.Inputs)
		if err != nil {
			return replyError(req.ID, err)
		}
		res, err := emulator.Run(req.Source, limit, inputs)
		if err != nil {
			return replyError(req.ID, err)
		}
		return reply(req.ID, "result", resultPayload(res))
	}

	return replyError(req.ID, ErrMessageType(req.Type))
}

// toInt coerces a decoded JSON value to an integer. Numbers truncate
// toward zero; strings must hold a decimal integer.
func toInt(field string, value any) (n int, err error) {
	switch v := value.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			break
		}
		n = int(v)
		return
	case bool:
		if v {
			n = 1
		}
		return
	case string:
		n, err = strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return
		}
	}

	err = ErrValue{Field: field, Value: value}
	return
}

// parseInputs decodes the optional 'inputs' array.
func parseInputs(raw json.RawMessage) (inputs []int, err error) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var values []any
	err = json.Unmarshal(raw, &values)
	if err != nil {
		err = ErrInputsInvalid
		return
	}

	inputs = make([]int, 0, len(values))
	for _, value := range values {
		var n int
		n, err = toInt("inputs", value)
		if err != nil {
			return
		}
		inputs = append(inputs, n)
	}

	return
}

// resultPayload flattens a run result into response fields.
func resultPayload(res *emulator.Result) map[string]any {
	var errText any
	if len(res.Err) != 0 {
		errText = res.Err
	}

	return map[string]any{
		"program":     res.Program,
		"trace":       res.Trace,
		"halted":      res.Halted,
		"error":       errText,
		"outputs":     res.Outputs,
		"final_state": res.FinalState,
	}
}
