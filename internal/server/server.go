// Package server implements the network front end: a RESP-2 server that
// decodes each command a connection sends, invokes a storage engine, and
// always writes back a reply frame.
package server

import (
	"sync"

	"github.com/ignitekv/ignitekv/internal/engine"
	"github.com/ignitekv/ignitekv/internal/protocol"
	"github.com/ignitekv/ignitekv/pkg/errors"
	"github.com/tidwall/redcon"
	"go.uber.org/zap"
)

// errorReply renders err as a RESP-2 error message, prefixing the
// engine's error code so the client can distinguish KeyNotFound from
// other failures without string-matching the human-readable message.
func errorReply(err error) string {
	return "ERR " + string(errors.GetErrorCode(err)) + " " + err.Error()
}

// Server dispatches decoded RESP-2 commands to a storage engine.
type Server struct {
	addr   string
	engine engine.Engine
	log    *zap.SugaredLogger

	// mu enforces a single-writer, one-request-at-a-time model at the
	// protocol layer, independent of whether the underlying engine
	// implementation serializes internally.
	mu sync.Mutex
}

// New builds a Server that serves eng over addr.
func New(addr string, eng engine.Engine, log *zap.SugaredLogger) *Server {
	return &Server{addr: addr, engine: eng, log: log}
}

// ListenAndServe blocks, serving connections until the process is
// terminated or redcon.ListenAndServe returns an error.
func (s *Server) ListenAndServe() error {
	s.log.Infow("server listening", "addr", s.addr)
	return redcon.ListenAndServe(
		s.addr,
		s.handle,
		func(conn redcon.Conn) bool {
			s.log.Debugw("connection accepted", "remote", conn.RemoteAddr())
			return true
		},
		func(conn redcon.Conn, err error) {
			if err != nil {
				s.log.Debugw("connection closed", "remote", conn.RemoteAddr(), "error", err)
			}
		},
	)
}

func (s *Server) handle(conn redcon.Conn, cmd redcon.Command) {
	command, err := protocol.ParseArgs(cmd.Args)
	if err != nil {
		conn.WriteError(errorReply(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch command.Kind {
	case protocol.KindSet:
		if err := s.engine.Set(command.Key, command.Value); err != nil {
			conn.WriteError(errorReply(err))
			return
		}
		conn.WriteString("OK")

	case protocol.KindGet:
		value, found, err := s.engine.Get(command.Key)
		if err != nil {
			conn.WriteError(errorReply(err))
			return
		}
		if !found {
			conn.WriteNull()
			return
		}
		conn.WriteBulkString(value)

	case protocol.KindRemove:
		if err := s.engine.Remove(command.Key); err != nil {
			conn.WriteError(errorReply(err))
			return
		}
		conn.WriteString("OK")
	}
}
