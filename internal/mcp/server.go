package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/infrascope/infrascope/internal/logging"
	"github.com/rs/zerolog/log"
)

// ProtocolVersion is offered when the client does not negotiate one.
const ProtocolVersion = "2024-11-05"

const maxLineBytes = 4 * 1024 * 1024

// ToolExecutor executes tools on behalf of the MCP server
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, name string, args map[string]interface{}) CallToolResult
	ListTools() []Tool
}

// Server implements an MCP server over stdio. Requests are processed one at
// a time: read, dispatch, write, repeat. Only responses are ever written to
// the output stream; all logging goes to stderr.
type Server struct {
	in       io.Reader
	out      io.Writer
	info     ServerInfo
	executor ToolExecutor
}

// NewServer creates a stdio MCP server bound to os.Stdin/os.Stdout.
func NewServer(info ServerInfo, executor ToolExecutor) *Server {
	return &Server{
		in:       os.Stdin,
		out:      os.Stdout,
		info:     info,
		executor: executor,
	}
}

// NewServerWithIO creates a server bound to explicit streams, used by tests.
func NewServerWithIO(info ServerInfo, executor ToolExecutor, in io.Reader, out io.Writer) *Server {
	return &Server{
		in:       in,
		out:      out,
		info:     info,
		executor: executor,
	}
}

// Run processes requests until the input stream is closed or the context is
// cancelled. A malformed or oversized line never terminates the loop.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Str("server", s.info.Name).Str("version", s.info.Version).Msg("MCP server started")

	reader := bufio.NewReaderSize(s.in, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := readLine(reader)
		if errors.Is(err, errLineTooLong) {
			log.Warn().Int("limit_bytes", maxLineBytes).Msg("Request line exceeds size limit, rejected")
			s.writeResponse(errorResponse(nil, ErrParse, "Parse error"))
			continue
		}

		if len(line) > 0 {
			if resp := s.Handle(ctx, line); resp != nil {
				s.writeResponse(resp)
			}
		}

		if errors.Is(err, io.EOF) {
			log.Info().Msg("MCP server stopped on EOF")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read request stream: %w", err)
		}
	}
}

var errLineTooLong = errors.New("request line exceeds size limit")

// readLine reads one newline-delimited line, allowing up to maxLineBytes.
// A longer line is discarded up to its terminating newline and reported as
// errLineTooLong so the caller can keep serving the stream.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if err == bufio.ErrBufferFull {
			if len(line) > maxLineBytes {
				if derr := drainLine(r); derr != nil && derr != io.EOF {
					return nil, derr
				}
				return nil, errLineTooLong
			}
			continue
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) > maxLineBytes {
			return nil, errLineTooLong
		}
		return line, err
	}
}

// drainLine discards input up to and including the next newline.
func drainLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return err
		}
	}
}

// Handle dispatches a single raw request line and returns the response to
// write, or nil for notifications.
func (s *Server) Handle(ctx context.Context, line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		log.Warn().Err(err).Msg("Unparseable request")
		return errorResponse(nil, ErrParse, "Parse error")
	}

	ctx, requestID := logging.WithRequestID(ctx, "")
	logger := log.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Logger()

	// A request without an id is a notification: act on it if we care,
	// but never answer.
	if req.ID == nil {
		if req.Method == "notifications/initialized" {
			logger.Info().Msg("Client initialized")
		} else {
			logger.Debug().Msg("Notification received")
		}
		return nil
	}

	logger.Debug().Interface("id", req.ID).Msg("Request received")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "prompts/list":
		return resultResponse(req.ID, ListPromptsResult{Prompts: []Prompt{}})
	case "resources/list":
		return resultResponse(req.ID, ListResourcesResult{Resources: []Resource{}})
	case "ping":
		return resultResponse(req.ID, map[string]interface{}{})
	default:
		return errorResponse(req.ID, ErrMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req Request) *Response {
	var params InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, ErrInvalidParams, "Failed to parse initialize params")
		}
	}

	// Follow the client's protocol version when it offers one.
	version := params.ProtocolVersion
	if version == "" {
		version = ProtocolVersion
	}

	log.Info().
		Str("client", params.ClientInfo.Name).
		Str("clientVersion", params.ClientInfo.Version).
		Str("protocolVersion", version).
		Msg("MCP client connected")

	return resultResponse(req.ID, InitializeResult{
		ProtocolVersion: version,
		Capabilities: Capabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo: s.info,
	})
}

func (s *Server) handleListTools(req Request) *Response {
	if s.executor == nil {
		return resultResponse(req.ID, ListToolsResult{Tools: []Tool{}})
	}
	return resultResponse(req.ID, ListToolsResult{Tools: s.executor.ListTools()})
}

func (s *Server) handleCallTool(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, ErrInvalidParams, "Failed to parse tool call params")
	}

	if s.executor == nil {
		return errorResponse(req.ID, ErrInternal, "No tool executor configured")
	}

	result := s.executor.ExecuteTool(ctx, params.Name, params.Arguments)
	if result.IsError {
		log.Warn().Str("tool", params.Name).Msg("Tool call reported a failure")
	}
	return resultResponse(req.ID, result)
}

func (s *Server) writeResponse(resp *Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		return
	}
	if _, err := fmt.Fprintf(s.out, "%s\n", payload); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func resultResponse(id interface{}, result interface{}) *Response {
	payload, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, ErrInternal, "Failed to marshal result")
	}
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  payload,
	}
}

func errorResponse(id interface{}, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}
