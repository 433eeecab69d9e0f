// Package mcpcfg emits MCP client configuration for the tools server.
//
// Two shapes are supported: the common mcpServers document understood
// by Claude Desktop, Cursor, and friends, and the flatter per-server
// map LM Studio reads. Both describe the same launch: run the server
// through uv from the project directory over the stdio transport.
package mcpcfg

import (
	"encoding/json"
	"io"

	"github.com/ezpy/ezdev/internal/errors"
)

// ServerName is the key MCP clients list the tools server under.
const ServerName = "tools"

// Server describes how an MCP client launches the tools server.
type Server struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	Cwd     string   `json:"cwd"`
}

// Document is the standard mcpServers configuration shape.
type Document struct {
	MCPServers map[string]Server `json:"mcpServers"`
}

// New builds the client config for a server launched from cwd.
// cwd must be the absolute directory the client should spawn uv in.
func New(cwd string) Document {
	return Document{
		MCPServers: map[string]Server{
			ServerName: {
				Command: "uv",
				Args:    []string{"run", "python", "mcp_server.py"},
				Cwd:     cwd,
			},
		},
	}
}

// Write renders the document as indented JSON to w.
func (d Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encoding mcp config")
	}
	return nil
}

// WriteLMStudio renders the LM Studio variant: the server map without
// the mcpServers wrapper.
func (d Document) WriteLMStudio(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.MCPServers); err != nil {
		return errors.Wrap(err, "encoding lm studio config")
	}
	return nil
}
