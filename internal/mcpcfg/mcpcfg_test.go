package mcpcfg

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_Shape(t *testing.T) {
	doc := New("/home/dev/ezpy-tools")

	if len(doc.MCPServers) != 1 {
		t.Fatalf("expected exactly one server entry, got %d", len(doc.MCPServers))
	}
	srv, ok := doc.MCPServers[ServerName]
	if !ok {
		t.Fatalf("missing %q entry", ServerName)
	}
	if srv.Command != "uv" {
		t.Errorf("Command = %q", srv.Command)
	}
	if len(srv.Args) != 3 || srv.Args[0] != "run" || srv.Args[2] != "mcp_server.py" {
		t.Errorf("Args = %v", srv.Args)
	}
	if srv.Cwd != "/home/dev/ezpy-tools" {
		t.Errorf("Cwd = %q", srv.Cwd)
	}
}

func TestWrite_ValidJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New("/proj").Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Output must round-trip as JSON with the documented top-level key.
	var decoded map[string]map[string]Server
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	servers, ok := decoded["mcpServers"]
	if !ok {
		t.Fatal("missing mcpServers key")
	}
	if len(servers) != 1 {
		t.Errorf("expected one server, got %d", len(servers))
	}
	if servers[ServerName].Cwd != "/proj" {
		t.Errorf("cwd = %q, want invocation directory", servers[ServerName].Cwd)
	}
}

func TestWriteLMStudio_NoWrapper(t *testing.T) {
	var buf bytes.Buffer
	if err := New("/proj").WriteLMStudio(&buf); err != nil {
		t.Fatalf("WriteLMStudio() error = %v", err)
	}

	var decoded map[string]Server
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["mcpServers"]; ok {
		t.Error("LM Studio shape should not nest under mcpServers")
	}
	if _, ok := decoded[ServerName]; !ok {
		t.Errorf("missing %q entry", ServerName)
	}
}
