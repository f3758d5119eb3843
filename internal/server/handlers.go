package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-export/internal/export"
	"github.com/ironsheep/image-export/internal/imaging"
	"github.com/ironsheep/image-export/internal/ndimage"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "images_export_png").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Exports
	case "images_export_png":
		return s.handleExport(ctx, args, "png")
	case "images_export_tiff":
		return s.handleExport(ctx, args, "tif")
	case "images_export_binary":
		return s.handleExport(ctx, args, "bin")

	// Manifest Operations
	case "images_write_config":
		return s.handleWriteConfig(ctx, args)
	case "images_read_binary":
		return s.handleReadBinary(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Export Handlers ===

type exportArgs struct {
	Sources      []string `json:"sources"`
	SourceBinary string   `json:"source_binary"`
	SourcePrefix string   `json:"source_prefix"`
	Destination  string   `json:"destination"`
	Prefix       string   `json:"prefix"`
	Overwrite    *bool    `json:"overwrite"`
	Parallelism  int      `json:"parallelism"`
	Compression  string   `json:"compression"`
}

// ExportResult describes a finished export.
type ExportResult struct {
	Format      string   `json:"format"`
	Destination string   `json:"destination"`
	Images      int      `json:"images"`
	Dims        []int    `json:"dims"`
	DType       string   `json:"dtype"`
	Files       []string `json:"files"`
}

func (s *Server) handleExport(ctx context.Context, args json.RawMessage, format string) (interface{}, error) {
	var a exportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Destination == "" {
		return nil, errors.New("destination is required")
	}

	opts, err := s.cfg.ExportOptions(s.log.With("tool", "images_export_"+format))
	if err != nil {
		return nil, err
	}
	if a.Prefix != "" {
		if err := export.ValidatePrefix(a.Prefix); err != nil {
			return nil, err
		}
		opts.Prefix = a.Prefix
	}
	if a.Overwrite != nil {
		opts.Overwrite = *a.Overwrite
	}
	if a.Compression != "" {
		if opts.TIFFCompression, err = export.ParseTIFFCompression(a.Compression); err != nil {
			return nil, err
		}
	}

	c, err := s.loadSource(ctx, a)
	if err != nil {
		return nil, err
	}

	switch format {
	case "png":
		err = export.ToPNG(ctx, c, a.Destination, opts)
	case "tif":
		err = export.ToTIFF(ctx, c, a.Destination, opts)
	case "bin":
		err = export.ToBinary(ctx, c, a.Destination, opts)
	}
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, c.Len()+2)
	for _, key := range c.Keys() {
		files = append(files, export.FileName(opts.Prefix, key, format))
	}
	if format == "bin" {
		files = append(files, export.DefaultConfigName, export.SuccessMarker)
	}

	return &ExportResult{
		Format:      format,
		Destination: a.Destination,
		Images:      c.Len(),
		Dims:        c.Dims(),
		DType:       c.DType().String(),
		Files:       files,
	}, nil
}

// loadSource builds the collection named by either sources or source_binary.
func (s *Server) loadSource(ctx context.Context, a exportArgs) (*ndimage.Collection, error) {
	parallelism := a.Parallelism
	if parallelism < 1 {
		parallelism = s.cfg.Export.Parallelism
	}

	switch {
	case len(a.Sources) > 0 && a.SourceBinary != "":
		return nil, errors.New("sources and source_binary are mutually exclusive")
	case len(a.Sources) > 0:
		return imaging.LoadCollection(s.cache, a.Sources, ndimage.WithParallelism(parallelism))
	case a.SourceBinary != "":
		return export.ReadBinary(ctx, a.SourceBinary, export.ReadOptions{
			Prefix:      a.SourcePrefix,
			Credentials: s.cfg.Storage.Credentials(),
			Parallelism: parallelism,
		})
	default:
		return nil, errors.New("sources or source_binary is required")
	}
}

// === Manifest Handlers ===

type writeConfigArgs struct {
	Destination string `json:"destination"`
	Dims        []int  `json:"dims"`
	DType       string `json:"dtype"`
	Name        string `json:"name"`
	Overwrite   *bool  `json:"overwrite"`
}

func (s *Server) handleWriteConfig(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a writeConfigArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Destination == "" {
		return nil, errors.New("destination is required")
	}
	dtype, err := ndimage.ParseDType(a.DType)
	if err != nil {
		return nil, err
	}

	// A standalone manifest write replaces an existing one unless told not to.
	overwrite := true
	if a.Overwrite != nil {
		overwrite = *a.Overwrite
	}
	name := a.Name
	if name == "" {
		name = export.DefaultConfigName
	}

	err = export.WriteConfig(ctx, a.Destination, a.Dims, dtype.String(), export.ConfigOptions{
		Name:        name,
		Overwrite:   overwrite,
		Credentials: s.cfg.Storage.Credentials(),
		Logger:      s.log.With("tool", "images_write_config"),
	})
	if err != nil {
		return nil, err
	}

	dims := a.Dims
	if dims == nil {
		dims = []int{}
	}
	return map[string]interface{}{
		"destination": a.Destination,
		"manifest":    export.Manifest{Dims: dims, DType: dtype.String()},
		"files":       []string{name, export.SuccessMarker},
	}, nil
}

type readBinaryArgs struct {
	Source string `json:"source"`
	Prefix string `json:"prefix"`
}

// BinaryInfo summarizes a binary export.
type BinaryInfo struct {
	Source string `json:"source"`
	Dims   []int  `json:"dims"`
	DType  string `json:"dtype"`
	Images int    `json:"images"`
	Keys   []int  `json:"keys"`
	Bytes  int    `json:"bytes_per_image"`
}

func (s *Server) handleReadBinary(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a readBinaryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		return nil, errors.New("source is required")
	}

	c, err := export.ReadBinary(ctx, a.Source, export.ReadOptions{
		Prefix:      a.Prefix,
		Credentials: s.cfg.Storage.Credentials(),
	})
	if err != nil {
		return nil, err
	}
	return Describe(a.Source, c), nil
}

// Describe summarizes a collection read from source.
func Describe(source string, c *ndimage.Collection) *BinaryInfo {
	size := c.DType().ItemSize()
	for _, d := range c.Dims() {
		size *= d
	}
	return &BinaryInfo{
		Source: source,
		Dims:   c.Dims(),
		DType:  c.DType().String(),
		Images: c.Len(),
		Keys:   c.Keys(),
		Bytes:  size,
	}
}
