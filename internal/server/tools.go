package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties describes where the images to export come from. Exactly
// one of sources or source_binary must be given.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"sources": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Absolute paths of image files. Image k is sources[k]; all must share dimensions and pixel format.",
		},
		"source_binary": map[string]interface{}{
			"type":        "string",
			"description": "A completed binary export (directory, s3://, minio:// or mem:// path) to read the images from instead of files",
		},
		"source_prefix": map[string]interface{}{
			"type":        "string",
			"description": "Filename prefix of the images in source_binary. Default 'image'",
		},
	}
}

// exportSchema builds the input schema shared by the export tools.
func exportSchema(extra map[string]interface{}) map[string]interface{} {
	props := sourceProperties()
	props["destination"] = map[string]interface{}{
		"type":        "string",
		"description": "Local directory or s3://bucket/prefix, minio://host/bucket/prefix, mem://name URI to write to",
	}
	props["prefix"] = map[string]interface{}{
		"type":        "string",
		"description": "Filename prefix without path separators; image k is written as {prefix}-{k:05d}.{ext}. Default from configuration ('image')",
	}
	props["overwrite"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Replace files that already exist at the destination",
		"default":     false,
	}
	props["parallelism"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of images encoded and written at once. Default from configuration (1)",
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"destination"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Exports
		{
			Name:        "images_export_png",
			Description: "Write every image of a collection as a PNG file. Images must be 2-dimensional or 3-dimensional with 1, 3 or 4 channels; uint8 and uint16 are written verbatim, other types are scaled to 8 bits.",
			InputSchema: exportSchema(nil),
		},
		{
			Name:        "images_export_tiff",
			Description: "Write every image of a collection as a TIFF (.tif) file. Same shape rules as images_export_png.",
			InputSchema: exportSchema(map[string]interface{}{
				"compression": map[string]interface{}{
					"type":        "string",
					"description": "TIFF compression: 'none' or 'deflate'. Default from configuration ('none')",
					"enum":        []string{"none", "deflate"},
				},
			}),
		},
		{
			Name:        "images_export_binary",
			Description: "Write every image's raw little-endian samples to a .bin file, then conf.json with dims and dtype, then an empty SUCCESS marker. Any dimensionality is accepted.",
			InputSchema: exportSchema(nil),
		},

		// Manifest Operations
		{
			Name:        "images_write_config",
			Description: "Write a binary export manifest ({\"dims\": [...], \"dtype\": \"...\"}) followed by the empty SUCCESS marker.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"destination": map[string]interface{}{
						"type":        "string",
						"description": "Directory or object-store URI to write to",
					},
					"dims": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Per-image dimensions, e.g. [512, 512]",
					},
					"dtype": map[string]interface{}{
						"type":        "string",
						"description": "Element type name, e.g. 'uint8', 'int16', 'float32'",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Manifest filename. Default 'conf.json'",
					},
					"overwrite": map[string]interface{}{
						"type":        "boolean",
						"description": "Replace an existing manifest and marker",
						"default":     true,
					},
				},
				"required": []string{"destination", "dims", "dtype"},
			},
		},
		{
			Name:        "images_read_binary",
			Description: "Inspect a completed binary export: returns its manifest, image count and keys. Fails if the SUCCESS marker is missing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Directory or object-store URI of the export",
					},
					"prefix": map[string]interface{}{
						"type":        "string",
						"description": "Filename prefix of the images. Default 'image'",
					},
				},
				"required": []string{"source"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
