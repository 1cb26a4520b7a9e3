package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema fragment shared by every tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectLinesProperties is the argument schema for line detection, shared
// by image_detect_lines and image_export_segments_csv.
func detectLinesProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"squishy_blobs": map[string]interface{}{
			"type":        "boolean",
			"description": "Use the tolerant threshold regime, for organic imagery with short broken lines. Default is the strict regime for technical line art.",
		},
		"edge_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum Sobel magnitude (0-255) for a pixel to count as an edge. Default 25.",
		},
		"smooth": map[string]interface{}{
			"type":        "boolean",
			"description": "Apply a Gaussian blur before edge detection. Helps with photographs, hurts with clean line art.",
		},
		"enable_density_filter": map[string]interface{}{
			"type":        "boolean",
			"description": "Also discard segments whose edge-pixel density along the path is below 1 in 5.",
		},
		"bbox": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to search; the full image when omitted.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
		},
		"redraw_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to write a PNG with the detected segments drawn back onto the image.",
		},
		"draw_interior_as_gray": map[string]interface{}{
			"type":        "boolean",
			"description": "In the redraw, fill detected region interiors with light gray.",
		},
		"redraw_with_just_shape_outlines": map[string]interface{}{
			"type":        "boolean",
			"description": "In the redraw, erase the background so only detected geometry remains.",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and size. Caches the image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Edge and Gradient Analysis
		{
			Name:        "image_edge_map",
			Description: "Compute the Sobel edge map of an image and return it as base64 PNG with edges black on white. This is the same map the line detector votes from.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"edge_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum Sobel magnitude (0-255) for a pixel to count as an edge. Default 25.",
					},
					"smooth": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply a Gaussian blur before edge detection.",
					},
					"smooth_radius": map[string]interface{}{
						"type":        "number",
						"description": "Blur radius when smooth is set. Default 1.4.",
					},
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        "image_detect_lines",
			Description: "Detect straight line segments in an image using a gradient-pruned Hough transform. Returns segment endpoints, slope/intercept, length, pixel counts, and pass diagnostics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectLinesProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_detect_regions",
			Description: "Group connected edge pixels into shape regions over the same edge map line detection uses. Returns bounding boxes, pixel counts, and fill colors, largest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest connected component to report. Default 10.",
					},
					"edge_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum Sobel magnitude (0-255) for a pixel to count as an edge. Default 25.",
					},
					"smooth": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply a Gaussian blur before edge detection.",
					},
				},
				"required": []string{"path"},
			},
		},

		// Export
		{
			Name:        "image_export_segments_csv",
			Description: "Detect line segments and write them as a CSV table (endpoints, slope, intercept, angle, length, pixel count, color).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(detectLinesProperties(), map[string]interface{}{
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Path of the CSV file to write",
					},
				}),
				"required": []string{"path", "output_path"},
			},
		},
	}
}

// mergeProperties overlays extra schema properties onto a base set.
func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
