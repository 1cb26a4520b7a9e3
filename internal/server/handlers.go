package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/ironsheep/line-tools-mcp/internal/detection"
	"github.com/ironsheep/line-tools-mcp/internal/export"
	"github.com/ironsheep/line-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_detect_lines").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool. The response wraps the tool result in MCP's content format; tool
// execution errors become JSON-RPC errors with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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

// executeTool dispatches tool execution to the appropriate handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_edge_map":
		return s.handleImageEdgeMap(args)
	case "image_detect_lines":
		return s.handleImageDetectLines(args)
	case "image_detect_regions":
		return s.handleImageDetectRegions(args)
	case "image_export_segments_csv":
		return s.handleImageExportSegmentsCSV(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Edge Map Handler ===

type imageEdgeMapArgs struct {
	Path          string  `json:"path"`
	EdgeThreshold int     `json:"edge_threshold"`
	Smooth        bool    `json:"smooth"`
	SmoothRadius  float64 `json:"smooth_radius"`
}

// EdgeMapResult contains the rendered edge map: edges black on white,
// encoded as base64 PNG.
type EdgeMapResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgeCount   int    `json:"edge_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleImageEdgeMap(args json.RawMessage) (interface{}, error) {
	var a imageEdgeMapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	lum, err := imaging.BuildLuminanceMap(img, imaging.LuminanceOptions{
		EdgeThreshold: a.EdgeThreshold,
		Smooth:        a.Smooth,
		SmoothRadius:  a.SmoothRadius,
	})
	if err != nil {
		return nil, err
	}

	encoded, err := encodePNGBase64(lum.EdgeImage())
	if err != nil {
		return nil, err
	}

	return &EdgeMapResult{
		Width:       lum.Width(),
		Height:      lum.Height(),
		EdgeCount:   lum.EdgeCount(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// === Line Detection Handlers ===

type imageDetectLinesArgs struct {
	Path                        string `json:"path"`
	SquishyBlobs                bool   `json:"squishy_blobs"`
	EdgeThreshold               int    `json:"edge_threshold"`
	Smooth                      bool   `json:"smooth"`
	EnableDensityFilter         bool   `json:"enable_density_filter"`
	RedrawPath                  string `json:"redraw_path"`
	DrawInteriorAsGray          bool   `json:"draw_interior_as_gray"`
	RedrawWithJustShapeOutlines bool   `json:"redraw_with_just_shape_outlines"`
	Bbox                        *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"bbox,omitempty"`
}

// detectLinesResponse is the line detection result, with a note when the
// optional redraw sink failed: a sink failure does not discard segments.
type detectLinesResponse struct {
	*detection.LinesResult
	SinkError string `json:"sink_error,omitempty"`
}

func (s *Server) handleImageDetectLines(args json.RawMessage) (interface{}, error) {
	var a imageDetectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	result, sinkErr, err := s.detectLines(&a)
	if err != nil {
		return nil, err
	}

	resp := &detectLinesResponse{LinesResult: result}
	if sinkErr != nil {
		resp.SinkError = sinkErr.Error()
	}
	return resp, nil
}

// detectLines runs the full pipeline for the given arguments. A sink
// failure is returned separately from fatal errors.
func (s *Server) detectLines(a *imageDetectLinesArgs) (*detection.LinesResult, error, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	lum, err := imaging.BuildLuminanceMap(img, imaging.LuminanceOptions{
		EdgeThreshold: a.EdgeThreshold,
		Smooth:        a.Smooth,
	})
	if err != nil {
		return nil, nil, err
	}

	var bbox image.Rectangle
	if a.Bbox != nil {
		bbox = image.Rect(a.Bbox.X1, a.Bbox.Y1, a.Bbox.X2, a.Bbox.Y2)
	}

	var sink detection.ImageSink
	if a.RedrawPath != "" {
		sink = &pngFileSink{path: a.RedrawPath}
	}

	opts := detection.Options{
		SquishyBlobs:                a.SquishyBlobs,
		DrawInteriorAsGray:          a.DrawInteriorAsGray,
		RedrawWithJustShapeOutlines: a.RedrawWithJustShapeOutlines,
		EnableDensityFilter:         a.EnableDensityFilter,
		Debug:                       os.Getenv("LINE_TOOLS_LOG_LEVEL") == "debug",
	}

	result, err := detection.DetectLines(opts, img, lum, bbox, sink)
	if err != nil {
		if errors.Is(err, detection.ErrSinkFailure) {
			return result, err, nil
		}
		return nil, nil, err
	}
	return result, nil, nil
}

// === Region Extraction Handler ===

type imageDetectRegionsArgs struct {
	Path          string `json:"path"`
	MinPixels     int    `json:"min_pixels"`
	EdgeThreshold int    `json:"edge_threshold"`
	Smooth        bool   `json:"smooth"`
}

func (s *Server) handleImageDetectRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	lum, err := imaging.BuildLuminanceMap(img, imaging.LuminanceOptions{
		EdgeThreshold: a.EdgeThreshold,
		Smooth:        a.Smooth,
	})
	if err != nil {
		return nil, err
	}

	return detection.ExtractRegions(img, lum, a.MinPixels)
}

// === Export Handler ===

type imageExportSegmentsCSVArgs struct {
	imageDetectLinesArgs
	OutputPath string `json:"output_path"`
}

type exportSegmentsResult struct {
	OutputPath string `json:"output_path"`
	Count      int    `json:"count"`
}

func (s *Server) handleImageExportSegmentsCSV(args json.RawMessage) (interface{}, error) {
	var a imageExportSegmentsCSVArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}

	result, _, err := s.detectLines(&a.imageDetectLinesArgs)
	if err != nil {
		return nil, err
	}

	if err := export.WriteSegmentsFile(a.OutputPath, result.Segments); err != nil {
		return nil, err
	}

	return &exportSegmentsResult{
		OutputPath: a.OutputPath,
		Count:      result.Count,
	}, nil
}

// === Helpers ===

// pngFileSink writes a rebuilt image to disk as PNG.
type pngFileSink struct {
	path string
}

func (s *pngFileSink) WriteImage(img image.Image) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create redraw file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode redraw image: %w", err)
	}
	return f.Close()
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
