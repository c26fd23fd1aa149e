package tools

import "encoding/json"

// Content is one typed block of a tool call result. The concrete types
// below form a tagged union discriminated by their "type" field.
type Content interface {
	contentType() string
}

// TextContent is a human-readable text block.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextContent) contentType() string { return "text" }

// ImageContent carries base64-encoded image data.
type ImageContent struct {
	Type     string `json:"type"`
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

func (ImageContent) contentType() string { return "image" }

// EmbeddedResource references or inlines a resource by URI.
type EmbeddedResource struct {
	Type     string          `json:"type"`
	Resource ResourceContent `json:"resource"`
}

type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (EmbeddedResource) contentType() string { return "resource" }

// Result is the uniform response envelope for a tool call: an ordered
// sequence of content blocks, marked as an error outcome when the call
// failed so callers can distinguish a failure from a textual success.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// NewTextResult builds a success envelope with a single text block.
func NewTextResult(text string) *Result {
	return &Result{
		Content: []Content{TextContent{Type: "text", Text: text}},
	}
}

// NewErrorResult builds a failure envelope carrying the classified kind and
// message in a single text block.
func NewErrorResult(err *Error) *Result {
	return &Result{
		Content: []Content{TextContent{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

// NewJSONResult renders v as indented JSON inside a single text block.
func NewJSONResult(v any) (*Result, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return NewTextResult(string(buf)), nil
}
