package jsonx

import (
	"github.com/json-iterator/go"
)

var _jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)
