package mcpserver

import (
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// argText reads an argument that clients may send either as a JSON number or a string.
func argText(request mcp.CallToolRequest, key string) string {
	switch v := request.GetArguments()[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
