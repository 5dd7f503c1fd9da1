package cli

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Tokenizes JSON parts: keys (quoted strings followed by colon), string
// values, and numbers / booleans / null.
var jsonTokenRegex = regexp.MustCompile(`("(\\u[a-zA-Z0-9]{4}|\\[^u]|[^\\"])*"(\s*:)?|\b(true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?)`)

// HighlightJSON takes a JSON string (minified or indented) and applies ANSI colors.
func HighlightJSON(jsonStr string) string {
	if !Enabled() {
		return jsonStr
	}

	return jsonTokenRegex.ReplaceAllStringFunc(jsonStr, func(token string) string {
		switch {
		case strings.HasSuffix(token, ":"):
			key := strings.TrimSuffix(token, ":")
			return fmt.Sprintf("%s%s%s:", Blue, key, ResetCode)

		case strings.HasPrefix(token, "\""):
			return fmt.Sprintf("%s%s%s", Green, token, ResetCode)

		case token == "true" || token == "false":
			return fmt.Sprintf("%s%s%s", Yellow, token, ResetCode)

		case token == "null":
			return fmt.Sprintf("%s%s%s", DimCode, token, ResetCode)

		default:
			return fmt.Sprintf("%s%s%s", Cyan, token, ResetCode)
		}
	})
}

// PrettyJSON indents and highlights a value for terminal display.
func PrettyJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return HighlightJSON(string(data))
}
