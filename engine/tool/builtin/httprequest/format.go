package httprequest

import (
	"bytes"
	"fmt"

	"github.com/mobai/mobai-http/engine/executor"
	"github.com/tidwall/pretty"
)

// indentOptions print one member per line with two-space indentation.
var indentOptions = &pretty.Options{Indent: "  ", Width: 0, Prefix: "", SortKeys: false}

func prettyJSON(body []byte) string {
	return string(bytes.TrimRight(pretty.PrettyOptions(body, indentOptions), "\n"))
}

func formatResult(envelope *executor.ResponseEnvelope, body string) string {
	return fmt.Sprintf("Status: %d %s\n\n%s", envelope.StatusCode, envelope.StatusText, body)
}
