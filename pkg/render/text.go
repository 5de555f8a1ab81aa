package render

import (
	"bytes"
	"encoding/xml"
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
