package tgbotq

import (
	"fmt"
	"html"
	"strings"
)

// documentShell is the Word-compatible HTML wrapper. The MSO
// namespaces and the Print view directive make Word open the .doc
// file in print layout instead of web layout.
const documentShell = `<html xmlns:o="urn:schemas-microsoft-com:office:office"
      xmlns:w="urn:schemas-microsoft-com:office:word"
      xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="utf-8"/>
<title>%s</title>
<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View></w:WordDocument></xml><![endif]-->
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>
`

// renderDocument wraps the cover and body in the document shell.
func renderDocument(title, style, cover, body string) string {
	content := cover + "\n" + body
	return fmt.Sprintf(documentShell, html.EscapeString(title), style, content)
}

// documentTitle builds the document title from the work type and
// topic, e.g. "Referat - Sun'iy intellekt".
func documentTitle(workTypeName, topic string) string {
	return strings.TrimSpace(workTypeName) + " - " + strings.TrimSpace(topic)
}
