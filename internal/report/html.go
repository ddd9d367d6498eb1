package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownToHTML = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTemplate = template.Must(template.New("ledger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Monthly Ledger - {{.Period}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; padding: 40px; color: #1f2937; max-width: 1000px; margin: 0 auto; }
h1 { font-size: 28px; margin-bottom: 8px; }
h2 { font-size: 18px; margin: 28px 0 12px; padding-bottom: 6px; border-bottom: 2px solid #e5e7eb; }
p, ul { margin-bottom: 12px; }
ul { list-style: none; }
li { padding: 4px 0; }
table { width: 100%; border-collapse: collapse; font-size: 14px; }
th { background: #f3f4f6; text-align: left; padding: 10px; font-weight: 600; }
td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
hr { margin: 32px 0 12px; border: none; border-top: 1px solid #e5e7eb; }
@media print { body { padding: 20px; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders the ledger as a self-contained printable page.
func HTML(w io.Writer, l Ledger) error {
	var body bytes.Buffer
	if err := markdownToHTML.Convert([]byte(Markdown(l)), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	data := struct {
		Period string
		Body   template.HTML
	}{
		Period: l.Period(),
		// goldmark escapes raw HTML in the source by default.
		Body: template.HTML(body.String()),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
