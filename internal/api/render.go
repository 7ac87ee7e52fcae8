package api

import (
	"bytes"
	"embed"
	"html/template"

	"condition-ner/internal/core/types"
	"condition-ner/internal/jobs"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// segment is a run of doc text, highlighted when Label is set.
type segment struct {
	Text  string
	Label string
}

type entityDoc struct {
	Index    int
	Segments []segment
}

type tokenDoc struct {
	Index  int
	Tokens []types.Token
}

// segments splits the doc text at entity boundaries. Entities are expected
// in order and without overlaps, as left by the entity ruler.
func segments(doc *types.Doc) []segment {
	runes := doc.Runes()
	var out []segment
	pos := 0
	for _, ent := range doc.Entities {
		if ent.StartChar < pos || ent.EndChar > len(runes) {
			continue
		}
		if ent.StartChar > pos {
			out = append(out, segment{Text: string(runes[pos:ent.StartChar])})
		}
		out = append(out, segment{Text: string(runes[ent.StartChar:ent.EndChar]), Label: ent.Label})
		pos = ent.EndChar
	}
	if pos < len(runes) {
		out = append(out, segment{Text: string(runes[pos:])})
	}
	return out
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderEntities(docs []jobs.ExploredDoc) ([]byte, error) {
	data := make([]entityDoc, 0, len(docs))
	for i, d := range docs {
		data = append(data, entityDoc{Index: i, Segments: segments(d.Doc)})
	}
	return render("entities.html", data)
}

func renderTokens(docs []jobs.ExploredDoc) ([]byte, error) {
	data := make([]tokenDoc, 0, len(docs))
	for i, d := range docs {
		data = append(data, tokenDoc{Index: i, Tokens: d.Doc.Tokens})
	}
	return render("tokens.html", data)
}
