// Package training writes aligned docs and pattern matches in the JSON
// layouts consumed by the spaCy v2 training CLI.
package training

import (
	"encoding/json"
	"fmt"
	"io"

	"condition-ner/internal/alignment"
	"condition-ner/internal/core/types"
	"condition-ner/internal/patterns"
)

type JSONToken struct {
	Id   int    `json:"id"`
	Orth string `json:"orth"`
	Tag  string `json:"tag,omitempty"`
	Ner  string `json:"ner"`
}

type JSONSentence struct {
	Tokens   []JSONToken `json:"tokens"`
	Brackets []any       `json:"brackets"`
}

type JSONParagraph struct {
	Raw       string         `json:"raw"`
	Sentences []JSONSentence `json:"sentences"`
	Cats      []any          `json:"cats"`
}

type JSONDoc struct {
	Id         int             `json:"id"`
	Paragraphs []JSONParagraph `json:"paragraphs"`
}

// DocsToJSON builds one training document with a paragraph per doc. Token
// ids are doc-level indices and tokens outside every entity are tagged O.
func DocsToJSON(docs []*types.Doc, id int) (JSONDoc, error) {
	out := JSONDoc{Id: id, Paragraphs: make([]JSONParagraph, 0, len(docs))}
	for i, doc := range docs {
		tags, err := alignment.BILUOTagsFromOffsets(doc, alignment.OffsetsFromEntities(doc.Entities), alignment.OutsideTag)
		if err != nil {
			return JSONDoc{}, fmt.Errorf("error encoding entities of doc %d: %w", i, err)
		}

		para := JSONParagraph{Raw: doc.Text, Sentences: []JSONSentence{}, Cats: []any{}}
		for _, sent := range doc.Sentences() {
			jsonSent := JSONSentence{Tokens: make([]JSONToken, 0, sent[1]-sent[0]), Brackets: []any{}}
			for t := sent[0]; t < sent[1]; t++ {
				tok := doc.Tokens[t]
				jsonSent.Tokens = append(jsonSent.Tokens, JSONToken{Id: t, Orth: tok.Text, Tag: tok.Tag, Ner: tags[t]})
			}
			para.Sentences = append(para.Sentences, jsonSent)
		}
		out.Paragraphs = append(out.Paragraphs, para)
	}
	return out, nil
}

// WriteDocs writes docs as a single-element array wrapping DocsToJSON.
func WriteDocs(w io.Writer, docs []*types.Doc) error {
	doc, err := DocsToJSON(docs, 0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]JSONDoc{doc}); err != nil {
		return fmt.Errorf("error writing training docs: %w", err)
	}
	return nil
}

type EntityOffset struct {
	Start int
	End   int
	Label string
}

func (e EntityOffset) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Start, e.End, e.Label})
}

func (e *EntityOffset) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("entity offset must have 3 elements, found %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Start); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &e.End); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &e.Label)
}

type Annotations struct {
	Entities []EntityOffset `json:"entities"`
}

// PatternExample is a (text, annotations) pair, encoded as a two-element
// JSON array.
type PatternExample struct {
	Text        string
	Annotations Annotations
}

func (p PatternExample) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Text, p.Annotations})
}

func (p *PatternExample) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("pattern example must have 2 elements, found %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Text); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Annotations)
}

// NewPatternExample converts every match into a character offset entity.
// Overlapping matches are all kept.
func NewPatternExample(doc *types.Doc, matches []patterns.Match) PatternExample {
	ents := make([]EntityOffset, 0, len(matches))
	for _, m := range matches {
		ents = append(ents, EntityOffset{
			Start: doc.Tokens[m.Start].Start,
			End:   doc.Tokens[m.End-1].End,
			Label: m.Label,
		})
	}
	return PatternExample{Text: doc.Text, Annotations: Annotations{Entities: ents}}
}

func WritePatternExamples(w io.Writer, examples []PatternExample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if examples == nil {
		examples = []PatternExample{}
	}
	if err := enc.Encode(examples); err != nil {
		return fmt.Errorf("error writing pattern examples: %w", err)
	}
	return nil
}
