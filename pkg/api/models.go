package api

import (
	"time"

	"github.com/google/uuid"
)

// AnnotateRequest/AnnotateResponse are the wire format of an external
// spaCy-compatible annotation service. Idx is the rune offset of the token.
type AnnotateRequest struct {
	Text string `json:"text"`
}

type AnnotatedToken struct {
	Text        string `json:"text"`
	Idx         int    `json:"idx"`
	Lemma       string `json:"lemma"`
	Pos         string `json:"pos"`
	Tag         string `json:"tag"`
	IsSentStart bool   `json:"is_sent_start,omitempty"`
}

type AnnotateResponse struct {
	Tokens []AnnotatedToken `json:"tokens"`
}

type Entity struct {
	Start    int
	End      int
	Label    string
	Text     string
	LContext string
	RContext string
}

type Token struct {
	Index int
	Text  string
	Lemma string
	Pos   string
	Tag   string
	Start int
	End   int
}

type Abbreviation struct {
	Short string
	Long  string
}

type Doc struct {
	Index    int
	Text     string
	Entities []Entity
}

type DocDetail struct {
	Doc

	Tokens        []Token
	Abbreviations []Abbreviation `json:"Abbreviations,omitempty"`
}

type ListDocsParams struct {
	Label  string `schema:"label"`
	Offset int    `schema:"offset"`
	Limit  int    `schema:"limit"`
}

type ListDocsResponse struct {
	Total int
	Docs  []Doc
}

type Run struct {
	Id             uuid.UUID
	Job            string
	Status         string
	Seed           int64
	CreationTime   time.Time
	CompletionTime *time.Time `json:"CompletionTime,omitempty"`
}
