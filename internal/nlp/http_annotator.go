package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"condition-ner/internal/core/types"
	"condition-ner/pkg/api"

	"github.com/go-resty/resty/v2"
)

// HTTPAnnotator delegates annotation to a spaCy-compatible service exposing
// POST /annotate.
type HTTPAnnotator struct {
	client *resty.Client
}

func NewHTTPAnnotator(baseURL string) *HTTPAnnotator {
	return &HTTPAnnotator{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(60 * time.Second).
			SetRetryCount(2),
	}
}

func (a *HTTPAnnotator) Annotate(ctx context.Context, text string) (*types.Doc, error) {
	var result api.AnnotateResponse
	res, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.AnnotateRequest{Text: text}).
		SetResult(&result).
		Post("/annotate")
	if err != nil {
		return nil, fmt.Errorf("error calling annotation service: %w", err)
	}
	if !res.IsSuccess() {
		slog.Error("annotation service returned error", "status_code", res.StatusCode(), "body", res.String())
		return nil, fmt.Errorf("annotation service returned status %d", res.StatusCode())
	}

	return DocFromWire(text, result.Tokens)
}

func (a *HTTPAnnotator) Release() {}

// DocFromWire converts service tokens into a Doc, validating that every
// token's text matches the document at its offset.
func DocFromWire(text string, wire []api.AnnotatedToken) (*types.Doc, error) {
	runes := []rune(text)
	doc := &types.Doc{Text: text, Tokens: make([]types.Token, 0, len(wire))}

	for i, t := range wire {
		end := t.Idx + len([]rune(t.Text))
		if t.Idx < 0 || end > len(runes) || string(runes[t.Idx:end]) != t.Text {
			return nil, fmt.Errorf("token %d (%q at %d) does not match document text", i, t.Text, t.Idx)
		}
		if i > 0 && t.Idx < doc.Tokens[i-1].End {
			return nil, fmt.Errorf("token %d overlaps previous token", i)
		}
		if i == 0 || t.IsSentStart {
			doc.SentenceStarts = append(doc.SentenceStarts, i)
		}
		doc.Tokens = append(doc.Tokens, types.Token{
			Text:    t.Text,
			Start:   t.Idx,
			End:     end,
			Lemma:   t.Lemma,
			Lower:   strings.ToLower(t.Text),
			POS:     t.Pos,
			Tag:     t.Tag,
			IsSpace: strings.TrimFunc(t.Text, unicode.IsSpace) == "",
			IsPunct: isPunctString(t.Text),
		})
	}

	return doc, nil
}
