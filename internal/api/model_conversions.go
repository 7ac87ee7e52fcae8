package api

import (
	"condition-ner/internal/abbrev"
	"condition-ner/internal/core/types"
	"condition-ner/internal/database"
	"condition-ner/internal/jobs"
	"condition-ner/pkg/api"
)

func convertEntity(e types.Entity) api.Entity {
	return api.Entity{
		Start:    e.StartChar,
		End:      e.EndChar,
		Label:    e.Label,
		Text:     e.Text,
		LContext: e.LContext,
		RContext: e.RContext,
	}
}

func convertEntities(es []types.Entity) []api.Entity {
	entities := make([]api.Entity, 0, len(es))
	for _, e := range es {
		entities = append(entities, convertEntity(e))
	}
	return entities
}

func convertDoc(index int, d *types.Doc) api.Doc {
	return api.Doc{
		Index:    index,
		Text:     d.Text,
		Entities: convertEntities(d.Entities),
	}
}

func convertTokens(ts []types.Token) []api.Token {
	tokens := make([]api.Token, 0, len(ts))
	for i, t := range ts {
		tokens = append(tokens, api.Token{
			Index: i,
			Text:  t.Text,
			Lemma: t.Lemma,
			Pos:   t.POS,
			Tag:   t.Tag,
			Start: t.Start,
			End:   t.End,
		})
	}
	return tokens
}

func convertAbbreviations(as []abbrev.Abbreviation) []api.Abbreviation {
	var abbreviations []api.Abbreviation
	for _, a := range as {
		abbreviations = append(abbreviations, api.Abbreviation{Short: a.Short.Text, Long: a.Long.Text})
	}
	return abbreviations
}

func convertDocDetail(index int, d jobs.ExploredDoc) api.DocDetail {
	return api.DocDetail{
		Doc:           convertDoc(index, d.Doc),
		Tokens:        convertTokens(d.Doc.Tokens),
		Abbreviations: convertAbbreviations(d.Abbreviations),
	}
}

func convertRun(r database.Run) api.Run {
	run := api.Run{
		Id:           r.Id,
		Job:          r.Job,
		Status:       r.Status,
		Seed:         r.Seed,
		CreationTime: r.CreationTime,
	}
	if r.CompletionTime.Valid {
		run.CompletionTime = &r.CompletionTime.Time
	}
	return run
}

func convertRuns(rs []database.Run) []api.Run {
	runs := make([]api.Run, 0, len(rs))
	for _, r := range rs {
		runs = append(runs, convertRun(r))
	}
	return runs
}
