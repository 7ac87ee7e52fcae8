// Command annotator_plugin serves the rule annotator as a go-plugin, for
// hosts started with ANNOTATOR=plugin.
package main

import (
	"condition-ner/internal/nlp"
	"condition-ner/internal/nlp/pluginannotator"
	"condition-ner/plugin/shared"
)

func main() {
	shared.Serve(pluginannotator.NewServer(nlp.NewRuleAnnotator()))
}
