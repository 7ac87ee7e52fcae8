package nlp

import (
	"strings"

	"condition-ner/internal/core/types"
)

type lexEntry struct {
	pos string
	tag string
}

// Lexicon maps lowercased word forms to their most frequent part of speech.
type Lexicon map[string]lexEntry

func (l Lexicon) add(pos, tag string, words string) {
	for _, w := range strings.Fields(words) {
		l[w] = lexEntry{pos: pos, tag: tag}
	}
}

func (l Lexicon) Lookup(lower string) (pos, tag string, ok bool) {
	e, ok := l[lower]
	return e.pos, e.tag, ok
}

// Add registers extra words, for example a domain vocabulary that must be
// tagged as nouns regardless of suffix heuristics.
func (l Lexicon) Add(pos, tag string, words ...string) {
	for _, w := range words {
		l[strings.ToLower(w)] = lexEntry{pos: pos, tag: tag}
	}
}

func NewEnglishLexicon() Lexicon {
	l := Lexicon{}

	l.add(types.DET, "DT", "the a an this that these those every each some any no another all both either neither")
	l.add(types.DET, "PRP$", "my your his its our their")
	l.add(types.PRON, "PRP", `i me you he him she her it we us they them myself yourself himself herself
		itself ourselves themselves mine yours hers ours theirs one`)
	l.add(types.PRON, "NN", "something anything nothing everything someone anyone everyone noone nobody somebody anybody everybody")
	l.add(types.PRON, "WP", "who whom what which whoever whatever")
	l.add(types.ADP, "IN", `of in on at by for with about against between into through during before after
		above below from up down over under without within around across among behind beside beyond near
		off onto toward towards upon via despite per like than since`)
	l.add(types.CCONJ, "CC", "and or but nor plus")
	l.add(types.SCONJ, "IN", "because although though while if unless whether until whereas once")
	l.add(types.AUX, "VBZ", "is 's")
	l.add(types.AUX, "VBP", "am are 'm 're")
	l.add(types.AUX, "VBD", "was were")
	l.add(types.AUX, "VB", "be")
	l.add(types.AUX, "VBN", "been")
	l.add(types.AUX, "VBG", "being")
	l.add(types.AUX, "VBD", "did")
	l.add(types.AUX, "VBZ", "does")
	l.add(types.AUX, "VBP", "do")
	l.add(types.AUX, "MD", "will would can could shall should may might must ca wo 'll 'd")
	l.add(types.VERB, "VBP", "have 've")
	l.add(types.VERB, "VBZ", "has")
	l.add(types.VERB, "VBD", "had")
	l.add(types.PART, "RB", "not n't never")
	l.add(types.PART, "TO", "to")
	l.add(types.ADV, "RB", `very really also just too so now then there here always often sometimes again
		still already even only ever quite pretty almost maybe probably actually much more most less least
		well back away together usually currently recently finally literally basically definitely
		especially eventually anymore instead else yet soon later ago far long perhaps rather somewhat
		though anyway otherwise twice`)
	l.add(types.ADV, "WRB", "how when where why")
	l.add(types.INTJ, "UH", "yes yeah oh hey hi hello thanks please ok okay wow lol haha hmm ugh")
	l.add(types.NUM, "CD", `zero one two three four five six seven eight nine ten eleven twelve twenty
		thirty forty fifty hundred thousand million`)

	l.add(types.ADJ, "JJ", `good bad new old severe chronic mild acute sure sick high low short big small
		little same different normal able happy sad tired constant terrible horrible awful possible medical
		mental physical serious major minor common real whole last first second other few many several own
		such full free hard easy weird fine great huge painful bipolar anxious depressed depressive
		diabetic asthmatic clinical social general generalized severe moderate worried afraid scared
		nervous young early late recent next previous current main positive negative heavy light dry
		itchy red swollen sore bloody frequent occasional random strange right wrong true false similar
		certain clear likely unlikely recurring persistent seasonal postpartum manic obsessive compulsive
		inflammatory irritable autoimmune gestational hormonal cystic herniated bulging allergic viral
		bacterial fungal intestinal gastric rheumatoid ulcerative borderline suicidal`)
	l.add(types.ADJ, "JJR", "better worse bigger smaller higher lower older younger harder easier")
	l.add(types.ADJ, "JJS", "best worst biggest smallest highest lowest oldest hardest easiest")

	l.add(types.VERB, "VB", `get feel think know go take make see say tell want need try start help give
		come find seem keep let put leave begin eat sleep work look ask use call stop hope wonder cause
		deal suffer struggle diagnose prescribe treat cure manage experience notice worry hurt happen`)
	l.add(types.VERB, "VBD", `got felt thought knew went took made saw said told gave came found kept left
		began ate slept became brought bought caught fell ran sat stood wrote`)
	l.add(types.VERB, "VBN", "gotten known gone taken seen given eaten begun become written done")

	l.add(types.NOUN, "NN", `depression anxiety allergy diabetes insomnia hernia endometriosis migraine
		hypertension flu acne hemorrhoid asthma uti adhd ptsd ocd ibs hiv pcos cancer disc disease disorder
		syndrome pain infection condition doctor doc dr gp symptom medication med meds treatment therapy
		therapist psychiatrist surgery hospital patient health time day week month year life thing people
		person family friend work job mom dad wife husband boyfriend girlfriend kid child body head back
		stomach chest heart skin blood test result issue problem attack panic stress fever cough cold
		virus bacteria rash headache nausea fatigue dose prescription appointment diagnosis er
		breast lung prostate colon thyroid kidney liver bladder brain bone ovarian cervical skin
		herpes std sti copd gerd ibd mdd gad bpd ms als`)
	l.add(types.NOUN, "NNS", "symptoms meds people years months weeks days times things pills kids children")

	return l
}
