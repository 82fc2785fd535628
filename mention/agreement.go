package mention

import (
	"strings"

	sent "github.com/revelaction/clincoref/sentence"
)

const Unknown = "unknown"

// Agreement holds the grammatical attributes used by agreement features.
type Agreement struct {
	Number string // singular, plural, unknown
	Gender string // masculine, feminine, neuter, unknown
	Person string // first, second, third

	Pronoun       bool
	Definite      bool
	Demonstrative bool
}

type pronounInfo struct {
	number, gender, person string
}

var pronouns = map[string]pronounInfo{
	"i": {"singular", Unknown, "first"}, "me": {"singular", Unknown, "first"},
	"my": {"singular", Unknown, "first"}, "mine": {"singular", Unknown, "first"},
	"myself": {"singular", Unknown, "first"},
	"we": {"plural", Unknown, "first"}, "us": {"plural", Unknown, "first"},
	"our": {"plural", Unknown, "first"}, "ours": {"plural", Unknown, "first"},
	"you": {Unknown, Unknown, "second"}, "your": {Unknown, Unknown, "second"},
	"yours": {Unknown, Unknown, "second"}, "yourself": {"singular", Unknown, "second"},
	"he": {"singular", "masculine", "third"}, "him": {"singular", "masculine", "third"},
	"his": {"singular", "masculine", "third"}, "himself": {"singular", "masculine", "third"},
	"she": {"singular", "feminine", "third"}, "her": {"singular", "feminine", "third"},
	"hers": {"singular", "feminine", "third"}, "herself": {"singular", "feminine", "third"},
	"it": {"singular", "neuter", "third"}, "its": {"singular", "neuter", "third"},
	"itself": {"singular", "neuter", "third"},
	"they": {"plural", Unknown, "third"}, "them": {"plural", Unknown, "third"},
	"their": {"plural", Unknown, "third"}, "theirs": {"plural", Unknown, "third"},
	"themselves": {"plural", Unknown, "third"},
	"this": {"singular", "neuter", "third"}, "that": {"singular", "neuter", "third"},
	"these": {"plural", "neuter", "third"}, "those": {"plural", "neuter", "third"},
	"which": {Unknown, "neuter", "third"}, "who": {Unknown, Unknown, "third"},
}

var genderedNouns = map[string]string{
	"man": "masculine", "male": "masculine", "gentleman": "masculine",
	"husband": "masculine", "father": "masculine", "son": "masculine",
	"brother": "masculine", "mr": "masculine", "mr.": "masculine",
	"woman": "feminine", "female": "feminine", "lady": "feminine",
	"wife": "feminine", "mother": "feminine", "daughter": "feminine",
	"sister": "feminine", "mrs": "feminine", "mrs.": "feminine",
	"ms": "feminine", "ms.": "feminine",
}

var demonstratives = map[string]bool{"this": true, "that": true, "these": true, "those": true}

var definites = map[string]bool{"the": true}

// IsPronoun reports whether a lowercased word is in the pronoun lexicon.
func IsPronoun(word string) bool {
	_, ok := pronouns[word]
	return ok
}

func isDeterminer(t sent.Token) bool {
	if t.Pos == "DET" || t.Tag == "DT" {
		return true
	}
	w := strings.ToLower(t.Text)
	return definites[w] || demonstratives[w] || w == "a" || w == "an"
}

func isFunctionToken(t sent.Token) bool {
	switch t.Pos {
	case "DET", "PRON", "PUNCT", "ADP", "CCONJ", "PART":
		return true
	}
	w := strings.ToLower(t.Text)
	return isDeterminer(t) || IsPronoun(w) || strings.Trim(w, ".,;:!?()[]'\"-") == ""
}

// DeriveAgreement computes agreement attributes from the span tokens and its
// head. Pronoun lexicon wins over morphology.
func DeriveAgreement(tokens []sent.Token, head *sent.Token) Agreement {
	ag := Agreement{Number: Unknown, Gender: Unknown, Person: "third"}

	if len(tokens) > 0 {
		first := strings.ToLower(tokens[0].Text)
		ag.Definite = definites[first]
		ag.Demonstrative = demonstratives[first] && len(tokens) > 1
	}

	if head == nil {
		return ag
	}

	word := strings.ToLower(head.Text)
	if p, ok := pronouns[word]; ok && (len(tokens) == 1 || head.Pos == "PRON") {
		ag.Pronoun = true
		ag.Number, ag.Gender, ag.Person = p.number, p.gender, p.person
		return ag
	}

	switch head.Feature("Number") {
	case "Sing":
		ag.Number = "singular"
	case "Plur":
		ag.Number = "plural"
	default:
		switch head.Tag {
		case "NN", "NNP":
			ag.Number = "singular"
		case "NNS", "NNPS":
			ag.Number = "plural"
		}
	}

	switch head.Feature("Gender") {
	case "Masc":
		ag.Gender = "masculine"
	case "Fem":
		ag.Gender = "feminine"
	case "Neut":
		ag.Gender = "neuter"
	default:
		if g, ok := genderedNouns[word]; ok {
			ag.Gender = g
		}
	}

	return ag
}

// Compatible reports agreement between two attribute values, unknown is
// compatible with everything.
func Compatible(a, b string) bool {
	return a == Unknown || b == Unknown || a == b
}
