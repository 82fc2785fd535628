package feature

import (
	"github.com/revelaction/clincoref/cluster"
	"github.com/revelaction/clincoref/docctx"
	"github.com/revelaction/clincoref/mention"
)

// Agreement emits determiner flags and number, gender and person agreement.
// A pair agrees when at least one prior member agrees.
type Agreement struct{}

func (a *Agreement) Name() string { return AgreementName }

func (a *Agreement) Mention(dc *docctx.Context, m *mention.Mention) []Feature {
	return []Feature{
		Bool("MentionDemonstrative", m.Demonstrative),
		Bool("MentionDefinite", m.Definite),
		Bool("MentionPronoun", m.Pronoun),
		Category("MentionNumber", m.Number),
		Category("MentionGender", m.Gender),
	}
}

func (a *Agreement) Pair(dc *docctx.Context, c *cluster.Cluster, m *mention.Mention) []Feature {
	var number, gender, person, pronoun bool
	for _, member := range c.MembersBefore(m) {
		if !number && mention.Compatible(member.Number, m.Number) {
			number = true
		}
		if !gender && mention.Compatible(member.Gender, m.Gender) {
			gender = true
		}
		if !person && member.Person == m.Person {
			person = true
		}
		if !pronoun && member.Pronoun && m.Pronoun {
			pronoun = true
		}
		if number && gender && person && pronoun {
			break
		}
	}

	return []Feature{
		Bool("AgreeNumber", number),
		Bool("AgreeGender", gender),
		Bool("AgreePerson", person),
		Bool("BothPronouns", pronoun),
	}
}
