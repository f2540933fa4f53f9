package prompt

import (
	"regexp"
	"strings"

	"recipechef/internal/assembler"
	"recipechef/internal/domain"
)

// Classify picks the response mode for a turn. The choice is made locally
// and deterministically: an empty context forces NoMatch; a question that
// points at one of the prior turn's offered options (by title words or an
// ordinal like "the second one") selects OptionSelected; general or
// ingredient phrasing selects OptionsOffered; everything else is a specific
// named-recipe request.
func (p Policy) Classify(question string, ctx assembler.Context, prior *domain.ConversationTurn) Mode {
	if ctx.Empty() {
		return ModeNoMatch
	}
	if prior != nil && len(prior.OfferedOptions) > 0 && refersToOption(question, prior.OfferedOptions) {
		return ModeOptionSelected
	}
	lower := strings.ToLower(question)
	for _, cue := range p.GeneralCues {
		if strings.Contains(lower, cue) {
			return ModeOptionsOffered
		}
	}
	return ModeSpecificRequest
}

var ordinalRe = regexp.MustCompile(`(?i)\b(first|second|third|1st|2nd|3rd|option\s*[123]|number\s*[123])\b`)

var wordRe = regexp.MustCompile(`\pL+(?:['’]\pL+)*`)

func refersToOption(question string, options []string) bool {
	if ordinalRe.MatchString(question) {
		return true
	}
	qTokens := tokenSet(question)
	for _, opt := range options {
		optTokens := tokenSet(opt)
		if len(optTokens) == 0 {
			continue
		}
		overlap := 0
		for tok := range optTokens {
			if _, ok := qTokens[tok]; ok {
				overlap++
			}
		}
		// Either most of the title is repeated, or at least two of its
		// meaningful words are.
		if overlap*2 >= len(optTokens) && overlap > 0 || overlap >= 2 {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if isStopword(t) {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

func isStopword(t string) bool {
	switch t {
	case "a", "an", "the", "i", "me", "my", "to", "of", "in", "on", "with",
		"and", "or", "for", "is", "it", "that", "this", "one", "please",
		"like", "would", "want", "make", "show", "give":
		return true
	}
	return false
}
