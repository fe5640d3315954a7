package orchestratornode

import (
	"regexp"
	"strings"
	"unicode/utf8"

	statex "github.com/tanpawarit/goodfoods-reservation-agent/agent/state"
)

type DecisionKind int

const (
	Proceed DecisionKind = iota
	ShortCircuit
)

// Decision is the pre-filter verdict for one user message. Reply is set only
// for ShortCircuit.
type Decision struct {
	Kind  DecisionKind
	Reply string
}

const (
	ReplyClarify             = "Could you please clarify your request? I didn't catch that."
	ReplyMoreRecommendations = "Do you want more recommendations similar to the ones I showed earlier, or would you like to change your preferences (cuisine, location, price)?"
	ReplyWhichRecommendation = "What kind of recommendations are you looking for? Cuisine, location, or price range?"
	ReplyNoPersonalName      = "I don't have a personal name. If you'd like to make a reservation, please provide the customer's full name to use for the booking."
	ReplyMoreDetail          = "Could you please provide a bit more detail so I can help? For example, which cuisine or area are you interested in?"
)

var (
	moreRecommendationsPattern = regexp.MustCompile(`^(any|anything|anymore|any other|anything else|more)\b.*\b(recommendation|recommendations|suggestions)`)
	identityPattern            = regexp.MustCompile(`\b(your name|your full name|who are you)\b`)
	wordPattern                = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Intercept classifies text before any model call. Rules are checked in order
// and the first match wins.
func Intercept(text string, history *statex.History) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{Kind: ShortCircuit, Reply: ReplyClarify}
	}

	if moreRecommendationsPattern.MatchString(normalized) {
		if history != nil && history.Mentions("recommend") {
			return Decision{Kind: ShortCircuit, Reply: ReplyMoreRecommendations}
		}
		return Decision{Kind: ShortCircuit, Reply: ReplyWhichRecommendation}
	}

	if identityPattern.MatchString(normalized) {
		return Decision{Kind: ShortCircuit, Reply: ReplyNoPersonalName}
	}

	tokens := wordPattern.FindAllString(normalized, -1)
	if len(tokens) <= 2 && (strings.HasSuffix(normalized, "?") || utf8.RuneCountInString(normalized) < 15) {
		return Decision{Kind: ShortCircuit, Reply: ReplyMoreDetail}
	}

	return Decision{Kind: Proceed}
}
