package planner

import (
	"strings"

	"listingchat/internal/query"
)

// Intent tags the kind of answer the user is after.
const (
	IntentList   = "list"   // enumerate listings matching filters
	IntentCount  = "count"  // only how many match
	IntentDetail = "detail" // one listing, default summary or full profile
	IntentField  = "field"  // specific fields of one listing
	IntentChat   = "chat"   // no data access, conversational reply
)

// Target selects which listing a detail/field intent refers to.
const (
	TargetIndex   = "index"   // "#N" against the last shown list
	TargetAddress = "address" // free-text address match
	TargetLast    = "last"    // pronoun reference to the last listing
)

// Plan is the structured query decoded from the model's JSON reply. Every
// field is treated as untrusted until Normalize has run.
type Plan struct {
	Intent    string            `json:"intent"`
	Filters   []query.Predicate `json:"filters"`
	Fields    []string          `json:"fields"`
	Target    string            `json:"target"`
	Index     int               `json:"index"`
	Address   string            `json:"address"`
	Limit     int               `json:"limit"`
	CountOnly bool              `json:"count_only"`
	FullData  bool              `json:"full_data"`
	Reply     string            `json:"reply"`
}

var validIntents = map[string]bool{
	IntentList: true, IntentCount: true, IntentDetail: true,
	IntentField: true, IntentChat: true,
}

var validTargets = map[string]bool{
	TargetIndex: true, TargetAddress: true, TargetLast: true,
}

// Normalize clamps and defaults every field so the handler can trust the
// plan. The model's output is not contractually guaranteed to match the
// requested shape, so nothing here is assumed.
func (p *Plan) Normalize() {
	p.Intent = strings.ToLower(strings.TrimSpace(p.Intent))
	if !validIntents[p.Intent] {
		p.Intent = IntentChat
	}
	if p.CountOnly && p.Intent == IntentList {
		p.Intent = IntentCount
	}
	if p.Intent == IntentField && len(p.Fields) == 0 {
		p.Intent = IntentDetail
	}

	p.Target = strings.ToLower(strings.TrimSpace(p.Target))
	if !validTargets[p.Target] {
		p.Target = ""
	}
	if p.Target == "" {
		switch {
		case p.Index > 0:
			p.Target = TargetIndex
		case strings.TrimSpace(p.Address) != "":
			p.Target = TargetAddress
		default:
			p.Target = TargetLast
		}
	}
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}

	kept := p.Filters[:0]
	for _, f := range p.Filters {
		if strings.TrimSpace(f.Field) == "" {
			continue
		}
		kept = append(kept, f)
	}
	p.Filters = kept
}

// greetings are answered locally without an LLM round trip. The check must
// not touch any session state.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true, "howdy": true,
	"help": true, "hi there": true, "hello there": true, "good morning": true,
	"good afternoon": true, "good evening": true,
}

const helpText = "Hi! I can help you explore the listings I have loaded. " +
	"Try things like \"show me 3 bedroom homes under 800k\", " +
	"\"how many listings are in Gardena\", or ask about a result by number " +
	"(\"tell me about #2\") or by address."

// Greeting returns a canned reply for trivial salutations, bypassing the
// planner entirely.
func Greeting(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimRight(t, "!.? ")
	if t == "" || greetings[t] {
		return helpText, true
	}
	return "", false
}
