// Package mention parses free-text user input for @name tokens and maps them
// to session participants. Matching is case-insensitive and prefers an exact
// nickname match over a display-name match, then participant order. The
// resolver only ever changes the target set; the message body is left
// untouched so mentions stay visible to all participants.
package mention

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/itsonlyfabs/teamchat/core"
)

// tokenPattern matches @ followed by a run of word characters or hyphens.
// The token must sit at the start of the text or after whitespace so that
// embedded at-signs (addresses, handles inside URLs) are not misread.
var (
	tokenPattern   = regexp.MustCompile(`@([\w-]+)`)
	pendingPattern = regexp.MustCompile(`@([\w-]*)$`)
)

// Resolution is the outcome of scanning a message at send time.
type Resolution struct {
	// Targets holds matched participant ids in first-mention order, deduped.
	// Empty when no complete token matched; callers then fall back to the
	// session's active participant.
	Targets []string
	// Text is the original message, unmodified. Unmatched tokens are left
	// verbatim.
	Text string
}

// Resolve scans text for finalized mentions. Only separator-terminated
// tokens count: a token still under composition at the very end of the text
// is an autocomplete candidate (see Pending), not a send-time mention.
// Punctuation does not terminate a token, so "@atlas," resolves nothing.
func Resolve(participants []core.Participant, text string) Resolution {
	res := Resolution{Text: text}
	seen := make(map[string]struct{})

	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if !startsToken(text, start) || !terminated(text, end) {
			continue
		}
		token := text[loc[2]:loc[3]]
		p, ok := match(participants, token)
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		res.Targets = append(res.Targets, p.ID)
	}

	return res
}

// Pending reports a trailing @token still under composition, for caller-side
// autocomplete. It returns the typed prefix (possibly empty, for a bare "@")
// and the roster entries whose handle starts with it.
func Pending(participants []core.Participant, text string) (string, []core.Participant, bool) {
	loc := pendingPattern.FindStringSubmatchIndex(text)
	if loc == nil || !startsToken(text, loc[0]) {
		return "", nil, false
	}

	prefix := text[loc[2]:loc[3]]
	lower := strings.ToLower(prefix)

	var candidates []core.Participant
	for _, p := range participants {
		if strings.HasPrefix(strings.ToLower(p.Nickname), lower) ||
			strings.HasPrefix(strings.ToLower(p.DisplayName), lower) {
			candidates = append(candidates, p)
		}
	}

	return prefix, candidates, true
}

// match resolves a token against the roster: exact nickname first, then
// display name, each case-insensitive and in participant order.
func match(participants []core.Participant, token string) (core.Participant, bool) {
	for _, p := range participants {
		if p.Nickname != "" && strings.EqualFold(p.Nickname, token) {
			return p, true
		}
	}
	for _, p := range participants {
		if strings.EqualFold(p.DisplayName, token) {
			return p, true
		}
	}
	return core.Participant{}, false
}

// startsToken reports whether the @ at offset begins a token (start of text
// or preceded by whitespace).
func startsToken(text string, offset int) bool {
	if offset == 0 {
		return true
	}
	runes := []rune(text[:offset])
	return unicode.IsSpace(runes[len(runes)-1])
}

// terminated reports whether the token ending at offset is followed by a
// separator. End-of-string means the token is still under composition.
func terminated(text string, offset int) bool {
	if offset >= len(text) {
		return false
	}
	r := []rune(text[offset:])
	return unicode.IsSpace(r[0])
}
