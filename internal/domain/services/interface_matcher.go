package services

import (
	"regexp"
	"strings"
)

// InterfaceMatcher holds the string-matching policy used to filter interfaces
// by keyword and to correlate interface names across the shortened and long
// forms vendors report ("Gi0/1", "GigabitEthernet0/1", "Switch port Gi0/1").
type InterfaceMatcher struct {
	keywords []string
}

// portSuffixPattern matches a trailing interface-type prefix plus a numeric,
// slash-separated port path ("gig1/2/0/21"). The port path must end in a
// digit; a trailing slash is an incomplete path and never matches.
var portSuffixPattern = regexp.MustCompile(`([a-z]+)(\d+(?:/\d+)*)$`)

// NewInterfaceMatcher creates a matcher for the given keyword list.
func NewInterfaceMatcher(keywords []string) *InterfaceMatcher {
	return &InterfaceMatcher{keywords: keywords}
}

// MatchesKeyword reports whether name contains any configured keyword,
// case-insensitively. An empty name never matches.
func (m *InterfaceMatcher) MatchesKeyword(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, keyword := range m.keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// NamesEquivalent reports whether two interface identifiers refer to the same
// interface. Rules are evaluated in order, first decision wins:
//
//  1. case-insensitive equality;
//  2. if both names end in a type-prefix + port-path suffix, they are
//     equivalent iff prefix and port path are both exactly equal; the
//     comparison is decided here and never falls through, which keeps
//     "Gig1/2/0/2" from matching "Gig1/2/0/21";
//  3. a name ending in "/" carries an incomplete port path and matches nothing;
//  4. otherwise the shorter name is an abbreviation of the longer iff the
//     longer ends with it or contains it as a whitespace-separated token.
//
// The relation is symmetric in its arguments.
func (m *InterfaceMatcher) NamesEquivalent(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	if la == lb {
		return true
	}

	suffixA := portSuffixPattern.FindStringSubmatch(la)
	suffixB := portSuffixPattern.FindStringSubmatch(lb)
	if suffixA != nil && suffixB != nil {
		return suffixA[1] == suffixB[1] && suffixA[2] == suffixB[2]
	}

	if strings.HasSuffix(la, "/") || strings.HasSuffix(lb, "/") {
		return false
	}

	shorter, longer := la, lb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.HasSuffix(longer, shorter) {
		return true
	}
	for _, token := range strings.Fields(longer) {
		if token == shorter {
			return true
		}
	}
	return false
}
