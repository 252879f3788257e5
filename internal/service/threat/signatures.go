package threat

import (
	"regexp"

	"github.com/medovate/clinic-backend/internal/domain"
)

// signature is one named attack pattern inside a family. Families scan
// independently; within a family the first matching pattern wins.
type signature struct {
	name    string
	pattern *regexp.Regexp
}

type signatureFamily struct {
	threat     domain.ThreatType
	level      domain.ThreatLevel
	signatures []signature
}

// signatureFamilies is the ordered matcher list. Adding a rule means adding
// an entry here; dispatch in scanPayload does not change.
var signatureFamilies = []signatureFamily{
	{
		threat: domain.ThreatSQLInjection,
		level:  domain.LevelHigh,
		signatures: []signature{
			{name: "union_select", pattern: regexp.MustCompile(`(?i)union[\s/*]+select`)},
			{name: "or_true", pattern: regexp.MustCompile(`(?i)['"]?\s*or\s+['"]?1['"]?\s*=\s*['"]?1`)},
			{name: "stacked_statement", pattern: regexp.MustCompile(`(?i);\s*(drop|delete|truncate|alter)\s`)},
			{name: "comment_terminator", pattern: regexp.MustCompile(`(?i)(--|#|/\*)\s*$`)},
			{name: "sleep_probe", pattern: regexp.MustCompile(`(?i)(sleep|benchmark|pg_sleep)\s*\(`)},
		},
	},
	{
		threat: domain.ThreatXSS,
		level:  domain.LevelHigh,
		signatures: []signature{
			{name: "script_tag", pattern: regexp.MustCompile(`(?i)<\s*script[^>]*>`)},
			{name: "event_handler", pattern: regexp.MustCompile(`(?i)\bon(error|load|click|mouseover)\s*=`)},
			{name: "javascript_uri", pattern: regexp.MustCompile(`(?i)javascript\s*:`)},
			{name: "iframe_tag", pattern: regexp.MustCompile(`(?i)<\s*iframe[^>]*>`)},
		},
	},
	{
		threat: domain.ThreatPathTraversal,
		level:  domain.LevelMedium,
		signatures: []signature{
			{name: "dot_dot_slash", pattern: regexp.MustCompile(`\.\./|\.\.\\`)},
			{name: "encoded_traversal", pattern: regexp.MustCompile(`(?i)%2e%2e(%2f|%5c)`)},
			{name: "etc_passwd", pattern: regexp.MustCompile(`(?i)/etc/(passwd|shadow)`)},
		},
	},
}

// signatureMatch reports which family fired and on which pattern.
type signatureMatch struct {
	family  signatureFamily
	matched string
}

// scanPayload runs every family over the payload. A payload can trip
// multiple families; each produces its own match.
func scanPayload(payload string) []signatureMatch {
	if payload == "" {
		return nil
	}
	var out []signatureMatch
	for _, family := range signatureFamilies {
		for _, sig := range family.signatures {
			if sig.pattern.MatchString(payload) {
				out = append(out, signatureMatch{family: family, matched: sig.name})
				break
			}
		}
	}
	return out
}
