package ft

import "regexp"

// The tearsheet markup is not stable: depending on the page variant the
// xid shows up as a bare key-value (xid: 123 / xid="123"), quoted inside
// script blocks (xid: '123'), or HTML-entity escaped
// (&quot;xid&quot;:&quot;123&quot;). One pattern with alternation covers
// all of them; the first numeric match wins.
var xidPattern = regexp.MustCompile(
	`(?i)(?:xid|&quot;xid&quot;)\s*[:=]\s*(?:["']|&quot;)?(\d+)(?:["']|&quot;)?`,
)

// ExtractXID scans raw tearsheet markup for the provider's internal
// symbol identifier. Pure function over the text so it can be tested
// against fixture strings.
func ExtractXID(content string) (string, bool) {
	m := xidPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
