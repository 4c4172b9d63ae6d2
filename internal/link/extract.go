package link

import (
	"bufio"
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`(vmess|vless|trojan|ss|socks|socks5|http|https)://[a-zA-Z0-9_\-\.\:@\?=&%#+/]+`)

// ExtractLinks pulls proxy links out of free-form text such as chat
// messages, where links are embedded in prose rather than one per line.
// Trailing punctuation glued to a link by the surrounding sentence is
// stripped. Repeated links are collapsed, first occurrence wins.
func ExtractLinks(text string) []string {
	seen := make(map[string]bool)
	var links []string

	text = strings.ReplaceAll(text, "\r\n", "\n")
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, match := range linkPattern.FindAllString(line, -1) {
			clean := strings.TrimRight(match, ".,;)\"")
			if clean != "" && !seen[clean] {
				seen[clean] = true
				links = append(links, clean)
			}
		}
	}
	return links
}
