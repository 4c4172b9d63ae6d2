package link

import "strings"

// ParseSubscription normalizes a raw subscription body into proxy
// records. Bodies come in three shapes, tried in order: a whole-body
// base64 blob wrapping a link list, a newline-delimited list, or a
// single bare link. Unparseable candidates are dropped silently; the
// returned candidate count lets callers report parse failures without
// the splitter itself ever erroring. Output order follows input order.
func ParseSubscription(body string) (configs []*Config, candidates int) {
	// A single decode attempt, deliberately not recursive: a payload
	// that decodes to more base64 stops here instead of looping.
	if decoded := DecodeBase64IfValid(body, StdAlphabet); decoded != "" {
		body = decoded
	}

	if strings.Contains(body, "\n") {
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if len(line) < 5 || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
				continue
			}
			candidates++
			if c, err := ParseLink(line); err == nil {
				configs = append(configs, c)
			}
		}
		return configs, candidates
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, 0
	}
	candidates = 1
	if c, err := ParseLink(trimmed); err == nil {
		configs = append(configs, c)
	}
	return configs, candidates
}
