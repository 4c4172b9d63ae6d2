package publishers

import (
	"encoding/base64"
	"strings"

	"confcollect/internal/link"
	"confcollect/internal/logger"
	"confcollect/internal/model"
)

// GenerateSubscriptionPayload rebuilds a subscription body from stored
// records. Records whose Raw link no longer parses are dropped, and the
// remark is rewritten as "[flag] [country] original-name" so clients
// group servers sensibly. With config["base64"] the whole payload is
// encoded the way most clients expect a remote subscription.
func GenerateSubscriptionPayload(records []model.Record, config map[string]interface{}) (string, error) {
	seen := make(map[string]bool)
	var lines []string

	for _, rec := range records {
		if seen[rec.Key] {
			continue
		}
		seen[rec.Key] = true

		c, err := link.ParseLink(rec.Raw)
		if err != nil {
			logger.Log.Debugf("⚠️ Publisher dropped stale record %s: %v", rec.Key, err)
			continue
		}

		if rec.Country != "" {
			c.Name = strings.TrimSpace(getFlagEmoji(rec.Country) + " " + rec.Country + " " + c.Name)
		}
		lines = append(lines, c.ToURI())
	}

	payload := strings.Join(lines, "\n")

	useBase64, _ := config["base64"].(bool)
	if useBase64 {
		return base64.StdEncoding.EncodeToString([]byte(payload)), nil
	}
	return payload, nil
}

func getFlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌐"
	}
	countryCode = strings.ToUpper(countryCode)
	return string(rune(countryCode[0])+127397) + string(rune(countryCode[1])+127397)
}
