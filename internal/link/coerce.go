package link

import (
	"encoding/json"
	"strconv"
)

// flexInt unmarshals from either a JSON number or its string form.
// Legacy vmess payloads encode "port" and "aid" both ways.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*i = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unknown shape (null, object). Treat as unset rather than
		// failing the whole payload.
		*i = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		*i = 0
		return nil
	}
	*i = flexInt(n)
	return nil
}

// flexString tolerates non-string scalars (null, booleans) that some
// generators emit for nominally string fields such as "tls".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = ""
	return nil
}
