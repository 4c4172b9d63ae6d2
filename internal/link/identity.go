package link

import "fmt"

// CanonicalKey derives the identity string used to collapse duplicate
// records across subscriptions: two records are duplicates iff their
// keys are equal. Only the endpoint triple participates; display names,
// credentials and transport options do not. The key is case-sensitive
// and performs no hostname normalization.
func (c *Config) CanonicalKey() string {
	return fmt.Sprintf("%s://%s:%d", c.Kind, c.Server, c.Port)
}
