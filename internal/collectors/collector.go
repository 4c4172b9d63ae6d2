package collectors

import "fmt"

// Feed is one raw subscription payload handed to the parsing core.
// Source identifies where the body came from (URL, file path, channel).
type Feed struct {
	Source string
	Body   string
}

type Collector interface {
	Collect(config map[string]interface{}) ([]Feed, error)
}

type Factory func() Collector

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Get(name string) (Collector, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("collector plugin '%s' not found", name)
	}
	return factory(), nil
}
