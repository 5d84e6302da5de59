// Package metrics holds the prometheus plumbing shared by the oracle
// middleware and the directory transpiler.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "intellic"

// Register registers c on reg and returns the collector that is actually
// live. When an identical collector was registered earlier (e.g. a second
// pipeline sharing the registry) the existing one is returned instead.
// A nil reg leaves c unregistered but usable.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// WriteFile dumps every metric gathered by g in the text exposition format.
func WriteFile(path string, g prometheus.Gatherer) error {
	if path == "" || g == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}
