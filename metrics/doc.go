// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors for the API and serves
// them at GET /metrics. Collectors are registered on the default registry
// when the package is loaded.
package metrics
