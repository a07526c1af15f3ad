// Package infra contains technical adapters such as the MQTT forecast
// client, the zone registry loader and metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
