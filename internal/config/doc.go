// Package config provides settings loading, merging, and validation for a
// service built on the SDK.
//
// Settings are assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. YAML settings file
//  4. JSON settings file
//
// The merged [Settings] are wrapped in a [SettingsReader], which is the
// provider every subsystem reads from. The reader satisfies one small
// interface per concern ([ServiceInfo], [TelemetrySettings], [SeqSettings],
// [StorageSettings], [PubSubSettings], [AuthSettings]) and resolves which
// optional capabilities are configured through a binding table.
package config
