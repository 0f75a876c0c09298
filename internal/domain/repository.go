package domain

import "encoding/json"

// Namespaces and keys under which settings are persisted
const (
	SafetyGateNamespace = "safety_gate.json"
	SafetyGateKey       = "safety_gate"
	AntiBanNamespace    = "anti_ban_config.json"
	AntiBanKey          = "anti_ban"
	ProxyNamespace      = "proxy_config.json"
	ProxyKey            = "proxy"
	SettingsNamespace   = "settings.json"
	DownloadPathKey     = "downloadPath"
)

// ConfigStore persists JSON values grouped by namespace.
// Set stages a value that Get sees immediately; Save makes a namespace durable.
type ConfigStore interface {
	Get(namespace, key string) (json.RawMessage, error)
	Set(namespace, key string, value json.RawMessage) error
	Save(namespace string) error
	Close() error
}
