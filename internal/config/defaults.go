package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"encoding":         "msgpack",
		"backend":          "auto",
		"protocol_version": "0.106.1",
		"log_level":        "warn",
		"log_file":         "",
	}
}
