package entities

// StoreConfig selects where the last adapter selection is persisted
type StoreConfig struct {
	Backend     string `yaml:"backend" default:"auto"` // auto, registry or sqlite
	Path        string `yaml:"path"`                   // sqlite file, empty means the user config dir
	RegistryKey string `yaml:"registry_key" default:"Software\\NetworkInterfaceSwitcher"`
}
