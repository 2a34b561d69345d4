package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// UploadConfig contains defaults and caps for trip file processing
type UploadConfig struct {
	LimitRows int `yaml:"limit_rows" validate:"gte=0,lte=1000000"`
	TopN      int `yaml:"top_n" validate:"gte=0,lte=500"`
}

// ZonesConfig contains optional zone seeding configuration
type ZonesConfig struct {
	// LookupCSV points at a TLC zone lookup table
	// (LocationID,Borough,Zone,service_zone). Empty disables seeding.
	LookupCSV string `yaml:"lookup_csv"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Upload UploadConfig `yaml:"upload"`
	Zones  ZonesConfig  `yaml:"zones"`
}
