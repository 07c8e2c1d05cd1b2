package util

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// ReadConfig. read config file at path (yaml/json/toml, by extension). a missing file is not an error,
// defaults and environment variables are used instead.
func ReadConfig(path string) error {
	SetConfigDefaults()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path == "" {
		viper.SetConfigName("config")
		viper.AddConfigPath("./data/")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetConfigDefaults() {
	viper.SetDefault("GRAPH_FILE", "./data/map.osm.pbf")
	viper.SetDefault("LAT_COUNT", 100)
	viper.SetDefault("LON_COUNT", 100)
	viper.SetDefault("SPATIAL_SORT", false)
	viper.SetDefault("ACCESS_TYPES", 7)
	viper.SetDefault("SELF_CHECK", false)
	viper.SetDefault("ROUTE_CACHE_SIZE", 1<<14)
	viper.SetDefault("NUM_WORKERS", 0)

	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
	viper.SetDefault("NEARBY_NODES_LIMIT", 50)
}
