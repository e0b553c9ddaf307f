package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	GinMode           string `mapstructure:"GIN_MODE"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	MaxResamplePoints int    `mapstructure:"MAX_RESAMPLE_POINTS"`
	DownloadName      string `mapstructure:"DOWNLOAD_NAME"`
	Creator           string `mapstructure:"CREATOR"`
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("MAX_RESAMPLE_POINTS", 1<<20)
	v.SetDefault("DOWNLOAD_NAME", "updated.gpx")
	v.SetDefault("CREATOR", "gpxedit")

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}
