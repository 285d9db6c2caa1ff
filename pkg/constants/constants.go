package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "TFG"

	AppName = "TechForGyms"
)
