package resource

import (
	"log"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

// ${NAME} or ${NAME:default}, anywhere inside a value
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?}`)

func init() {
	path, ok := os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		path = "configs/application.yml"
	}
	if err := Init(path); err != nil {
		log.Printf("Properties not loaded, using defaults: %v", err)
	}
}

// Init reads the yml file at path into the global viper instance, expanding
// environment placeholders in every string value.
func Init(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yml")
	if err := viper.ReadInConfig(); err != nil {
		return err
	}

	resolved := make(map[string]any)
	walk("", viper.AllSettings(), resolved)
	for key, value := range resolved {
		viper.Set(key, value)
	}
	return nil
}

func walk(prefix string, data map[string]any, out map[string]any) {
	for key, value := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			walk(key, v, out)
		case string:
			out[key] = expand(v)
		default:
			out[key] = v
		}
	}
}

// expand replaces each placeholder with its env value, or its default when
// the variable is unset. No default means the empty string.
func expand(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(placeholder string) string {
		groups := envPattern.FindStringSubmatch(placeholder)
		if env, ok := os.LookupEnv(groups[1]); ok {
			return env
		}
		return groups[2]
	})
}

// blank reports keys that are unset or resolved to the empty string
func blank(key string) bool {
	return !viper.IsSet(key) || viper.GetString(key) == ""
}

func GetString(key string) string {
	return viper.GetString(key)
}

// GetStringOr returns fallback when key is blank.
func GetStringOr(key, fallback string) string {
	if blank(key) {
		return fallback
	}
	return viper.GetString(key)
}

func GetIntOr(key string, fallback int) int {
	if blank(key) {
		return fallback
	}
	return viper.GetInt(key)
}

func GetDurationOr(key string, fallback time.Duration) time.Duration {
	if blank(key) {
		return fallback
	}
	return viper.GetDuration(key)
}

func GetBoolOr(key string, fallback bool) bool {
	if blank(key) {
		return fallback
	}
	return viper.GetBool(key)
}
