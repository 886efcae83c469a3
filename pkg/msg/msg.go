package msg

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Bundle holds log and response messages keyed by their dotted yml path.
// Placeholders are written {0}, {1}, ... and replaced positionally.
type Bundle struct {
	mu       sync.RWMutex
	messages map[string]string
}

var defaultBundle = NewBundle()

func init() {
	path, ok := os.LookupEnv("MESSAGES_FILE_PATH")
	if !ok {
		path = "configs/messages.yml"
	}
	if err := defaultBundle.Load(path); err != nil {
		log.Printf("Messages not loaded: %v", err)
	}
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{messages: make(map[string]string)}
}

// Init loads the file at path into the default bundle.
func Init(path string) error {
	return defaultBundle.Load(path)
}

// GetMessage formats key from the default bundle.
func GetMessage(key string, args ...any) string {
	return defaultBundle.Get(key, args...)
}

// Load reads a yml file and merges its keys over the ones already loaded.
// A separate viper instance keeps messages out of the application properties.
func (b *Bundle) Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	loaded := make(map[string]string)
	flatten("", v.AllSettings(), loaded)

	b.mu.Lock()
	defer b.mu.Unlock()
	for key, value := range loaded {
		b.messages[key] = value
	}
	return nil
}

// Has reports whether key is present.
func (b *Bundle) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.messages[key]
	return ok
}

// Get returns the message for key with its placeholders replaced.
func (b *Bundle) Get(key string, args ...any) string {
	b.mu.RLock()
	message, ok := b.messages[key]
	b.mu.RUnlock()
	if !ok {
		return "Message not found: " + key
	}
	if len(args) == 0 {
		return message
	}

	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", format(arg))
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

func flatten(prefix string, data map[string]any, out map[string]string) {
	for key, value := range data {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[key] = v
		case map[string]any:
			flatten(key, v, out)
		default:
			log.Printf("Ignoring message key '%s' with unsupported type %T", key, value)
		}
	}
}

// format renders scalars, errors and Stringers as text and everything else
// as JSON.
func format(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// named scalar types such as enums
	switch reflect.ValueOf(arg).Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64:
		return fmt.Sprint(arg)
	}
	if raw, err := json.Marshal(arg); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", arg)
}
