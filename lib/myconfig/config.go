package myconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load preloads variables from the given .env files (default ".env") into the environment.
// Variables that are already set win; a missing file is not an error.
func Load(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		err := godotenv.Load(filename)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading env-file %s: %s", filename, err)
		}
	}
	return nil
}

func Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetOr(key string, defaultValue string) string {
	if value := Get(key); value != "" {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) (int, error) {
	value := Get(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("env-var %s is not an integer: %q", key, value)
	}
	return i, nil
}

func GetBool(key string, defaultValue bool) (bool, error) {
	value := Get(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("env-var %s is not a boolean: %q", key, value)
	}
	return b, nil
}

// GetList splits a comma separated value, dropping empty elements.
func GetList(key string, defaultValue []string) []string {
	value := Get(key)
	if value == "" {
		return defaultValue
	}
	list := []string{}
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem != "" {
			list = append(list, elem)
		}
	}
	return list
}
