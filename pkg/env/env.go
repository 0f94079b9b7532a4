package env

import "os"

// Get reads an environment variable, returning fallback when the variable is
// unset or empty. Deployment platforms that inject values (PORT, LOG_FORMAT)
// are read through this so local defaults stay in one place.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
