package env

import (
	"os"

	"github.com/joho/godotenv"
)

// envPrefix namespaces process-level overrides so deployments can set
// LEAGUEHQ_DB_HOST without clobbering unrelated services on the same box.
const envPrefix = "LEAGUEHQ_"

var Env map[string]string

// GetEnv resolves key from the loaded .env map first, then from
// LEAGUEHQ_-prefixed process variables, then from the bare variable, and
// finally falls back to def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func SetupEnvFile() {
	envFiles := []string{
		".env",          // current directory
		"../../.env",    // from cmd/leaguehq to project root
		"../../../.env", // fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	panic("No .env file found in any of the expected locations")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
