package secrets

import (
	"context"
	"os"
	"strings"
)

// EnvStore builds a bundle from environment variables carrying a prefix, so
// SECRET_API_KEY becomes API_KEY. Intended for local development.
type EnvStore struct {
	prefix  string
	environ func() []string
}

func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{prefix: prefix, environ: os.Environ}
}

func (e *EnvStore) Fetch(ctx context.Context) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(ProviderEnv, "read environment", err)
	}
	b := Bundle{}
	for _, kv := range e.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}
		if key := strings.TrimPrefix(name, e.prefix); key != "" {
			b[key] = value
		}
	}
	return b, nil
}
