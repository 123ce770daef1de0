package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
)

// secretPrefix namespaces this platform's secrets in Secret Manager.
const secretPrefix = "agentic-app-platform"

// managedSecrets are fetched on startup when running inside GCP. The
// corresponding env var name is derived from the secret name.
var managedSecrets = []string{
	secretPrefix + "-auth-shared-secret",
	secretPrefix + "-posthog-api-key",
}

// secretAccessor is the slice of the Secret Manager client used here.
// Narrowed to an interface so tests can run without GCP credentials.
type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// LoadSecrets populates env vars from GCP Secret Manager when PROJECT_ID is
// set. Outside GCP, or on any failure, it leaves the environment as is: a
// missing secret is a warning, never fatal, and plain env vars win as the
// fallback. Call before Load.
func LoadSecrets(ctx context.Context, logger *slog.Logger) {
	projectID := os.Getenv("PROJECT_ID")
	if projectID == "" {
		return
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		logger.WarnContext(ctx, "secret manager unavailable, using env vars", "error", err)
		return
	}
	defer client.Close()

	loadSecretsFrom(ctx, client, projectID, logger)
}

func loadSecretsFrom(ctx context.Context, client secretAccessor, projectID string, logger *slog.Logger) {
	for _, name := range managedSecrets {
		envVar := secretNameToEnvVar(name)
		if os.Getenv(envVar) != "" {
			// Explicit env var beats Secret Manager
			continue
		}

		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
		})
		if err != nil {
			logger.WarnContext(ctx, "could not fetch secret", "secret", name, "error", err)
			continue
		}

		os.Setenv(envVar, string(resp.GetPayload().GetData()))
		logger.DebugContext(ctx, "secret loaded", "secret", name, "env_var", envVar)
	}
}

// secretNameToEnvVar converts a secret name to env var format:
// agentic-app-platform-posthog-api-key -> POSTHOG_API_KEY.
func secretNameToEnvVar(name string) string {
	name = strings.TrimPrefix(name, secretPrefix+"-")
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
