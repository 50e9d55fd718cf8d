package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func InitSecretManager(ctx context.Context) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx)
}

// Secrets path
// projects/{project}/secrets/{secret}/versions/latest

func secretVersionName(projectID, secret string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secret)
}

// AccessSecret reads the latest version of a secret's payload.
func AccessSecret(ctx context.Context, client *secretmanager.Client, projectID, secret string) ([]byte, error) {
	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(projectID, secret),
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, fmt.Errorf("secret %q not found in project %q", secret, projectID)
		case codes.PermissionDenied:
			return nil, fmt.Errorf("no access to secret %q: %w", secret, err)
		}
		return nil, fmt.Errorf("access secret %q: %w", secret, err)
	}
	return res.GetPayload().GetData(), nil
}
