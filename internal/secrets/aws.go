package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// AWSStore reads a JSON secret from AWS Secrets Manager.
type AWSStore struct {
	client   secretsmanageriface.SecretsManagerAPI
	secretID string
}

// NewAWSStore builds a Secrets Manager client for region using the default
// credential chain (environment, shared config, instance or task role).
func NewAWSStore(region, secretID string) (*AWSStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewAWSStoreWithClient(secretsmanager.New(sess), secretID), nil
}

// NewAWSStoreWithClient wraps an existing Secrets Manager client.
func NewAWSStoreWithClient(client secretsmanageriface.SecretsManagerAPI, secretID string) *AWSStore {
	return &AWSStore{client: client, secretID: secretID}
}

// Fetch performs one GetSecretValue round-trip.
func (a *AWSStore) Fetch(ctx context.Context) (Bundle, error) {
	out, err := a.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(a.secretID),
	})
	if err != nil {
		return nil, storeError(ProviderAWS, "get secret value", err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return nil, storeError(ProviderAWS, "get secret value", errors.New("secret has no string value"))
	}
	return ParseBundle(ProviderAWS, []byte(*out.SecretString))
}
