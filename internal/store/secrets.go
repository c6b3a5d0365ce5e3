package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

// Secret path
// projects/{project}/secrets/{secretID}/versions/latest

type secretClient interface {
	GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest, opts ...gax.CallOption) (*secretmanagerpb.Secret, error)
	CreateSecret(ctx context.Context, req *secretmanagerpb.CreateSecretRequest, opts ...gax.CallOption) (*secretmanagerpb.Secret, error)
	AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.SecretVersion, error)
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// keySecretStore keeps the local token encryption key in Secret Manager.
type keySecretStore struct {
	client    secretClient
	projectID string
}

func NewKeySecretStore(client secretClient, projectID string) *keySecretStore {
	return &keySecretStore{client: client, projectID: projectID}
}

func (s *keySecretStore) secretName(secretID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secretID)
}

func (s *keySecretStore) ensureSecret(ctx context.Context, secretID string) error {
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.secretName(secretID)})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: secretID,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

// LoadOrCreate returns the latest version of the secret, generating and
// storing a random 32-byte key when the secret has no versions yet.
func (s *keySecretStore) LoadOrCreate(ctx context.Context, secretID string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.secretName(secretID) + "/versions/latest",
	})
	if err == nil {
		return string(res.GetPayload().GetData()), nil
	}
	if status.Code(err) != codes.NotFound {
		return "", errs.NewDatabaseError("access key secret", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errs.NewEncryptionError("generate token key", err)
	}
	key := base64.StdEncoding.EncodeToString(raw)

	if err := s.ensureSecret(ctx, secretID); err != nil {
		return "", errs.NewDatabaseError("create key secret", err)
	}
	_, err = s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  s.secretName(secretID),
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(key)},
	})
	if err != nil {
		return "", errs.NewDatabaseError("store key secret", err)
	}

	logger.FromContext(ctx).Info("generated token encryption key", "secret", secretID)
	return key, nil
}
