package paramstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmAPI is the subset of *ssm.Client used here.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Store reads SecureString parameters stored under a common prefix,
// e.g. "/everlight/prod".
type Store struct {
	api    ssmAPI
	prefix string
}

func New(api ssmAPI, prefix string) (*Store, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Store{api: api, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

// Path returns the full parameter name for a secret.
func (s *Store) Path(name string) string {
	return s.prefix + "/" + strings.TrimLeft(name, "/")
}

// Get returns the decrypted value of prefix/name. A parameter that does not
// exist yields an empty string and no error.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	path := s.Path(name)
	out, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &path,
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("paramstore: get parameter %q: %w", path, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("paramstore: parameter %q has no value", path)
	}
	return *out.Parameter.Value, nil
}

func boolPtr(b bool) *bool { return &b }
