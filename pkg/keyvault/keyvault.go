package keyvault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

var ErrSecretNotFound = errors.New("secret not found")

type KeyVault struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Properties struct {
		EnableSoftDelete      bool `json:"enableSoftDelete"`
		EnablePurgeProtection bool `json:"enablePurgeProtection"`
	} `json:"properties"`
}

type Secret struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Service exposes the key vault operations the agent needs. The credential is
// the conversation's shared auth handle, passed explicitly on every call.
type Service interface {
	GetKeyVault(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		vaultName string,
	) (*KeyVault, error)
	ListSecrets(
		ctx context.Context,
		credential azcore.TokenCredential,
		vaultName string,
	) ([]*Secret, error)
	GetSecret(
		ctx context.Context,
		credential azcore.TokenCredential,
		vaultName string,
		secretName string,
	) (*Secret, error)
	SetSecret(
		ctx context.Context,
		credential azcore.TokenCredential,
		vaultName string,
		secretName string,
		secretValue string,
		dryRun bool,
	) (*Secret, error)
}

type service struct {
	armClientOptions  *arm.ClientOptions
	coreClientOptions *azcore.ClientOptions
}

// NewService creates a new key vault service
func NewService(armClientOptions *arm.ClientOptions, coreClientOptions *azcore.ClientOptions) Service {
	return &service{
		armClientOptions:  armClientOptions,
		coreClientOptions: coreClientOptions,
	}
}

func (s *service) GetKeyVault(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	vaultName string,
) (*KeyVault, error) {
	client, err := s.createVaultsClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	vault, err := client.Get(ctx, resourceGroupName, vaultName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting key vault: %w", err)
	}

	return &KeyVault{
		Id:       *vault.ID,
		Name:     *vault.Name,
		Location: *vault.Location,
		Properties: struct {
			EnableSoftDelete      bool "json:\"enableSoftDelete\""
			EnablePurgeProtection bool "json:\"enablePurgeProtection\""
		}{
			EnableSoftDelete:      convert.ToValueWithDefault(vault.Properties.EnableSoftDelete, false),
			EnablePurgeProtection: convert.ToValueWithDefault(vault.Properties.EnablePurgeProtection, false),
		},
	}, nil
}

func (s *service) ListSecrets(
	ctx context.Context,
	credential azcore.TokenCredential,
	vaultName string,
) ([]*Secret, error) {
	client, err := s.createSecretsDataClient(credential, vaultUrl(vaultName))
	if err != nil {
		return nil, err
	}

	// Listing never returns secret values, only identifiers and attributes.
	secrets := []*Secret{}
	pager := client.NewListSecretsPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing key vault secrets: %w", err)
		}

		for _, item := range page.Value {
			secrets = append(secrets, &Secret{
				Id:   item.ID.Version(),
				Name: item.ID.Name(),
			})
		}
	}

	return secrets, nil
}

func (s *service) GetSecret(
	ctx context.Context,
	credential azcore.TokenCredential,
	vaultName string,
	secretName string,
) (*Secret, error) {
	client, err := s.createSecretsDataClient(credential, vaultUrl(vaultName))
	if err != nil {
		return nil, err
	}

	response, err := client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		var httpErr *azcore.ResponseError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("getting key vault secret: %w", err)
	}

	return &Secret{
		Id:    response.SecretBundle.ID.Version(),
		Name:  response.SecretBundle.ID.Name(),
		Value: *response.SecretBundle.Value,
	}, nil
}

func (s *service) SetSecret(
	ctx context.Context,
	credential azcore.TokenCredential,
	vaultName string,
	secretName string,
	secretValue string,
	dryRun bool,
) (*Secret, error) {
	if dryRun {
		// Simulate-only path, same result shape as a real set minus the version id.
		return &Secret{Name: secretName}, nil
	}

	client, err := s.createSecretsDataClient(credential, vaultUrl(vaultName))
	if err != nil {
		return nil, err
	}

	response, err := client.SetSecret(ctx, secretName, azsecrets.SetSecretParameters{
		Value: convert.ToPtr(secretValue),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("setting key vault secret: %w", err)
	}

	return &Secret{
		Id:   response.SecretBundle.ID.Version(),
		Name: response.SecretBundle.ID.Name(),
	}, nil
}

func vaultUrl(vaultName string) string {
	if strings.Contains(strings.ToLower(vaultName), "https://") {
		return vaultName
	}
	return fmt.Sprintf("https://%s.vault.azure.net", vaultName)
}

// Creates a KeyVault client for ARM control plane operations
func (s *service) createVaultsClient(
	credential azcore.TokenCredential, subscriptionId string) (*armkeyvault.VaultsClient, error) {
	client, err := armkeyvault.NewVaultsClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating Vaults client: %w", err)
	}

	return client, nil
}

// Creates a KeyVault client for data plane operations
// Data plane client is able to fetch secret values. ARM control plane client never returns secret values.
func (s *service) createSecretsDataClient(
	credential azcore.TokenCredential,
	vaultUrl string,
) (*azsecrets.Client, error) {
	options := &azsecrets.ClientOptions{
		DisableChallengeResourceVerification: false,
	}
	if s.coreClientOptions != nil {
		options.ClientOptions = *s.coreClientOptions
	}

	return azsecrets.NewClient(vaultUrl, credential, options)
}
