package xmla

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// AnalysisServicesScope is the OAuth2 scope requested for tokens used against
// cloud-hosted dataset XMLA endpoints.
const AnalysisServicesScope = "https://analysis.windows.net/powerbi/api/.default"

// TokenProvider supplies bearer tokens for cloud-hosted endpoints.
type TokenProvider interface {
	// GetToken returns a valid access token and its expiry time.
	GetToken(ctx context.Context) (string, time.Time, error)
}

// ServicePrincipalProvider acquires tokens using Service Principal
// credentials. This is the primary authentication method for CI/CD pipelines.
type ServicePrincipalProvider struct {
	tenantID   string
	clientID   string
	credential *azidentity.ClientSecretCredential
}

// NewServicePrincipalProvider creates a token provider for Service Principal
// auth. All three parameters (tenantID, clientID, clientSecret) are required.
func NewServicePrincipalProvider(tenantID, clientID, clientSecret string) (*ServicePrincipalProvider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("service principal auth requires tenantID, clientID, and clientSecret")
	}

	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return &ServicePrincipalProvider{
		tenantID:   tenantID,
		clientID:   clientID,
		credential: cred,
	}, nil
}

func (p *ServicePrincipalProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AnalysisServicesScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *ServicePrincipalProvider) String() string {
	return fmt.Sprintf("ServicePrincipal(tenant=%s, client=%s)", p.tenantID, p.clientID)
}

// DefaultCredentialProvider uses Azure's DefaultAzureCredential chain:
// environment variables, workload identity, managed identity, Azure CLI.
// This is the fallback for local development, where the operator is usually
// already signed in through the CLI.
type DefaultCredentialProvider struct {
	credential azcore.TokenCredential
}

// NewDefaultCredentialProvider creates a provider using the default
// credential chain.
func NewDefaultCredentialProvider() (*DefaultCredentialProvider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}

	return &DefaultCredentialProvider{credential: cred}, nil
}

func (p *DefaultCredentialProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AnalysisServicesScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *DefaultCredentialProvider) String() string {
	return "DefaultAzureCredential"
}
