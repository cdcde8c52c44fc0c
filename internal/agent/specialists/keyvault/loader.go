// Package keyvault implements the Key Vault specialist: secret listing,
// retrieval, and updates over the data plane of a named vault.
package keyvault

import (
	"strings"

	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	kv "github.com/wqeqwqeq/AzureAgent/pkg/keyvault"
)

const SpecialistID = "key_vault"

type Specialist struct {
	operations []agent.Operation
}

func New(service kv.Service) *Specialist {
	return &Specialist{
		operations: []agent.Operation{
			&ListSecretsOperation{service: service},
			&GetSecretOperation{service: service},
			&SetSecretOperation{service: service},
			&GetKeyVaultOperation{service: service},
		},
	}
}

func (s *Specialist) ID() string {
	return SpecialistID
}

func (s *Specialist) Description() string {
	return "Manages secrets in an Azure Key Vault: list secret names, read secret values, set or update secrets."
}

func (s *Specialist) Keywords() []string {
	return []string{"key vault", "keyvault", "vault", "secret", "secrets"}
}

func (s *Specialist) RequiredFields() []agent.Field {
	return []agent.Field{agent.FieldResourceGroup, agent.FieldResourceName}
}

func (s *Specialist) Operations() []agent.Operation {
	return s.operations
}

// Plan maps the utterance onto secret operations. Secret names extracted from
// the text are operation arguments: asking for the value of two secrets plans
// one get_secret invocation per name.
func (s *Specialist) Plan(utterance string, extraction agent.Extraction) []agent.Invocation {
	lower := strings.ToLower(utterance)
	secrets := extraction.ArgsOfKind(agent.ArgKindSecret)
	values := extraction.ArgsOfKind(agent.ArgKindSecretValue)

	if len(secrets) == 0 {
		// vault-level questions without any secret mention target the vault itself
		if strings.Contains(lower, "propert") || strings.Contains(lower, "detail") ||
			strings.Contains(lower, "soft delete") || strings.Contains(lower, "purge") {
			return []agent.Invocation{{Operation: "get_key_vault", Args: agent.Args{}}}
		}
		return []agent.Invocation{{Operation: "list_secrets", Args: agent.Args{}}}
	}

	if len(values) > 0 || strings.Contains(lower, "set ") || strings.Contains(lower, "update ") ||
		strings.Contains(lower, "create ") {
		invocations := []agent.Invocation{}
		for i, name := range secrets {
			args := agent.Args{"name": name}
			if i < len(values) {
				args["value"] = values[i]
			}
			invocations = append(invocations, agent.Invocation{Operation: "set_secret", Args: args})
		}
		return invocations
	}

	invocations := []agent.Invocation{}
	for _, name := range secrets {
		invocations = append(invocations, agent.Invocation{
			Operation: "get_secret",
			Args:      agent.Args{"name": name},
		})
	}
	return invocations
}
