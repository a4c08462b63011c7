// Package smshub implements the SMSHub adapter. SMSHub speaks the plain
// handler_api dialect with no deviations, so the shared protocol core covers
// every operation.
package smshub

import (
	"github.com/pyhub/pyhub-go/providers"
	"github.com/pyhub/pyhub-go/providers/handlerapi"
)

const defaultBaseURL = "https://smshub.org/stubs/handler_api.php"

// Adapter translates the unified operations into SMSHub HTTP calls.
type Adapter struct {
	*handlerapi.Client
}

// New creates an SMSHub adapter. No network calls happen at construction.
func New(cfg providers.ProviderConfig) *Adapter {
	return &Adapter{
		Client: handlerapi.New(handlerapi.Settings{
			Provider:             "smshub",
			DefaultBaseURL:       defaultBaseURL,
			SupportsReactivation: true,
		}, cfg),
	}
}
