// Package smsactivate implements the SMS-Activate adapter. SMS-Activate
// defines the handler_api dialect, so the shared core is used as-is.
package smsactivate

import (
	"github.com/pyhub/pyhub-go/providers"
	"github.com/pyhub/pyhub-go/providers/handlerapi"
)

const defaultBaseURL = "https://api.sms-activate.ae/stubs/handler_api.php"

// Adapter translates the unified operations into SMS-Activate HTTP calls.
type Adapter struct {
	*handlerapi.Client
}

// New creates an SMS-Activate adapter. No network calls happen at construction.
func New(cfg providers.ProviderConfig) *Adapter {
	return &Adapter{
		Client: handlerapi.New(handlerapi.Settings{
			Provider:             "smsactivate",
			DefaultBaseURL:       defaultBaseURL,
			SupportsReactivation: true,
		}, cfg),
	}
}
