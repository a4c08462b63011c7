package handlerapi

import "github.com/pyhub/pyhub-go/providers"

// errorCodes maps vendor error tags to the normalized taxonomy. An
// unrecognized tag is deliberately NOT treated as an error here; the caller
// decides whether the remaining body is a valid success envelope and raises
// a protocol error otherwise.
var errorCodes = map[string]providers.ErrorType{
	"BAD_KEY": providers.ErrorTypeAuthentication,
	"NO_KEY":  providers.ErrorTypeAuthentication,
	"BANNED":  providers.ErrorTypeAuthentication,

	"NO_NUMBERS": providers.ErrorTypeNoNumbers,
	"NO_BALANCE": providers.ErrorTypeInsufficientBalance,

	"NO_ACTIVATION":       providers.ErrorTypeActivationNotFound,
	"WRONG_ACTIVATION_ID": providers.ErrorTypeActivationNotFound,

	"BAD_SERVICE":   providers.ErrorTypeUnsupportedService,
	"WRONG_SERVICE": providers.ErrorTypeUnsupportedService,

	"BAD_ACTION":      providers.ErrorTypeProtocol,
	"BAD_STATUS":      providers.ErrorTypeProtocol,
	"ERROR_SQL":       providers.ErrorTypeProtocol,
	"WRONG_MAX_PRICE": providers.ErrorTypeProtocol,
}

// DefaultStatusTable is the getStatus vocabulary shared by the
// SMS-Activate-compatible vendors. Adapters replace it when their vendor
// extends the set.
func DefaultStatusTable() map[string]providers.ActivationStatus {
	return map[string]providers.ActivationStatus{
		"STATUS_WAIT_CODE":   providers.StatusPending,
		"STATUS_WAIT_RESEND": providers.StatusPending,
		"STATUS_WAIT_RETRY":  providers.StatusRetrySent,
		"STATUS_OK":          providers.StatusCompleted,
		"STATUS_CANCEL":      providers.StatusCancelled,
		"ACCESS_CANCEL":      providers.StatusCancelled,
	}
}

// DefaultServiceCodes maps canonical service codes to the vendor codes used
// by the handler_api family. The dialect inherits SMS-Activate's short
// codes, so the shared table is an identity map over the services every
// vendor carries; adapters swap entries where their vendor diverges.
func DefaultServiceCodes() map[string]string {
	return map[string]string{
		"tg": "tg", // Telegram
		"wa": "wa", // WhatsApp
		"vi": "vi", // Viber
		"ig": "ig", // Instagram
		"fb": "fb", // Facebook
		"go": "go", // Google
		"tw": "tw", // Twitter/X
		"vk": "vk", // VK
		"ok": "ok", // Odnoklassniki
		"ds": "ds", // Discord
		"am": "am", // Amazon
		"nf": "nf", // Netflix
		"ub": "ub", // Uber
		"mm": "mm", // Microsoft
		"oi": "oi", // Tinder
	}
}

// Well-known setStatus values for the handler_api dialect.
const (
	StatusValueReady     = 1 // number is ready to receive
	StatusValueResendSMS = 3 // ask the vendor for another SMS
	StatusValueComplete  = 6 // finish the activation
	StatusValueCancel    = 8 // cancel the activation
)
