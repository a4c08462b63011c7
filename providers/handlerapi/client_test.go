package handlerapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pyhub/pyhub-go/providers"
)

// newTestClient points a protocol client at an httptest vendor.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Settings{
		Provider:             "smshub",
		DefaultBaseURL:       srv.URL,
		SupportsReactivation: true,
	}, providers.ProviderConfig{
		APIKey:       "test_key",
		PollInterval: time.Millisecond,
	})
}

// respond writes a plain-text vendor envelope.
func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

// An injected transport keeps the caller's retry policy untouched.
func TestNew_InjectedClientKeepsRetryPolicy(t *testing.T) {
	injected := resty.New().SetRetryCount(2)

	client := New(Settings{Provider: "smshub", DefaultBaseURL: "https://example.invalid"},
		providers.ProviderConfig{APIKey: "k", HTTPClient: injected})

	if client.http != injected {
		t.Fatal("injected transport was replaced")
	}
	if injected.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2 (caller policy mutated)", injected.RetryCount)
	}
}

func TestGetBalance(t *testing.T) {
	client := newTestClient(t, respond("ACCESS_BALANCE:100.50"))

	balance, err := client.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("GetBalance() error: %v", err)
	}
	if balance.Amount != 100.50 {
		t.Errorf("Amount = %v, want 100.50", balance.Amount)
	}
	if balance.Currency != providers.DefaultCurrency {
		t.Errorf("Currency = %s, want %s", balance.Currency, providers.DefaultCurrency)
	}
}

func TestGetBalance_Idempotent(t *testing.T) {
	client := newTestClient(t, respond("ACCESS_BALANCE:42.25"))

	first, err := client.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("first GetBalance() error: %v", err)
	}
	second, err := client.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("second GetBalance() error: %v", err)
	}
	if *first != *second {
		t.Errorf("balances differ: %+v vs %+v", first, second)
	}
}

func TestGetBalance_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType providers.ErrorType
	}{
		{"bad key", "BAD_KEY", providers.ErrorTypeAuthentication},
		{"no key", "NO_KEY", providers.ErrorTypeAuthentication},
		{"banned with detail", "BANNED:2026-09-01", providers.ErrorTypeAuthentication},
		{"sql error", "ERROR_SQL", providers.ErrorTypeProtocol},
		{"malformed envelope", "WHATEVER_THIS_IS", providers.ErrorTypeProtocol},
		{"empty body", "", providers.ErrorTypeProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.body))

			_, err := client.GetBalance(context.Background())
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if got := providers.GetErrorType(err); got != tt.wantType {
				t.Errorf("error type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestGetBalance_BadKeyIsNeverProtocolError(t *testing.T) {
	client := newTestClient(t, respond("BAD_KEY"))

	_, err := client.GetBalance(context.Background())
	if !providers.IsAuthenticationError(err) {
		t.Errorf("expected authentication error, got %v", err)
	}
	if providers.IsProtocolError(err) {
		t.Errorf("bad key misclassified as protocol error: %v", err)
	}
}

func TestGetNumber(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte("ACCESS_NUMBER:12345:79991234567"))
	})

	activation, err := client.GetNumber(context.Background(), "tg", 0)
	if err != nil {
		t.Fatalf("GetNumber() error: %v", err)
	}

	if activation.ActivationID != "12345" {
		t.Errorf("ActivationID = %s, want 12345", activation.ActivationID)
	}
	if activation.PhoneNumber != "79991234567" {
		t.Errorf("PhoneNumber = %s, want 79991234567", activation.PhoneNumber)
	}
	if activation.Status != providers.StatusPending {
		t.Errorf("Status = %s, want %s", activation.Status, providers.StatusPending)
	}
	if got := query["action"]; len(got) != 1 || got[0] != "getNumber" {
		t.Errorf("action = %v, want getNumber", got)
	}
	if got := query["service"]; len(got) != 1 || got[0] != "tg" {
		t.Errorf("service = %v, want tg", got)
	}
}

func TestGetNumber_SendsNoOperator(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte("ACCESS_NUMBER:12345:79991234567"))
	})

	if _, err := client.GetNumber(context.Background(), "tg", 0); err != nil {
		t.Fatalf("GetNumber() error: %v", err)
	}
	if _, ok := query["operator"]; ok {
		t.Errorf("operator param sent without a selection: %v", query["operator"])
	}
}

func TestGetNumberWithOperator(t *testing.T) {
	tests := []struct {
		name         string
		country      int
		operator     string
		wantOperator string
	}{
		{"honored for country 73", 73, "mts", "mts"},
		{"downgraded elsewhere", 0, "mts", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query map[string][]string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				query = r.URL.Query()
				_, _ = w.Write([]byte("ACCESS_NUMBER:12345:79991234567"))
			})

			_, err := client.GetNumberWithOperator(context.Background(), "tg", tt.country, tt.operator)
			if err != nil {
				t.Fatalf("GetNumberWithOperator() error: %v", err)
			}
			if got := query["operator"]; len(got) != 1 || got[0] != tt.wantOperator {
				t.Errorf("operator = %v, want %s", got, tt.wantOperator)
			}
		})
	}
}

func TestGetNumber_VendorErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType providers.ErrorType
	}{
		{"no numbers", "NO_NUMBERS", providers.ErrorTypeNoNumbers},
		{"no balance", "NO_BALANCE", providers.ErrorTypeInsufficientBalance},
		{"bad service", "BAD_SERVICE", providers.ErrorTypeUnsupportedService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.body))

			_, err := client.GetNumber(context.Background(), "tg", 0)
			if got := providers.GetErrorType(err); got != tt.wantType {
				t.Errorf("error type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestGetNumber_NoNumbersIsRetryable(t *testing.T) {
	client := newTestClient(t, respond("NO_NUMBERS"))

	_, err := client.GetNumber(context.Background(), "tg", 0)
	if !providers.Retryable(err) {
		t.Errorf("no-numbers should be retryable, got %v", err)
	}
}

func TestGetNumber_UnsupportedService(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := client.GetNumber(context.Background(), "definitely-not-a-service", 0)
	if got := providers.GetErrorType(err); got != providers.ErrorTypeUnsupportedService {
		t.Errorf("error type = %s, want %s", got, providers.ErrorTypeUnsupportedService)
	}
	if requests != 0 {
		t.Errorf("unsupported service reached the network: %d requests", requests)
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus providers.ActivationStatus
		wantCode   string
	}{
		{"waiting", "STATUS_WAIT_CODE", providers.StatusPending, ""},
		{"retry with old code", "STATUS_WAIT_RETRY:1234", providers.StatusRetrySent, "1234"},
		{"delivered", "STATUS_OK:654321", providers.StatusCompleted, "654321"},
		{"cancelled", "STATUS_CANCEL", providers.StatusCancelled, ""},
		{"access cancel", "ACCESS_CANCEL", providers.StatusCancelled, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, respond(tt.body))

			status, code, err := client.GetStatus(context.Background(), "12345")
			if err != nil {
				t.Fatalf("GetStatus() error: %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %s, want %s", status, tt.wantStatus)
			}
			if code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestGetStatus_UnknownTag(t *testing.T) {
	client := newTestClient(t, respond("STATUS_SOMETHING_NEW"))

	_, _, err := client.GetStatus(context.Background(), "12345")
	if !providers.IsProtocolError(err) {
		t.Errorf("expected protocol error for unknown tag, got %v", err)
	}
}

func TestGetStatus_WrongActivationID(t *testing.T) {
	client := newTestClient(t, respond("NO_ACTIVATION"))

	_, _, err := client.GetStatus(context.Background(), "99999")
	if !providers.IsActivationNotFoundError(err) {
		t.Errorf("expected activation-not-found, got %v", err)
	}
}

func TestGetSMS_ZeroTimeoutReturnsNilWhilePending(t *testing.T) {
	client := newTestClient(t, respond("STATUS_WAIT_CODE"))

	sms, err := client.GetSMS(context.Background(), "12345", &providers.PollOptions{Timeout: 0})
	if err != nil {
		t.Fatalf("GetSMS() error: %v", err)
	}
	if sms != nil {
		t.Errorf("expected nil code within zero budget, got %+v", sms)
	}
}

func TestGetSMS_CodeArrivesMidPoll(t *testing.T) {
	responses := []string{"STATUS_WAIT_CODE", "STATUS_WAIT_CODE", "STATUS_OK:4412"}
	polls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := responses[len(responses)-1]
		if polls < len(responses) {
			body = responses[polls]
		}
		polls++
		_, _ = w.Write([]byte(body))
	})

	sms, err := client.GetSMS(context.Background(), "12345", &providers.PollOptions{
		Timeout:  time.Second,
		Interval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("GetSMS() error: %v", err)
	}
	if sms == nil {
		t.Fatal("expected a code, got nil")
	}
	if sms.Code != "4412" {
		t.Errorf("Code = %s, want 4412", sms.Code)
	}
	if sms.ActivationID != "12345" {
		t.Errorf("ActivationID = %s, want 12345", sms.ActivationID)
	}
	if sms.ReceivedAt.IsZero() {
		t.Error("ReceivedAt not set")
	}
	if polls != 3 {
		t.Errorf("polls = %d, want 3", polls)
	}
}

func TestGetSMS_TerminalStatusFails(t *testing.T) {
	client := newTestClient(t, respond("STATUS_CANCEL"))

	_, err := client.GetSMS(context.Background(), "12345", &providers.PollOptions{Timeout: time.Second})
	if !providers.IsActivationFailedError(err) {
		t.Errorf("expected activation-failed, got %v", err)
	}
}

func TestGetSMS_CompletedActivationAnswersFromCache(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("STATUS_OK:8899"))
	})

	first, err := client.GetSMS(context.Background(), "777", nil)
	if err != nil {
		t.Fatalf("first GetSMS() error: %v", err)
	}
	second, err := client.GetSMS(context.Background(), "777", nil)
	if err != nil {
		t.Fatalf("second GetSMS() error: %v", err)
	}

	if first != second {
		t.Error("expected the cached SmsCode instance on the second call")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second call must not hit the network)", requests)
	}
}

func TestGetSMS_ContextCancellation(t *testing.T) {
	client := newTestClient(t, respond("STATUS_WAIT_CODE"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := client.GetSMS(ctx, "12345", &providers.PollOptions{
		Timeout:  time.Minute,
		Interval: 50 * time.Millisecond,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte("ACCESS_READY"))
	})

	if err := client.SetStatus(context.Background(), "12345", StatusValueReady); err != nil {
		t.Fatalf("SetStatus() error: %v", err)
	}
	if got := query["status"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("status param = %v, want 1", got)
	}
}

func TestGetNewSMS_ResendsThenPolls(t *testing.T) {
	var actions []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		action := r.URL.Query().Get("action")
		actions = append(actions, action)
		switch action {
		case "setStatus":
			_, _ = w.Write([]byte("ACCESS_RETRY_GET"))
		default:
			_, _ = w.Write([]byte("STATUS_OK:2468"))
		}
	})

	sms, err := client.GetNewSMS(context.Background(), "12345", &providers.PollOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("GetNewSMS() error: %v", err)
	}
	if sms.Code != "2468" {
		t.Errorf("Code = %s, want 2468", sms.Code)
	}
	if len(actions) != 2 || actions[0] != "setStatus" || actions[1] != "getStatus" {
		t.Errorf("actions = %v, want [setStatus getStatus]", actions)
	}
}

func TestReactivateNumber(t *testing.T) {
	var actions []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		action := r.URL.Query().Get("action")
		actions = append(actions, action)
		switch action {
		case "getExtraActivation":
			_, _ = w.Write([]byte("ACCESS_NUMBER:67890:79990000000"))
		case "setStatus":
			_, _ = w.Write([]byte("ACCESS_READY"))
		}
	})

	activation, err := client.ReactivateNumber(context.Background(), "12345")
	if err != nil {
		t.Fatalf("ReactivateNumber() error: %v", err)
	}
	if activation.ActivationID != "67890" {
		t.Errorf("ActivationID = %s, want 67890", activation.ActivationID)
	}
	if activation.Status != providers.StatusPending {
		t.Errorf("Status = %s, want %s", activation.Status, providers.StatusPending)
	}
	if len(actions) != 2 || actions[0] != "getExtraActivation" || actions[1] != "setStatus" {
		t.Errorf("actions = %v, want [getExtraActivation setStatus]", actions)
	}
}

func TestReactivateNumber_UnknownID(t *testing.T) {
	client := newTestClient(t, respond("WRONG_ACTIVATION_ID"))

	_, err := client.ReactivateNumber(context.Background(), "nope")
	if !providers.IsActivationNotFoundError(err) {
		t.Errorf("expected activation-not-found, got %v", err)
	}
}

func TestReactivateNumber_Unsupported(t *testing.T) {
	srv := httptest.NewServer(respond("ACCESS_NUMBER:1:2"))
	t.Cleanup(srv.Close)

	client := New(Settings{Provider: "limited", DefaultBaseURL: srv.URL},
		providers.ProviderConfig{APIKey: "k"})

	_, err := client.ReactivateNumber(context.Background(), "12345")
	if got := providers.GetErrorType(err); got != providers.ErrorTypeUnsupportedOperation {
		t.Errorf("error type = %s, want %s", got, providers.ErrorTypeUnsupportedOperation)
	}
}

func TestRequest_HTTPErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Request(context.Background(), "getBalance", nil)
	if !providers.IsProtocolError(err) {
		t.Errorf("expected protocol error for HTTP 502, got %v", err)
	}
}

func TestRequest_SendsAPIKey(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte("ACCESS_BALANCE:1"))
	})

	if _, err := client.GetBalance(context.Background()); err != nil {
		t.Fatalf("GetBalance() error: %v", err)
	}
	if got := query["api_key"]; len(got) != 1 || got[0] != "test_key" {
		t.Errorf("api_key = %v, want test_key", got)
	}
}
