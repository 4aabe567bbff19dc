package checkoutbog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MarcGrol/bogrelay/lib/myconfig"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

// Variant selects which of the two mutually incompatible processor apis is used.
type Variant string

const (
	VariantEcommerce   Variant = "ecommerce"
	VariantInstallment Variant = "installment"
)

type endpoints struct {
	tokenURL                string
	orderURL                string
	callbackSuccessStatuses []string
}

var variantDefaults = map[Variant]endpoints{
	VariantEcommerce: {
		tokenURL:                "https://oauth2.bog.ge/auth/realms/bog/protocol/openid-connect/token",
		orderURL:                "https://api.bog.ge/payments/v1/ecommerce/orders",
		callbackSuccessStatuses: []string{"completed"},
	},
	VariantInstallment: {
		tokenURL:                "https://installment.bog.ge/v1/oauth2/token",
		orderURL:                "https://installment.bog.ge/v1/installment/checkout",
		callbackSuccessStatuses: []string{"success"},
	},
}

// Config is loaded once at startup and never modified afterwards.
type Config struct {
	Port                    string
	Variant                 Variant
	Credentials             oauthclient.ClientCredentials
	TokenURL                string
	OrderURL                string
	PublicBaseURL           string
	CheckoutPath            string
	CallbackPath            string
	SuccessURL              string
	FailURL                 string
	RejectURL               string
	SourcePrefix            string
	Currency                string
	Locale                  string
	OrderTTLMinutes         int
	PlanPolicy              checkoutapi.PlanPolicy
	RejectStatus            int
	CallbackSuccessStatuses []string
	CallbackForwardURL      string
	AllowedOrigins          []string
	HTTPTimeout             time.Duration
	// FakeProcessor replaces the token exchange and order submission by local fakes
	FakeProcessor           bool
}

func LoadConfig() (Config, error) {
	variant := Variant(strings.ToLower(myconfig.GetOr("BOG_API_VARIANT", string(VariantEcommerce))))
	defaults, found := variantDefaults[variant]
	if !found {
		return Config{}, fmt.Errorf("BOG_API_VARIANT must be %q or %q, got %q", VariantEcommerce, VariantInstallment, variant)
	}

	cfg := Config{
		Port:    myconfig.GetOr("PORT", "8080"),
		Variant: variant,
		Credentials: oauthclient.ClientCredentials{
			ClientID:     myconfig.Get("BOG_CLIENT_ID"),
			ClientSecret: myconfig.Get("BOG_SECRET_KEY"),
		},
		TokenURL:                myconfig.GetOr("BOG_TOKEN_URL", defaults.tokenURL),
		OrderURL:                myconfig.GetOr("BOG_ORDER_URL", defaults.orderURL),
		PublicBaseURL:           publicBaseURL(),
		CheckoutPath:            myconfig.GetOr("CHECKOUT_PATH", "/checkout"),
		CallbackPath:            myconfig.GetOr("CALLBACK_PATH", "/callback"),
		SuccessURL:              myconfig.Get("SUCCESS_REDIRECT_URL"),
		FailURL:                 myconfig.Get("FAIL_REDIRECT_URL"),
		RejectURL:               myconfig.Get("REJECT_REDIRECT_URL"),
		SourcePrefix:            myconfig.GetOr("ORDER_ID_PREFIX", "shopify"),
		Currency:                myconfig.GetOr("CURRENCY", "GEL"),
		Locale:                  myconfig.GetOr("LOCALE", "ka"),
		CallbackSuccessStatuses: myconfig.GetList("CALLBACK_SUCCESS_STATUSES", defaults.callbackSuccessStatuses),
		CallbackForwardURL:      myconfig.Get("CALLBACK_FORWARD_URL"),
		AllowedOrigins:          myconfig.GetList("CORS_ALLOWED_ORIGINS", nil),
	}
	if cfg.RejectURL == "" {
		cfg.RejectURL = cfg.FailURL
	}

	var err error
	cfg.OrderTTLMinutes, err = myconfig.GetInt("ORDER_TTL_MINUTES", 15)
	if err != nil {
		return Config{}, err
	}
	cfg.PlanPolicy.ZeroInterestMonths, err = myconfig.GetInt("ZERO_INTEREST_MONTHS", checkoutapi.DefaultPlanPolicy().ZeroInterestMonths)
	if err != nil {
		return Config{}, err
	}
	cfg.PlanPolicy.StandardMinMonths, err = myconfig.GetInt("STANDARD_MIN_MONTHS", checkoutapi.DefaultPlanPolicy().StandardMinMonths)
	if err != nil {
		return Config{}, err
	}
	cfg.RejectStatus, err = myconfig.GetInt("PROCESSOR_REJECT_STATUS", 400)
	if err != nil {
		return Config{}, err
	}
	timeoutSeconds, err := myconfig.GetInt("HTTP_TIMEOUT_SECONDS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second
	cfg.FakeProcessor, err = myconfig.GetBool("BOG_FAKE_PROCESSOR", false)
	if err != nil {
		return Config{}, err
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func publicBaseURL() string {
	if baseURL := myconfig.Get("PUBLIC_BASE_URL"); baseURL != "" {
		return strings.TrimSuffix(baseURL, "/")
	}
	// Vercel exposes the deployment host without scheme
	if host := myconfig.Get("VERCEL_URL"); host != "" {
		return "https://" + host
	}
	return ""
}

func (cfg Config) Validate() error {
	if cfg.Credentials.ClientID == "" || cfg.Credentials.ClientSecret == "" {
		return fmt.Errorf("BOG_CLIENT_ID and BOG_SECRET_KEY are required")
	}
	if _, found := variantDefaults[cfg.Variant]; !found {
		return fmt.Errorf("unknown api variant %q", cfg.Variant)
	}
	for name, value := range map[string]string{"BOG_TOKEN_URL": cfg.TokenURL, "BOG_ORDER_URL": cfg.OrderURL} {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not an absolute url: %q", name, value)
		}
	}
	if cfg.PublicBaseURL == "" && !cfg.FakeProcessor {
		// the request host is client controlled and may only be trusted for local development
		return fmt.Errorf("PUBLIC_BASE_URL or VERCEL_URL is required to build the processor callback url")
	}
	if cfg.SuccessURL == "" || cfg.FailURL == "" {
		return fmt.Errorf("SUCCESS_REDIRECT_URL and FAIL_REDIRECT_URL are required")
	}
	if cfg.RejectStatus < 400 || cfg.RejectStatus > 599 {
		return fmt.Errorf("PROCESSOR_REJECT_STATUS must be a 4xx or 5xx status, got %d", cfg.RejectStatus)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	return cfg.PlanPolicy.Validate()
}

// callbackURL falls back to the host the request came in on when no public base url is configured (fake processor only).
func (cfg Config) callbackURL(requestBaseURL string) string {
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = requestBaseURL
	}
	return baseURL + cfg.CallbackPath
}

func (cfg Config) isApproved(status string) bool {
	for _, successStatus := range cfg.CallbackSuccessStatuses {
		if strings.EqualFold(successStatus, status) {
			return true
		}
	}
	return false
}
