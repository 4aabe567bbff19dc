package checkoutbog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

type RedirectResult struct {
	RedirectURL      string
	ProcessorOrderID string
}

// Payer submits a normalized order in the schema of one processor api variant.
//
//go:generate mockgen -source=payer.go -package checkoutbog -destination payer_mock.go Payer
type Payer interface {
	Submit(c context.Context, order checkoutapi.NormalizedOrder, token oauthclient.AccessToken) (RedirectResult, error)
}

func NewPayer(cfg Config, sender myhttpclient.HTTPSender) (Payer, error) {
	switch cfg.Variant {
	case VariantEcommerce:
		return newEcommercePayer(cfg.OrderURL, cfg.Locale, cfg.OrderTTLMinutes, sender), nil
	case VariantInstallment:
		return newInstallmentPayer(cfg.OrderURL, cfg.Locale, sender), nil
	default:
		return nil, fmt.Errorf("no payer for api variant %q", cfg.Variant)
	}
}

func postOrder(c context.Context, sender myhttpclient.HTTPSender, orderURL string, locale string, token oauthclient.AccessToken, payload interface{}) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, &SubmissionError{Reason: fmt.Sprintf("error marshalling order: %s", err)}
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+token.AccessToken)
	if locale != "" {
		headers.Set("Accept-Language", locale)
	}

	httpRespCode, respBody, err := sender.Send(c, http.MethodPost, orderURL, headers, requestBody)
	if err != nil {
		return nil, &SubmissionError{Reason: err.Error()}
	}

	if httpRespCode < 200 || httpRespCode > 299 {
		return nil, &SubmissionError{Reason: "order refused", StatusCode: httpRespCode, Body: respBody}
	}

	return respBody, nil
}

func wireLoanType(plan checkoutapi.PlanType) string {
	if plan == checkoutapi.PlanTypeZeroInterest {
		return "ZERO"
	}
	return "STANDARD"
}
