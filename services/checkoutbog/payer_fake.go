package checkoutbog

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MarcGrol/bogrelay/lib/myuuid"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

// fakePayer approves every order and sends the shopper straight to the success page.
// Used for local development when no processor sandbox is available.
type fakePayer struct {
	uuider myuuid.UUIDer
}

func NewFakePayer(uuider myuuid.UUIDer) Payer {
	return &fakePayer{
		uuider: uuider,
	}
}

func (p *fakePayer) Submit(c context.Context, order checkoutapi.NormalizedOrder, token oauthclient.AccessToken) (RedirectResult, error) {
	if token.AccessToken == "" {
		return RedirectResult{}, &SubmissionError{Reason: "missing access token", StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"unauthorized"}`)}
	}
	if order.Months <= 0 || !order.Price.IsPositive() {
		return RedirectResult{}, &SubmissionError{Reason: "order refused", StatusCode: http.StatusBadRequest, Body: []byte(`{"message":"invalid loan"}`)}
	}

	processorOrderID := p.uuider.Create()

	redirectURL, err := url.Parse(order.SuccessURL)
	if err != nil {
		return RedirectResult{}, &RedirectMissingError{Body: []byte(order.SuccessURL)}
	}
	params := redirectURL.Query()
	params.Set("order_id", processorOrderID)
	params.Set("external_order_id", order.ExternalOrderID)
	redirectURL.RawQuery = params.Encode()

	return RedirectResult{
		RedirectURL:      redirectURL.String(),
		ProcessorOrderID: processorOrderID,
	}, nil
}
