package checkoutbog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

type ecommerceOrderRequest struct {
	CallbackURL     string                 `json:"callback_url"`
	ExternalOrderID string                 `json:"external_order_id"`
	PurchaseUnits   ecommercePurchaseUnits `json:"purchase_units"`
	RedirectURLs    ecommerceRedirectURLs  `json:"redirect_urls"`
	TTL             int                    `json:"ttl,omitempty"`
	PaymentMethod   []string               `json:"payment_method"`
	Config          ecommerceConfig        `json:"config"`
	Buyer           *ecommerceBuyer        `json:"buyer,omitempty"`
}

type ecommercePurchaseUnits struct {
	Currency    string                `json:"currency"`
	TotalAmount json.Number           `json:"total_amount"`
	Basket      []ecommerceBasketItem `json:"basket"`
}

type ecommerceBasketItem struct {
	ProductID   string      `json:"product_id"`
	Description string      `json:"description,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
	Image       string      `json:"image,omitempty"`
	URL         string      `json:"url,omitempty"`
}

type ecommerceRedirectURLs struct {
	Success string `json:"success"`
	Fail    string `json:"fail"`
}

type ecommerceConfig struct {
	Loan ecommerceLoan `json:"loan"`
}

type ecommerceLoan struct {
	Type  string `json:"type"`
	Month int    `json:"month"`
}

type ecommerceBuyer struct {
	FullName    string `json:"full_name,omitempty"`
	MaskedEmail string `json:"masked_email,omitempty"`
	MaskedPhone string `json:"masked_phone,omitempty"`
}

type ecommerceOrderResponse struct {
	ID         string         `json:"id"`
	Links      ecommerceLinks `json:"_links"`
	PlainLinks ecommerceLinks `json:"links"`
}

type ecommerceLinks struct {
	Details  ecommerceLink `json:"details"`
	Redirect ecommerceLink `json:"redirect"`
}

type ecommerceLink struct {
	Href string `json:"href"`
}

type ecommercePayer struct {
	orderURL   string
	locale     string
	ttlMinutes int
	sender     myhttpclient.HTTPSender
}

func newEcommercePayer(orderURL string, locale string, ttlMinutes int, sender myhttpclient.HTTPSender) *ecommercePayer {
	return &ecommercePayer{
		orderURL:   orderURL,
		locale:     locale,
		ttlMinutes: ttlMinutes,
		sender:     sender,
	}
}

func (p *ecommercePayer) Submit(c context.Context, order checkoutapi.NormalizedOrder, token oauthclient.AccessToken) (RedirectResult, error) {
	respBody, err := postOrder(c, p.sender, p.orderURL, p.locale, token, toEcommerceOrder(order, p.ttlMinutes))
	if err != nil {
		return RedirectResult{}, err
	}

	resp := ecommerceOrderResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return RedirectResult{}, &RedirectMissingError{Body: respBody}
	}

	redirectURL := resp.Links.Redirect.Href
	if redirectURL == "" {
		redirectURL = resp.PlainLinks.Redirect.Href
	}
	if redirectURL == "" {
		return RedirectResult{}, &RedirectMissingError{Body: respBody}
	}

	return RedirectResult{
		RedirectURL:      redirectURL,
		ProcessorOrderID: resp.ID,
	}, nil
}

func toEcommerceOrder(order checkoutapi.NormalizedOrder, ttlMinutes int) ecommerceOrderRequest {
	amount := json.Number(order.Price.StringFixed(2))
	return ecommerceOrderRequest{
		CallbackURL:     order.CallbackURL,
		ExternalOrderID: order.ExternalOrderID,
		PurchaseUnits: ecommercePurchaseUnits{
			Currency:    order.Currency,
			TotalAmount: amount,
			Basket: []ecommerceBasketItem{
				{
					ProductID:   order.ProductID,
					Description: order.ProductName,
					Quantity:    1,
					UnitPrice:   amount,
					Image:       order.Image,
					URL:         order.URL,
				},
			},
		},
		RedirectURLs: ecommerceRedirectURLs{
			Success: order.SuccessURL,
			Fail:    order.FailURL,
		},
		TTL:           ttlMinutes,
		PaymentMethod: []string{ecommercePaymentMethod(order.PlanType)},
		Config: ecommerceConfig{
			Loan: ecommerceLoan{
				Type:  wireLoanType(order.PlanType),
				Month: order.Months,
			},
		},
		Buyer: toEcommerceBuyer(order.Customer),
	}
}

func ecommercePaymentMethod(plan checkoutapi.PlanType) string {
	if plan == checkoutapi.PlanTypeZeroInterest {
		return "bnpl"
	}
	return "bog_loan"
}

func toEcommerceBuyer(customer *checkoutapi.Customer) *ecommerceBuyer {
	if customer == nil {
		return nil
	}
	buyer := ecommerceBuyer{
		FullName:    strings.TrimSpace(customer.Name),
		MaskedEmail: strings.TrimSpace(customer.Email),
		MaskedPhone: strings.TrimSpace(customer.Phone),
	}
	if buyer == (ecommerceBuyer{}) {
		return nil
	}
	return &buyer
}
