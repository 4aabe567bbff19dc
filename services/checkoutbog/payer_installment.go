package checkoutbog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

type installmentOrderRequest struct {
	Intent             string                    `json:"intent"`
	InstallmentMonth   int                       `json:"installment_month"`
	InstallmentType    string                    `json:"installment_type"`
	ShopOrderID        string                    `json:"shop_order_id"`
	SuccessRedirectURL string                    `json:"success_redirect_url"`
	FailRedirectURL    string                    `json:"fail_redirect_url"`
	RejectRedirectURL  string                    `json:"reject_redirect_url"`
	ValidateItems      bool                      `json:"validate_items"`
	Locale             string                    `json:"locale,omitempty"`
	PurchaseUnits      []installmentPurchaseUnit `json:"purchase_units"`
	CartItems          []installmentCartItem     `json:"cart_items"`
}

type installmentPurchaseUnit struct {
	Amount installmentAmount `json:"amount"`
}

type installmentAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type installmentCartItem struct {
	TotalItemAmount   string `json:"total_item_amount"`
	ItemDescription   string `json:"item_description"`
	TotalItemQty      string `json:"total_item_qty"`
	ItemVendorCode    string `json:"item_vendor_code"`
	ProductImageURL   string `json:"product_image_url,omitempty"`
	ItemSiteDetailURL string `json:"item_site_detail_url,omitempty"`
}

type installmentOrderResponse struct {
	Status  string            `json:"status"`
	OrderID string            `json:"order_id"`
	Links   []installmentLink `json:"links"`
}

type installmentLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type installmentPayer struct {
	orderURL string
	locale   string
	sender   myhttpclient.HTTPSender
}

func newInstallmentPayer(orderURL string, locale string, sender myhttpclient.HTTPSender) *installmentPayer {
	return &installmentPayer{
		orderURL: orderURL,
		locale:   locale,
		sender:   sender,
	}
}

func (p *installmentPayer) Submit(c context.Context, order checkoutapi.NormalizedOrder, token oauthclient.AccessToken) (RedirectResult, error) {
	respBody, err := postOrder(c, p.sender, p.orderURL, p.locale, token, toInstallmentOrder(order, p.locale))
	if err != nil {
		return RedirectResult{}, err
	}

	resp := installmentOrderResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return RedirectResult{}, &RedirectMissingError{Body: respBody}
	}

	for _, link := range resp.Links {
		if strings.EqualFold(link.Rel, "target") && link.Href != "" {
			return RedirectResult{
				RedirectURL:      link.Href,
				ProcessorOrderID: resp.OrderID,
			}, nil
		}
	}

	return RedirectResult{}, &RedirectMissingError{Body: respBody}
}

func toInstallmentOrder(order checkoutapi.NormalizedOrder, locale string) installmentOrderRequest {
	amount := order.Price.StringFixed(2)
	return installmentOrderRequest{
		Intent:             "LOAN",
		InstallmentMonth:   order.Months,
		InstallmentType:    wireLoanType(order.PlanType),
		ShopOrderID:        order.ExternalOrderID,
		SuccessRedirectURL: order.SuccessURL,
		FailRedirectURL:    order.FailURL,
		RejectRedirectURL:  order.RejectURL,
		ValidateItems:      true,
		Locale:             locale,
		PurchaseUnits: []installmentPurchaseUnit{
			{
				Amount: installmentAmount{
					CurrencyCode: order.Currency,
					Value:        amount,
				},
			},
		},
		CartItems: []installmentCartItem{
			{
				TotalItemAmount:   amount,
				ItemDescription:   order.ProductName,
				TotalItemQty:      "1",
				ItemVendorCode:    order.ProductID,
				ProductImageURL:   order.Image,
				ItemSiteDetailURL: order.URL,
			},
		},
	}
}
