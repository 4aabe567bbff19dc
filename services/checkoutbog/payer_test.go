package checkoutbog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

var (
	token = oauthclient.AccessToken{TokenType: "Bearer", AccessToken: "my_access_token", ExpiresIn: 3600}

	exampleOrder = checkoutapi.NormalizedOrder{
		ExternalOrderID: "shopify-8123-1677542339000",
		ProductID:       "8123",
		ProductName:     "Smart lock",
		Image:           "https://cdn.example.com/lock.png",
		URL:             "https://shop.example.com/products/lock",
		Price:           decimal.RequireFromString("1200.50"),
		Currency:        "GEL",
		Months:          6,
		PlanType:        checkoutapi.PlanTypeStandard,
		PaymentMethod:   "bog_loan",
		CallbackURL:     "https://relay.example.com/callback",
		SuccessURL:      "https://shop.example.com/success",
		FailURL:         "https://shop.example.com/fail",
		RejectURL:       "https://shop.example.com/reject",
		Customer: &checkoutapi.Customer{
			Name:  "Nino Beridze",
			Phone: "+995555123456",
		},
	}
)

type capturedRequest struct {
	headers http.Header
	body    map[string]interface{}
}

func runProcessor(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequest) {
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		captured.headers = r.Header.Clone()
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &captured.body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestEcommercePayer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, captured := runProcessor(t, http.StatusOK, `{"id":"b8a3c1f0","_links":{"details":{"href":"https://api.bog.ge/payments/v1/receipt/b8a3c1f0"},"redirect":{"href":"https://payment.bog.ge/?order_id=b8a3c1f0"}}}`)
		payer := newEcommercePayer(server.URL, "ka", 15, myhttpclient.New(time.Second))

		result, err := payer.Submit(context.TODO(), exampleOrder, token)
		require.NoError(t, err)
		assert.Equal(t, "https://payment.bog.ge/?order_id=b8a3c1f0", result.RedirectURL)
		assert.Equal(t, "b8a3c1f0", result.ProcessorOrderID)

		assert.Equal(t, "Bearer my_access_token", captured.headers.Get("Authorization"))
		assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))
		assert.Equal(t, "ka", captured.headers.Get("Accept-Language"))

		assert.Equal(t, "https://relay.example.com/callback", captured.body["callback_url"])
		assert.Equal(t, "shopify-8123-1677542339000", captured.body["external_order_id"])
		assert.Equal(t, float64(15), captured.body["ttl"])
		assert.Equal(t, []interface{}{"bog_loan"}, captured.body["payment_method"])
		assert.Equal(t, map[string]interface{}{
			"currency":     "GEL",
			"total_amount": 1200.5,
			"basket": []interface{}{
				map[string]interface{}{
					"product_id":  "8123",
					"description": "Smart lock",
					"quantity":    float64(1),
					"unit_price":  1200.5,
					"image":       "https://cdn.example.com/lock.png",
					"url":         "https://shop.example.com/products/lock",
				},
			},
		}, captured.body["purchase_units"])
		assert.Equal(t, map[string]interface{}{
			"success": "https://shop.example.com/success",
			"fail":    "https://shop.example.com/fail",
		}, captured.body["redirect_urls"])
		assert.Equal(t, map[string]interface{}{
			"loan": map[string]interface{}{"type": "STANDARD", "month": float64(6)},
		}, captured.body["config"])
		assert.Equal(t, map[string]interface{}{
			"full_name":    "Nino Beridze",
			"masked_phone": "+995555123456",
		}, captured.body["buyer"])
	})

	t.Run("zero interest without customer", func(t *testing.T) {
		server, captured := runProcessor(t, http.StatusOK, `{"id":"1","links":{"redirect":{"href":"https://payment.bog.ge/?order_id=1"}}}`)
		payer := newEcommercePayer(server.URL, "ka", 15, myhttpclient.New(time.Second))

		order := exampleOrder
		order.PlanType = checkoutapi.PlanTypeZeroInterest
		order.Months = 4
		order.Customer = nil

		result, err := payer.Submit(context.TODO(), order, token)
		require.NoError(t, err)
		assert.Equal(t, "https://payment.bog.ge/?order_id=1", result.RedirectURL)
		assert.Equal(t, []interface{}{"bnpl"}, captured.body["payment_method"])
		assert.Equal(t, map[string]interface{}{
			"loan": map[string]interface{}{"type": "ZERO", "month": float64(4)},
		}, captured.body["config"])
		_, found := captured.body["buyer"]
		assert.False(t, found)
	})

	t.Run("missing redirect", func(t *testing.T) {
		server, _ := runProcessor(t, http.StatusOK, `{"id":"b8a3c1f0","_links":{}}`)
		payer := newEcommercePayer(server.URL, "ka", 15, myhttpclient.New(time.Second))

		_, err := payer.Submit(context.TODO(), exampleOrder, token)
		var redirectErr *RedirectMissingError
		require.True(t, errors.As(err, &redirectErr))
		assert.Equal(t, `{"id":"b8a3c1f0","_links":{}}`, string(redirectErr.Body))
	})

	t.Run("rejected", func(t *testing.T) {
		server, _ := runProcessor(t, http.StatusBadRequest, `{"message":"invalid basket"}`)
		payer := newEcommercePayer(server.URL, "ka", 15, myhttpclient.New(time.Second))

		_, err := payer.Submit(context.TODO(), exampleOrder, token)
		var submissionErr *SubmissionError
		require.True(t, errors.As(err, &submissionErr))
		assert.Equal(t, http.StatusBadRequest, submissionErr.StatusCode)
		assert.True(t, submissionErr.isRejection())
		assert.Equal(t, `{"message":"invalid basket"}`, string(submissionErr.Body))
	})

	t.Run("processor down", func(t *testing.T) {
		server, _ := runProcessor(t, http.StatusOK, `{}`)
		server.Close()
		payer := newEcommercePayer(server.URL, "ka", 15, myhttpclient.New(time.Second))

		_, err := payer.Submit(context.TODO(), exampleOrder, token)
		var submissionErr *SubmissionError
		require.True(t, errors.As(err, &submissionErr))
		assert.Equal(t, 0, submissionErr.StatusCode)
		assert.False(t, submissionErr.isRejection())
	})
}

func TestInstallmentPayer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, captured := runProcessor(t, http.StatusOK, `{"status":"CREATED","order_id":"7c4d","links":[{"href":"https://installment.bog.ge/v1/installment/checkout/7c4d","rel":"self","method":"GET"},{"href":"https://bog.ge/installment?order=7c4d","rel":"target","method":"REDIRECT"}]}`)
		payer := newInstallmentPayer(server.URL, "ka", myhttpclient.New(time.Second))

		result, err := payer.Submit(context.TODO(), exampleOrder, token)
		require.NoError(t, err)
		assert.Equal(t, "https://bog.ge/installment?order=7c4d", result.RedirectURL)
		assert.Equal(t, "7c4d", result.ProcessorOrderID)

		assert.Equal(t, "Bearer my_access_token", captured.headers.Get("Authorization"))
		assert.Equal(t, "LOAN", captured.body["intent"])
		assert.Equal(t, float64(6), captured.body["installment_month"])
		assert.Equal(t, "STANDARD", captured.body["installment_type"])
		assert.Equal(t, "shopify-8123-1677542339000", captured.body["shop_order_id"])
		assert.Equal(t, "https://shop.example.com/success", captured.body["success_redirect_url"])
		assert.Equal(t, "https://shop.example.com/fail", captured.body["fail_redirect_url"])
		assert.Equal(t, "https://shop.example.com/reject", captured.body["reject_redirect_url"])
		assert.Equal(t, true, captured.body["validate_items"])
		assert.Equal(t, "ka", captured.body["locale"])
		assert.Equal(t, []interface{}{
			map[string]interface{}{
				"amount": map[string]interface{}{"currency_code": "GEL", "value": "1200.50"},
			},
		}, captured.body["purchase_units"])
		assert.Equal(t, []interface{}{
			map[string]interface{}{
				"total_item_amount":    "1200.50",
				"item_description":     "Smart lock",
				"total_item_qty":       "1",
				"item_vendor_code":     "8123",
				"product_image_url":    "https://cdn.example.com/lock.png",
				"item_site_detail_url": "https://shop.example.com/products/lock",
			},
		}, captured.body["cart_items"])
	})

	t.Run("no target link", func(t *testing.T) {
		server, _ := runProcessor(t, http.StatusOK, `{"order_id":"7c4d","links":[{"href":"https://x","rel":"self"}]}`)
		payer := newInstallmentPayer(server.URL, "ka", myhttpclient.New(time.Second))

		_, err := payer.Submit(context.TODO(), exampleOrder, token)
		var redirectErr *RedirectMissingError
		assert.True(t, errors.As(err, &redirectErr))
	})

	t.Run("processor failure", func(t *testing.T) {
		server, _ := runProcessor(t, http.StatusInternalServerError, `{"error":"boom"}`)
		payer := newInstallmentPayer(server.URL, "ka", myhttpclient.New(time.Second))

		_, err := payer.Submit(context.TODO(), exampleOrder, token)
		var submissionErr *SubmissionError
		require.True(t, errors.As(err, &submissionErr))
		assert.Equal(t, http.StatusInternalServerError, submissionErr.StatusCode)
		assert.False(t, submissionErr.isRejection())
	})
}

func TestNewPayer(t *testing.T) {
	sender := myhttpclient.New(time.Second)

	payer, err := NewPayer(Config{Variant: VariantEcommerce, OrderURL: "https://x"}, sender)
	require.NoError(t, err)
	assert.IsType(t, &ecommercePayer{}, payer)

	payer, err = NewPayer(Config{Variant: VariantInstallment, OrderURL: "https://x"}, sender)
	require.NoError(t, err)
	assert.IsType(t, &installmentPayer{}, payer)

	_, err = NewPayer(Config{Variant: "paypal"}, sender)
	assert.Error(t, err)
}

func TestFakePayerRedirectsToSuccessPage(t *testing.T) {
	result, err := NewFakePayer(fixedUUIDer("7c4d")).Submit(context.TODO(), exampleOrder, token)
	require.NoError(t, err)
	assert.Equal(t, "7c4d", result.ProcessorOrderID)
	assert.Equal(t, "https://shop.example.com/success?external_order_id=shopify-8123-1677542339000&order_id=7c4d", result.RedirectURL)
}

type fixedUUIDer string

func (u fixedUUIDer) Create() string {
	return string(u)
}
