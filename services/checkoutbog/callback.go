package checkoutbog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CallbackNotification is what we could extract from a processor status callback.
// Both api variants report status and order ids in different places.
type CallbackNotification struct {
	Status           string
	ExternalOrderID  string
	ProcessorOrderID string
	Raw              []byte
}

var (
	statusPaths           = [][]string{{"body", "order_status", "key"}, {"order_status", "key"}, {"order_status"}, {"status"}, {"body", "status"}}
	externalOrderIDPaths  = [][]string{{"external_order_id"}, {"body", "external_order_id"}, {"shop_order_id"}, {"body", "shop_order_id"}}
	processorOrderIDPaths = [][]string{{"order_id"}, {"body", "order_id"}, {"id"}, {"body", "id"}}
)

func ParseCallback(body []byte) (CallbackNotification, error) {
	notification := CallbackNotification{Raw: body}

	if len(strings.TrimSpace(string(body))) == 0 {
		return notification, &CallbackError{Reason: "empty body"}
	}

	doc := map[string]interface{}{}
	err := json.Unmarshal(body, &doc)
	if err != nil {
		return notification, &CallbackError{Reason: fmt.Sprintf("body is not a json object: %s", err)}
	}

	notification.Status = firstString(doc, statusPaths)
	notification.ExternalOrderID = firstString(doc, externalOrderIDPaths)
	notification.ProcessorOrderID = firstString(doc, processorOrderIDPaths)

	if notification.Status == "" {
		return notification, &CallbackError{Reason: "no order status"}
	}

	return notification, nil
}

func firstString(doc map[string]interface{}, paths [][]string) string {
	for _, path := range paths {
		if value := lookup(doc, path); value != "" {
			return value
		}
	}
	return ""
}

func lookup(doc map[string]interface{}, path []string) string {
	var current interface{} = doc
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = obj[key]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
