package checkoutbog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MarcGrol/bogrelay/lib/myerrors"
	"github.com/MarcGrol/bogrelay/lib/myevents"
	"github.com/MarcGrol/bogrelay/lib/mylog"
	"github.com/MarcGrol/bogrelay/lib/mypublisher"
	"github.com/MarcGrol/bogrelay/lib/myqueue"
	"github.com/MarcGrol/bogrelay/lib/mytime"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/checkoutevents"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

const (
	msgAuthorizationFailed = "Authorization failed"
	msgSubmissionFailed    = "Failed to create order"
	msgOrderRejected       = "Processor rejected order."
	msgRedirectMissing     = "Processor did not return redirect link."

	// publishing and forwarding happen after the outcome is decided and must not hold up the response
	defaultBestEffortTimeout = 2 * time.Second
)

type service struct {
	cfg         Config
	logger      mylog.Logger
	translator  *checkoutapi.Translator
	tokenClient oauthclient.TokenClient
	payer       Payer
	publisher   mypublisher.Publisher
	queue       myqueue.TaskQueuer

	bestEffortTimeout time.Duration
}

// Use dependency injection to isolate the infrastructure and ease testing
func newService(cfg Config, logger mylog.Logger, nower mytime.Nower, tokenClient oauthclient.TokenClient, payer Payer, publisher mypublisher.Publisher, queue myqueue.TaskQueuer) *service {
	return &service{
		cfg:    cfg,
		logger: logger,
		translator: checkoutapi.NewTranslator(cfg.PlanPolicy, checkoutapi.OrderSettings{
			SourcePrefix: cfg.SourcePrefix,
			Currency:     cfg.Currency,
			SuccessURL:   cfg.SuccessURL,
			FailURL:      cfg.FailURL,
			RejectURL:    cfg.RejectURL,
		}, nower),
		tokenClient: tokenClient,
		payer:       payer,
		publisher:   publisher,
		queue:       queue,

		bestEffortTimeout: defaultBestEffortTimeout,
	}
}

func (s *service) providerName() string {
	return "bog-" + string(s.cfg.Variant)
}

// startCheckout validates and translates the request, exchanges credentials and submits the order.
// Returns the url the shopper must be redirected to.
func (s *service) startCheckout(c context.Context, req checkoutapi.CheckoutRequest, requestBaseURL string) (string, error) {
	order, err := s.translator.Translate(req, s.cfg.callbackURL(requestBaseURL))
	if err != nil {
		return "", s.toHTTPError(err)
	}

	s.logger.Log(c, order.ExternalOrderID, mylog.SeverityInfo, "Start checkout for product %s: %s %s in %d months (%s as %s)",
		order.ProductID, order.Price.StringFixed(2), order.Currency, order.Months, order.PaymentMethod, order.PlanType)

	token, err := s.tokenClient.AcquireToken(c, s.cfg.Credentials)
	if err != nil {
		s.logger.Log(c, order.ExternalOrderID, mylog.SeverityError, "Error acquiring access token: %s", err)
		return "", s.toHTTPError(err)
	}

	result, err := s.payer.Submit(c, order, token)
	if err != nil {
		s.logger.Log(c, order.ExternalOrderID, mylog.SeverityError, "Error submitting order: %s", err)
		return "", s.toHTTPError(err)
	}

	s.logger.Log(c, order.ExternalOrderID, mylog.SeverityInfo, "Checkout started with processor order %s", result.ProcessorOrderID)

	err = s.publish(c, checkoutevents.CheckoutStarted{
		ProviderName:     s.providerName(),
		ExternalOrderID:  order.ExternalOrderID,
		ProcessorOrderID: result.ProcessorOrderID,
		ProductID:        order.ProductID,
		Amount:           order.Price.StringFixed(2),
		Currency:         order.Currency,
		PlanType:         string(order.PlanType),
		Months:           order.Months,
	})
	if err != nil {
		// the shopper already has an order at the processor
		s.logger.Log(c, order.ExternalOrderID, mylog.SeverityWarn, "Error publishing checkout-started: %s", err)
	}

	return result.RedirectURL, nil
}

func (s *service) toHTTPError(err error) error {
	var validationErr *checkoutapi.ValidationError
	var authErr *oauthclient.AuthError
	var submissionErr *SubmissionError
	var redirectErr *RedirectMissingError

	switch {
	case errors.As(err, &validationErr):
		return myerrors.NewInvalidInputError(validationErr)
	case errors.As(err, &authErr):
		return myerrors.NewInternalError(errors.New(msgAuthorizationFailed)).WithDetail(authErr.Body)
	case errors.As(err, &submissionErr):
		if submissionErr.isRejection() {
			return myerrors.NewErrorWithStatus(s.cfg.RejectStatus, errors.New(msgOrderRejected)).WithDetail(submissionErr.Body)
		}
		detail := submissionErr.Body
		if len(detail) == 0 {
			detail = []byte(submissionErr.Reason)
		}
		return myerrors.NewInternalError(errors.New(msgSubmissionFailed)).WithDetail(detail)
	case errors.As(err, &redirectErr):
		return myerrors.NewErrorWithStatus(s.cfg.RejectStatus, errors.New(msgRedirectMissing)).WithDetail(redirectErr.Body)
	default:
		if myerrors.GetHTTPStatus(err) != http.StatusInternalServerError {
			return err
		}
		return myerrors.NewInternalError(err)
	}
}

// receiveCallback never fails: the processor keeps retrying callbacks that are not acknowledged.
func (s *service) receiveCallback(c context.Context, body []byte) {
	notification, err := ParseCallback(body)
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityWarn, "Ignoring callback: %s (body: %s)", err, truncate(body, 512))
		return
	}

	traceLabel := notification.ExternalOrderID
	if traceLabel == "" {
		traceLabel = notification.ProcessorOrderID
	}

	status := checkoutevents.CheckoutStatusNotApproved
	if s.cfg.isApproved(notification.Status) {
		status = checkoutevents.CheckoutStatusApproved
	}

	s.logger.Log(c, traceLabel, mylog.SeverityInfo, "Callback for order %s (processor order %s): %s -> %s",
		notification.ExternalOrderID, notification.ProcessorOrderID, notification.Status, status)

	err = s.publish(c, checkoutevents.CheckoutCompleted{
		ProviderName:          s.providerName(),
		ExternalOrderID:       notification.ExternalOrderID,
		ProcessorOrderID:      notification.ProcessorOrderID,
		CheckoutStatus:        status,
		CheckoutStatusDetails: notification.Status,
	})
	if err != nil {
		s.logger.Log(c, traceLabel, mylog.SeverityWarn, "Error publishing checkout-completed: %s", err)
	}

	if s.cfg.CallbackForwardURL == "" {
		return
	}

	err = s.enqueue(c, myqueue.Task{
		UID:        callbackUID(body),
		WebhookURL: s.cfg.CallbackForwardURL,
		Payload:    body,
	})
	if err != nil {
		s.logger.Log(c, traceLabel, mylog.SeverityWarn, "Error forwarding callback: %s", err)
	}
}

func (s *service) publish(c context.Context, event myevents.Event) error {
	c, cancel := context.WithTimeout(c, s.bestEffortTimeout)
	defer cancel()
	return s.publisher.Publish(c, checkoutevents.TopicName, event)
}

func (s *service) enqueue(c context.Context, task myqueue.Task) error {
	c, cancel := context.WithTimeout(c, s.bestEffortTimeout)
	defer cancel()
	return s.queue.Enqueue(c, task)
}

// callbackUID makes redelivered callbacks map onto the same task
func callbackUID(body []byte) string {
	checksum := sha256.Sum256(body)
	return hex.EncodeToString(checksum[:])
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return fmt.Sprintf("%s...", body[:limit])
}
