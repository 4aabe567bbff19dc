package checkoutbog

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/bogrelay/lib/mycontext"
	"github.com/MarcGrol/bogrelay/lib/myhttp"
	"github.com/MarcGrol/bogrelay/lib/mylog"
	"github.com/MarcGrol/bogrelay/lib/mypublisher"
	"github.com/MarcGrol/bogrelay/lib/myqueue"
	"github.com/MarcGrol/bogrelay/lib/mytime"
	"github.com/MarcGrol/bogrelay/services/checkoutapi"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
)

const maxCallbackSize = 64 * 1024

type webService struct {
	cfg     Config
	logger  mylog.Logger
	service *service
}

type CheckoutResponse struct {
	Redirect string `json:"redirect"`
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewWebService(cfg Config, tokenClient oauthclient.TokenClient, payer Payer, nower mytime.Nower, publisher mypublisher.Publisher, queue myqueue.TaskQueuer) *webService {
	logger := mylog.New("checkoutbog")
	return &webService{
		cfg:     cfg,
		logger:  logger,
		service: newService(cfg, logger, nower, tokenClient, payer, publisher, queue),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc(s.cfg.CheckoutPath, s.startCheckout()).Methods("POST")
	router.HandleFunc(s.cfg.CallbackPath, s.callback()).Methods("POST")
}

// startCheckout answers with the url where the shopper completes the installment application
func (s *webService) startCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req, err := checkoutapi.NewFromRequest(r)
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		redirectURL, err := s.service.startCheckout(c, req, myhttp.HostnameWithScheme(r))
		if err != nil {
			responseWriter.WriteError(c, w, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, CheckoutResponse{
			Redirect: redirectURL,
		})
	}
}

// callback acknowledges every notification, also when it cannot be processed
func (s *webService) callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Log(c, "", mylog.SeverityError, "Recovered from panic while processing callback: %v", recovered)
				responseWriter.WriteText(c, w, http.StatusOK, "OK")
			}
		}()

		body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackSize))
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityWarn, "Error reading callback body: %s", err)
		}

		s.service.receiveCallback(c, body)

		responseWriter.WriteText(c, w, http.StatusOK, "OK")
	}
}
