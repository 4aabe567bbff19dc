package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MarcGrol/bogrelay/lib/myconfig"
	"github.com/MarcGrol/bogrelay/lib/myhttpclient"
	"github.com/MarcGrol/bogrelay/lib/mypublisher"
	"github.com/MarcGrol/bogrelay/lib/mypubsub"
	"github.com/MarcGrol/bogrelay/lib/myqueue"
	"github.com/MarcGrol/bogrelay/lib/mytime"
	"github.com/MarcGrol/bogrelay/lib/myuuid"
	"github.com/MarcGrol/bogrelay/services/checkoutbog"
	"github.com/MarcGrol/bogrelay/services/checkoutevents"
	"github.com/MarcGrol/bogrelay/services/oauth/oauthclient"
	"github.com/MarcGrol/bogrelay/services/warmup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	c := context.Background()

	err := myconfig.Load()
	if err != nil {
		log.Fatalf("Error loading env-file: %s", err)
	}

	cfg, err := checkoutbog.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	err = pubsub.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		log.Fatalf("Error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	nower := mytime.RealNower{}
	publisher := mypublisher.New(pubsub, nower)
	sender := myhttpclient.New(cfg.HTTPTimeout)

	tokenClient, payer, err := processorClients(cfg, sender)
	if err != nil {
		log.Fatalf("Error creating processor clients: %s", err)
	}

	router := mux.NewRouter()

	warmup.NewService().RegisterEndpoints(c, router)

	checkoutService := checkoutbog.NewWebService(cfg, tokenClient, payer, nower, publisher, queue)
	checkoutService.RegisterEndpoints(c, router)

	startWebServerBlocking(cfg, withMiddleware(cfg, router))
}

func processorClients(cfg checkoutbog.Config, sender myhttpclient.HTTPSender) (oauthclient.TokenClient, checkoutbog.Payer, error) {
	if cfg.FakeProcessor {
		log.Printf("*** Using fake processor: no real orders are created")
		return oauthclient.NewFakeTokenClient(), checkoutbog.NewFakePayer(myuuid.RealUUIDer{}), nil
	}

	payer, err := checkoutbog.NewPayer(cfg, sender)
	if err != nil {
		return nil, nil, err
	}
	return oauthclient.NewTokenClient(cfg.TokenURL, sender), payer, nil
}

func withMiddleware(cfg checkoutbog.Config, router *mux.Router) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return otelhttp.NewHandler(cors(router), "bogrelay")
}

func startWebServerBlocking(cfg checkoutbog.Config, handler http.Handler) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.HTTPTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting %s webserver on port %s (try http://localhost:%s)", cfg.Variant, cfg.Port, cfg.Port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting webserver on port %s: %s", cfg.Port, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down webserver")
	c, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(c)
	if err != nil {
		log.Printf("Error shutting down webserver: %s", err)
	}
}
