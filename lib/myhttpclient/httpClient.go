package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MarcGrol/bogrelay/lib/mylog"
)

const (
	DefaultTimeout = 5 * time.Second
	// Processor error pages are small; anything beyond this is cut off
	maxResponseSize = 1 << 20
)

type httpSender struct {
	client *http.Client
	logger mylog.Logger
	debug  bool
}

func New(timeout time.Duration) HTTPSender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &httpSender{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: mylog.New("myhttpclient"),
		debug:  os.Getenv("HTTP_DEBUG") != "",
	}
}

func (s *httpSender) Send(c context.Context, method string, url string, headers http.Header, body []byte) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(c, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error creating http request for %s %s: %s", method, url, err)
	}

	for key, values := range headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	if s.debug {
		// Authorization headers are part of this dump: never enable in production
		reqDump, err := httputil.DumpRequestOut(httpReq, true)
		if err == nil {
			fmt.Printf("HTTP-req:\n%s", string(reqDump))
		}
	}

	started := time.Now()
	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error calling %s %s: %s", method, url, err)
	}
	defer httpResp.Body.Close()

	s.logger.Log(c, "", mylog.SeverityInfo, "HTTP call: %s %s -> %d (%s)", method, url, httpResp.StatusCode, time.Since(started))

	respPayload, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error reading response %s %s: %s", method, url, err)
	}

	if s.debug {
		fmt.Printf("HTTP-resp: %d\n%s\n", httpResp.StatusCode, string(respPayload))
	}

	return httpResp.StatusCode, respPayload, nil
}
