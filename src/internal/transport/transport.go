// Single-attempt HTTP submission to the timberlogs ingestion service.
// Retry decisions belong to the caller; every method here performs exactly
// one request and classifies the outcome.
package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"timberlogs/src/internal/config"
	"timberlogs/src/internal/core"
	"timberlogs/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

const (
	logsPath  = "/v1/logs"
	flowsPath = "/v1/flows"
)

// Transport submits payloads to the ingestion endpoint.
type Transport struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *log.Logger
}

// New creates a transport for the configured endpoint.
func New(opts *config.ClientOptions, logger *log.Logger) *Transport {
	timeout := opts.Timeout()
	return &Transport{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			MaxIdleConnDuration: 10 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		baseURL: opts.URL,
		apiKey:  opts.APIKey,
		timeout: timeout,
		logger:  logger,
	}
}

// SubmitBatch posts a batch of records. The batch is sent as one request;
// a non-2xx response surfaces as *core.HTTPError.
func (t *Transport) SubmitBatch(records []core.Record) error {
	body, err := json.Marshal(core.BatchPayload{Logs: records})
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	status, respBody, err := t.post(t.baseURL+logsPath, "application/json", body, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return &core.HTTPError{Status: status, Body: string(respBody)}
	}

	t.logger.Debug("msg", "Batch submitted",
		"component", "transport",
		"batch_size", len(records),
		"status_code", status)
	return nil
}

// SubmitRaw posts a pre-formatted payload with per-request overrides
// carried as query parameters.
func (t *Transport) SubmitRaw(body []byte, format core.RawFormat, opts core.RawOptions) error {
	if !format.Known() {
		return core.Validationf("unknown raw format %q", format)
	}

	args := map[string]string{"format": string(format)}
	if opts.Source != "" {
		args["source"] = opts.Source
	}
	if opts.Environment != "" {
		args["environment"] = string(opts.Environment)
	}
	if opts.Level != "" {
		args["level"] = string(opts.Level)
	}
	if opts.Dataset != "" {
		args["dataset"] = opts.Dataset
	}

	status, respBody, err := t.post(t.baseURL+logsPath, format.ContentType(), body, args)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return &core.HTTPError{Status: status, Body: string(respBody)}
	}

	t.logger.Debug("msg", "Raw payload submitted",
		"component", "transport",
		"format", string(format),
		"bytes", len(body),
		"status_code", status)
	return nil
}

// CreateFlow registers a named flow and returns the server-assigned id.
func (t *Transport) CreateFlow(name string) (core.FlowInfo, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return core.FlowInfo{}, fmt.Errorf("failed to encode flow request: %w", err)
	}

	status, respBody, err := t.post(t.baseURL+flowsPath, "application/json", body, nil)
	if err != nil {
		return core.FlowInfo{}, fmt.Errorf("request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return core.FlowInfo{}, &core.HTTPError{Status: status, Body: string(respBody)}
	}

	var info core.FlowInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return core.FlowInfo{}, fmt.Errorf("failed to decode flow response: %w", err)
	}
	if info.FlowID == "" {
		return core.FlowInfo{}, fmt.Errorf("flow response missing flowId")
	}

	t.logger.Debug("msg", "Flow created",
		"component", "transport",
		"flow_id", info.FlowID,
		"name", info.Name)
	return info, nil
}

// post performs one request and returns the status and a copy of the
// response body. Request and response objects are released before return.
func (t *Transport) post(url, contentType string, body []byte, queryArgs map[string]string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	req.Header.Set("X-API-Key", t.apiKey)
	req.Header.Set("User-Agent", fmt.Sprintf("timberlogs-go/%s", version.Short()))
	req.SetBody(body)

	for k, v := range queryArgs {
		req.URI().QueryArgs().Set(k, v)
	}

	if err := t.client.DoTimeout(req, resp, t.timeout); err != nil {
		return 0, nil, err
	}

	status := resp.StatusCode()
	var respBody []byte
	if len(resp.Body()) > 0 {
		respBody = make([]byte, len(resp.Body()))
		copy(respBody, resp.Body())
	}
	return status, respBody, nil
}
