package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-Id"
)

type (
	// requestPipeline runs one backend call through its stages: encode the body,
	// prepare the request, send it, decode the response.
	requestPipeline struct {
		parametersParser func(body any) (io.Reader, error)
		requestPrepare   func(ctx context.Context, method, url string, body io.Reader) (*http.Request, error)
		client           *http.Client
		postProcess      func(status int, responseBody []byte, out any) error
	}
)

func (r requestPipeline) Execute(ctx context.Context, method, url string, body, out any) error {
	reader, err := r.parametersParser(body)
	if err != nil {
		return fmt.Errorf("error during prepare: %w", err)
	}
	request, err := r.requestPrepare(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("error during request prepare: %w", err)
	}
	entry := log.WithFields(log.Fields{
		"request_id": request.Header.Get(requestIDHeader),
		"method":     method,
		"url":        url,
	})
	resp, err := r.client.Do(request)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return fmt.Errorf("error during request sending: %w", err)
	}
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error during body response: %w", err)
	}
	entry.WithField("status", resp.StatusCode).Debug("request done")
	return r.postProcess(resp.StatusCode, responseBody, out)
}

func prepareJSONBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	parsed, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("can not marshal JSON: %w", err)
	}
	return bytes.NewReader(parsed), nil
}

func prepareJSONRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		request.Header.Set("Content-Type", contentTypeJSON)
	}
	request.Header.Set(requestIDHeader, uuid.NewString())
	return request, nil
}

func postProcessJSON(status int, responseBody []byte, out any) error {
	if status < 200 || status > 299 {
		return &Error{Status: status, Body: string(responseBody)}
	}
	if out == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("can not unmarshal response: %w", err)
	}
	return nil
}
