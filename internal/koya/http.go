package koya

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/koya-pay/internal/config"
	"github.com/kozaktomas/koya-pay/internal/media"
	"go.uber.org/zap"
)

// doJSON performs a request with an optional JSON body and unmarshals the JSON response.
// The id is substituted into the endpoint path.
func doJSON[T any](ctx context.Context, k *Koya, op string, ep config.Endpoint, id string, requestBody any) (*T, error) {
	body, err := doRequestRaw(ctx, k, op, ep, id, requestBody)
	if err != nil {
		return nil, err
	}
	return decode[T](op, body)
}

// doRequestRaw performs a request with an optional JSON body without unmarshaling the response.
func doRequestRaw(ctx context.Context, k *Koya, op string, ep config.Endpoint, id string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, &RequestError{Op: op, Message: "could not marshal request body", Err: err}
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, k.resolveURL(ep.PathFor(id)), bodyReader)
	if err != nil {
		return nil, &RequestError{Op: op, Message: "could not create request", Err: err}
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return k.send(op, req)
}

// doMultipart posts a single file as a multipart form and unmarshals the JSON response.
func doMultipart[T any](ctx context.Context, k *Koya, op string, ep config.Endpoint, field string, file media.FileHandle) (*T, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", multipart.FileContentDisposition(field, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &RequestError{Op: op, Message: "could not create form file", Err: err}
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, &RequestError{Op: op, Message: "could not copy file data", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &RequestError{Op: op, Message: "could not close writer", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, k.resolveURL(ep.PathFor("")), &body)
	if err != nil {
		return nil, &RequestError{Op: op, Message: "could not create request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := k.send(op, req)
	if err != nil {
		return nil, err
	}
	return decode[T](op, respBody)
}

// send executes the request and returns the body of a 2xx response.
// Every other outcome is a *RequestError.
func (k *Koya) send(op string, req *http.Request) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	log := k.logger.With(zap.String("op", op), zap.String("request_id", requestID))
	start := time.Now()

	resp, err := k.httpClient.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, &RequestError{Op: op, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	log.Debug("request done",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(readErrorBody(resp.Body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: op, Message: "could not read response body", Err: err}
	}

	k.captureResponse(op, body)
	return body, nil
}

// decode unmarshals a response body. An empty body decodes to the zero value.
func decode[T any](op string, body []byte) (*T, error) {
	var result T
	if len(bytes.TrimSpace(body)) == 0 {
		return &result, nil
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &RequestError{Op: op, Message: "could not unmarshal response", Err: err}
	}
	return &result, nil
}

// readErrorBody reads the response body for error messages.
// Returns empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// errorMessage extracts {"error": ...} or {"message": ...} from an error body,
// falling back to the raw text.
func errorMessage(body string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(bytes.TrimSpace([]byte(body)))
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "could not send request"
	}
}
