package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/config"
)

// StoreError is a non-2xx response from the blob store gateway.
type StoreError struct {
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable reports whether the request may succeed on retry. Server
// errors are retryable; client errors are permanent.
func (e *StoreError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// HTTPStore talks to a blob store gateway over REST. Transient failures
// are retried with linear backoff up to the configured attempt count.
type HTTPStore struct {
	endpoint   string
	bucket     string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewHTTPStore(cfg *config.StorageConfig, logger *logrus.Logger) *HTTPStore {
	return &HTTPStore{
		endpoint:   cfg.Endpoint,
		bucket:     cfg.Bucket,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (s *HTTPStore) objectURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, url.PathEscape(name))
}

func (s *HTTPStore) List(ctx context.Context, prefix string) ([]Descriptor, error) {
	listURL := fmt.Sprintf("%s/%s?prefix=%s", s.endpoint, s.bucket, url.QueryEscape(prefix))

	var objects []Descriptor
	err := s.doWithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return s.toStoreError(resp)
		}
		var payload struct {
			Objects []Descriptor `json:"objects"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return fmt.Errorf("decode list response: %w", err)
		}
		objects = payload.Objects
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	return objects, nil
}

func (s *HTTPStore) Metadata(ctx context.Context, name string) (Descriptor, error) {
	var desc Descriptor
	err := s.doWithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL(name), nil)
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			desc = Descriptor{Name: name, Size: resp.ContentLength}
			return nil
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		default:
			return s.toStoreError(resp)
		}
	})
	if err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

func (s *HTTPStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.doWithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(name), nil)
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			data, err = io.ReadAll(resp.Body)
			return err
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		default:
			return s.toStoreError(resp)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return data, nil
}

func (s *HTTPStore) Put(ctx context.Context, name string, data []byte, pre *Precondition) error {
	err := s.doWithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(name), bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		if pre != nil && pre.DoesNotExist {
			// Gateway rejects the write with 412 if the object exists.
			req.Header.Set("If-None-Match", "*")
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusNoContent:
			return nil
		case http.StatusPreconditionFailed:
			return fmt.Errorf("%w: %s", ErrPreconditionFailed, name)
		default:
			return s.toStoreError(resp)
		}
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}
	return nil
}

func (s *HTTPStore) PublicURL(name string) string {
	return s.objectURL(name)
}

func (s *HTTPStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	signURL := fmt.Sprintf("%s?ttl=%d", s.objectURL(name)+"/sign", int(ttl.Seconds()))

	var signed string
	err := s.doWithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, nil)
		if err != nil {
			return err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return s.toStoreError(resp)
		}
		var payload struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return fmt.Errorf("decode sign response: %w", err)
		}
		signed = payload.URL
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign %q: %w", name, err)
	}
	return signed, nil
}

func (s *HTTPStore) toStoreError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StoreError{StatusCode: resp.StatusCode, Body: string(body)}
}

// doWithRetry runs fn up to maxRetries+1 times, backing off between
// attempts. Not-found and precondition failures are permanent; so are
// client errors from the gateway.
func (s *HTTPStore) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	attempts := s.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
			s.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"error":   lastErr,
			}).Warn("Retrying store request")
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var storeErr *StoreError
		if errors.As(err, &storeErr) && !storeErr.IsRetryable() {
			return err
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPreconditionFailed) || errors.Is(err, context.Canceled) {
			return err
		}
	}
	return lastErr
}
