// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

const (
	dirsRoute  = "/api/dirs"
	filesRoute = "/api/files"

	retryWaitTime = 200 * time.Millisecond
)

type httpRemoteStore struct {
	client *utils.HTTPClient
	signer *requestSigner

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the HTTP implementation of [RemoteStore]
// talking to the bundled file-store server.
//
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the request timeout and retry policy. When appCfg.TokenSignKey
// is set, every request carries a short-lived HS256 bearer token.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient().WithRetries(adapterCfg.RetryCount, retryWaitTime)
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	store := &httpRemoteStore{client: client, logger: logger}
	if appCfg.TokenSignKey != "" {
		store.signer = &requestSigner{
			issuer:   appCfg.TokenIssuer,
			account:  appCfg.AccountName,
			duration: appCfg.TokenDuration,
			signKey:  appCfg.TokenSignKey,
		}
	}

	return store, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// ListDirectory implements [RemoteStore] via GET /api/dirs/{dir}.
func (h *httpRemoteStore) ListDirectory(ctx context.Context, dir string) (models.DirectoryListing, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.DirectoryListing{}, err
	}

	resp, err := req.Get(dirsRoute + escapePath(dir))
	if err != nil {
		return models.DirectoryListing{}, h.transportError(err, "httpRemoteStore.ListDirectory", dir)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.DirectoryListing{Entries: map[string]string{}}, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DirectoryListing{}, err
	}

	var listing models.DirectoryListing
	if err = json.Unmarshal(resp.Body(), &listing); err != nil {
		return models.DirectoryListing{}, fmt.Errorf("%w: decode directory listing: %w", ErrTransport, err)
	}
	if listing.Entries == nil {
		listing.Entries = map[string]string{}
	}
	return listing, nil
}

// GetDirectoryTag implements [RemoteStore] via HEAD /api/dirs/{dir}.
func (h *httpRemoteStore) GetDirectoryTag(ctx context.Context, dir string) (string, error) {
	req, err := h.request(ctx)
	if err != nil {
		return "", err
	}

	resp, err := req.Head(dirsRoute + escapePath(dir))
	if err != nil {
		return "", h.transportError(err, "httpRemoteStore.GetDirectoryTag", dir)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", nil
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return unquoteETag(resp.Header().Get("ETag")), nil
}

// Download implements [RemoteStore] via GET /api/files/{path}.
func (h *httpRemoteStore) Download(ctx context.Context, filePath string) (models.RemoteFile, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.RemoteFile{}, err
	}

	resp, err := req.Get(filesRoute + escapePath(filePath))
	if err != nil {
		return models.RemoteFile{}, h.transportError(err, "httpRemoteStore.Download", filePath)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteFile{}, err
	}

	return models.RemoteFile{
		Path: filePath,
		Body: resp.Body(),
		ETag: unquoteETag(resp.Header().Get("ETag")),
	}, nil
}

// Upload implements [RemoteStore] via PUT /api/files/{path}. The If-Match
// header is sent only for conditional writes.
func (h *httpRemoteStore) Upload(ctx context.Context, filePath string, body []byte, ifMatch string) (string, error) {
	req, err := h.request(ctx)
	if err != nil {
		return "", err
	}

	req.SetHeader("Content-Type", "application/json").
		SetHeader(utils.ContentDigestHeader, utils.ContentETag(body)).
		SetBody(body)
	if ifMatch != "" {
		req.SetHeader("If-Match", quoteETag(ifMatch))
	}

	resp, err := req.Put(filesRoute + escapePath(filePath))
	if err != nil {
		return "", h.transportError(err, "httpRemoteStore.Upload", filePath)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	eTag := unquoteETag(resp.Header().Get("ETag"))
	if eTag == "" {
		return "", fmt.Errorf("%w: upload %s: response without ETag", ErrTransport, filePath)
	}
	return eTag, nil
}

// Delete implements [RemoteStore] via DELETE /api/files/{path}.
func (h *httpRemoteStore) Delete(ctx context.Context, filePath string) error {
	req, err := h.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete(filesRoute + escapePath(filePath))
	if err != nil {
		return h.transportError(err, "httpRemoteStore.Delete", filePath)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}

	return mapHTTPError(resp)
}

// Exists implements [RemoteStore] via HEAD /api/files/{path}.
func (h *httpRemoteStore) Exists(ctx context.Context, filePath string) (bool, error) {
	req, err := h.request(ctx)
	if err != nil {
		return false, err
	}

	resp, err := req.Head(filesRoute + escapePath(filePath))
	if err != nil {
		return false, h.transportError(err, "httpRemoteStore.Exists", filePath)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	return true, nil
}

func (h *httpRemoteStore) request(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)
	if h.signer == nil {
		return req, nil
	}

	token, err := h.signer.token()
	if err != nil {
		return nil, fmt.Errorf("%w: sign request: %w", ErrTransport, err)
	}
	return req.SetAuthToken(token), nil
}

func (h *httpRemoteStore) transportError(err error, funcName, target string) error {
	h.logger.Err(err).Str("func", funcName).Str("path", target).Msg("remote request failed")
	return fmt.Errorf("%w: %s: %w", ErrTransport, target, err)
}

// requestSigner issues bearer tokens and reuses one until a quarter of its
// lifetime is left.
type requestSigner struct {
	issuer   string
	account  string
	duration time.Duration
	signKey  string

	mu      sync.Mutex
	current utils.RequestToken
}

func (s *requestSigner) token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.SignedString != "" && time.Until(s.current.ExpiresAt) > s.duration/4 {
		return s.current.SignedString, nil
	}

	token, err := utils.GenerateJWTToken(s.issuer, s.account, s.duration, s.signKey)
	if err != nil {
		return "", err
	}
	s.current = token
	return token.SignedString, nil
}

// escapePath cleans p and escapes every segment, keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(path.Clean("/"+p), "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/")
}

func quoteETag(eTag string) string {
	if strings.HasPrefix(eTag, `"`) {
		return eTag
	}
	return `"` + eTag + `"`
}

func unquoteETag(eTag string) string {
	return strings.Trim(strings.TrimSpace(eTag), `"`)
}
