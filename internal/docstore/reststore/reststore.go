// Package reststore is an HTTP/JSON client for the remote document API. It is
// the thin wrapper the data layer talks to in production; all invariants live
// client-side, the API is plain per-document CRUD.
package reststore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bytebank/bytebank-client/internal/docstore"
)

// TokenSource supplies the bearer token attached to every request. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Store issues document CRUD calls against a remote HTTP API.
type Store struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

var _ docstore.Store = (*Store)(nil)

func New(baseURL string, tokens TokenSource) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Document) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	err := s.do(ctx, http.MethodPost, s.baseURL+"/"+collection, fields, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var doc docstore.Document
	err := s.do(ctx, http.MethodGet, s.docURL(collection, id), nil, &doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	return s.do(ctx, http.MethodPatch, s.docURL(collection, id), partial, nil)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := s.do(ctx, http.MethodDelete, s.docURL(collection, id), nil, nil)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Store) Query(ctx context.Context, collection string, filter docstore.Filter) ([]docstore.Document, error) {
	u := s.baseURL + "/" + collection
	if filter.Field != "" {
		params := url.Values{}
		params.Set("field", filter.Field)
		params.Set("equals", fmt.Sprint(normalize(filter.Equals)))
		u += "?" + params.Encode()
	}
	var docs []docstore.Document
	if err := s.do(ctx, http.MethodGet, u, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) docURL(collection, id string) string {
	return s.baseURL + "/" + collection + "/" + url.PathEscape(id)
}

func (s *Store) do(ctx context.Context, method, u string, payload docstore.Document, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(normalizeDocument(payload))
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := s.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return docstore.ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("reststore: %s %s: %s: %s", method, u, resp.Status, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func normalizeDocument(doc docstore.Document) map[string]any {
	normalized := make(map[string]any, len(doc))
	for key, value := range doc {
		normalized[key] = normalize(value)
	}
	return normalized
}

// normalize renders decimals and times the way every backend stores them, so
// the wire format matches what Document accessors expect back.
func normalize(value any) any {
	switch t := value.(type) {
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return value
	}
}
