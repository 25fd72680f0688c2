package fill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agridesk/consentd/portal/types"
)

// Filler produces a filled consent form PDF for an application.
// The signature, when present, is a PNG data URL captured from the
// signature canvas.
type Filler interface {
	Fill(ctx context.Context, templateID string, fields types.ConsentFields, signature string) ([]byte, error)
}

type fillRequest struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	FarmCode   string `json:"farmCode"`
	Email      string `json:"email"`
	Signature  string `json:"signature,omitempty"`
}

// HTTPFiller delegates PDF filling to a remote endpoint. Every request
// carries the caller's bearer token; a missing token fails before any
// request is made.
type HTTPFiller struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPFiller(baseURL, token string, client *http.Client) *HTTPFiller {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFiller{
		baseURL: baseURL,
		token:   token,
		client:  client,
	}
}

func (f *HTTPFiller) Fill(ctx context.Context, templateID string, fields types.ConsentFields, signature string) ([]byte, error) {
	if f.token == "" {
		return nil, types.ErrUnauthenticated
	}

	bz, err := json.Marshal(fillRequest{
		TemplateID: templateID,
		Name:       fields.Name,
		Address:    fields.Address,
		FarmCode:   fields.FarmCode,
		Email:      fields.Email,
		Signature:  signature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fill request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/fill-consent-pdf", bytes.NewReader(bz))
	if err != nil {
		return nil, fmt.Errorf("failed to build fill request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, types.ErrUnauthenticated
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: fill endpoint returned %s", types.ErrFillFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFillFailed, err)
	}
	return data, nil
}
