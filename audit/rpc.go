package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"p9e.in/flota/store"
)

// HTTPRPC posts audit entries to the remote audit-write procedure. One
// shot, no retries: the caller falls back to the direct table insert on any
// failure.
type HTTPRPC struct {
	URL    string
	Token  string // bearer token for the procedure endpoint, optional
	Client *http.Client
}

// NewHTTPRPC builds the primary-path client. Returns a nil RPC when no URL
// is configured so the logger skips straight to the fallback.
func NewHTTPRPC(url, token string) RPC {
	if url == "" {
		return nil
	}
	return &HTTPRPC{URL: url, Token: token, Client: http.DefaultClient}
}

func (r *HTTPRPC) Call(ctx context.Context, row store.AuditLogRow) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("audit rpc: unexpected status %d", resp.StatusCode)
	}
	return nil
}
