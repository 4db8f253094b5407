package khaltirepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/visionmax01/rentoora-backend-rental/util/httpx"
)

const verifyURL = "https://khalti.com/api/v2/payment/verify/"

type httpRepo struct {
	secretKey string
	client    *http.Client
	baseURL   string
}

func NewHTTP(secretKey string) Repo {
	return &httpRepo{secretKey: secretKey, client: httpx.Client(), baseURL: verifyURL}
}

// NewHTTPWithBase points the client at a different endpoint (tests).
func NewHTTPWithBase(secretKey, baseURL string, client *http.Client) Repo {
	if client == nil {
		client = httpx.Client()
	}
	return &httpRepo{secretKey: secretKey, client: client, baseURL: baseURL}
}

func (r *httpRepo) Verify(ctx context.Context, req VerifyReq) (*VerifyResp, error) {
	body, err := json.Marshal(map[string]any{
		"token":  req.Token,
		"amount": req.Amount,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Key "+r.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("khalti verify failed: %s", resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out struct {
		Idx    string  `json:"idx"`
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	return &VerifyResp{Idx: out.Idx, Amount: out.Amount, RawPayload: raw}, nil
}
