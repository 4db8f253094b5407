package khaltirepo

import (
	"context"
	"encoding/json"
)

type VerifyReq struct {
	Token  string
	Amount float64
}

type VerifyResp struct {
	// Idx is the gateway's transaction id; empty means not verified.
	Idx        string
	Amount     float64
	RawPayload json.RawMessage
}

type Repo interface {
	Verify(ctx context.Context, req VerifyReq) (*VerifyResp, error)
}
