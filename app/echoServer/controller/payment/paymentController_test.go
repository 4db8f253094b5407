package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/visionmax01/rentoora-backend-rental/model"
	pay "github.com/visionmax01/rentoora-backend-rental/service/payment"
)

type svcMock struct {
	verifyFn func(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error)
}

var _ pay.Service = (*svcMock)(nil)

func (m *svcMock) VerifyKhalti(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error) {
	return m.verifyFn(ctx, req)
}

func (m *svcMock) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return nil, nil
}

type codeErr struct{ c pay.ErrCode }

func (e codeErr) Error() string     { return string(e.c) }
func (e codeErr) Code() pay.ErrCode { return e.c }

func verifyRequest(t *testing.T, svc pay.Service, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := &Controller{
		Svc: svc,
		V:   validator.New(),
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payment/khalti/verify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", int64(7))

	require.NoError(t, h.VerifyKhalti(c))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

const verifyBody = `{"token":"tok","amount":500000,"postId":1,"orderId":2}`

func TestVerifyKhalti_SuccessFlag(t *testing.T) {
	svc := &svcMock{
		verifyFn: func(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error) {
			require.Equal(t, int64(7), req.UserID)
			return &model.Payment{ID: 11, UserID: req.UserID, OrderID: req.OrderID}, nil
		},
	}
	rec, out := verifyRequest(t, svc, verifyBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, out["success"])
}

func TestVerifyKhalti_FailureFlag(t *testing.T) {
	svc := &svcMock{
		verifyFn: func(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error) {
			return nil, codeErr{c: pay.ErrVerifyFailed}
		},
	}
	rec, out := verifyRequest(t, svc, verifyBody)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	require.Equal(t, false, out["success"])
	require.NotEmpty(t, out["message"])
}

func TestVerifyKhalti_AmountMismatchFlag(t *testing.T) {
	svc := &svcMock{
		verifyFn: func(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error) {
			return nil, codeErr{c: pay.ErrAmountMismatch}
		},
	}
	rec, out := verifyRequest(t, svc, verifyBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, false, out["success"])
}

func TestVerifyKhalti_BodyUserIDIgnored(t *testing.T) {
	svc := &svcMock{
		verifyFn: func(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error) {
			require.Equal(t, int64(7), req.UserID)
			return &model.Payment{ID: 11}, nil
		},
	}
	body := `{"token":"tok","amount":500000,"postId":1,"orderId":2,"userId":999}`
	rec, _ := verifyRequest(t, svc, body)
	require.Equal(t, http.StatusOK, rec.Code)
}
