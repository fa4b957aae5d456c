package repo

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	accountPkg "github.com/KeynihAV/aladdin/pkg/account"
	"github.com/KeynihAV/aladdin/pkg/common"
	"github.com/KeynihAV/aladdin/pkg/config"
	"github.com/KeynihAV/aladdin/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BackendRepo struct {
	HttpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

func NewBackendRepo(config *config.Config, logger *zap.Logger) *BackendRepo {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns: 100,
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BackendRepo{
		HttpClient: &http.Client{
			Timeout:   config.Backend.Timeout,
			Transport: metrics.InstrumentTransport(transport),
		},
		endpoint: strings.TrimRight(config.Backend.Endpoint, "/"),
		logger:   logger,
	}
}

type languageBody struct {
	UserID   int64  `json:"user_id"`
	Language string `json:"language"`
}

type connectBody struct {
	UserID   int64   `json:"user_id"`
	Exchange string  `json:"exchange"`
	APIKey   string  `json:"api_key"`
	Secret   string  `json:"secret"`
	Password string  `json:"password"`
	Strategy string  `json:"strategy"`
	Reserve  float64 `json:"reserve"`
}

type reserveBody struct {
	UserID   int64   `json:"user_id"`
	Exchange string  `json:"exchange"`
	Reserve  float64 `json:"reserve"`
}

type topUpBody struct {
	UserID int64  `json:"user_id"`
	TxID   string `json:"tx_id"`
}

type topUpResponse struct {
	Status string  `json:"status"`
	Msg    string  `json:"msg"`
	Amount float64 `json:"amount"`
}

func (br *BackendRepo) Snapshot(ctx context.Context, userID int64) (*accountPkg.Snapshot, error) {
	method := "/api/data"
	query := url.Values{"user_id": []string{strconv.FormatInt(userID, 10)}}

	snapshot := &accountPkg.Snapshot{}
	err := br.do(ctx, http.MethodGet, method+"?"+query.Encode(), nil, snapshot)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (br *BackendRepo) SaveLanguage(ctx context.Context, userID int64, language string) error {
	return br.do(ctx, http.MethodPost, "/api/language", &languageBody{UserID: userID, Language: language}, nil)
}

func (br *BackendRepo) Connect(ctx context.Context, req *accountPkg.ConnectRequest) error {
	body := &connectBody{
		UserID:   req.UserID,
		Exchange: req.Exchange,
		APIKey:   req.APIKey,
		Secret:   req.Secret,
		Password: req.Password,
		Strategy: string(req.Strategy),
		Reserve:  req.Reserve.InexactFloat64(),
	}
	return br.do(ctx, http.MethodPost, "/api/connect", body, nil)
}

func (br *BackendRepo) UpdateReserve(ctx context.Context, req *accountPkg.ReserveRequest) error {
	body := &reserveBody{
		UserID:   req.UserID,
		Exchange: req.Exchange,
		Reserve:  req.Reserve.InexactFloat64(),
	}
	return br.do(ctx, http.MethodPost, "/api/reserve", body, nil)
}

// TopUp asks the backend to verify a transfer and returns its success message.
func (br *BackendRepo) TopUp(ctx context.Context, req *accountPkg.TopUpRequest) (string, error) {
	resp := &topUpResponse{}
	err := br.do(ctx, http.MethodPost, "/api/topup", &topUpBody{UserID: req.UserID, TxID: req.TxID}, resp)
	if err != nil {
		return "", err
	}
	return resp.Msg, nil
}

func (br *BackendRepo) do(ctx context.Context, httpMethod, method string, in, out interface{}) error {
	var body *bytes.Buffer
	if in != nil {
		reqData, err := common.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(reqData)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, br.endpoint+method, body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	path := req.URL.Path
	resp, err := br.HttpClient.Do(req)
	if err != nil {
		br.logger.Warn("backend request",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", path, err)
	}

	err = common.GetStructFromResponse(out, resp)
	if err != nil {
		br.logger.Warn("backend response",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return err
	}
	br.logger.Debug("backend request",
		zap.String("request_id", requestID),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
