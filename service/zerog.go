package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/Mayur7685/SpecterAI/config"
)

// BrokerClient talks to the 0G compute network broker gateway: ledger
// funding, provider-signer acknowledgment, request-header signing, and
// response verification. The gateway envelope is {code, msg, data}.
type BrokerClient struct {
	cfg        *config.ZeroGConfig
	wallet     *Wallet
	httpClient *http.Client
}

type ledgerResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Address      string `json:"address"`
		TotalBalance string `json:"total_balance"` // wei
	} `json:"data"`
}

type ledgerFundRequest struct {
	Amount string `json:"amount"` // wei
}

type acknowledgeRequest struct {
	User string `json:"user"`
}

type metadataResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		Endpoint string `json:"endpoint"`
		Model    string `json:"model"`
	} `json:"data"`
}

type verifyRequest struct {
	User    string `json:"user"`
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

type brokerAck struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func NewBrokerClient(cfg *config.ZeroGConfig, wallet *Wallet) *BrokerClient {
	return &BrokerClient{
		cfg:    cfg,
		wallet: wallet,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// LedgerBalance returns the broker account balance in wei. A missing
// account surfaces as an error so the caller can create one.
func (b *BrokerClient) LedgerBalance(ctx context.Context) (*big.Int, error) {
	var result ledgerResponse
	url := fmt.Sprintf("%s/v1/ledger/%s", b.cfg.BrokerURL, b.wallet.Address())
	if err := b.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("broker API error: %s", result.Message)
	}

	balance, ok := new(big.Int).SetString(result.Data.TotalBalance, 10)
	if !ok {
		return nil, fmt.Errorf("invalid ledger balance: %q", result.Data.TotalBalance)
	}
	return balance, nil
}

// CreateLedger opens a broker account funded with the given token amount.
func (b *BrokerClient) CreateLedger(ctx context.Context, amount float64) error {
	url := fmt.Sprintf("%s/v1/ledger/%s", b.cfg.BrokerURL, b.wallet.Address())
	return b.post(ctx, url, ledgerFundRequest{Amount: EtherToWei(amount).String()})
}

// DepositFund tops up an existing broker account.
func (b *BrokerClient) DepositFund(ctx context.Context, amount float64) error {
	url := fmt.Sprintf("%s/v1/ledger/%s/deposit", b.cfg.BrokerURL, b.wallet.Address())
	return b.post(ctx, url, ledgerFundRequest{Amount: EtherToWei(amount).String()})
}

// EnsureFunded makes sure the broker account exists and holds at least the
// configured minimum balance, topping up from the wallet when it does not.
func (b *BrokerClient) EnsureFunded(ctx context.Context) error {
	balance, err := b.LedgerBalance(ctx)
	if err != nil {
		// No account yet: open one.
		if err := b.CreateLedger(ctx, b.cfg.TopUpAmount); err != nil {
			return fmt.Errorf("failed to create ledger account: %w", err)
		}
		return nil
	}

	if balance.Cmp(EtherToWei(b.cfg.MinBalance)) < 0 {
		if err := b.DepositFund(ctx, b.cfg.TopUpAmount); err != nil {
			return fmt.Errorf("failed to top up ledger account: %w", err)
		}
	}
	return nil
}

// AcknowledgeProvider registers the wallet with the provider's signer.
// Required once per session before signed requests are accepted.
func (b *BrokerClient) AcknowledgeProvider(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/provider/%s/acknowledge", b.cfg.BrokerURL, b.cfg.ProviderAddress)
	return b.post(ctx, url, acknowledgeRequest{User: b.wallet.Address()})
}

// ServiceMetadata resolves the provider's inference endpoint and model.
func (b *BrokerClient) ServiceMetadata(ctx context.Context) (endpoint, model string, err error) {
	var result metadataResponse
	url := fmt.Sprintf("%s/v1/provider/%s/metadata", b.cfg.BrokerURL, b.cfg.ProviderAddress)
	if err := b.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return "", "", err
	}
	if result.Code != 0 {
		return "", "", fmt.Errorf("broker API error: %s", result.Message)
	}
	if result.Data.Endpoint == "" {
		return "", "", fmt.Errorf("provider metadata missing endpoint")
	}
	return result.Data.Endpoint, result.Data.Model, nil
}

// RequestHeaders signs the request body with the wallet key and returns the
// headers the provider requires on an inference call.
func (b *BrokerClient) RequestHeaders(body []byte) (map[string]string, error) {
	nonce := strconv.FormatInt(time.Now().UnixNano(), 10)
	signature, err := b.wallet.Sign(append(body, []byte(nonce)...))
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"X-0G-Address":   b.wallet.Address(),
		"X-0G-Nonce":     nonce,
		"X-0G-Signature": signature,
	}, nil
}

// VerifyResponse passes a model reply through the broker's verification
// step. A verification failure invalidates the reply.
func (b *BrokerClient) VerifyResponse(ctx context.Context, chatID, content string) error {
	url := fmt.Sprintf("%s/v1/provider/%s/verify", b.cfg.BrokerURL, b.cfg.ProviderAddress)
	return b.post(ctx, url, verifyRequest{
		User:    b.wallet.Address(),
		ChatID:  chatID,
		Content: content,
	})
}

func (b *BrokerClient) post(ctx context.Context, url string, payload any) error {
	var ack brokerAck
	if err := b.do(ctx, http.MethodPost, url, payload, &ack); err != nil {
		return err
	}
	if ack.Code != 0 {
		return fmt.Errorf("broker API error: %s", ack.Message)
	}
	return nil
}

func (b *BrokerClient) do(ctx context.Context, method, url string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
	}
	return nil
}
