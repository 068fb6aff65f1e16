package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mayur7685/SpecterAI/config"
	"github.com/Mayur7685/SpecterAI/pkg/logger"
)

// InferenceSession is a connected, funded inference channel to one
// provider. It implements analyzer.ChatClient. Each analysis request
// builds its own session; nothing survives across requests.
type InferenceSession struct {
	broker      *BrokerClient
	endpoint    string
	model       string
	temperature float64
	httpClient  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Connect builds a session for the given payer key: wallet, broker account
// funding, provider acknowledgment, and endpoint resolution.
func Connect(ctx context.Context, cfg *config.ZeroGConfig, privateKeyHex string) (*InferenceSession, error) {
	wallet, err := NewWallet(privateKeyHex, cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	broker := NewBrokerClient(cfg, wallet)

	if err := broker.EnsureFunded(ctx); err != nil {
		return nil, fmt.Errorf("failed to set up broker account: %w", err)
	}

	if err := broker.AcknowledgeProvider(ctx); err != nil {
		return nil, fmt.Errorf("failed to acknowledge provider: %w", err)
	}

	endpoint, model, err := broker.ServiceMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service metadata: %w", err)
	}
	if cfg.Model != "" {
		model = cfg.Model
	}

	logger.Info(ctx, "inference session ready",
		"wallet", wallet.Address(),
		"provider", cfg.ProviderAddress,
		"model", model,
	)

	return &InferenceSession{
		broker:      broker,
		endpoint:    endpoint,
		model:       model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Wallet returns the paying wallet of this session.
func (s *InferenceSession) Wallet() *Wallet {
	return s.broker.wallet
}

// LedgerBalance returns the broker account balance of the paying wallet.
func (s *InferenceSession) LedgerBalance(ctx context.Context) (string, error) {
	balance, err := s.broker.LedgerBalance(ctx)
	if err != nil {
		return "", err
	}
	return FormatEther(balance), nil
}

// ChatComplete sends a single user-role message, with broker-signed
// request headers, and verifies the reply before returning it.
func (s *InferenceSession) ChatComplete(ctx context.Context, prompt string) (string, error) {
	messages := []chatMessage{{Role: "user", Content: prompt}}

	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("failed to marshal messages: %w", err)
	}

	// The provider authenticates each call by a signature over the
	// message payload.
	headers, err := s.broker.RequestHeaders(messagesJSON)
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to parse completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from AI model")
	}
	content := completion.Choices[0].Message.Content

	if err := s.broker.VerifyResponse(ctx, completion.ID, content); err != nil {
		return "", fmt.Errorf("response verification failed: %w", err)
	}

	return content, nil
}
