package service

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
)

// Wallet is the blockchain account paying for inference: key material for
// signing broker requests plus the chain RPC for balance queries.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	rpcURL  string
}

func NewWallet(privateKeyHex, rpcURL string) (*Wallet, error) {
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key not configured")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		rpcURL:  rpcURL,
	}, nil
}

// Address returns the checksummed account address.
func (w *Wallet) Address() string {
	return w.address.Hex()
}

// Balance returns the account's native token balance in wei.
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	client, err := ethclient.DialContext(ctx, w.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC: %w", err)
	}
	defer client.Close()

	balance, err := client.BalanceAt(ctx, w.address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance: %w", err)
	}
	return balance, nil
}

// Sign signs keccak256(message) with the account key and returns the
// signature as a 0x-prefixed hex string.
func (w *Wallet) Sign(message []byte) (string, error) {
	sig, err := crypto.Sign(crypto.Keccak256(message), w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return hexutil.Encode(sig), nil
}

// FormatEther renders a wei amount as a decimal token amount.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return f.Text('f', -1)
}

// EtherToWei converts a token amount to wei.
func EtherToWei(amount float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(params.Ether))
	wei, _ := f.Int(nil)
	return wei
}
