// internal/trade/gateway.go
package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/blockchain"
	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/wallet"
)

const defaultRequestTimeout = 15 * time.Second

// Params are the order parameters shared by every request.
type Params struct {
	Amount          float64
	Slippage        float64
	BuyPriorityFee  float64
	SellPriorityFee float64
	Pool            string
}

// ParamsFromConfig extracts order parameters from the configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Amount:          cfg.InvestmentAmount,
		Slippage:        cfg.SlippageTolerance,
		BuyPriorityFee:  cfg.BuyPriorityFee,
		SellPriorityFee: cfg.SellPriorityFee,
		Pool:            cfg.Pool,
	}
}

// Gateway получает транзакцию у сервиса, подписывает её и отправляет в сеть.
type Gateway struct {
	endpoint string
	http     *http.Client
	client   blockchain.Client
	wallet   *wallet.Wallet
	params   Params
	logger   *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEndpoint overrides the trade-construction endpoint.
func WithEndpoint(endpoint string) Option {
	return func(g *Gateway) { g.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func NewGateway(client blockchain.Client, w *wallet.Wallet, params Params, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		endpoint: config.TradeEndpoint,
		http:     &http.Client{Timeout: defaultRequestTimeout},
		client:   client,
		wallet:   w,
		params:   params,
		logger:   logger.Named("trade-gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Buy requests a buy of the configured investment amount.
func (g *Gateway) Buy(ctx context.Context, mint string) OrderResult {
	return g.execute(ctx, g.request(ActionBuy, mint, g.params.Amount, g.params.BuyPriorityFee))
}

// Sell requests a sell of amount for mint.
func (g *Gateway) Sell(ctx context.Context, mint string, amount float64) OrderResult {
	return g.execute(ctx, g.request(ActionSell, mint, amount, g.params.SellPriorityFee))
}

func (g *Gateway) request(action Action, mint string, amount, fee float64) OrderRequest {
	return OrderRequest{
		PublicKey:        g.wallet.PublicKey.String(),
		Action:           action,
		Mint:             mint,
		DenominatedInSol: "true",
		Amount:           amount,
		Slippage:         g.params.Slippage,
		PriorityFee:      fee,
		Pool:             g.params.Pool,
	}
}

func (g *Gateway) execute(ctx context.Context, req OrderRequest) OrderResult {
	result := OrderResult{Request: req}

	raw, failure := g.fetchTransaction(ctx, req)
	if failure != nil {
		result.Failure = failure
		return result
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		result.Failure = &Failure{Kind: FailureDecode, Message: fmt.Sprintf("failed to decode transaction: %v", err), Err: err}
		return result
	}

	if err := g.wallet.SignTransaction(tx); err != nil {
		result.Failure = &Failure{Kind: FailureSign, Message: fmt.Sprintf("failed to sign transaction: %v", err), Err: err}
		return result
	}

	sig, err := g.client.SendTransaction(ctx, tx)
	if err != nil {
		result.Failure = &Failure{Kind: FailureSubmit, Message: fmt.Sprintf("failed to send transaction: %v", err), Err: err}
		return result
	}

	g.logger.Debug("Transaction submitted",
		zap.String("action", string(req.Action)),
		zap.String("mint", req.Mint),
		zap.String("signature", sig.String()))

	result.Signature = sig
	return result
}

// fetchTransaction POSTs the order and returns the serialized transaction.
func (g *Gateway) fetchTransaction(ctx context.Context, req OrderRequest) ([]byte, *Failure) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Message: fmt.Sprintf("failed to encode request: %v", err), Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Тело ответа при ошибке не используется.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &Failure{Kind: FailureHTTP, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}
	return raw, nil
}
