// Package etherscan tracks stablecoin flows through the Polymarket
// exchange contract on Polygon via the Etherscan v2 API, surfacing the
// wallets moving real size.
package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/polysnap/polysnap/internal/domain"
)

// Polygon contracts involved in Polymarket settlement.
var (
	// ExchangeProxy is the CTF Exchange contract all trades settle through.
	ExchangeProxy = common.HexToAddress("0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E")
	// ConditionalTokens is the CTF contract; it shows up as a counterparty
	// on splits/merges and must not be counted as a trader.
	ConditionalTokens = common.HexToAddress("0x4D97DCd97eC945f40cF65F87097ACe5EA0476045")
	// USDCe is the bridged USDC token used for collateral.
	USDCe = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
)

const polygonChainID = 137

// Client is the REST client for the Etherscan v2 multichain API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Etherscan client.
//
// baseURL is the API root, e.g. "https://api.etherscan.io/v2/api".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Transfer is one token transfer touching the exchange contract.
type Transfer struct {
	From      common.Address
	To        common.Address
	AmountUSD float64
}

type apiTransfer struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	TokenDecimal string `json:"tokenDecimal"`
	TokenName    string `json:"tokenName"`
	TimeStamp    string `json:"timeStamp"`
	Hash         string `json:"hash"`
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// RecentTransfers fetches the latest USDC.e transfers touching the
// exchange contract, newest first, capped at 200.
func (c *Client) RecentTransfers(ctx context.Context) ([]Transfer, error) {
	params := url.Values{}
	params.Set("contractaddress", USDCe.Hex())
	params.Set("offset", "200")

	raw, err := c.tokenTransfers(ctx, ExchangeProxy, params)
	if err != nil {
		return nil, err
	}

	transfers := make([]Transfer, 0, len(raw))
	for _, t := range raw {
		value, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			continue
		}
		transfers = append(transfers, Transfer{
			From:      common.HexToAddress(t.From),
			To:        common.HexToAddress(t.To),
			AmountUSD: value / math.Pow10(tokenDecimals(t)),
		})
	}
	return transfers, nil
}

// tokenTransfers runs an account tokentx query on Polygon for the given
// address, newest first. Extra params are merged on top of the defaults.
func (c *Client) tokenTransfers(ctx context.Context, address common.Address, extra url.Values) ([]apiTransfer, error) {
	params := url.Values{}
	params.Set("chainid", strconv.Itoa(polygonChainID))
	params.Set("module", "account")
	params.Set("action", "tokentx")
	params.Set("address", address.Hex())
	params.Set("page", "1")
	params.Set("sort", "desc")
	params.Set("apikey", c.apiKey)
	for k, vs := range extra {
		params[k] = vs
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("etherscan: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etherscan: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("etherscan: read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("etherscan: %w: %s", domain.ErrRateLimited, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("etherscan: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("etherscan: decode response: %w", err)
	}

	// The API signals errors with a non-array result ("Max rate limit
	// reached", "NOTOK"), so decode the result lazily.
	var raw []apiTransfer
	if err := json.Unmarshal(envelope.Result, &raw); err != nil {
		return nil, fmt.Errorf("etherscan: %s", envelope.Message)
	}
	return raw, nil
}

// tokenDecimals defaults to the USDC contract's 6 when the field is absent.
func tokenDecimals(t apiTransfer) int {
	decimals, err := strconv.Atoi(t.TokenDecimal)
	if err != nil {
		return 6
	}
	return decimals
}

// FetchActivity fetches recent transfers and aggregates them into the
// whale summary, degrading into an error-tagged result on failure.
func (c *Client) FetchActivity(ctx context.Context) domain.TransferSummary {
	if !c.Configured() {
		return domain.TransferSummary{
			Source:            "Etherscan v2 (Polygon)",
			ContractMonitored: ExchangeProxy.Hex(),
			Error:             "No Etherscan API key configured",
		}
	}

	transfers, err := c.RecentTransfers(ctx)
	if err != nil {
		return domain.TransferSummary{
			Source:            "Etherscan v2 (Polygon)",
			ContractMonitored: ExchangeProxy.Hex(),
			Error:             err.Error(),
		}
	}
	return Summarize(transfers)
}
