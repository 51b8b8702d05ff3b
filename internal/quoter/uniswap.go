package quoter

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
)

const quoteMethod = "quoteExactInputSingle"

// quoterABI is the single QuoterV1 method the bot calls.
const quoterABI = `[{
	"inputs": [
		{"internalType": "address", "name": "tokenIn", "type": "address"},
		{"internalType": "address", "name": "tokenOut", "type": "address"},
		{"internalType": "uint24", "name": "fee", "type": "uint24"},
		{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
		{"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
	],
	"name": "quoteExactInputSingle",
	"outputs": [{"internalType": "uint256", "name": "amountOut", "type": "uint256"}],
	"stateMutability": "nonpayable",
	"type": "function"
}]`

// UniswapQuoter implements Source with an eth_call against a Uniswap V3 QuoterV1 contract.
type UniswapQuoter struct {
	Caller        ethereum.ContractCaller
	Address       common.Address
	PriceDecimals int

	abi abi.ABI
}

// NewUniswapQuoter creates a quoter over an existing contract caller.
func NewUniswapQuoter(caller ethereum.ContractCaller, address common.Address, priceDecimals int) (*UniswapQuoter, error) {
	parsed, err := abi.JSON(strings.NewReader(quoterABI))
	if err != nil {
		return nil, fmt.Errorf("parse quoter abi: %w", err)
	}
	return &UniswapQuoter{
		Caller:        caller,
		Address:       address,
		PriceDecimals: priceDecimals,
		abi:           parsed,
	}, nil
}

// Dial connects to a JSON-RPC endpoint with optional proxy support and
// verifies connectivity by reading the chain ID.
func Dial(ctx context.Context, endpoint, proxyURL string) (*ethclient.Client, *big.Int, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}

	rc, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, nil, fmt.Errorf("dial rpc: %w", err)
	}
	client := ethclient.NewClient(rc)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("probe chain id: %w", err)
	}
	return client, chainID, nil
}

func (q *UniswapQuoter) Name() string { return "uniswap-v3-quoter" }

// Quote calls quoteExactInputSingle with no price limit and scales the
// returned amount by PriceDecimals.
func (q *UniswapQuoter) Quote(ctx context.Context, req Request) (float64, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return 0, fmt.Errorf("amount in must be positive")
	}
	data, err := q.abi.Pack(quoteMethod,
		req.TokenIn, req.TokenOut, new(big.Int).SetUint64(uint64(req.FeeTier)), req.AmountIn, big.NewInt(0))
	if err != nil {
		return 0, fmt.Errorf("pack call: %w", err)
	}

	out, err := q.Caller.CallContract(ctx, ethereum.CallMsg{To: &q.Address, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call quoter: %w", err)
	}

	values, err := q.abi.Unpack(quoteMethod, out)
	if err != nil {
		return 0, fmt.Errorf("unpack result: %w", err)
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("unexpected result length %d", len(values))
	}
	amountOut, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected result type %T", values[0])
	}
	return ScaleAmount(amountOut, q.PriceDecimals), nil
}

// ScaleAmount converts a raw integer token amount to a float by dividing by 10^decimals.
func ScaleAmount(raw *big.Int, decimals int) float64 {
	f, _ := decimal.NewFromBigInt(raw, int32(-decimals)).Float64()
	return f
}

// RawAmount converts a human-unit amount to raw integer token units.
func RawAmount(amount float64, decimals int) *big.Int {
	return decimal.NewFromFloat(amount).Shift(int32(decimals)).BigInt()
}
