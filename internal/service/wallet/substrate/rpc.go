package substrate

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultEndpoint is the public Polkadot RPC node.
const DefaultEndpoint = "wss://rpc.polkadot.io"

// PolkadotDecimals is the number of decimal places of one DOT in planck.
const PolkadotDecimals = 10

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Observer is told about every RPC round trip. err is nil on success.
type Observer func(method string, elapsed time.Duration, err error)

// ClientOptions configures the RPC client.
type ClientOptions struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
	Observer   Observer
}

// Client talks JSON-RPC to a Substrate node over a websocket. A connection is
// opened per snapshot and closed afterwards.
type Client struct {
	opts   ClientOptions
	dialer *websocket.Dialer
	nextID atomic.Uint64
}

// NewClient fills unset options with defaults.
func NewClient(opts ClientOptions) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Client{
		opts:   opts,
		dialer: &websocket.Dialer{HandshakeTimeout: opts.Timeout},
	}
}

// Snapshot is the balance of one account at the node's current head.
type Snapshot struct {
	Free        *big.Int
	BlockNumber uint64
}

// FreeBalance returns the free balance of an SS58 address and the current block number.
// Accounts without storage report a zero balance.
func (c *Client) FreeBalance(ctx context.Context, address string) (Snapshot, error) {
	accountID, _, err := DecodeAddress(address)
	if err != nil {
		return Snapshot{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	conn, err := c.connectWithRetry(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var header struct {
		Number string `json:"number"`
	}
	if err := c.call(ctx, conn, "chain_getHeader", nil, &header); err != nil {
		return Snapshot{}, err
	}
	block, err := strconv.ParseUint(strings.TrimPrefix(header.Number, "0x"), 16, 64)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse block number %q: %w", header.Number, err)
	}

	key := "0x" + hex.EncodeToString(SystemAccountKey(accountID))
	var value *string
	if err := c.call(ctx, conn, "state_getStorage", []any{key}, &value); err != nil {
		return Snapshot{}, err
	}
	if value == nil {
		return Snapshot{Free: new(big.Int), BlockNumber: block}, nil
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(*value, "0x"))
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode storage value: %w", err)
	}
	info, err := DecodeAccountInfo(raw)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Free: info.Free, BlockNumber: block}, nil
}

func (c *Client) connectWithRetry(ctx context.Context) (*websocket.Conn, error) {
	var lastErr error
	for i := 0; i < c.opts.MaxRetries; i++ {
		conn, _, err := c.dialer.DialContext(ctx, c.opts.Endpoint, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i+1 < c.opts.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i+1) * 250 * time.Millisecond):
			}
		}
	}
	return nil, fmt.Errorf("dial %s after %d attempts: %w", c.opts.Endpoint, c.opts.MaxRetries, lastErr)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) call(ctx context.Context, conn *websocket.Conn, method string, params []any, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.opts.Observer != nil {
			c.opts.Observer(method, time.Since(start), err)
		}
	}()

	if params == nil {
		params = []any{}
	}
	id := c.nextID.Add(1)
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}
	if err := conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return c.wrap(ctx, method, err)
	}

	for {
		var resp rpcResponse
		if err := conn.ReadJSON(&resp); err != nil {
			return c.wrap(ctx, method, err)
		}
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) wrap(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%s: %w", method, ctxErr)
	}
	return fmt.Errorf("%s: %w", method, err)
}
