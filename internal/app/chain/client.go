package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/internal/model"
)

var (
	ErrAllEndpointsFailed = errors.New("all rpc endpoints failed")
	ErrInsufficientFunds  = errors.New("insufficient balance for amount plus gas")
	ErrWaitTimeout        = errors.New("timed out waiting for receipt")
	ErrTxReverted         = errors.New("transaction reverted")
)

// node 是单个 RPC 节点的最小接口。
type node interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

var dialNode = func(url string) (node, error) {
	return ethclient.Dial(url)
}

// GasLedger 记录每笔链上转账消耗的 gas。
type GasLedger interface {
	RecordGas(g *model.PlatformTransactionGas) error
}

type Client struct {
	endpoints      []string
	chainID        *big.Int
	gasLimit       uint64
	receiptTimeout time.Duration
	pollInterval   time.Duration

	priv *ecdsa.PrivateKey
	from common.Address

	// 同一发送方的 nonce 必须串行分配
	mu sync.Mutex

	gasLedger GasLedger
}

type Config struct {
	Endpoints      []string
	ChainID        int64
	PrivateKeyHex  string
	GasLimit       uint64
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
}

func New(cfg Config, gasLedger GasLedger) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("no rpc endpoints configured")
	}
	priv, err := crypto.HexToECDSA(cfg.PrivateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return &Client{
		endpoints:      cfg.Endpoints,
		chainID:        big.NewInt(cfg.ChainID),
		gasLimit:       cfg.GasLimit,
		receiptTimeout: cfg.ReceiptTimeout,
		pollInterval:   cfg.PollInterval,
		priv:           priv,
		from:           crypto.PubkeyToAddress(priv.PublicKey),
		gasLedger:      gasLedger,
	}, nil
}

func (c *Client) From() string {
	return c.from.Hex()
}

// withNode 依次尝试各节点, 全部失败时返回 ErrAllEndpointsFailed。
func (c *Client) withNode(fn func(n node) error) error {
	var lastErr error
	for _, url := range c.endpoints {
		n, err := dialNode(url)
		if err != nil {
			log.Warnf("dial %s failed: %v", url, err)
			lastErr = err
			continue
		}
		err = fn(n)
		n.Close()
		if err != nil {
			log.Warnf("rpc via %s failed: %v", url, err)
			lastErr = err
			continue
		}
		return nil
	}
	return errors.Wrapf(ErrAllEndpointsFailed, "last error: %v", lastErr)
}

func (c *Client) Balance(ctx context.Context, account string) (balance *big.Int, err error) {
	err = c.withNode(func(n node) (err error) {
		balance, err = n.BalanceAt(ctx, common.HexToAddress(account), nil)
		return
	})
	return
}

// Transfer 从平台账户向 to 转出 amountWei, 等待回执后记账 gas。
// 超时返回已广播的交易哈希和 ErrWaitTimeout, 交易结果未知。
func (c *Client) Transfer(ctx context.Context, to string, amountWei *big.Int) (txHash string, err error) {
	signed, gasPrice, err := c.submit(ctx, common.HexToAddress(to), amountWei)
	if err != nil {
		return "", err
	}
	txHash = signed.Hash().Hex()
	log.Infof("sent tx %s: %s wei to %s", txHash, amountWei, to)

	receipt, err := c.WaitReceipt(ctx, signed.Hash())
	if err != nil {
		return txHash, err
	}

	effective := receipt.EffectiveGasPrice
	if effective == nil {
		effective = gasPrice
	}
	spent := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), effective)
	if c.gasLedger != nil {
		if err := c.gasLedger.RecordGas(&model.PlatformTransactionGas{
			TransactionHash: txHash,
			AmountWei:       decimal.NewFromBigInt(spent, 0),
		}); err != nil {
			log.Errorf("err: %+v", errors.Wrap(err, "record gas"))
		}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash, errors.Wrapf(ErrTxReverted, "tx %s", txHash)
	}
	return txHash, nil
}

// submit 在锁内完成询价/余额校验/nonce 分配与广播, 回执等待不占锁。
func (c *Client) submit(ctx context.Context, toAddr common.Address, amountWei *big.Int) (signed *types.Transaction, gasPrice *big.Int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.withNode(func(n node) (err error) {
		gasPrice, err = n.SuggestGasPrice(ctx)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	var balance *big.Int
	err = c.withNode(func(n node) (err error) {
		balance, err = n.BalanceAt(ctx, c.from, nil)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	gasLimit := c.gasLimit
	if gasLimit == 0 {
		err = c.withNode(func(n node) (err error) {
			gasLimit, err = n.EstimateGas(ctx, ethereum.CallMsg{
				From:  c.from,
				To:    &toAddr,
				Value: amountWei,
			})
			return
		})
		if err != nil {
			return nil, nil, err
		}
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	need := new(big.Int).Add(amountWei, fee)
	if balance.Cmp(need) < 0 {
		return nil, nil, errors.Wrapf(ErrInsufficientFunds, "balance %s, need %s", balance, need)
	}

	var nonce uint64
	err = c.withNode(func(n node) (err error) {
		nonce, err = n.PendingNonceAt(ctx, c.from)
		return
	})
	if err != nil {
		return nil, nil, err
	}

	tx := types.NewTransaction(nonce, toAddr, amountWei, gasLimit, gasPrice, nil)
	signed, err = types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.priv)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sign tx")
	}

	err = c.withNode(func(n node) error {
		return n.SendTransaction(ctx, signed)
	})
	if err != nil {
		return nil, nil, err
	}
	return signed, gasPrice, nil
}

// WaitReceipt 轮询回执直至超时。
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(c.receiptTimeout)
	for {
		var receipt *types.Receipt
		err := c.withNode(func(n node) (err error) {
			receipt, err = n.TransactionReceipt(ctx, hash)
			if errors.Is(err, ethereum.NotFound) {
				receipt = nil
				return nil
			}
			return
		})
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		if time.Now().Add(c.pollInterval).After(deadline) {
			return nil, errors.Wrapf(ErrWaitTimeout, "tx %s", hash.Hex())
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
