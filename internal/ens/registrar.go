package ens

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/brightlend/naming-service/internal/config"
)

// Minimal ABI fragments for the two contracts we touch. Only the
// functions used by the registration sequence are declared.
const registryABI = `[
	{"name":"setSubnodeOwner","type":"function","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"label","type":"bytes32"},{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"name":"setResolver","type":"function","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"resolver","type":"address"}],"outputs":[]},
	{"name":"owner","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"name":"resolver","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

const resolverABI = `[
	{"name":"setAddr","type":"function","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"addr","type":"address"}],"outputs":[]},
	{"name":"addr","type":"function","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

// RegisterReceipt carries the transaction hashes of the three
// registration steps. AddrTx is the completion marker.
type RegisterReceipt struct {
	SubnodeOwnerTx common.Hash
	ResolverTx     common.Hash
	AddrTx         common.Hash
}

// Registrar executes the subdomain registration sequence against the ENS
// registry and resolver with a single service-held signing key. The key
// owns the parent domain and acts on the user's behalf; transferring
// subnode ownership to the user is deferred.
type Registrar struct {
	client         *ethclient.Client
	signer         *bind.TransactOpts
	sendMu         sync.Mutex
	serviceAddr    common.Address
	registry       *bind.BoundContract
	resolver       *bind.BoundContract
	resolverAddr   common.Address
	parentDomain   string
	baseNode       common.Hash
	confirmTimeout time.Duration
}

func NewRegistrar(cfg *config.Config) (*Registrar, error) {
	client, err := ethclient.Dial(cfg.EthRPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial eth rpc")
	}
	return newRegistrar(cfg, client)
}

func newRegistrar(cfg *config.Config, client *ethclient.Client) (*Registrar, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.RegistrarKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse registrar key")
	}

	signer, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transactor")
	}

	regABI, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse registry abi")
	}
	resABI, err := abi.JSON(strings.NewReader(resolverABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse resolver abi")
	}

	registryAddr := common.HexToAddress(cfg.RegistryAddress)
	resolverAddr := common.HexToAddress(cfg.ResolverAddress)

	return &Registrar{
		client:         client,
		signer:         signer,
		serviceAddr:    crypto.PubkeyToAddress(key.PublicKey),
		registry:       bind.NewBoundContract(registryAddr, regABI, client, client, client),
		resolver:       bind.NewBoundContract(resolverAddr, resABI, client, client, client),
		resolverAddr:   resolverAddr,
		parentDomain:   cfg.ParentDomain,
		baseNode:       NameHash(cfg.ParentDomain),
		confirmTimeout: cfg.TxConfirmTimeout,
	}, nil
}

// ParentDomain returns the domain subnodes are created under.
func (r *Registrar) ParentDomain() string {
	return r.parentDomain
}

// Register creates label under the parent domain and points it at target:
// setSubnodeOwner, then setResolver, then setAddr. Each transaction is
// waited to a mined receipt before the next is sent; the steps operate on
// the node created in step 1 and must not be reordered or parallelized.
// A failed step aborts the sequence with no rollback of prior steps.
func (r *Registrar) Register(ctx context.Context, label string, target common.Address) (*RegisterReceipt, error) {
	subnode := Subnode(r.baseNode, label)
	receipt := &RegisterReceipt{}

	// Step 1: create the subnode, service address as temporary owner.
	tx, err := r.transact(ctx, r.registry, "setSubnodeOwner", r.baseNode, LabelHash(label), r.serviceAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "setSubnodeOwner %s", label)
	}
	receipt.SubnodeOwnerTx = tx

	// Step 2: attach the public resolver to the new node.
	tx, err = r.transact(ctx, r.registry, "setResolver", subnode, r.resolverAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "setResolver %s", label)
	}
	receipt.ResolverTx = tx

	// Step 3: point the node at the user's wallet.
	tx, err = r.transact(ctx, r.resolver, "setAddr", subnode, target)
	if err != nil {
		return nil, errors.Wrapf(err, "setAddr %s", label)
	}
	receipt.AddrTx = tx

	return receipt, nil
}

// Resolve returns the address a full domain name currently resolves to,
// or the zero address if the resolver has no record.
func (r *Registrar) Resolve(ctx context.Context, name string) (common.Address, error) {
	var out []interface{}
	err := r.resolver.Call(&bind.CallOpts{Context: ctx}, &out, "addr", NameHash(name))
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "addr %s", name)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (r *Registrar) transact(ctx context.Context, contract *bind.BoundContract, method string, args ...interface{}) (common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, r.confirmTimeout)
	defer cancel()

	opts := *r.signer
	opts.Context = ctx

	// One signing key serves every request; sends must be serialized so
	// pending-nonce lookups stay ordered.
	r.sendMu.Lock()
	tx, err := contract.Transact(&opts, method, args...)
	r.sendMu.Unlock()
	if err != nil {
		return common.Hash{}, err
	}

	receipt, err := bind.WaitMined(ctx, r.client, tx)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "waiting for tx %s", tx.Hash())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, errors.Errorf("transaction %s reverted", tx.Hash())
	}
	return tx.Hash(), nil
}
