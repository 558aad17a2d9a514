package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/brightlend/naming-service/internal/ens"
)

// FakeRegistrar is a scripted stand-in for the on-chain registrar. It
// records registrations in memory and can be told to fail at a given
// step of the sequence.
type FakeRegistrar struct {
	parentDomain string

	mu         sync.Mutex
	Registered map[string]common.Address // label -> target
	FailStep   int                       // 1-3; 0 means never fail
	Calls      int
}

func NewFakeRegistrar(parentDomain string) *FakeRegistrar {
	return &FakeRegistrar{
		parentDomain: parentDomain,
		Registered:   make(map[string]common.Address),
	}
}

func (f *FakeRegistrar) ParentDomain() string {
	return f.parentDomain
}

func (f *FakeRegistrar) Register(ctx context.Context, label string, target common.Address) (*ens.RegisterReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls++

	switch f.FailStep {
	case 1:
		return nil, fmt.Errorf("setSubnodeOwner %s: transaction reverted", label)
	case 2:
		return nil, fmt.Errorf("setResolver %s: transaction reverted", label)
	case 3:
		return nil, fmt.Errorf("setAddr %s: transaction reverted", label)
	}

	f.Registered[label] = target

	return &ens.RegisterReceipt{
		SubnodeOwnerTx: crypto.Keccak256Hash([]byte("subnode:" + label)),
		ResolverTx:     crypto.Keccak256Hash([]byte("resolver:" + label)),
		AddrTx:         crypto.Keccak256Hash([]byte("addr:" + label)),
	}, nil
}

func (f *FakeRegistrar) Resolve(ctx context.Context, name string) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for label, target := range f.Registered {
		if ens.FullDomain(label, f.parentDomain) == name {
			return target, nil
		}
	}
	return common.Address{}, nil
}
