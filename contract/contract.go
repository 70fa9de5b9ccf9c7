// Package contract binds the election smart contract. The contract is an
// opaque remote service: this package only encodes calls against its ABI,
// sends them through a go-ethereum backend and decodes what comes back.
package contract

import (
	_ "embed"
	"fmt"
	"io/ioutil"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"
)

// Default names of the two contract methods the client uses.
const (
	DefaultListMethod = "getAllCandidates"
	DefaultVoteMethod = "vote"
)

//go:embed election.abi
var electionABI string

// DefaultABI returns the JSON interface description of the election
// contract used when no other ABI is configured.
func DefaultABI() string {
	return electionABI
}

// Definition is what is needed to talk to a deployed contract: its
// address and its interface description.
type Definition struct {
	Address    common.Address
	Abi        abi.ABI
	ListMethod string
	VoteMethod string
}

// Option changes a Definition while it is being built.
type Option func(*Definition)

// WithMethods overrides the names of the list and vote methods. Empty
// names keep the defaults.
func WithMethods(list, vote string) Option {
	return func(def *Definition) {
		if list != "" {
			def.ListMethod = list
		}
		if vote != "" {
			def.VoteMethod = vote
		}
	}
}

// NewDefinition parses the ABI and checks that it exposes the methods the
// client calls. An empty abiJSON selects the embedded election ABI.
func NewDefinition(address string, abiJSON string, opts ...Option) (*Definition, error) {
	if !common.IsHexAddress(address) {
		return nil, xerrors.Errorf("invalid contract address %q", address)
	}
	if abiJSON == "" {
		abiJSON = electionABI
	}

	contractAbi, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, xerrors.Errorf("decoding contract ABI JSON: %w", err)
	}

	def := &Definition{
		Address:    common.HexToAddress(address),
		Abi:        contractAbi,
		ListMethod: DefaultListMethod,
		VoteMethod: DefaultVoteMethod,
	}
	for _, opt := range opts {
		opt(def)
	}

	err = def.check()
	if err != nil {
		return nil, err
	}

	return def, nil
}

// LoadDefinition is like NewDefinition but reads the ABI from a file. An
// empty path selects the embedded election ABI.
func LoadDefinition(address string, abiPath string, opts ...Option) (*Definition, error) {
	if abiPath == "" {
		return NewDefinition(address, "", opts...)
	}

	abiJSON, err := ioutil.ReadFile(abiPath)
	if err != nil {
		return nil, xerrors.Errorf("reading contract ABI: %w", err)
	}

	return NewDefinition(address, string(abiJSON), opts...)
}

func (def Definition) String() string {
	return fmt.Sprintf("Election[%s]", def.Address.Hex())
}

func (def Definition) check() error {
	if _, ok := def.Abi.Methods[def.ListMethod]; !ok {
		return xerrors.Errorf("method \"%s\" does not exist for this contract", def.ListMethod)
	}

	vote, ok := def.Abi.Methods[def.VoteMethod]
	if !ok {
		return xerrors.Errorf("method \"%s\" does not exist for this contract", def.VoteMethod)
	}
	if len(vote.Inputs) != 1 {
		return xerrors.Errorf("method \"%s\" takes %d arguments, expected 1",
			def.VoteMethod, len(vote.Inputs))
	}

	switch vote.Inputs[0].Type.T {
	case abi.IntTy, abi.UintTy:
	default:
		return xerrors.Errorf("method \"%s\" takes a %s, expected an integer",
			def.VoteMethod, vote.Inputs[0].Type)
	}

	return nil
}

// candidateArg converts a candidate identifier to the Go type the ABI
// encoder expects for the vote argument. An identifier the type cannot
// hold is refused; whether it names a candidate is for the contract to
// decide.
func (def Definition) candidateArg(id int64) (interface{}, error) {
	t := def.Abi.Methods[def.VoteMethod].Inputs[0].Type

	switch t.T {
	case abi.UintTy:
		if id < 0 || (t.Size < 64 && uint64(id) >= 1<<uint(t.Size)) {
			return nil, xerrors.Errorf("candidate id %d does not fit in %s", id, t)
		}
		switch t.Size {
		case 8:
			return uint8(id), nil
		case 16:
			return uint16(id), nil
		case 32:
			return uint32(id), nil
		case 64:
			return uint64(id), nil
		}
	case abi.IntTy:
		if t.Size < 64 && (id < -(1<<uint(t.Size-1)) || id >= 1<<uint(t.Size-1)) {
			return nil, xerrors.Errorf("candidate id %d does not fit in %s", id, t)
		}
		switch t.Size {
		case 8:
			return int8(id), nil
		case 16:
			return int16(id), nil
		case 32:
			return int32(id), nil
		case 64:
			return id, nil
		}
	default:
		return nil, xerrors.Errorf("unsupported argument type: %s", t)
	}

	return big.NewInt(id), nil
}
