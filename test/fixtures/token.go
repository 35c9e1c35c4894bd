package fixtures

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
)

// TokenSupply is the fixed supply minted to the deployer by the default fixture token.
const TokenSupply = 1_000_000

// TokenArtifactPath is where Hardhat writes the Token artifact, relative to the
// artifacts root.
const TokenArtifactPath = "contracts/Token.sol/Token.json"

// TokenABI is the ABI of the fixture token.
const TokenABI = `[
  {"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
  {"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Jump destinations inside tokenRuntime.
const (
	destTotalSupply = 0x1d
	destBalanceOf   = 0x2a
)

// tokenRuntime is the deployed code of the fixture token. Storage layout follows
// solc: slot 0 holds totalSupply, balances live at keccak256(account . 1).
func tokenRuntime() []byte {
	code := []byte{
		byte(vm.PUSH1), 0x00, byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), 0xe0, byte(vm.SHR),
		byte(vm.DUP1), byte(vm.PUSH4), 0x18, 0x16, 0x0d, 0xdd, byte(vm.EQ), // totalSupply()
		byte(vm.PUSH1), destTotalSupply, byte(vm.JUMPI),
		byte(vm.PUSH4), 0x70, 0xa0, 0x82, 0x31, byte(vm.EQ), // balanceOf(address)
		byte(vm.PUSH1), destBalanceOf, byte(vm.JUMPI),
		byte(vm.PUSH1), 0x00, byte(vm.DUP1), byte(vm.REVERT),

		// totalSupply
		byte(vm.JUMPDEST), byte(vm.POP),
		byte(vm.PUSH1), 0x00, byte(vm.SLOAD),
		byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN),

		// balanceOf
		byte(vm.JUMPDEST),
		byte(vm.PUSH1), 0x04, byte(vm.CALLDATALOAD),
		byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x01, byte(vm.PUSH1), 0x20, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x40, byte(vm.PUSH1), 0x00, byte(vm.KECCAK256), byte(vm.SLOAD),
		byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN),
	}
	if code[destTotalSupply] != byte(vm.JUMPDEST) || code[destBalanceOf] != byte(vm.JUMPDEST) {
		panic("fixtures: token runtime jump table out of date")
	}
	return code
}

// TokenInitCode returns creation bytecode whose constructor mints supply to the
// deployer (msg.sender) and sets totalSupply to supply.
func TokenInitCode(supply *big.Int) []byte {
	rt := tokenRuntime()
	const initLen = 0x3f

	code := []byte{byte(vm.PUSH32)}
	code = append(code, common.LeftPadBytes(supply.Bytes(), 32)...)
	code = append(code,
		byte(vm.DUP1), byte(vm.PUSH1), 0x00, byte(vm.SSTORE), // totalSupply = supply
		byte(vm.CALLER), byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x01, byte(vm.PUSH1), 0x20, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x40, byte(vm.PUSH1), 0x00, byte(vm.KECCAK256), byte(vm.SSTORE), // balances[caller] = supply
		byte(vm.PUSH1), byte(len(rt)), byte(vm.DUP1),
		byte(vm.PUSH1), initLen, byte(vm.PUSH1), 0x00, byte(vm.CODECOPY),
		byte(vm.PUSH1), 0x00, byte(vm.RETURN),
	)
	if len(code) != initLen {
		panic("fixtures: token init code length out of date")
	}
	return append(code, rt...)
}

// TokenDeployedCode returns the runtime code left on chain by TokenInitCode.
func TokenDeployedCode() []byte {
	return tokenRuntime()
}

// TokenArtifact returns a Hardhat artifact for a token minting supply to its deployer.
func TokenArtifact(supply *big.Int) []byte {
	artifact := map[string]any{
		"_format":                "hh-sol-artifact-1",
		"contractName":           "Token",
		"sourceName":             "contracts/Token.sol",
		"abi":                    json.RawMessage(TokenABI),
		"bytecode":               hexutil.Encode(TokenInitCode(supply)),
		"deployedBytecode":       hexutil.Encode(tokenRuntime()),
		"linkReferences":         map[string]any{},
		"deployedLinkReferences": map[string]any{},
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

// WriteTokenArtifact writes the token artifact into an artifacts root laid out the
// way Hardhat does and returns the artifact path.
func WriteTokenArtifact(t TB, root string, supply *big.Int) string {
	t.Helper()
	return WriteFile(t, root, TokenArtifactPath, TokenArtifact(supply))
}
