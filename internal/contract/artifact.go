package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact errors.
var (
	ErrNoBytecode = errors.New("artifact has no deployable bytecode")
	ErrUnlinked   = errors.New("artifact bytecode has unlinked library references")
)

// LoadFactory loads a contract factory from a Hardhat or Foundry artifact JSON file.
// The artifact must carry an ABI array and non-empty creation bytecode:
//   - Hardhat:  {"contractName":"Token","abi":[...],"bytecode":"0x6080..."}
//   - Foundry:  {"abi":[...],"bytecode":{"object":"0x6080..."}}
func LoadFactory(path string) (*Factory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("artifact file is empty: %s", path)
	}

	var raw struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     json.RawMessage `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid artifact JSON %s: %w", path, err)
	}

	abiJSON := bytes.TrimSpace(raw.ABI)
	if len(abiJSON) < 2 || abiJSON[0] != '[' {
		return nil, fmt.Errorf("artifact has no \"abi\" array: %s", path)
	}
	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing artifact ABI: %w", err)
	}

	if len(raw.Bytecode) == 0 || string(raw.Bytecode) == "null" {
		return nil, fmt.Errorf("%w: %s", ErrNoBytecode, path)
	}
	bcHex, err := extractBytecodeHex(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("extracting bytecode from artifact: %w", err)
	}
	bcHex = strings.TrimPrefix(strings.TrimPrefix(bcHex, "0x"), "0X")
	if bcHex == "" {
		// interfaces and abstract contracts compile to empty bytecode
		return nil, fmt.Errorf("%w: %s", ErrNoBytecode, path)
	}
	if strings.Contains(bcHex, "__") {
		return nil, fmt.Errorf("%w: %s", ErrUnlinked, path)
	}
	code, err := hex.DecodeString(bcHex)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex in artifact: %w", err)
	}

	name := raw.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &Factory{Name: name, ABI: parsed, Bytecode: code}, nil
}

// extractBytecodeHex handles the two common artifact formats:
//   - Hardhat:  "bytecode": "0x608060..."          (JSON string)
//   - Foundry:  "bytecode": {"object": "0x608060..."} (JSON object)
func extractBytecodeHex(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var obj struct {
		Object *string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != nil {
		return strings.TrimSpace(*obj.Object), nil
	}

	return "", fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
}
