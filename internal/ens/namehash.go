package ens

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

const (
	labelPrefix    = "user"
	minLabelLength = 3
	maxLabelLength = 32
)

var labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// NameHash computes the EIP-137 namehash of a dot-separated domain,
// folding labels right to left over keccak256 from the zero node.
// NameHash("") is the zero node.
func NameHash(name string) common.Hash {
	if name == "" {
		return common.Hash{}
	}
	labels := strings.Split(name, ".")
	labelHash := crypto.Keccak256([]byte(labels[0]))
	remainderHash := NameHash(strings.Join(labels[1:], ".")).Bytes()
	return crypto.Keccak256Hash(append(remainderHash, labelHash...))
}

// LabelHash computes the keccak256 hash of a single label, used as the
// edge identifier when creating a subnode under a parent node.
func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// Subnode derives the node of label under parent without rehashing the
// full domain string.
func Subnode(parent common.Hash, label string) common.Hash {
	return crypto.Keccak256Hash(append(parent.Bytes(), LabelHash(label).Bytes()...))
}

// IsValidLabel reports whether s is a registrable subdomain label:
// 3-32 characters of lowercase alphanumerics with inner hyphens only.
func IsValidLabel(s string) bool {
	if len(s) < minLabelLength || len(s) > maxLabelLength {
		return false
	}
	return labelPattern.MatchString(s)
}

// GenerateLabel derives a deterministic label from a wallet address:
// "user" plus the first 8 hex digits after the 0x prefix.
func GenerateLabel(walletAddress string) string {
	hexDigits := strings.TrimPrefix(strings.ToLower(walletAddress), "0x")
	if len(hexDigits) > 8 {
		hexDigits = hexDigits[:8]
	}
	return labelPrefix + hexDigits
}

// RandomSuffix returns a short lowercase-hex suffix for collision
// fallback labels.
func RandomSuffix() string {
	return uuid.New().String()[:4]
}

// FullDomain joins a label with its parent domain.
func FullDomain(label, parentDomain string) string {
	return label + "." + parentDomain
}
