package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeTransferID computes a deterministic transfer_id using SHA256.
// Formula: SHA256(chain|lower(tx_hash)|log_index)
// Returns hex-encoded hash (64 characters).
func ComputeTransferID(chain, txHash string, logIndex uint) string {
	data := fmt.Sprintf("%s|%s|%d",
		chain,
		strings.ToLower(txHash),
		logIndex,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
