package crypto

import "encoding/base64"

// B64 returns standard base64 without newlines; the encoding used for key
// check values and vault-stored key bytes.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }
