// Package git computes git object hashes locally, backed by go-git's
// plumbing. Seeding uses it to predict the sha a blob or commit tree will
// receive before the object is uploaded, so a mismatch in the server's
// answer is caught immediately.
package git

import (
	"encoding/base64"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"prforge/internal/domain"
)

// Hasher computes object hashes the way git does.
type Hasher struct{}

// NewHasher constructs a Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// BlobSHA returns the sha a blob with the given content will be stored
// under. Base64 content is decoded first, matching how the service stores
// the raw bytes.
func (h *Hasher) BlobSHA(content string, encoding domain.BlobEncoding) (string, error) {
	var raw []byte
	switch encoding {
	case domain.EncodingUTF8:
		raw = []byte(content)
	case domain.EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return "", fmt.Errorf("decode base64 content: %w", err)
		}
		raw = decoded
	default:
		return "", fmt.Errorf("unsupported blob encoding %q", encoding)
	}

	hash := plumbing.ComputeHash(plumbing.BlobObject, raw)
	return hash.String(), nil
}

// VerifyBlob checks that a created blob's server-assigned sha matches the
// locally computed hash of its content.
func (h *Hasher) VerifyBlob(blob domain.Blob) error {
	want, err := h.BlobSHA(blob.Content, blob.Encoding)
	if err != nil {
		return err
	}
	if blob.SHA != want {
		return fmt.Errorf("blob sha mismatch: service returned %s, content hashes to %s", blob.SHA, want)
	}
	return nil
}
