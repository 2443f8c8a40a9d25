package updater

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// releasePublicKey verifies release manifests. HFDETECT_UPDATER_PUBLIC_KEY
// overrides it for staging and tests.
const releasePublicKey = "kq0GkG1qJ0y3c2grN4v9pHhZ0fW2n8cXl5C1w6d7s3A="

const manifestFetchTimeout = 30 * time.Second

// Artifact describes one downloadable file and its expected digest.
type Artifact struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

// Build is a per-platform release entry.
type Build struct {
	OS   string   `json:"os"`
	Arch string   `json:"arch"`
	Full Artifact `json:"full"`
}

// Manifest is the signed release description published per channel.
type Manifest struct {
	Version     string    `json:"version"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
	Builds      []Build   `json:"builds"`
}

// BuildFor selects the build matching the given platform.
func (m *Manifest) BuildFor(goos, goarch string) (Build, bool) {
	for _, b := range m.Builds {
		if b.OS == goos && b.Arch == goarch {
			return b, true
		}
	}
	return Build{}, false
}

// DecodeManifest parses and sanity-checks manifest JSON.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if strings.TrimSpace(m.Version) == "" {
		return nil, fmt.Errorf("manifest missing version")
	}
	if len(m.Builds) == 0 {
		return nil, fmt.Errorf("manifest %s lists no builds", m.Version)
	}
	for _, b := range m.Builds {
		if b.Full.URL == "" || b.Full.SHA256 == "" {
			return nil, fmt.Errorf("manifest %s has incomplete build for %s/%s", m.Version, b.OS, b.Arch)
		}
	}
	return &m, nil
}

// DecodeHex converts a manifest digest string into raw bytes.
func DecodeHex(digest string) ([]byte, error) {
	sum, err := hex.DecodeString(strings.TrimSpace(digest))
	if err != nil {
		return nil, fmt.Errorf("decode checksum: %w", err)
	}
	if len(sum) != 32 {
		return nil, fmt.Errorf("checksum must be 32 bytes, got %d", len(sum))
	}
	return sum, nil
}

func verificationKey() (ed25519.PublicKey, error) {
	encoded := releasePublicKey
	if override := strings.TrimSpace(os.Getenv("HFDETECT_UPDATER_PUBLIC_KEY")); override != "" {
		encoded = override
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// VerifyManifest checks the detached ed25519 signature over the raw manifest
// bytes.
func VerifyManifest(manifest, signature []byte) error {
	key, err := verificationKey()
	if err != nil {
		return err
	}
	if !ed25519.Verify(key, manifest, signature) {
		return fmt.Errorf("manifest signature verification failed")
	}
	return nil
}

// FetchManifest downloads, verifies, and decodes the manifest for a channel.
// The signature lives next to the manifest at <url>.sig, base64 encoded.
func FetchManifest(ctx context.Context, client *http.Client, baseURL, channel string) (*Manifest, error) {
	channel, err := NormalizeChannel(channel)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: manifestFetchTimeout}
	}
	url := strings.TrimRight(baseURL, "/") + "/" + channel + "/manifest.json"

	raw, err := fetch(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	sigRaw, err := fetch(ctx, client, url+".sig")
	if err != nil {
		return nil, fmt.Errorf("fetch manifest signature: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(sigRaw)))
	if err != nil {
		return nil, fmt.Errorf("decode manifest signature: %w", err)
	}
	if err := VerifyManifest(raw, sig); err != nil {
		return nil, err
	}
	m, err := DecodeManifest(raw)
	if err != nil {
		return nil, err
	}
	if m.Channel != "" && m.Channel != channel {
		return nil, fmt.Errorf("manifest channel %q does not match requested %q", m.Channel, channel)
	}
	return m, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "hfdetect-updater")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
