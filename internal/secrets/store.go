package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Per-user key file (0600) with AES-GCM obfuscation. Not a keychain, but keeps
// API keys out of the plain-text config.

const fileName = "keys.json"

var ErrNotFound = errors.New("secrets: key not found")

type secretFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(ciphertext)
}

// Store reads and writes provider keys under dir.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

// DefaultStore uses the notefeed directory under the user config dir.
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, "notefeed")), nil
}

func (s *Store) Put(provider, key string) error {
	if provider = norm(provider); provider == "" {
		return fmt.Errorf("provider required")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	sf, err := load(s.path())
	if err != nil {
		return err
	}
	if sf.Keys == nil {
		sf.Keys = map[string]string{}
	}
	ct, err := encrypt([]byte(strings.TrimSpace(key)))
	if err != nil {
		return err
	}
	sf.Keys[provider] = base64.StdEncoding.EncodeToString(ct)
	return save(s.path(), sf)
}

func (s *Store) Get(provider string) (string, error) {
	if provider = norm(provider); provider == "" {
		return "", fmt.Errorf("provider required")
	}
	sf, err := load(s.path())
	if err != nil {
		return "", err
	}
	enc, ok := sf.Keys[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, provider)
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (s *Store) Delete(provider string) error {
	if provider = norm(provider); provider == "" {
		return fmt.Errorf("provider required")
	}
	sf, err := load(s.path())
	if err != nil {
		return err
	}
	if _, ok := sf.Keys[provider]; !ok {
		return nil
	}
	delete(sf.Keys, provider)
	return save(s.path(), sf)
}

func (s *Store) path() string { return filepath.Join(s.dir, fileName) }

func load(path string) (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, fmt.Errorf("decode %s: %w", path, err)
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey() []byte {
	base := fmt.Sprintf("notefeed-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
