package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/scrypt"
)

// Параметры scrypt. N хранится в файле, поэтому старые файлы открываются
// даже после смены значения по умолчанию.
const (
	DefaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	keystoreVersion = 1
)

var (
	ErrKeystoreNotFound  = errors.New("keystore not found")
	ErrKeystoreExists    = errors.New("keystore already exists")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
)

// KeystoreFile – содержимое зашифрованного файла ключа.
type KeystoreFile struct {
	Version    int    `json:"version"`
	Address    string `json:"address"`
	ScryptN    int    `json:"scryptN"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
	CreatedAt  string `json:"createdAt"`
}

// Keystore хранит приватный ключ кошелька, зашифрованный паролем.
type Keystore struct {
	Path    string
	ScryptN int
}

// NewKeystore returns a keystore at path with the default scrypt cost.
func NewKeystore(path string) *Keystore {
	return &Keystore{Path: path, ScryptN: DefaultScryptN}
}

// Save шифрует ключ кошелька и записывает файл. Существующий файл не перезаписывается.
func (k *Keystore) Save(w *Wallet, passphrase []byte) error {
	if _, err := os.Stat(k.Path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeystoreExists, k.Path)
	}
	if len(passphrase) == 0 {
		return errors.New("passphrase is empty")
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	n := k.ScryptN
	if n == 0 {
		n = DefaultScryptN
	}

	aesGCM, err := newGCM(passphrase, salt, n)
	if err != nil {
		return err
	}

	ciphertext := aesGCM.Seal(nil, nonce, w.PrivateKey, nil)

	file := KeystoreFile{
		Version:    keystoreVersion,
		Address:    w.PublicKey.String(),
		ScryptN:    n,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(k.Path), 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}
	if err := os.WriteFile(k.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}

// Unlock расшифровывает ключ. Вызывающий должен затереть passphrase после вызова.
func (k *Keystore) Unlock(passphrase []byte) (*Wallet, error) {
	file, err := k.read()
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(passphrase, salt, file.ScryptN)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	defer clear(plaintext)

	w, err := newWalletFromBytes(plaintext)
	if err != nil {
		return nil, err
	}
	if w.PublicKey.String() != file.Address {
		w.Wipe()
		return nil, fmt.Errorf("keystore address mismatch: file %s, key %s", file.Address, w.PublicKey)
	}
	return w, nil
}

// Address читает адрес без расшифровки ключа.
func (k *Keystore) Address() (string, error) {
	file, err := k.read()
	if err != nil {
		return "", err
	}
	return file.Address, nil
}

func (k *Keystore) read() (*KeystoreFile, error) {
	data, err := os.ReadFile(k.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeystoreNotFound, k.Path)
		}
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("keystore %s is empty", k.Path)
	}

	var file KeystoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore: %w", err)
	}
	if file.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", file.Version)
	}
	if file.ScryptN <= 1 {
		return nil, fmt.Errorf("invalid scrypt cost %d", file.ScryptN)
	}
	return &file, nil
}

func newGCM(passphrase, salt []byte, n int) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
