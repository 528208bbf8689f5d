package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"golang.org/x/crypto/pbkdf2"
)

// Content is encrypted in the RNCryptor v3 password format:
//
//	version(1) | options(1) | encryption salt(8) | HMAC salt(8) | IV(16) | AES-256-CBC ciphertext | HMAC-SHA256(32)
//
// The HMAC covers everything before it. Both keys are derived with PBKDF2-HMAC-SHA1.
const (
	formatVersion   = 3
	passwordOptions = 1
	saltSize        = 8
	ivSize          = aes.BlockSize
	keySize         = 32
	hmacSize        = sha256.Size
	headerSize      = 2 + 2*saltSize + ivSize
	pbkdf2Rounds    = 10000
	chunkSize       = 32 * 1024
)

var (
	// ErrIntegrity is returned when content does not authenticate under the given password.
	ErrIntegrity = fmt.Errorf("%w: content failed integrity check", objects.ErrInvalidEncryptionKey)
	// ErrUnsupportedFormat is returned for content that is not RNCryptor v3 password data.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported encrypted content format", objects.ErrInvalidEncryptionKey)
)

type aesProcessor struct {
	rand   io.Reader
	logger logger.Logger
}

// NewAESProcessor creates a ContentCipher producing RNCryptor v3 password-based AES-256 streams.
func NewAESProcessor(logger logger.Logger) (objects.ContentCipher, error) {
	return &aesProcessor{
		rand:   rand.Reader,
		logger: logger,
	}, nil
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Rounds, keySize, sha1.New)
}

// Encrypt writes the header to w immediately and returns a writer for the plaintext.
func (p *aesProcessor) Encrypt(w io.Writer, password string) (io.WriteCloser, error) {
	header := make([]byte, headerSize)
	header[0] = formatVersion
	header[1] = passwordOptions
	if _, err := io.ReadFull(p.rand, header[2:]); err != nil {
		return nil, fmt.Errorf("failed to generate salts and IV: %w", err)
	}

	encryptionSalt := header[2 : 2+saltSize]
	hmacSalt := header[2+saltSize : 2+2*saltSize]
	iv := header[2+2*saltSize:]

	block, err := aes.NewCipher(deriveKey(password, encryptionSalt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	mac := hmac.New(sha256.New, deriveKey(password, hmacSalt))
	mac.Write(header)

	if _, err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &encryptWriter{
		w:    w,
		mode: cipher.NewCBCEncrypter(block, iv),
		mac:  mac,
	}, nil
}

// Decrypt reads and checks the header of r. The returned reader authenticates the content at EOF.
func (p *aesProcessor) Decrypt(r io.Reader, password string) (io.Reader, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	encryptionSalt := header[2 : 2+saltSize]
	hmacSalt := header[2+saltSize : 2+2*saltSize]
	iv := header[2+2*saltSize:]

	block, err := aes.NewCipher(deriveKey(password, encryptionSalt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	mac := hmac.New(sha256.New, deriveKey(password, hmacSalt))
	mac.Write(header)

	return &decryptReader{
		src:  r,
		mode: cipher.NewCBCDecrypter(block, iv),
		mac:  mac,
	}, nil
}

// Verify authenticates r without decrypting it.
func (p *aesProcessor) Verify(r io.Reader, password string) error {
	header, err := readHeader(r)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, deriveKey(password, header[2+saltSize:2+2*saltSize]))
	mac.Write(header)

	buf := make([]byte, chunkSize+hmacSize)
	held := 0
	var ciphertextSize int64
	for {
		n, err := r.Read(buf[held:])
		held += n
		if held > hmacSize {
			mac.Write(buf[:held-hmacSize])
			ciphertextSize += int64(held - hmacSize)
			held = copy(buf, buf[held-hmacSize:held])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
	}

	if held < hmacSize || ciphertextSize == 0 || ciphertextSize%aes.BlockSize != 0 {
		return ErrIntegrity
	}
	if !hmac.Equal(mac.Sum(nil), buf[:hmacSize]) {
		return ErrIntegrity
	}
	return nil
}

func readHeader(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != formatVersion || header[1] != passwordOptions {
		return nil, fmt.Errorf("%w: version %d, options %d", ErrUnsupportedFormat, header[0], header[1])
	}
	return header, nil
}

type encryptWriter struct {
	w       io.Writer
	mode    cipher.BlockMode
	mac     hash.Hash
	pending []byte
	closed  bool
}

func (e *encryptWriter) Write(p []byte) (int, error) {
	if e.closed {
		return 0, errors.New("write to closed encrypter")
	}

	e.pending = append(e.pending, p...)
	full := len(e.pending) - len(e.pending)%aes.BlockSize
	if full == 0 {
		return len(p), nil
	}

	if err := e.emit(e.pending[:full]); err != nil {
		return 0, err
	}
	e.pending = append(e.pending[:0], e.pending[full:]...)
	return len(p), nil
}

// Close pads the remaining plaintext (PKCS#7) and writes the last block and the HMAC.
// It does not close the underlying writer.
func (e *encryptWriter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	padding := aes.BlockSize - len(e.pending)%aes.BlockSize
	for i := 0; i < padding; i++ {
		e.pending = append(e.pending, byte(padding))
	}
	if err := e.emit(e.pending); err != nil {
		return err
	}

	if _, err := e.w.Write(e.mac.Sum(nil)); err != nil {
		return fmt.Errorf("failed to write HMAC: %w", err)
	}
	return nil
}

func (e *encryptWriter) emit(plaintext []byte) error {
	out := make([]byte, len(plaintext))
	e.mode.CryptBlocks(out, plaintext)
	e.mac.Write(out)
	if _, err := e.w.Write(out); err != nil {
		return fmt.Errorf("failed to write ciphertext: %w", err)
	}
	return nil
}

type decryptReader struct {
	src     io.Reader
	mode    cipher.BlockMode
	mac     hash.Hash
	pending []byte
	out     []byte
	srcEOF  bool
	err     error
}

func (d *decryptReader) Read(p []byte) (int, error) {
	for len(d.out) == 0 && d.err == nil {
		d.fill()
	}
	if len(d.out) > 0 {
		n := copy(p, d.out)
		d.out = d.out[n:]
		return n, nil
	}
	return 0, d.err
}

// fill reads more ciphertext and decrypts what is safe to release. The HMAC trailer
// and the last (padded) block are held back until the source is exhausted.
func (d *decryptReader) fill() {
	if !d.srcEOF {
		chunk := make([]byte, chunkSize)
		n, err := d.src.Read(chunk)
		d.pending = append(d.pending, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			d.srcEOF = true
		} else if err != nil {
			d.err = fmt.Errorf("failed to read content: %w", err)
			return
		}
	}

	if !d.srcEOF {
		releasable := len(d.pending) - hmacSize - aes.BlockSize
		releasable -= releasable % aes.BlockSize
		if releasable > 0 {
			d.out = d.decrypt(d.pending[:releasable])
			d.pending = append(d.pending[:0], d.pending[releasable:]...)
		}
		return
	}

	ciphertextSize := len(d.pending) - hmacSize
	if ciphertextSize < aes.BlockSize || ciphertextSize%aes.BlockSize != 0 {
		d.err = ErrIntegrity
		return
	}

	ciphertext := d.pending[:ciphertextSize]
	d.mac.Write(ciphertext)
	if !hmac.Equal(d.mac.Sum(nil), d.pending[ciphertextSize:]) {
		d.err = ErrIntegrity
		return
	}

	plaintext := make([]byte, ciphertextSize)
	d.mode.CryptBlocks(plaintext, ciphertext)

	padding := int(plaintext[len(plaintext)-1])
	if padding == 0 || padding > aes.BlockSize {
		d.err = ErrIntegrity
		return
	}
	for _, b := range plaintext[len(plaintext)-padding:] {
		if int(b) != padding {
			d.err = ErrIntegrity
			return
		}
	}

	d.out = plaintext[:len(plaintext)-padding]
	d.pending = nil
	d.err = io.EOF
}

func (d *decryptReader) decrypt(ciphertext []byte) []byte {
	d.mac.Write(ciphertext)
	plaintext := make([]byte, len(ciphertext))
	d.mode.CryptBlocks(plaintext, ciphertext)
	return plaintext
}
