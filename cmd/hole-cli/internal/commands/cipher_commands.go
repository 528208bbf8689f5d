package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/cryptography"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// PasswordEnv is read when no --password flag is given.
const PasswordEnv = "HOLE_ENCRYPTION_KEY"

// CipherCommandHandler encrypts and decrypts files like the server does for encrypted objects.
type CipherCommandHandler struct {
	cipher objects.ContentCipher
	logger logger.Logger
}

// NewCipherCommandHandler initializes a CipherCommandHandler with a console logger
func NewCipherCommandHandler() (*CipherCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	cipher, err := cryptography.NewAESProcessor(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES processor: %w", err)
	}

	return &CipherCommandHandler{cipher: cipher, logger: loggerInstance}, nil
}

// EncryptCmd encrypts --input-file into --output-file
func (h *CipherCommandHandler) EncryptCmd(cmd *cobra.Command, _ []string) error {
	in, out, password, err := fileFlags(cmd)
	if err != nil {
		return err
	}

	if err := h.Encrypt(in, out, password); err != nil {
		return err
	}
	h.logger.Info("Encrypted data saved", "path", out)
	return nil
}

// DecryptCmd decrypts --input-file into --output-file
func (h *CipherCommandHandler) DecryptCmd(cmd *cobra.Command, _ []string) error {
	in, out, password, err := fileFlags(cmd)
	if err != nil {
		return err
	}

	if err := h.Decrypt(in, out, password); err != nil {
		return err
	}
	h.logger.Info("Decrypted data saved", "path", out)
	return nil
}

// Encrypt writes the encryption of the file at in to out.
func (h *CipherCommandHandler) Encrypt(in, out, password string) error {
	return transform(in, out, func(dst io.Writer, src io.Reader) error {
		w, err := h.cipher.Encrypt(dst, password)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		return w.Close()
	})
}

// Decrypt writes the plaintext of the encrypted file at in to out. The output is
// removed when the content does not authenticate.
func (h *CipherCommandHandler) Decrypt(in, out, password string) error {
	return transform(in, out, func(dst io.Writer, src io.Reader) error {
		r, err := h.cipher.Decrypt(src, password)
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, r)
		return err
	})
}

// ErrSameFile is returned when input and output name the same file.
var ErrSameFile = errors.New("input and output must be different files")

func transform(in, out string, fn func(dst io.Writer, src io.Reader) error) (err error) {
	if sameFile(in, out) {
		return fmt.Errorf("%w: %s", ErrSameFile, out)
	}

	src, err := os.Open(filepath.Clean(in))
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(filepath.Clean(out), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	err = fn(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(out)
	}
	return err
}

// sameFile reports whether in and out resolve to one file. Truncating the output would
// then destroy the input before it is read.
func sameFile(in, out string) bool {
	absIn, errIn := filepath.Abs(in)
	absOut, errOut := filepath.Abs(out)
	if errIn == nil && errOut == nil && absIn == absOut {
		return true
	}

	inInfo, err := os.Stat(in)
	if err != nil {
		return false
	}
	outInfo, err := os.Stat(out)
	if err != nil {
		return false
	}
	return os.SameFile(inInfo, outInfo)
}

func fileFlags(cmd *cobra.Command) (in, out, password string, err error) {
	if in, err = cmd.Flags().GetString("input-file"); err != nil {
		return "", "", "", fmt.Errorf("invalid input-file flag: %w", err)
	}
	if out, err = cmd.Flags().GetString("output-file"); err != nil {
		return "", "", "", fmt.Errorf("invalid output-file flag: %w", err)
	}
	if password, err = cmd.Flags().GetString("password"); err != nil {
		return "", "", "", fmt.Errorf("invalid password flag: %w", err)
	}
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if password == "" {
		return "", "", "", errors.New("a password is required, pass --password or set " + PasswordEnv)
	}
	return in, out, password, nil
}

// InitCipherCommands registers the encrypt and decrypt commands
func InitCipherCommands(rootCmd *cobra.Command) error {
	handler, err := NewCipherCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create cipher command handler: %w", err)
	}

	encryptCmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file with a password",
		RunE:  handler.EncryptCmd,
	}
	decryptCmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file encrypted with a password",
		RunE:  handler.DecryptCmd,
	}

	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().String("input-file", "", "Path to the input file")
		c.Flags().String("output-file", "", "Path to the output file")
		c.Flags().String("password", "", "Encryption password, defaults to $"+PasswordEnv)
		_ = c.MarkFlagRequired("input-file")
		_ = c.MarkFlagRequired("output-file")
		rootCmd.AddCommand(c)
	}

	return nil
}
