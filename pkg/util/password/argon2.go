package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("invalid password hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrMismatch            = errors.New("password does not match")
)

// Params are the Argon2id cost parameters stored alongside every hash.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultParams() *Params {
	return &Params{Memory: 64 * 1024, Iterations: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

// LowMemoryParams suits small containers and tests.
func LowMemoryParams() *Params {
	return &Params{Memory: 32 * 1024, Iterations: 4, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

func (p *Params) sameCost(o *Params) bool {
	return p.Memory == o.Memory &&
		p.Iterations == o.Iterations &&
		p.Parallelism == o.Parallelism &&
		p.KeyLength == o.KeyLength
}

// phcHash is a decoded "$argon2id$v=19$m=..,t=..,p=..$salt$key" string.
type phcHash struct {
	params Params
	salt   []byte
	key    []byte
}

func (h phcHash) String() string {
	enc := base64.RawStdEncoding
	return "$argon2id$v=" + strconv.Itoa(argon2.Version) +
		"$m=" + strconv.FormatUint(uint64(h.params.Memory), 10) +
		",t=" + strconv.FormatUint(uint64(h.params.Iterations), 10) +
		",p=" + strconv.FormatUint(uint64(h.params.Parallelism), 10) +
		"$" + enc.EncodeToString(h.salt) +
		"$" + enc.EncodeToString(h.key)
}

func parsePHC(s string) (phcHash, error) {
	var h phcHash

	fields := strings.Split(s, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return h, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return h, ErrInvalidHash
	}
	if version != argon2.Version {
		return h, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&h.params.Memory, &h.params.Iterations, &h.params.Parallelism); err != nil {
		return h, ErrInvalidHash
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil || len(h.salt) == 0 {
		return h, ErrInvalidHash
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(h.key) == 0 {
		return h, ErrInvalidHash
	}
	h.params.SaltLength = uint32(len(h.salt))
	h.params.KeyLength = uint32(len(h.key))
	return h, nil
}

func derive(pw string, salt []byte, p Params) []byte {
	return argon2.IDKey([]byte(pw), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

// HashWithParams hashes pw without applying any policy. Callers outside tests
// go through Hasher.
func HashWithParams(pw string, p *Params) (string, error) {
	if p == nil {
		p = DefaultParams()
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return phcHash{params: *p, salt: salt, key: derive(pw, salt, *p)}.String(), nil
}

// Verify reports ErrMismatch when pw does not produce encoded.
func Verify(encoded, pw string) error {
	h, err := parsePHC(encoded)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(h.key, derive(pw, h.salt, h.params)) != 1 {
		return ErrMismatch
	}
	return nil
}

// Generate returns a random URL-safe string of length characters. Accounts
// created on someone's behalf (owner-added members, invited staff) get one so
// that no guessable password ever exists.
func Generate(length int) string {
	if length <= 0 {
		length = 16
	}
	b := make([]byte, (length*6+7)/8)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("generate password: %w", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length]
}
