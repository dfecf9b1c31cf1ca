// Package idgen produces chaincode identifiers and the display slugs derived
// from them.
//
// An identifier is the hex-encoded BLAKE2b-256 digest of
//
//	agent|unixNanoTimestamp|entropy|context
//
// where entropy is 16 bytes from crypto/rand rendered as dash-joined decimal
// values and context is caller-supplied (card type and value). The digest is
// one-way, so an identifier does not leak the value it was generated for.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// EntropySize is the number of random bytes mixed into every identifier.
const EntropySize = 16

// Generator builds identifiers. The zero value is not usable; call New.
type Generator struct {
	agent string
	now   func() time.Time
	rand  io.Reader
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithEntropy replaces crypto/rand as the entropy source.
func WithEntropy(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithAgent replaces the host tag mixed into every identifier.
func WithAgent(agent string) Option {
	return func(g *Generator) { g.agent = agent }
}

// New returns a Generator tagged with the host name and platform.
func New(opts ...Option) *Generator {
	g := &Generator{
		agent: defaultAgent(),
		now:   time.Now,
		rand:  rand.Reader,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func defaultAgent() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("chaincode/%s (%s/%s)", host, runtime.GOOS, runtime.GOARCH)
}

// NewID returns a 64-character hex identifier for rawContext.
func (g *Generator) NewID(rawContext string) (string, error) {
	entropy := make([]byte, EntropySize)
	if _, err := io.ReadFull(g.rand, entropy); err != nil {
		return "", fmt.Errorf("cannot read entropy: %w", err)
	}

	parts := make([]string, len(entropy))
	for i, b := range entropy {
		parts[i] = strconv.Itoa(int(b))
	}

	input := g.agent + "|" +
		strconv.FormatInt(g.now().UnixNano(), 10) + "|" +
		strings.Join(parts, "-") + "|" +
		rawContext

	sum := blake2b.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}
