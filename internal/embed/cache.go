package embed

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/metrics"
	"golang.org/x/text/unicode/norm"
)

// vectorVersion tags persisted vectors. Entries with another version are re-encoded.
const vectorVersion = 1

// CachedEmbedder wraps an Encoder with an in-memory map and an optional
// persistent store.
type CachedEmbedder struct {
	enc      Encoder
	modelID  string
	store    contract.CacheStore
	memCache map[string][]float32
	mu       sync.RWMutex
}

var _ Embedder = &CachedEmbedder{} // Compile-time check

// NewCachedEmbedder wraps enc. store may be nil.
func NewCachedEmbedder(enc Encoder, modelID string, store contract.CacheStore) *CachedEmbedder {
	return &CachedEmbedder{
		enc:      enc,
		modelID:  modelID,
		store:    store,
		memCache: make(map[string][]float32),
	}
}

// ModelID returns the identifier used for cache keys.
func (c *CachedEmbedder) ModelID() string {
	return c.modelID
}

// Close releases the encoder. The store is owned by the caller.
func (c *CachedEmbedder) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.enc != nil {
		err = c.enc.Close()
		c.enc = nil
	}
	c.memCache = nil
	return err
}

// EmbedText embeds a single string, consulting memory first and the store second.
func (c *CachedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if c == nil || c.enc == nil {
		return nil, errors.New("embedder is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalized := normalizeText(text)
	key := c.cacheKey(normalized)
	if vec := c.getFromMemory(key); vec != nil {
		metrics.RecordCacheLookup("memory")
		return vec, nil
	}
	if vec, ok := c.loadFromStore(key); ok {
		metrics.RecordCacheLookup("store")
		c.storeInMemory(key, vec)
		return cloneVector(vec), nil
	}
	metrics.RecordCacheLookup("miss")

	vec, err := c.enc.Encode(normalized)
	if err != nil {
		return nil, err
	}
	c.storeInMemory(key, vec)
	c.saveToStore(key, vec)
	return cloneVector(vec), nil
}

// EmbedTexts embeds a slice of strings sequentially.
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := c.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// CacheKey returns the store key of a text for the given model.
func CacheKey(modelID, text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, modelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CachedEmbedder) cacheKey(text string) string {
	return CacheKey(c.modelID, text)
}

func (c *CachedEmbedder) getFromMemory(key string) []float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if vec, ok := c.memCache[key]; ok {
		return cloneVector(vec)
	}
	return nil
}

func (c *CachedEmbedder) storeInMemory(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.memCache != nil {
		c.memCache[key] = cloneVector(vec)
	}
}

func (c *CachedEmbedder) loadFromStore(key string) ([]float32, bool) {
	if c.store == nil {
		return nil, false
	}
	data, version, _, err := c.store.Get(key)
	if err != nil || version != vectorVersion {
		return nil, false
	}
	vec, err := DecodeVector(data)
	if err != nil {
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) saveToStore(key string, vec []float32) {
	if c.store == nil {
		return
	}
	_ = c.store.Set(key, EncodeVector(vec), vectorVersion, time.Now().Unix())
}

// EncodeVector serializes a vector as a little-endian uint32 length followed
// by little-endian float32 values.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, 4+len(vec)*4)
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(vec)))
	off := 4
	for _, v := range vec {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	return buf
}

// DecodeVector is the inverse of EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("vector blob too small: %d bytes", len(data))
	}
	length := int(binary.LittleEndian.Uint32(data[:4]))
	data = data[4:]
	if len(data) != length*4 {
		return nil, fmt.Errorf("vector blob length mismatch: want %d values, have %d bytes", length, len(data))
	}
	vec := make([]float32, length)
	for i := range length {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
	}
	return vec, nil
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(text)), " ")
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
