// Package encryption provides the homomorphic comparison path: a CKKS
// context wrapping encrypt/dot/decrypt, and a similarity engine that makes
// the same duplicate decision as the plaintext engine without observing
// candidate vectors in the clear.
package encryption

import (
	"fmt"
	"sync"

	"github.com/timmy/vidguard/internal/domain"
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/schemes/ckks"
)

// ContextError reports a key/context setup failure. It is fatal and surfaced
// before any comparison work begins.
type ContextError struct {
	Reason string
	Err    error
}

func (e *ContextError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encryption context: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("encryption context: %s", e.Reason)
}

func (e *ContextError) Unwrap() error { return e.Err }

// Params holds the CKKS scheme parameters.
type Params struct {
	LogN     int
	LogQ     []int
	LogP     []int
	LogScale int
}

// DefaultParams returns scheme parameters sized for fingerprint dot products:
// one multiplicative level for the pairwise product plus rotations for the
// inner sum, with slack for the scores to survive at ~1e-3 precision.
func DefaultParams() Params {
	return Params{
		LogN:     13,
		LogQ:     []int{55, 45, 45},
		LogP:     []int{61},
		LogScale: 45,
	}
}

// Context owns the process-wide CKKS state: parameters, keys, encoder,
// encryptor, decryptor and evaluator. Key generation is expensive, so a
// Context is built at most once per process lifetime, at startup, and passed
// by reference into whatever needs it. It is read-only after construction;
// the internal mutex only serializes the non-thread-safe lattigo primitives.
type Context struct {
	params ckks.Parameters
	ecd    *ckks.Encoder
	enc    *rlwe.Encryptor
	dec    *rlwe.Decryptor
	eval   *ckks.Evaluator
	dims   map[int]bool

	mu sync.Mutex
}

// NewContext generates keys and evaluation state for the given parameters.
// Rotation (Galois) keys are generated for each vector dimensionality that
// will be compared, so both the base and the mapped representation must be
// declared up front.
// Parameters:
//   - p: CKKS scheme parameters.
//   - dims: vector dimensionalities the context must support.
// Returns:
//   - *Context: initialized context.
//   - error: *ContextError if parameter or key generation fails.
func NewContext(p Params, dims ...int) (*Context, error) {
	params, err := ckks.NewParametersFromLiteral(ckks.ParametersLiteral{
		LogN:            p.LogN,
		LogQ:            p.LogQ,
		LogP:            p.LogP,
		LogDefaultScale: p.LogScale,
	})
	if err != nil {
		return nil, &ContextError{Reason: "invalid parameters", Err: err}
	}

	supported := make(map[int]bool, len(dims))
	galEls := make([]uint64, 0)
	seen := make(map[uint64]bool)
	for _, d := range dims {
		if d <= 0 || d > params.MaxSlots() {
			return nil, &ContextError{Reason: fmt.Sprintf("dimension %d exceeds %d slots", d, params.MaxSlots())}
		}
		supported[d] = true
		for _, el := range params.GaloisElementsForInnerSum(1, d) {
			if !seen[el] {
				seen[el] = true
				galEls = append(galEls, el)
			}
		}
	}
	if len(supported) == 0 {
		return nil, &ContextError{Reason: "no vector dimensions declared"}
	}

	kgen := rlwe.NewKeyGenerator(params)
	sk := kgen.GenSecretKeyNew()
	pk := kgen.GenPublicKeyNew(sk)
	rlk := kgen.GenRelinearizationKeyNew(sk)
	gks := kgen.GenGaloisKeysNew(galEls, sk)
	evk := rlwe.NewMemEvaluationKeySet(rlk, gks...)

	return &Context{
		params: params,
		ecd:    ckks.NewEncoder(params),
		enc:    rlwe.NewEncryptor(params, pk),
		dec:    rlwe.NewDecryptor(params, sk),
		eval:   ckks.NewEvaluator(params, evk),
		dims:   supported,
	}, nil
}

// Supports reports whether the context was built for the given dimensionality.
func (c *Context) Supports(dims int) bool {
	return c.dims[dims]
}

// Encrypt encodes and encrypts a fingerprint vector.
// Parameters:
//   - v: plaintext vector; length must be a declared dimensionality.
// Returns:
//   - *rlwe.Ciphertext: encrypted vector.
//   - error: non-nil if the dimensionality is unsupported or encryption fails.
func (c *Context) Encrypt(v domain.Vector) (*rlwe.Ciphertext, error) {
	if !c.dims[len(v)] {
		return nil, fmt.Errorf("encrypt: undeclared dimensionality %d", len(v))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pt := ckks.NewPlaintext(c.params, c.params.MaxLevel())
	if err := c.ecd.Encode([]float64(v), pt); err != nil {
		return nil, fmt.Errorf("encrypt: encode: %w", err)
	}
	ct, err := c.enc.EncryptNew(pt)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	return ct, nil
}

// Dot homomorphically computes the dot product of two encrypted vectors of
// the given dimensionality. The result ciphertext holds the scalar in slot 0.
// Parameters:
//   - a, b: encrypted vectors.
//   - dims: shared dimensionality of the underlying plaintext vectors.
// Returns:
//   - *rlwe.Ciphertext: encrypted scalar.
//   - error: non-nil if evaluation fails.
func (c *Context) Dot(a, b *rlwe.Ciphertext, dims int) (*rlwe.Ciphertext, error) {
	if !c.dims[dims] {
		return nil, fmt.Errorf("dot: undeclared dimensionality %d", dims)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prod, err := c.eval.MulRelinNew(a, b)
	if err != nil {
		return nil, fmt.Errorf("dot: mul: %w", err)
	}
	if err := c.eval.Rescale(prod, prod); err != nil {
		return nil, fmt.Errorf("dot: rescale: %w", err)
	}
	if err := c.eval.InnerSum(prod, 1, dims, prod); err != nil {
		return nil, fmt.Errorf("dot: inner sum: %w", err)
	}
	return prod, nil
}

// Decrypt decrypts an encrypted scalar produced by Dot.
// Parameters:
//   - ct: encrypted scalar.
// Returns:
//   - float64: decrypted value from slot 0.
//   - error: non-nil if decoding fails.
func (c *Context) Decrypt(ct *rlwe.Ciphertext) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pt := c.dec.DecryptNew(ct)
	out := make([]float64, c.params.MaxSlots())
	if err := c.ecd.Decode(pt, out); err != nil {
		return 0, fmt.Errorf("decrypt: decode: %w", err)
	}
	return out[0], nil
}
