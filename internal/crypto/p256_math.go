package crypto

import (
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"math/big"

	"tether/internal/domain"
)

// arithmeticBackend computes every curve operation explicitly: scalars and
// coordinates are decoded into big integers and multiplied through the group
// operations of the named curve. This is the path used where no opaque-handle
// facility exists, and it is behaviourally byte-equal with platformBackend.
type arithmeticBackend struct{}

// Arithmetic returns the explicit big-integer backend.
func Arithmetic() Backend { return arithmeticBackend{} }

func (arithmeticBackend) GenerateKeyPair() (domain.P256Private, domain.P256Public, error) {
	curve := elliptic.P256()
	n := curve.Params().N

	// Sample uniformly in [1, n-1]: rand.Int covers [0, n-2], the +1 shifts
	// the range off zero.
	k, err := rand.Int(rand.Reader, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return domain.P256Private{}, domain.P256Public{}, fmt.Errorf("%w: %w", ErrKeyGenerationFailed, err)
	}
	k.Add(k, big.NewInt(1))

	x, y := curve.ScalarBaseMult(k.Bytes())
	if x == nil || y == nil || (x.Sign() == 0 && y.Sign() == 0) {
		return domain.P256Private{}, domain.P256Public{}, fmt.Errorf("%w: base multiplication produced no point", ErrKeyGenerationFailed)
	}
	if !curve.IsOnCurve(x, y) {
		return domain.P256Private{}, domain.P256Public{}, fmt.Errorf("%w: derived point failed curve equation", ErrKeyGenerationFailed)
	}

	priv := domain.MustP256Private(ToFixedWidth(k, 32))
	return priv, encodePoint(x, y), nil
}

func (arithmeticBackend) DerivePublic(priv domain.P256Private) (domain.P256Public, error) {
	curve := elliptic.P256()
	k, err := decodeScalar(priv)
	if err != nil {
		return domain.P256Public{}, err
	}

	x, y := curve.ScalarBaseMult(k.Bytes())
	if x == nil || y == nil || (x.Sign() == 0 && y.Sign() == 0) {
		return domain.P256Public{}, fmt.Errorf("%w: base multiplication produced no point", ErrInternalCrypto)
	}

	// elliptic.Marshal yields the 65-byte 0x04-prefixed encoding; the prefix
	// stays internal and only X||Y leaves the package.
	return stripPrefix(elliptic.Marshal(curve, x, y))
}

func (arithmeticBackend) Agree(priv domain.P256Private, peer domain.P256Public) (domain.SharedSecret, error) {
	curve := elliptic.P256()

	// Validate the peer point before touching it with our scalar: accepting
	// an off-curve point here opens the door to invalid-curve attacks.
	px, py, err := decodePoint(peer)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	k, err := decodeScalar(priv)
	if err != nil {
		return domain.SharedSecret{}, err
	}

	sx, sy := curve.ScalarMult(px, py, k.Bytes())
	if sx == nil || (sx.Sign() == 0 && sy.Sign() == 0) {
		return domain.SharedSecret{}, fmt.Errorf("%w: scalar multiplication produced no point", ErrInternalCrypto)
	}

	// The shared secret is the X-coordinate alone, fixed to 32 bytes. It is
	// deliberately not re-validated as a point.
	secret := ToFixedWidth(sx, 32)
	out := domain.SharedSecret{}
	copy(out[:], secret)
	Wipe(secret)
	return out, nil
}

// decodeScalar rejects scalars outside [1, n-1].
func decodeScalar(priv domain.P256Private) (*big.Int, error) {
	k := FromFixedWidth(priv.Slice())
	if k.Sign() == 0 {
		return nil, fmt.Errorf("%w: scalar is zero", ErrInvalidPrivateKey)
	}
	if k.Cmp(elliptic.P256().Params().N) >= 0 {
		return nil, fmt.Errorf("%w: scalar not below group order", ErrInvalidPrivateKey)
	}
	return k, nil
}

// decodePoint splits X||Y and checks the curve equation. The all-zero
// encoding is the point at infinity, which is not a valid public key.
func decodePoint(p domain.P256Public) (*big.Int, *big.Int, error) {
	x := FromFixedWidth(p[:32])
	y := FromFixedWidth(p[32:])
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, nil, fmt.Errorf("%w: point at infinity", ErrInvalidPublicKey)
	}
	if !elliptic.P256().IsOnCurve(x, y) {
		return nil, nil, fmt.Errorf("%w: point not on curve", ErrInvalidPublicKey)
	}
	return x, y, nil
}

// encodePoint writes both affine coordinates fixed-width into X||Y form.
func encodePoint(x, y *big.Int) domain.P256Public {
	var out domain.P256Public
	x.FillBytes(out[:32])
	y.FillBytes(out[32:])
	return out
}

// checkOnCurve validates a typed public point without returning coordinates.
func checkOnCurve(p domain.P256Public) error {
	_, _, err := decodePoint(p)
	return err
}
