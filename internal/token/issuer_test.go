package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_Issue(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	NowFunc = func() time.Time { return fixed }
	defer func() { NowFunc = time.Now }()

	issuer := NewIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue("conn-1", "regulator")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "conn-1", claims.Subject)
	assert.Equal(t, "regulator", claims.Role)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt)
	assert.Equal(t, claims.IssuedAt+3600, claims.Expiry, "expiry must equal issuance time plus the configured window")
}

func TestIssuer_VerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	raw, err := issuer.Issue("conn-1", "developer")
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_VerifyExpired(t *testing.T) {
	past := time.Unix(1700000000, 0)
	NowFunc = func() time.Time { return past }
	issuer := NewIssuer("test-secret", time.Minute)

	raw, err := issuer.Issue("conn-1", "supervisor")
	require.NoError(t, err)

	NowFunc = func() time.Time { return past.Add(2 * time.Minute) }
	defer func() { NowFunc = time.Now }()

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_VerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
