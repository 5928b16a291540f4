package holder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/warroom/internal/core/domain"
)

const (
	testAddress = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

type fakeLedger struct {
	balances []domain.TokenBalance
	err      error
	calls    int
}

func (f *fakeLedger) TokenBalances(ctx context.Context, owner, mint string) ([]domain.TokenBalance, error) {
	f.calls++
	return f.balances, f.err
}

func newTestVerifier(ledger *fakeLedger) *Verifier {
	return NewVerifier(ledger, Config{
		Mint:    testMint,
		RPCURL:  "http://ledger.invalid",
		MinHold: domain.DefaultMinHold,
	})
}

func TestVerify_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		balances []float64
		holder   bool
		total    float64
	}{
		{"above", []float64{150000}, true, 150000},
		{"exactly at threshold", []float64{100000}, true, 100000},
		{"below", []float64{99999}, false, 99999},
		{"zero accounts", nil, false, 0},
		{"split across accounts", []float64{60000, 40000}, true, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			for _, b := range tt.balances {
				ledger.balances = append(ledger.balances, domain.TokenBalance{UIAmount: b})
			}

			res, err := newTestVerifier(ledger).Verify(context.Background(), testAddress)
			require.NoError(t, err)
			assert.Equal(t, tt.holder, res.IsHolder)
			assert.Equal(t, tt.total, res.Balance)
			assert.Equal(t, float64(domain.DefaultMinHold), res.MinHold)
			assert.Equal(t, testAddress, res.Address)
		})
	}
}

func TestVerify_NeverCached(t *testing.T) {
	ledger := &fakeLedger{balances: []domain.TokenBalance{{UIAmount: 150000}}}
	v := newTestVerifier(ledger)

	res, err := v.Verify(context.Background(), testAddress)
	require.NoError(t, err)
	assert.True(t, res.IsHolder)

	ledger.balances = nil
	res, err = v.Verify(context.Background(), testAddress)
	require.NoError(t, err)
	assert.False(t, res.IsHolder)
	assert.Equal(t, 2, ledger.calls)
}

func TestVerify_UpstreamFailureReturnsNonHolder(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("dial tcp: connection refused")}

	res, err := newTestVerifier(ledger).Verify(context.Background(), testAddress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	require.NotNil(t, res)
	assert.False(t, res.IsHolder)
	assert.Equal(t, float64(domain.DefaultMinHold), res.MinHold)
}

func TestVerify_InvalidAddress(t *testing.T) {
	ledger := &fakeLedger{}
	for _, addr := range []string{"", "not-base58-0OIl", "abc"} {
		_, err := newTestVerifier(ledger).Verify(context.Background(), addr)
		require.Error(t, err, addr)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), addr)
	}
	assert.Zero(t, ledger.calls)
}

func TestVerify_Configuration(t *testing.T) {
	ledger := &fakeLedger{}

	_, err := NewVerifier(ledger, Config{RPCURL: "http://x"}).Verify(context.Background(), testAddress)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = NewVerifier(ledger, Config{Mint: testMint}).Verify(context.Background(), testAddress)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = NewVerifier(nil, Config{Mint: testMint, RPCURL: "http://x"}).Verify(context.Background(), testAddress)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = NewVerifier(ledger, Config{Mint: "bad", RPCURL: "http://x"}).Verify(context.Background(), testAddress)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	assert.Zero(t, ledger.calls)
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress(testAddress))
	assert.NoError(t, ValidateAddress("11111111111111111111111111111111"))
	assert.Error(t, ValidateAddress("1111"))
	assert.Error(t, ValidateAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
}
