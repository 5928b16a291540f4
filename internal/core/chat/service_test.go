package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage/memory"
)

const wallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

type fakeVerifier struct {
	result *domain.HolderVerification
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(ctx context.Context, address string) (*domain.HolderVerification, error) {
	f.calls++
	if f.result != nil {
		r := *f.result
		r.Address = address
		return &r, f.err
	}
	return nil, f.err
}

type fakeBroadcaster struct {
	err  error
	sent []*domain.Message
}

func (f *fakeBroadcaster) Broadcast(ctx context.Context, msg *domain.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func holder(balance float64) *fakeVerifier {
	return &fakeVerifier{result: &domain.HolderVerification{
		Balance:  balance,
		MinHold:  100000,
		IsHolder: balance >= 100000,
	}}
}

func newTestService(v Verifier, b Broadcaster, cfg Config) (*Service, *memory.MessageLog) {
	store := memory.NewMessageLog()
	return NewService(store, v, b, cfg), store
}

func TestPost_StoresAndBroadcasts(t *testing.T) {
	b := &fakeBroadcaster{}
	svc, store := newTestService(holder(150000), b, Config{})

	msg, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: wallet})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "gm", msg.Text)
	assert.Equal(t, "Holder_9WzD", msg.SenderName)
	assert.Equal(t, 1, store.Len())
	require.Len(t, b.sent, 1)
	assert.Equal(t, msg.ID, b.sent[0].ID)
}

func TestPost_KeepsProvidedSenderName(t *testing.T) {
	svc, _ := newTestService(holder(100000), nil, Config{})

	msg, err := svc.Post(context.Background(), PostRequest{Text: "hi", WalletAddress: wallet, SenderName: "  whale  "})
	require.NoError(t, err)
	assert.Equal(t, "whale", msg.SenderName)
}

func TestPost_TextLengthBoundary(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"one char", "a", false},
		{"exactly max", strings.Repeat("a", domain.MaxMessageLength), false},
		{"max runes multibyte", strings.Repeat("é", domain.MaxMessageLength), false},
		{"over max", strings.Repeat("a", domain.MaxMessageLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := holder(200000)
			svc, store := newTestService(v, nil, Config{})

			_, err := svc.Post(context.Background(), PostRequest{Text: tt.text, WalletAddress: wallet})
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Equal(t, 0, store.Len())
				assert.Equal(t, 0, v.calls)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestPost_MissingWallet(t *testing.T) {
	svc, _ := newTestService(holder(200000), nil, Config{})

	_, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "walletAddress is required")
}

func TestPost_NotHolderLeavesStoreUnchanged(t *testing.T) {
	b := &fakeBroadcaster{}
	svc, store := newTestService(holder(99999.99), b, Config{})

	_, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: wallet})

	var notHolder *domain.NotHolderError
	require.ErrorAs(t, err, &notHolder)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	assert.InDelta(t, 99999.99, notHolder.Balance, 1e-9)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, b.sent)
}

func TestPost_VerifierErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name string
		v    *fakeVerifier
		want error
	}{
		{
			name: "upstream",
			v: &fakeVerifier{
				result: &domain.HolderVerification{MinHold: 100000},
				err:    fmt.Errorf("%w: connection refused", domain.ErrUpstream),
			},
			want: domain.ErrUpstream,
		},
		{
			name: "configuration",
			v:    &fakeVerifier{err: fmt.Errorf("%w: mint missing", domain.ErrConfiguration)},
			want: domain.ErrConfiguration,
		},
		{
			name: "invalid address",
			v:    &fakeVerifier{err: domain.ErrInvalidInput},
			want: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(tt.v, nil, Config{})
			_, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: wallet})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestPost_BroadcastFailureIsSwallowed(t *testing.T) {
	b := &fakeBroadcaster{err: errors.New("redis down")}
	svc, store := newTestService(holder(500000), b, Config{})

	msg, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: wallet})
	require.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, 1, store.Len())
}

func TestPost_TwoIdenticalPostsGetDistinctIDs(t *testing.T) {
	svc, store := newTestService(holder(500000), nil, Config{})
	req := PostRequest{Text: "same", WalletAddress: wallet}

	a, err := svc.Post(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Post(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())
}

func TestPost_RateLimitPerWallet(t *testing.T) {
	svc, store := newTestService(holder(500000), nil, Config{RatePerMinute: 1, Burst: 2})
	ctx := context.Background()

	_, err := svc.Post(ctx, PostRequest{Text: "1", WalletAddress: wallet})
	require.NoError(t, err)
	_, err = svc.Post(ctx, PostRequest{Text: "2", WalletAddress: wallet})
	require.NoError(t, err)
	_, err = svc.Post(ctx, PostRequest{Text: "3", WalletAddress: wallet})
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	// Another wallet has its own bucket.
	_, err = svc.Post(ctx, PostRequest{Text: "4", WalletAddress: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"})
	assert.NoError(t, err)
	assert.Equal(t, 3, store.Len())
}

type failingStore struct {
	*memory.MessageLog
	queryable bool
	limit     int
}

func (f *failingStore) Append(ctx context.Context, entry domain.NewMessage) (*domain.Message, error) {
	return nil, errors.New("disk full")
}

func (f *failingStore) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	f.limit = limit
	return nil, errors.New("disk gone")
}

func (f *failingStore) Queryable() bool { return f.queryable }

func TestPost_StorageFailure(t *testing.T) {
	store := &failingStore{MessageLog: memory.NewMessageLog()}
	svc := NewService(store, holder(500000), nil, Config{})

	_, err := svc.Post(context.Background(), PostRequest{Text: "gm", WalletAddress: wallet})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestList_ReadFailureYieldsEmpty(t *testing.T) {
	store := &failingStore{MessageLog: memory.NewMessageLog(), queryable: true}
	svc := NewService(store, holder(0), nil, Config{PageLimit: 50})

	list := svc.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Equal(t, 50, store.limit)
}

func TestList_NonQueryableStoreGetsNoLimit(t *testing.T) {
	store := &failingStore{MessageLog: memory.NewMessageLog(), queryable: false}
	svc := NewService(store, holder(0), nil, Config{PageLimit: 50})

	svc.List(context.Background())
	assert.Equal(t, 0, store.limit)
}

func TestList_EmptyStore(t *testing.T) {
	svc, _ := newTestService(holder(0), nil, Config{PageLimit: 50})

	list := svc.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
