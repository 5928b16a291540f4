// Package chat implements the holder-gated posting pipeline.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vietddude/warroom/internal/core/domain"
	"github.com/vietddude/warroom/internal/infra/storage"
	"github.com/vietddude/warroom/internal/metrics"
)

var validate = validator.New()

// PostRequest is the client payload for a new message.
type PostRequest struct {
	Text          string `json:"text"          validate:"required,max=1000"`
	WalletAddress string `json:"walletAddress" validate:"required"`
	SenderName    string `json:"senderName"    validate:"max=64"`
}

// Verifier checks holder status against live ledger state.
type Verifier interface {
	Verify(ctx context.Context, address string) (*domain.HolderVerification, error)
}

// Broadcaster pushes stored messages to realtime subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message) error
}

// Config tunes the pipeline.
type Config struct {
	// PageLimit caps List on query-capable stores. Zero means no cap.
	PageLimit int
	// RatePerMinute is the per-wallet posting rate; zero disables limiting.
	RatePerMinute int
	Burst         int
}

// Service validates, re-verifies and stores messages.
type Service struct {
	store       storage.MessageLog
	verifier    Verifier
	broadcaster Broadcaster
	limiter     *walletLimiter
	cfg         Config
	log         *slog.Logger
}

func NewService(store storage.MessageLog, verifier Verifier, broadcaster Broadcaster, cfg Config) *Service {
	return &Service{
		store:       store,
		verifier:    verifier,
		broadcaster: broadcaster,
		limiter:     newWalletLimiter(cfg.RatePerMinute, cfg.Burst, 0),
		cfg:         cfg,
		log:         slog.Default().With("component", "chat"),
	}
}

// Post runs the full pipeline and returns the stored message. The holder
// check is always repeated here regardless of any earlier client-side check.
func (s *Service) Post(ctx context.Context, req PostRequest) (*domain.Message, error) {
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	req.SenderName = strings.TrimSpace(req.SenderName)

	if err := validate.Struct(req); err != nil {
		metrics.PostRejections.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, describe(err))
	}

	if !s.limiter.Allow(req.WalletAddress) {
		metrics.PostRejections.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("%w: too many messages, slow down", domain.ErrRateLimited)
	}

	result, err := s.verifier.Verify(ctx, req.WalletAddress)
	if err != nil {
		metrics.PostRejections.WithLabelValues("verification").Inc()
		return nil, err
	}
	if !result.IsHolder {
		metrics.PostRejections.WithLabelValues("not_holder").Inc()
		return nil, &domain.NotHolderError{
			Address: result.Address,
			Balance: result.Balance,
			MinHold: result.MinHold,
		}
	}

	name := req.SenderName
	if name == "" {
		name = domain.DefaultSenderName(req.WalletAddress)
	}

	msg, err := s.store.Append(ctx, domain.NewMessage{
		WalletAddress: req.WalletAddress,
		SenderName:    name,
		Text:          req.Text,
	})
	if err != nil {
		metrics.PostRejections.WithLabelValues("storage").Inc()
		if !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil, err
	}
	metrics.MessagesPosted.WithLabelValues(s.store.Name()).Inc()

	if s.broadcaster != nil {
		if err := s.broadcaster.Broadcast(ctx, msg); err != nil {
			metrics.BroadcastFailures.Inc()
			s.log.Warn("Realtime broadcast failed", "id", msg.ID, "error", err)
		}
	}

	return msg, nil
}

// List returns stored messages newest first. Read failures yield an empty
// list so the feed always renders.
func (s *Service) List(ctx context.Context) []*domain.Message {
	limit := 0
	if s.store.Queryable() {
		limit = s.cfg.PageLimit
	}

	messages, err := s.store.List(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list messages", "backend", s.store.Name(), "error", err)
		return []*domain.Message{}
	}
	if messages == nil {
		return []*domain.Message{}
	}
	return messages
}

// Store returns the backend in use.
func (s *Service) Store() storage.MessageLog {
	return s.store
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Text":
		return "Invalid message text"
	case "WalletAddress":
		return "walletAddress is required"
	case "SenderName":
		return "senderName is too long"
	}
	return fe.Error()
}
