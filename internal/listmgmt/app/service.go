package app

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
)

var tracer = otel.Tracer("listmgmt/app")

var (
	listsCreatedTotal        metric.Int64Counter
	listsDeletedTotal        metric.Int64Counter
	membersJoinedTotal       metric.Int64Counter
	membersLeftTotal         metric.Int64Counter
	ownershipTransfersTotal  metric.Int64Counter
	itemMutationsTotal       metric.Int64Counter
	eventsPublishedTotal     metric.Int64Counter
	propagationFailuresTotal metric.Int64Counter
	codeCollisionsTotal      metric.Int64Counter
	usersRegisteredTotal     metric.Int64Counter
	usersDeletedTotal        metric.Int64Counter
)

func init() {
	m := otel.Meter("listmgmt/app")

	listsCreatedTotal, _ = m.Int64Counter("lists_created_total",
		metric.WithDescription("Total lists created"))
	listsDeletedTotal, _ = m.Int64Counter("lists_deleted_total",
		metric.WithDescription("Total lists deleted"))
	membersJoinedTotal, _ = m.Int64Counter("lists_members_joined_total",
		metric.WithDescription("Total members joined across lists"))
	membersLeftTotal, _ = m.Int64Counter("lists_members_left_total",
		metric.WithDescription("Total members departed across lists"))
	ownershipTransfersTotal, _ = m.Int64Counter("lists_ownership_transfers_total",
		metric.WithDescription("Total ownership transfers on owner departure"))
	itemMutationsTotal, _ = m.Int64Counter("lists_item_mutations_total",
		metric.WithDescription("Total item mutations"))
	eventsPublishedTotal, _ = m.Int64Counter("lists_events_published_total",
		metric.WithDescription("Total change envelopes published"))
	propagationFailuresTotal, _ = m.Int64Counter("lists_propagation_failures_total",
		metric.WithDescription("Total per-member cache updates that failed"))
	codeCollisionsTotal, _ = m.Int64Counter("lists_code_collisions_total",
		metric.WithDescription("Total share code collisions during generation"))
	usersRegisteredTotal, _ = m.Int64Counter("users_registered_total",
		metric.WithDescription("Total user accounts created"))
	usersDeletedTotal, _ = m.Int64Counter("users_deleted_total",
		metric.WithDescription("Total user accounts deleted"))
}

// UserStore persists and retrieves user account records.
// Save is insert-or-overwrite guarded by the record's version counter and
// returns domain.ErrVersionConflict on a lost update; Delete returns the
// removed record.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Save(ctx context.Context, user *UserRecord) error
	Delete(ctx context.Context, userID string) (*UserRecord, error)
}

// ListStore persists and retrieves list aggregate records, with the same
// Save and Delete contracts as UserStore.
type ListStore interface {
	GetByID(ctx context.Context, listID string) (*ListRecord, error)
	FindByCode(ctx context.Context, code string) (*ListRecord, error)
	Save(ctx context.Context, list *ListRecord) error
	Delete(ctx context.Context, listID string) (*ListRecord, error)
}

// ServiceConfig holds the dependencies for Service.
type ServiceConfig struct {
	UserStore UserStore
	ListStore ListStore
	Events    EventPublisher
	Minter    *auth.Minter
	Clock     domain.Clock
	Logger    *slog.Logger
}

// Service orchestrates list, item, and user mutations: it validates each
// request, mutates the canonical aggregate, fans the updated denormalized
// view out to every affected member's account, and broadcasts typed change
// envelopes to the list's topic.
type Service struct {
	users  UserStore
	lists  ListStore
	events EventPublisher
	minter *auth.Minter
	clock  domain.Clock
	logger *slog.Logger
	bgWG   sync.WaitGroup // owns background goroutines (membership propagation)
}

// NewService creates a new Service with the given dependencies.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		users:  cfg.UserStore,
		lists:  cfg.ListStore,
		events: cfg.Events,
		minter: cfg.Minter,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}
}

// Wait blocks until all background propagation goroutines complete. It is
// the aggregated completion signal callers may await for stronger
// consistency; the wiring layer must invoke it during graceful shutdown.
func (s *Service) Wait() {
	s.bgWG.Wait()
}
