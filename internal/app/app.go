// Package app wires the storefront client: storage backend, collaborator
// client, session and cart stores, checkout and the event publisher.
package app

import (
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/foodyham/internal/apiclient"
	"github.com/example/foodyham/internal/config"
	"github.com/example/foodyham/internal/domain/cart"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/domain/session"
	"github.com/example/foodyham/internal/event"
	"github.com/example/foodyham/internal/infrastructure/kafka"
	"github.com/example/foodyham/internal/infrastructure/storage"
	"github.com/example/foodyham/internal/metrics"
)

type App struct {
	Config    *config.Config
	KV        storage.KV
	Client    *apiclient.Client
	Session   *session.Store
	Cart      *cart.Store
	Checkout  *order.Service
	Publisher event.Publisher
	Metrics   *metrics.Metrics

	closers []func() error
}

// Option overrides a dependency, mainly for tests
type Option func(*App)

// WithKV skips backend selection and uses kv
func WithKV(kv storage.KV) Option {
	return func(a *App) { a.KV = kv }
}

// WithPublisher skips the Kafka producer and uses p
func WithPublisher(p event.Publisher) Option {
	return func(a *App) { a.Publisher = p }
}

// New builds the application and restores the persisted session and cart
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics.New()}
	for _, opt := range opts {
		opt(a)
	}

	if a.KV == nil {
		kv, err := OpenStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.KV = kv
	}
	a.closers = append(a.closers, a.KV.Close)

	if a.Publisher == nil {
		a.Publisher = event.NopPublisher{}
		if cfg.KafkaEnabled() {
			producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
			a.Publisher = producer
			a.closers = append(a.closers, producer.Close)
		}
	}

	// the client reads the token from the session built right after it
	var sess *session.Store
	a.Client = apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithMetrics(a.Metrics),
		apiclient.WithTokenSource(apiclient.TokenFunc(func() string { return sess.Token() })),
	)
	sess = session.NewStore(a.KV, a.Client,
		session.WithCartPurgeOnLogout(cfg.CartPurgeOnLogout),
		session.WithPublisher(a.Publisher),
		session.WithMetrics(a.Metrics),
	)
	a.Session = sess
	a.Cart = cart.NewStore(a.KV,
		cart.WithCartID(cfg.Profile),
		cart.WithPublisher(a.Publisher),
		cart.WithMetrics(a.Metrics),
	)
	a.Checkout = order.NewService(a.Cart, a.Session, a.Client, order.WithPublisher(a.Publisher))

	state := a.Session.Initialize(ctx)
	a.Cart.Initialize(ctx)
	log.Printf("[App] Profile %s restored: session %s, %d item(s) in cart", cfg.Profile, state, a.Cart.Count())
	return a, nil
}

// Close releases the storage backend and the publisher
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStorage connects the backend named by cfg.Storage. Shared backends
// are namespaced by profile.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil

	case config.StorageFile:
		return storage.NewFileStore(cfg.StateFile())

	case config.StorageRedis:
		client, err := storage.ConnectRedis(ctx, cfg.RedisURL, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, cfg.Profile), nil

	case config.StoragePostgres:
		db, err := storage.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store := storage.NewPostgresStore(db, cfg.Profile)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil

	case config.StorageDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return storage.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable, cfg.Profile), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
