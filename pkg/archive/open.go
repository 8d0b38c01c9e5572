package archive

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
	BackendMongo    = "mongo"
)

// OpenOptions selects and configures a storage backend.
type OpenOptions struct {
	Backend string

	// File backend.
	DataDir string

	// Postgres backend.
	PostgresDSN string

	// Supabase backend.
	SupabaseConnString string
	SupabaseURL        string
	SupabaseKey        string
	SupabasePassword   string

	// Mongo backend.
	MongoURI      string
	MongoDatabase string
}

// Open connects the selected backend and returns the store together with a
// cleanup function. Database-backed stores get their schema initialized.
func Open(ctx context.Context, opts OpenOptions) (Store, func(), error) {
	noop := func() {}

	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.DataDir), noop, nil

	case BackendPostgres:
		client := NewPostgresClient(PostgresConfig{DSN: opts.PostgresDSN})
		if err := client.Connect(ctx); err != nil {
			return nil, noop, err
		}
		store := NewPostgresStore(client)
		if err := store.Init(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil

	case BackendSupabase:
		client := NewSupabaseClient(SupabaseConfig{
			ConnectionString: opts.SupabaseConnString,
			SupabaseURL:      opts.SupabaseURL,
			SupabaseKey:      opts.SupabaseKey,
			Password:         opts.SupabasePassword,
		})
		if err := client.Connect(ctx); err != nil {
			return nil, noop, err
		}
		store := NewPostgresStore(client)
		if err := store.Init(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, func() { _ = client.Close() }, nil

	case BackendMongo:
		store, err := NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
