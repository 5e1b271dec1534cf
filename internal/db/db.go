package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdf-rag/internal/config"
)

// Collection and Embedding follow the table layout used by LangChain's
// PGVector store, so collections can be shared with other LangChain clients.
type Collection struct {
	bun.BaseModel `bun:"table:langchain_pg_collection,alias:c"`
	UUID          string         `bun:"uuid,pk,type:uuid"`
	Name          string         `bun:"name,notnull,unique"`
	CMetadata     map[string]any `bun:"cmetadata,type:jsonb"`
}

type Embedding struct {
	bun.BaseModel `bun:"table:langchain_pg_embedding,alias:e"`
	ID            string          `bun:"id,pk"`
	CollectionID  string          `bun:"collection_id,type:uuid"`
	Embedding     pgvector.Vector `bun:"embedding,type:vector"`
	Document      string          `bun:"document"`
	CMetadata     map[string]any  `bun:"cmetadata,type:jsonb"`
	Distance      float64         `bun:"distance,scanonly"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens (without dialing) a connection pool for the configured URL
// using either bun's pgdriver or lib/pq.
func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := NormalizeDSN(cfg.ConnectionURL())
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverPQ:
		return sql.Open("postgres", dsn)
	default:
		return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), nil
	}
}

// NormalizeDSN turns SQLAlchemy-style URLs ("postgresql+psycopg://") into
// plain postgres URLs and disables TLS unless sslmode is given.
func NormalizeDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	scheme, _, _ := strings.Cut(u.Scheme, "+")
	switch scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("invalid database url: unsupported scheme %q", u.Scheme)
	}
	u.Scheme = scheme

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	if _, err := db.NewCreateTable().Model((*Collection)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create collection table: %w", err)
	}

	if _, err := createEmbeddingTable(db).Exec(ctx); err != nil {
		return fmt.Errorf("create embedding table: %w", err)
	}

	_, err := db.NewCreateIndex().
		Model((*Embedding)(nil)).
		Index("ix_cmetadata_gin").
		Using("gin").
		Column("cmetadata").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create metadata index: %w", err)
	}
	return nil
}

func createEmbeddingTable(db *bun.DB) *bun.CreateTableQuery {
	return db.NewCreateTable().
		Model((*Embedding)(nil)).
		IfNotExists().
		ForeignKey(`("collection_id") REFERENCES "langchain_pg_collection" ("uuid") ON DELETE CASCADE`)
}

// GetOrCreateCollection returns the collection row named name, creating it
// when missing.
func GetOrCreateCollection(ctx context.Context, db *bun.DB, name, newID string) (*Collection, error) {
	_, err := db.NewInsert().
		Model(&Collection{UUID: newID, Name: name, CMetadata: map[string]any{}}).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	coll := new(Collection)
	if err := db.NewSelect().Model(coll).Where("name = ?", name).Limit(1).Scan(ctx); err != nil {
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	}
	return coll, nil
}

// StoreEmbeddings writes all records in a single INSERT.
func StoreEmbeddings(ctx context.Context, db *bun.DB, records []Embedding) error {
	if len(records) == 0 {
		return nil
	}
	_, err := insertEmbeddings(db, records).Exec(ctx)
	return err
}

func insertEmbeddings(db *bun.DB, records []Embedding) *bun.InsertQuery {
	return db.NewInsert().Model(&records)
}

// SearchEmbeddings returns the limit records of the collection closest to
// queryEmbedding by cosine distance, nearest first.
func SearchEmbeddings(ctx context.Context, db *bun.DB, collectionID string, queryEmbedding []float32, limit int) ([]Embedding, error) {
	var rows []Embedding
	err := searchQuery(db, &rows, collectionID, queryEmbedding, limit).Scan(ctx)
	return rows, err
}

func searchQuery(db *bun.DB, rows *[]Embedding, collectionID string, queryEmbedding []float32, limit int) *bun.SelectQuery {
	return db.NewSelect().
		Model(rows).
		ColumnExpr("e.id, e.document, e.cmetadata").
		ColumnExpr("e.embedding <=> ? AS distance", pgvector.NewVector(queryEmbedding)).
		Where("e.collection_id = ?", collectionID).
		OrderExpr("distance ASC").
		Limit(limit)
}
