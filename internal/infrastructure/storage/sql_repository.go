package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"NewsNavigator/internal/domain"
	"NewsNavigator/internal/ports"
)

// SQLRepository persists every record kind into Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.Repository = (*SQLRepository)(nil)

// Open connects with the driver matching dialect, pings, and migrates.
func Open(ctx context.Context, dialect Dialect, dsn string) (*SQLRepository, error) {
	switch dialect {
	case DialectPostgres, DialectSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	repo := NewSQLRepository(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository wires an existing sql.DB implementation.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == DialectPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &SQLRepository{
		db:      db,
		dialect: dialect,
		builder: builder,
		now:     time.Now,
	}
}

// Migrate creates tables and indexes when they are missing.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements(r.dialect) {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (r *SQLRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Ping reports whether the database is reachable.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var paperColumns = []string{
	"id", "paper_id", "title", "title_localized", "tag", "source", "url", "submitted",
	"impact_score", "core_principle", "bottom_logic", "product_imagination",
	"published_at", "created_at", "updated_at",
}

// UpsertPaper inserts a paper or updates the content of the row with the same paper_id.
func (r *SQLRepository) UpsertPaper(ctx context.Context, p domain.Paper) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.upsert(ctx, "papers", "paper_id",
		[]string{"paper_id", "title", "title_localized", "tag", "source", "url", "submitted",
			"impact_score", "core_principle", "bottom_logic", "product_imagination", "published_at"},
		[]any{p.PaperID, p.Title, p.TitleLocalized, p.Tag, p.Source, p.URL, p.Submitted,
			p.ImpactScore, p.CorePrinciple, p.BottomLogic, p.ProductImagination, p.PublishedAt.Unix()},
	)
}

// RecentPapers returns the last limit papers by insertion order.
func (r *SQLRepository) RecentPapers(ctx context.Context, limit int) ([]domain.Paper, error) {
	return queryRows(ctx, r.db, r.recent("papers", paperColumns, limit), scanPaper)
}

// ListPapers returns papers published within [from, to], newest first.
func (r *SQLRepository) ListPapers(ctx context.Context, from, to time.Time) ([]domain.Paper, error) {
	return queryRows(ctx, r.db, r.between("papers", paperColumns, from, to), scanPaper)
}

func scanPaper(s rowScanner) (domain.Paper, error) {
	var (
		p      domain.Paper
		stamps timestamps
	)
	err := s.Scan(&p.ID, &p.PaperID, &p.Title, &p.TitleLocalized, &p.Tag, &p.Source, &p.URL, &p.Submitted,
		&p.ImpactScore, &p.CorePrinciple, &p.BottomLogic, &p.ProductImagination,
		&stamps.published, &stamps.created, &stamps.updated)
	if err != nil {
		return domain.Paper{}, err
	}
	p.PublishedAt = stamps.apply(&p.Meta)
	return p, nil
}

var newsColumns = []string{
	"id", "news_id", "headline", "headline_localized", "tag", "source", "url", "display_time",
	"urgency", "summary", "business_insight", "case_study",
	"published_at", "created_at", "updated_at",
}

// UpsertNews inserts a news item or updates the content of the row with the same news_id.
func (r *SQLRepository) UpsertNews(ctx context.Context, n domain.NewsItem) error {
	if err := n.Validate(); err != nil {
		return err
	}
	return r.upsert(ctx, "news_items", "news_id",
		[]string{"news_id", "headline", "headline_localized", "tag", "source", "url", "display_time",
			"urgency", "summary", "business_insight", "case_study", "published_at"},
		[]any{n.NewsID, n.Headline, n.HeadlineLocalized, n.Tag, n.Source, n.URL, n.Time,
			string(domain.ParseUrgency(string(n.Urgency))), n.Summary, n.BusinessInsight, n.CaseStudy, n.PublishedAt.Unix()},
	)
}

// RecentNews returns the last limit news items by insertion order.
func (r *SQLRepository) RecentNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	return queryRows(ctx, r.db, r.recent("news_items", newsColumns, limit), scanNews)
}

// ListNews returns news published within [from, to], newest first.
func (r *SQLRepository) ListNews(ctx context.Context, from, to time.Time) ([]domain.NewsItem, error) {
	return queryRows(ctx, r.db, r.between("news_items", newsColumns, from, to), scanNews)
}

func scanNews(s rowScanner) (domain.NewsItem, error) {
	var (
		n       domain.NewsItem
		urgency string
		stamps  timestamps
	)
	err := s.Scan(&n.ID, &n.NewsID, &n.Headline, &n.HeadlineLocalized, &n.Tag, &n.Source, &n.URL, &n.Time,
		&urgency, &n.Summary, &n.BusinessInsight, &n.CaseStudy,
		&stamps.published, &stamps.created, &stamps.updated)
	if err != nil {
		return domain.NewsItem{}, err
	}
	n.Urgency = domain.ParseUrgency(urgency)
	n.PublishedAt = stamps.apply(&n.Meta)
	return n, nil
}

var productColumns = []string{
	"id", "product_id", "name", "tagline", "tag", "source", "url", "upvotes",
	"verdict", "pain_point_analysis", "business_model",
	"published_at", "created_at", "updated_at",
}

// UpsertProduct inserts a product or updates the content of the row with the same product_id.
func (r *SQLRepository) UpsertProduct(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var upvotes sql.NullInt64
	if p.Upvotes != nil {
		upvotes = sql.NullInt64{Int64: int64(*p.Upvotes), Valid: true}
	}
	return r.upsert(ctx, "products", "product_id",
		[]string{"product_id", "name", "tagline", "tag", "source", "url", "upvotes",
			"verdict", "pain_point_analysis", "business_model", "published_at"},
		[]any{p.ProductID, p.Name, p.Tagline, p.Tag, p.Source, p.URL, upvotes,
			string(domain.ParseVerdict(string(p.Verdict))), p.PainPointAnalysis, p.BusinessModel, p.PublishedAt.Unix()},
	)
}

// RecentProducts returns the last limit products by insertion order.
func (r *SQLRepository) RecentProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return queryRows(ctx, r.db, r.recent("products", productColumns, limit), scanProduct)
}

// ListProducts returns products published within [from, to], newest first.
func (r *SQLRepository) ListProducts(ctx context.Context, from, to time.Time) ([]domain.Product, error) {
	return queryRows(ctx, r.db, r.between("products", productColumns, from, to), scanProduct)
}

func scanProduct(s rowScanner) (domain.Product, error) {
	var (
		p       domain.Product
		upvotes sql.NullInt64
		verdict string
		stamps  timestamps
	)
	err := s.Scan(&p.ID, &p.ProductID, &p.Name, &p.Tagline, &p.Tag, &p.Source, &p.URL, &upvotes,
		&verdict, &p.PainPointAnalysis, &p.BusinessModel,
		&stamps.published, &stamps.created, &stamps.updated)
	if err != nil {
		return domain.Product{}, err
	}
	if upvotes.Valid {
		v := int(upvotes.Int64)
		p.Upvotes = &v
	}
	p.Verdict = domain.ParseVerdict(verdict)
	p.PublishedAt = stamps.apply(&p.Meta)
	return p, nil
}

var insightColumns = []string{
	"id", "headline", "subheadline", "content", "source", "urgency",
	"published_at", "created_at", "updated_at",
}

// AppendInsight stores a new insight row; insights are never updated.
func (r *SQLRepository) AppendInsight(ctx context.Context, in domain.Insight) error {
	if err := in.Validate(); err != nil {
		return err
	}
	now := r.now().Unix()
	query, args, err := r.builder.Insert("insights").
		Columns("headline", "subheadline", "content", "source", "urgency", "published_at", "created_at", "updated_at").
		Values(in.Headline, in.Subheadline, in.Content, in.Source, in.Urgency, in.PublishedAt.Unix(), now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert insight: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append insight: %w", err)
	}
	return nil
}

// LatestInsight returns the most recently appended insight, or nil when there is none.
func (r *SQLRepository) LatestInsight(ctx context.Context) (*domain.Insight, error) {
	rows, err := queryRows(ctx, r.db, r.recent("insights", insightColumns, 1), scanInsight)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListInsights returns insights published within [from, to], newest first.
func (r *SQLRepository) ListInsights(ctx context.Context, from, to time.Time) ([]domain.Insight, error) {
	return queryRows(ctx, r.db, r.between("insights", insightColumns, from, to), scanInsight)
}

func scanInsight(s rowScanner) (domain.Insight, error) {
	var (
		in     domain.Insight
		stamps timestamps
	)
	err := s.Scan(&in.ID, &in.Headline, &in.Subheadline, &in.Content, &in.Source, &in.Urgency,
		&stamps.published, &stamps.created, &stamps.updated)
	if err != nil {
		return domain.Insight{}, err
	}
	in.PublishedAt = stamps.apply(&in.Meta)
	return in, nil
}

// upsert inserts cols/vals and, on a key conflict, overwrites every column
// except the key, the row id and created_at.
func (r *SQLRepository) upsert(ctx context.Context, table, key string, cols []string, vals []any) error {
	now := r.now().Unix()
	cols = append(cols, "created_at", "updated_at")
	vals = append(vals, now, now)

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == key || c == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	query, args, err := r.builder.Insert(table).
		Columns(cols...).
		Values(vals...).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, strings.Join(sets, ", "))).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert %s: %w", table, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (r *SQLRepository) recent(table string, cols []string, limit int) sq.SelectBuilder {
	if limit <= 0 {
		limit = 1
	}
	return r.builder.Select(cols...).From(table).OrderBy("id DESC").Limit(uint64(limit))
}

func (r *SQLRepository) between(table string, cols []string, from, to time.Time) sq.SelectBuilder {
	return r.builder.Select(cols...).From(table).
		Where(sq.GtOrEq{"published_at": from.Unix()}).
		Where(sq.LtOrEq{"published_at": to.Unix()}).
		OrderBy("published_at DESC", "id DESC")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryRows[T any](ctx context.Context, db *sql.DB, builder sq.SelectBuilder, scan func(rowScanner) (T, error)) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

type timestamps struct {
	published int64
	created   int64
	updated   int64
}

func (t timestamps) apply(meta *domain.Meta) time.Time {
	meta.CreatedAt = time.Unix(t.created, 0).UTC()
	meta.UpdatedAt = time.Unix(t.updated, 0).UTC()
	return time.Unix(t.published, 0).UTC()
}
