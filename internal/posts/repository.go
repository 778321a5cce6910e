package posts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
)

// Repository handles blog post, novel and chapter persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a posts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, title, content, excerpt, author, cover_url, published, created_at, updated_at`

func scanPost(row interface{ Scan(dest ...any) error }, p *models.BlogPost) error {
	return row.Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Author, &p.CoverURL, &p.Published, &p.CreatedAt, &p.UpdatedAt)
}

// CreatePost inserts a new draft post.
func (r *Repository) CreatePost(ctx context.Context, p *models.BlogPost) error {
	const q = `INSERT INTO blog_posts (id, title, content, excerpt, author, cover_url, published)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, FALSE)
		RETURNING id, published, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, p.Title, p.Content, p.Excerpt, p.Author, p.CoverURL).
		Scan(&p.ID, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return sessions.MapStoreError(err)
}

// GetPost returns a post by ID regardless of publish state.
func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const q = `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`
	var p models.BlogPost
	if err := scanPost(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &p, nil
}

// ListPosts returns posts newest first. When publishedOnly is set, drafts are
// excluded.
func (r *Repository) ListPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	q := `SELECT ` + postColumns + ` FROM blog_posts`
	if publishedOnly {
		q += ` WHERE published = TRUE`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.BlogPost
	for rows.Next() {
		var p models.BlogPost
		if err := scanPost(rows, &p); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdatePost replaces the editable fields of a post.
func (r *Repository) UpdatePost(ctx context.Context, p *models.BlogPost) error {
	const q = `UPDATE blog_posts
		SET title = $2, content = $3, excerpt = $4, cover_url = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return sessions.MapStoreError(scanPost(r.pool.QueryRow(ctx, q, p.ID, p.Title, p.Content, p.Excerpt, p.CoverURL), p))
}

// SetPostPublished flips the publish flag.
func (r *Repository) SetPostPublished(ctx context.Context, id uuid.UUID, published bool) (*models.BlogPost, error) {
	const q = `UPDATE blog_posts SET published = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + postColumns
	var p models.BlogPost
	if err := scanPost(r.pool.QueryRow(ctx, q, id, published), &p); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &p, nil
}

// DeletePost removes a post permanently.
func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return sessions.MapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return sessions.ErrNotFound
	}
	return nil
}

const novelColumns = `id, title, description, author, cover_url, published, created_at, updated_at`

func scanNovel(row interface{ Scan(dest ...any) error }, n *models.Novel) error {
	return row.Scan(&n.ID, &n.Title, &n.Description, &n.Author, &n.CoverURL, &n.Published, &n.CreatedAt, &n.UpdatedAt)
}

// CreateNovel inserts a new unpublished novel.
func (r *Repository) CreateNovel(ctx context.Context, n *models.Novel) error {
	const q = `INSERT INTO novels (id, title, description, author, cover_url, published)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, FALSE)
		RETURNING id, published, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, n.Title, n.Description, n.Author, n.CoverURL).
		Scan(&n.ID, &n.Published, &n.CreatedAt, &n.UpdatedAt)
	return sessions.MapStoreError(err)
}

// GetNovel returns a novel by ID.
func (r *Repository) GetNovel(ctx context.Context, id uuid.UUID) (*models.Novel, error) {
	const q = `SELECT ` + novelColumns + ` FROM novels WHERE id = $1`
	var n models.Novel
	if err := scanNovel(r.pool.QueryRow(ctx, q, id), &n); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &n, nil
}

// ListNovels returns novels newest first, optionally published only.
func (r *Repository) ListNovels(ctx context.Context, publishedOnly bool) ([]models.Novel, error) {
	q := `SELECT ` + novelColumns + ` FROM novels`
	if publishedOnly {
		q += ` WHERE published = TRUE`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.Novel
	for rows.Next() {
		var n models.Novel
		if err := scanNovel(rows, &n); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// SetNovelPublished flips a novel's publish flag.
func (r *Repository) SetNovelPublished(ctx context.Context, id uuid.UUID, published bool) (*models.Novel, error) {
	const q = `UPDATE novels SET published = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + novelColumns
	var n models.Novel
	if err := scanNovel(r.pool.QueryRow(ctx, q, id, published), &n); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &n, nil
}

const chapterColumns = `id, novel_id, chapter_number, title, content, published, created_at, updated_at`

func scanChapter(row interface{ Scan(dest ...any) error }, ch *models.NovelChapter) error {
	return row.Scan(&ch.ID, &ch.NovelID, &ch.ChapterNumber, &ch.Title, &ch.Content, &ch.Published, &ch.CreatedAt, &ch.UpdatedAt)
}

// CreateChapter appends a chapter to a novel. The chapter number is assigned
// as max+1 for the novel.
func (r *Repository) CreateChapter(ctx context.Context, ch *models.NovelChapter) error {
	const q = `INSERT INTO novel_chapters (id, novel_id, chapter_number, title, content, published)
		VALUES (gen_random_uuid(), $1,
			(SELECT COALESCE(MAX(chapter_number), 0) + 1 FROM novel_chapters WHERE novel_id = $1),
			$2, $3, FALSE)
		RETURNING id, chapter_number, published, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, ch.NovelID, ch.Title, ch.Content).
		Scan(&ch.ID, &ch.ChapterNumber, &ch.Published, &ch.CreatedAt, &ch.UpdatedAt)
	return sessions.MapStoreError(err)
}

// ListChapters returns a novel's chapters in reading order, optionally
// published only.
func (r *Repository) ListChapters(ctx context.Context, novelID uuid.UUID, publishedOnly bool) ([]models.NovelChapter, error) {
	q := `SELECT ` + chapterColumns + ` FROM novel_chapters WHERE novel_id = $1`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	q += ` ORDER BY chapter_number ASC`
	rows, err := r.pool.Query(ctx, q, novelID)
	if err != nil {
		return nil, sessions.MapStoreError(err)
	}
	defer rows.Close()

	var list []models.NovelChapter
	for rows.Next() {
		var ch models.NovelChapter
		if err := scanChapter(rows, &ch); err != nil {
			return nil, sessions.MapStoreError(err)
		}
		list = append(list, ch)
	}
	return list, rows.Err()
}

// SetChapterPublished flips a chapter's publish flag.
func (r *Repository) SetChapterPublished(ctx context.Context, id uuid.UUID, published bool) (*models.NovelChapter, error) {
	const q = `UPDATE novel_chapters SET published = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + chapterColumns
	var ch models.NovelChapter
	if err := scanChapter(r.pool.QueryRow(ctx, q, id, published), &ch); err != nil {
		return nil, sessions.MapStoreError(err)
	}
	return &ch, nil
}
