package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/util/compression"
)

// DBRepository persists drafts to the drafts table so an unfinished
// draft survives a restart. Like post content, the encoded document is
// compressed at rest.
type DBRepository struct {
	db         db.DB
	compressor compression.Compressor
}

var _ Repository = (*DBRepository)(nil)

func NewDBRepository(database db.DB) *DBRepository {
	return &DBRepository{
		db: database,

		compressor: compression.ZstdCompressor{},
	}
}

func (r *DBRepository) CreateDraft() (*Draft, error) {
	id := DraftID(uuid.New().String())

	compressed, err := r.compressor.Compress(nil)
	if err != nil {
		return nil, fmt.Errorf("error compressing draft content: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO drafts (id, content) VALUES (?, ?)`, id, compressed)
	if err != nil {
		return nil, fmt.Errorf("error creating draft: %w", err)
	}

	return &Draft{
		ID:          id,
		Content:     []byte{},
		Initialized: false,
	}, nil
}

func (r *DBRepository) SaveDraft(id DraftID, content []byte) error {
	compressed, err := r.compressor.Compress(content)
	if err != nil {
		return fmt.Errorf("error compressing draft content: %w", err)
	}

	res, err := r.db.Exec(`UPDATE drafts SET content = ? WHERE id = ?`, compressed, id)
	if err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	// Saving nothing to a draft that doesn't exist is not worth a row.
	if len(content) == 0 {
		return nil
	}

	_, err = r.db.Exec(`INSERT INTO drafts (id, content) VALUES (?, ?)`, id, compressed)
	if err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}
	return nil
}

func (r *DBRepository) GetDraft(id DraftID) (*Draft, error) {
	rows, err := r.db.Query(`SELECT content FROM drafts WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("draft not found: %s", id)
	}

	var compressed []byte
	if err := rows.Scan(&compressed); err != nil {
		return nil, fmt.Errorf("error scanning draft: %w", err)
	}

	content, err := r.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("error decompressing draft content: %w", err)
	}

	return &Draft{
		ID:          id,
		Content:     content,
		Initialized: len(content) > 0,
	}, nil
}

func (r *DBRepository) DeleteDraft(id DraftID) error {
	if _, err := r.db.Exec(`DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting draft: %w", err)
	}
	return nil
}
