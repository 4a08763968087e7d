package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// Create inserts a new list holding keywords
func (s *ListStore) Create(ctx context.Context, name string, keywords []models.SavedKeyword) (*models.SavedList, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := s.now()

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureNameFree(ctx, tx, name, ""); err != nil {
			return err
		}
		query := tx.Rebind(`INSERT INTO keyword_lists (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, id, name, now, now); err != nil {
			return apperrors.DatabaseError("failed to create list", err)
		}
		_, err := insertKeywords(ctx, tx, id, keywords)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list created", zap.String("id", id), zap.String("name", name), zap.Int("keywords", len(keywords)))
	return s.Get(ctx, id)
}

// List returns every list with its keyword count, ordered by name
func (s *ListStore) List(ctx context.Context) ([]models.SavedListSummary, error) {
	query := `SELECT l.id, l.name, l.created_at, l.updated_at,
		(SELECT COUNT(*) FROM list_keywords k WHERE k.list_id = l.id) AS keyword_count
	FROM keyword_lists l
	ORDER BY l.name`

	lists := make([]models.SavedListSummary, 0)
	if err := s.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, apperrors.DatabaseError("failed to query lists", err)
	}
	return lists, nil
}

// Get returns a list with its keywords in insertion order
func (s *ListStore) Get(ctx context.Context, id string) (*models.SavedList, error) {
	var list models.SavedList
	query := s.db.Rebind(`SELECT id, name, created_at, updated_at FROM keyword_lists WHERE id = ?`)
	if err := s.db.GetContext(ctx, &list, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(ErrListNotFound)
		}
		return nil, apperrors.DatabaseError("failed to get list", err)
	}

	list.Keywords = make([]models.SavedKeyword, 0)
	query = s.db.Rebind(`SELECT keyword, volume, value FROM list_keywords WHERE list_id = ? ORDER BY position`)
	if err := s.db.SelectContext(ctx, &list.Keywords, query, id); err != nil {
		return nil, apperrors.DatabaseError("failed to get list keywords", err)
	}
	return &list, nil
}

// Rename changes the name of a list
func (s *ListStore) Rename(ctx context.Context, id, name string) (*models.SavedList, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureNameFree(ctx, tx, name, id); err != nil {
			return err
		}
		query := tx.Rebind(`UPDATE keyword_lists SET name = ?, updated_at = ? WHERE id = ?`)
		res, err := tx.ExecContext(ctx, query, name, s.now(), id)
		if err != nil {
			return apperrors.DatabaseError("failed to rename list", err)
		}
		return requireAffected(res, ErrListNotFound)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a list and its keywords
func (s *ListStore) Delete(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM list_keywords WHERE list_id = ?`), id); err != nil {
			return apperrors.DatabaseError("failed to delete list keywords", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM keyword_lists WHERE id = ?`), id)
		if err != nil {
			return apperrors.DatabaseError("failed to delete list", err)
		}
		return requireAffected(res, ErrListNotFound)
	})
	if err == nil {
		s.logger.Info("list deleted", zap.String("id", id))
	}
	return err
}

// AddKeywords appends keywords the list does not hold yet and returns how many were added
func (s *ListStore) AddKeywords(ctx context.Context, id string, keywords []models.SavedKeyword) (int, error) {
	var added int
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureListExists(ctx, tx, id); err != nil {
			return err
		}
		var err error
		if added, err = insertKeywords(ctx, tx, id, keywords); err != nil {
			return err
		}
		if added == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE keyword_lists SET updated_at = ? WHERE id = ?`), s.now(), id)
		if err != nil {
			return apperrors.DatabaseError("failed to touch list", err)
		}
		return nil
	})
	return added, err
}

// RemoveKeyword deletes one keyword from a list
func (s *ListStore) RemoveKeyword(ctx context.Context, id, keyword string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := ensureListExists(ctx, tx, id); err != nil {
			return err
		}
		query := tx.Rebind(`DELETE FROM list_keywords WHERE list_id = ? AND keyword = ?`)
		res, err := tx.ExecContext(ctx, query, id, keyword)
		if err != nil {
			return apperrors.DatabaseError("failed to remove keyword", err)
		}
		if err := requireAffected(res, ErrKeywordNotFound); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE keyword_lists SET updated_at = ? WHERE id = ?`), s.now(), id)
		if err != nil {
			return apperrors.DatabaseError("failed to touch list", err)
		}
		return nil
	})
}

func (s *ListStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit transaction", err)
	}
	return nil
}

// insertKeywords appends keywords after the last position, skipping blanks
// and keywords already present. It returns the number inserted.
func insertKeywords(ctx context.Context, tx *sqlx.Tx, listID string, keywords []models.SavedKeyword) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}

	var existing []string
	if err := tx.SelectContext(ctx, &existing, tx.Rebind(`SELECT keyword FROM list_keywords WHERE list_id = ?`), listID); err != nil {
		return 0, apperrors.DatabaseError("failed to read list keywords", err)
	}
	seen := make(map[string]bool, len(existing)+len(keywords))
	for _, kw := range existing {
		seen[kw] = true
	}

	var next int
	query := tx.Rebind(`SELECT COALESCE(MAX(position), -1) + 1 FROM list_keywords WHERE list_id = ?`)
	if err := tx.GetContext(ctx, &next, query, listID); err != nil {
		return 0, apperrors.DatabaseError("failed to read list position", err)
	}

	insert := tx.Rebind(`INSERT INTO list_keywords (list_id, keyword, volume, value, position) VALUES (?, ?, ?, ?, ?)`)
	added := 0
	for _, kw := range keywords {
		keyword := strings.TrimSpace(kw.Keyword)
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		if _, err := tx.ExecContext(ctx, insert, listID, keyword, kw.Volume, kw.Value, next); err != nil {
			return added, apperrors.DatabaseError("failed to add keyword", err)
		}
		next++
		added++
	}
	return added, nil
}

func ensureNameFree(ctx context.Context, tx *sqlx.Tx, name, exceptID string) error {
	var count int
	query := tx.Rebind(`SELECT COUNT(*) FROM keyword_lists WHERE name = ? AND id <> ?`)
	if err := tx.GetContext(ctx, &count, query, name, exceptID); err != nil {
		return apperrors.DatabaseError("failed to check list name", err)
	}
	if count > 0 {
		return conflict(ErrListExists)
	}
	return nil
}

func ensureListExists(ctx context.Context, tx *sqlx.Tx, id string) error {
	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM keyword_lists WHERE id = ?`), id); err != nil {
		return apperrors.DatabaseError("failed to check list", err)
	}
	if count == 0 {
		return notFound(ErrListNotFound)
	}
	return nil
}

func requireAffected(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.DatabaseError("failed to get rows affected", err)
	}
	if n == 0 {
		return notFound(sentinel)
	}
	return nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.ValidationError("list name is required")
	}
	return name, nil
}
