package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var _ interfaces.BattleSessionRepository = (*pgBattleSessionRepository)(nil)

const activeSessionConstraint = "battle_sessions_one_active_per_player"

type pgBattleSessionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgBattleSessionRepository создает репозиторий сессий боя.
func NewPgBattleSessionRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.BattleSessionRepository {
	return &pgBattleSessionRepository{
		pool:   pool,
		logger: logger.Named("PgBattleSessionRepo"),
	}
}

const sessionColumns = `id, player_id, monster_id, biome, tier, click_count, started_at, actual_battle_started_at,
    is_defeated, completed_at, outcome, loot_options, used_items, selected_loot_id, challenge`

const createSessionQuery = `
INSERT INTO battle_sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const getSessionQuery = `SELECT ` + sessionColumns + ` FROM battle_sessions WHERE id = $1`

const getActiveSessionQuery = `
SELECT ` + sessionColumns + ` FROM battle_sessions
WHERE player_id = $1 AND is_defeated = FALSE AND completed_at IS NULL
ORDER BY started_at DESC
LIMIT 1`

const markBattleStartedQuery = `
UPDATE battle_sessions SET actual_battle_started_at = $2
WHERE id = $1 AND is_defeated = FALSE AND completed_at IS NULL AND actual_battle_started_at IS NULL`

// Решающая запись: применяется только к активной сессии
const completeSessionQuery = `
UPDATE battle_sessions SET
    is_defeated = TRUE,
    completed_at = $2,
    outcome = $3,
    click_count = COALESCE($4::int, click_count),
    loot_options = $5,
    used_items = $6
WHERE id = $1 AND is_defeated = FALSE AND completed_at IS NULL`

const selectLootQuery = `
UPDATE battle_sessions SET selected_loot_id = $2
WHERE id = $1 AND selected_loot_id IS NULL`

const insertHistoryQuery = `
INSERT INTO battle_history (id, session_id, player_id, monster_name, biome, tier, outcome,
    click_count, duration_seconds, is_boss, is_corrupted, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const listHistoryQuery = `
SELECT id, session_id, player_id, monster_name, biome, tier, outcome,
    click_count, duration_seconds, is_boss, is_corrupted, created_at
FROM battle_history
WHERE player_id = $1
  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2::timestamptz, $3::uuid))
ORDER BY created_at DESC, id DESC
LIMIT $4`

func (r *pgBattleSessionRepository) Create(ctx context.Context, querier interfaces.DBTX, s *models.BattleSession) error {
	logFields := []zap.Field{zap.Stringer("sessionID", s.ID), zap.Stringer("playerID", s.PlayerID)}

	usedItemsJSON, err := marshalNullableJSON(s.UsedItems, len(s.UsedItems) == 0)
	if err != nil {
		return fmt.Errorf("failed to marshal used items: %w", err)
	}
	challengeJSON, err := marshalNullableJSON(s.Challenge, s.Challenge == nil)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	_, err = querierOr(r.pool, querier).Exec(ctx, createSessionQuery,
		s.ID, s.PlayerID, s.MonsterID, s.Biome.String(), s.Tier, s.ClickCount, s.StartedAt,
		s.ActualBattleStartedAt, s.IsDefeated, s.CompletedAt, string(s.Outcome),
		pq.Array(s.LootOptions), usedItemsJSON, s.SelectedLootID, challengeJSON,
	)
	if err != nil {
		if isUniqueViolation(err, activeSessionConstraint) {
			r.logger.Info("Player already has an active session", logFields...)
			return models.ErrActiveSessionExists
		}
		r.logger.Error("Failed to create battle session", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create battle session: %w", err)
	}
	return nil
}

func (r *pgBattleSessionRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.BattleSession, error) {
	s, err := scanSession(querierOr(r.pool, querier).QueryRow(ctx, getSessionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get battle session", zap.Stringer("sessionID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get battle session: %w", err)
	}
	return s, nil
}

func (r *pgBattleSessionRepository) GetActiveByPlayer(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID) (*models.BattleSession, error) {
	s, err := scanSession(querierOr(r.pool, querier).QueryRow(ctx, getActiveSessionQuery, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get active battle session", zap.Stringer("playerID", playerID), zap.Error(err))
		return nil, fmt.Errorf("failed to get active battle session: %w", err)
	}
	return s, nil
}

func scanSession(row pgx.Row) (*models.BattleSession, error) {
	var (
		s             models.BattleSession
		biome         string
		outcome       string
		lootOptions   pq.StringArray
		usedItemsJSON []byte
		challengeJSON []byte
	)
	err := row.Scan(
		&s.ID, &s.PlayerID, &s.MonsterID, &biome, &s.Tier, &s.ClickCount, &s.StartedAt,
		&s.ActualBattleStartedAt, &s.IsDefeated, &s.CompletedAt, &outcome,
		&lootOptions, &usedItemsJSON, &s.SelectedLootID, &challengeJSON,
	)
	if err != nil {
		return nil, err
	}
	if s.Biome, err = models.ParseBiome(biome); err != nil {
		return nil, err
	}
	s.Outcome = models.SessionOutcome(outcome)
	if len(lootOptions) > 0 {
		s.LootOptions = []string(lootOptions)
	}
	if err := unmarshalIfPresent(usedItemsJSON, &s.UsedItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal used items: %w", err)
	}
	if err := unmarshalIfPresent(challengeJSON, &s.Challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &s, nil
}

func (r *pgBattleSessionRepository) MarkBattleStarted(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, at time.Time) (bool, error) {
	q := querierOr(r.pool, querier)

	tag, err := q.Exec(ctx, markBattleStartedQuery, id, at)
	if err != nil {
		r.logger.Error("Failed to mark battle started", zap.Stringer("sessionID", id), zap.Error(err))
		return false, fmt.Errorf("failed to mark battle started: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Ничего не обновлено: разбираемся почему
	s, err := r.GetByID(ctx, q, id)
	if err != nil {
		return false, err
	}
	if !s.IsActive() {
		return false, models.ErrSessionAlreadyCompleted
	}
	return false, nil
}

func (r *pgBattleSessionRepository) Complete(ctx context.Context, querier interfaces.DBTX, c models.SessionCompletion) error {
	logFields := []zap.Field{zap.Stringer("sessionID", c.SessionID), zap.String("outcome", string(c.Outcome))}

	usedItemsJSON, err := marshalNullableJSON(c.UsedItems, len(c.UsedItems) == 0)
	if err != nil {
		return fmt.Errorf("failed to marshal used items: %w", err)
	}
	var lootOptions any
	if len(c.LootOptions) > 0 {
		lootOptions = pq.Array(c.LootOptions)
	}

	tag, err := querierOr(r.pool, querier).Exec(ctx, completeSessionQuery,
		c.SessionID, c.CompletedAt, string(c.Outcome), c.ClickCount, lootOptions, usedItemsJSON,
	)
	if err != nil {
		r.logger.Error("Failed to complete battle session", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to complete battle session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Battle session already completed", logFields...)
		return models.ErrSessionAlreadyCompleted
	}
	return nil
}

func (r *pgBattleSessionRepository) SelectLoot(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, lootID string) error {
	q := querierOr(r.pool, querier)

	tag, err := q.Exec(ctx, selectLootQuery, id, lootID)
	if err != nil {
		r.logger.Error("Failed to select loot", zap.Stringer("sessionID", id), zap.Error(err))
		return fmt.Errorf("failed to select loot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, q, id); err != nil {
			return err
		}
		return models.ErrLootAlreadySelected
	}
	return nil
}

func (r *pgBattleSessionRepository) InsertHistory(ctx context.Context, querier interfaces.DBTX, h *models.BattleHistory) error {
	_, err := querierOr(r.pool, querier).Exec(ctx, insertHistoryQuery,
		h.ID, h.SessionID, h.PlayerID, h.MonsterName, h.Biome, h.Tier, string(h.Outcome),
		h.ClickCount, h.DurationSeconds, h.IsBoss, h.IsCorrupted, h.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert battle history", zap.Stringer("sessionID", h.SessionID), zap.Error(err))
		return fmt.Errorf("failed to insert battle history: %w", err)
	}
	return nil
}

func (r *pgBattleSessionRepository) ListHistory(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID, before *models.HistoryCursor, limit int) ([]models.BattleHistory, error) {
	var beforeAt *time.Time
	beforeID := uuid.Nil
	if before != nil {
		beforeAt = &before.CreatedAt
		beforeID = before.ID
	}
	history := make([]models.BattleHistory, 0)
	if err := pgxscan.Select(ctx, querierOr(r.pool, querier), &history, listHistoryQuery, playerID, beforeAt, beforeID, limit); err != nil {
		r.logger.Error("Failed to list battle history", zap.Stringer("playerID", playerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list battle history: %w", err)
	}
	return history, nil
}
