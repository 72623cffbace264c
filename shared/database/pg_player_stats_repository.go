package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var _ interfaces.PlayerStatsRepository = (*pgPlayerStatsRepository)(nil)

type pgPlayerStatsRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlayerStatsRepository создает репозиторий статистики игроков.
func NewPgPlayerStatsRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PlayerStatsRepository {
	return &pgPlayerStatsRepository{
		pool:   pool,
		logger: logger.Named("PgPlayerStatsRepo"),
	}
}

const playerStatsColumns = `player_id, max_health, current_health, coins, level, experience,
    battles_won, battles_lost, cheat_detections, battles_won_streak, battles_won_streaks,
    unlocked_zones, active_challenge, created_at, updated_at`

const getPlayerStatsQuery = `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE player_id = $1`

const getPlayerStatsForUpdateQuery = getPlayerStatsQuery + ` FOR UPDATE`

const createPlayerStatsQuery = `
INSERT INTO player_stats (` + playerStatsColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (player_id) DO NOTHING`

// unlocked_zones и active_challenge меняются только своими методами
const savePlayerStatsQuery = `
UPDATE player_stats SET
    max_health = $2,
    current_health = $3,
    coins = $4,
    level = $5,
    experience = $6,
    battles_won = $7,
    battles_lost = $8,
    cheat_detections = $9,
    battles_won_streak = $10,
    battles_won_streaks = $11,
    updated_at = $12
WHERE player_id = $1`

const unlockZoneQuery = `
UPDATE player_stats
SET unlocked_zones = array_append(unlocked_zones, $2::text), updated_at = NOW()
WHERE player_id = $1 AND NOT ($2::text = ANY(unlocked_zones))`

const playerStatsExistsQuery = `SELECT EXISTS(SELECT 1 FROM player_stats WHERE player_id = $1)`

const setChallengeQuery = `UPDATE player_stats SET active_challenge = $2, updated_at = NOW() WHERE player_id = $1`

func (r *pgPlayerStatsRepository) GetByPlayerID(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	return r.get(ctx, querier, getPlayerStatsQuery, playerID)
}

func (r *pgPlayerStatsRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	return r.get(ctx, querier, getPlayerStatsForUpdateQuery, playerID)
}

func (r *pgPlayerStatsRepository) get(ctx context.Context, querier interfaces.DBTX, query string, playerID uuid.UUID) (*models.PlayerStats, error) {
	logFields := []zap.Field{zap.Stringer("playerID", playerID)}

	stats, err := scanPlayerStats(querierOr(r.pool, querier).QueryRow(ctx, query, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPlayerNotFound
		}
		r.logger.Error("Failed to get player stats", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return stats, nil
}

func scanPlayerStats(row pgx.Row) (*models.PlayerStats, error) {
	var (
		p             models.PlayerStats
		streaksJSON   []byte
		challengeJSON []byte
		zones         pq.StringArray
	)
	err := row.Scan(
		&p.PlayerID,
		&p.MaxHealth,
		&p.CurrentHealth,
		&p.Coins,
		&p.Level,
		&p.Experience,
		&p.Stats.BattlesWon,
		&p.Stats.BattlesLost,
		&p.Stats.CheatDetections,
		&p.Stats.BattlesWonStreak,
		&streaksJSON,
		&zones,
		&challengeJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalIfPresent(streaksJSON, &p.Stats.BattlesWonStreaks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal streaks: %w", err)
	}
	if err := unmarshalIfPresent(challengeJSON, &p.ActiveChallenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	p.UnlockedZones = []string(zones)
	return &p, nil
}

func (r *pgPlayerStatsRepository) CreateIfAbsent(ctx context.Context, querier interfaces.DBTX, stats *models.PlayerStats) error {
	streaksJSON, err := json.Marshal(stats.Stats.BattlesWonStreaks)
	if err != nil {
		return fmt.Errorf("failed to marshal streaks: %w", err)
	}
	challengeJSON, err := marshalNullableJSON(stats.ActiveChallenge, stats.ActiveChallenge == nil)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	_, err = querierOr(r.pool, querier).Exec(ctx, createPlayerStatsQuery,
		stats.PlayerID,
		stats.MaxHealth,
		stats.CurrentHealth,
		stats.Coins,
		stats.Level,
		stats.Experience,
		stats.Stats.BattlesWon,
		stats.Stats.BattlesLost,
		stats.Stats.CheatDetections,
		stats.Stats.BattlesWonStreak,
		streaksJSON,
		pq.Array(stats.UnlockedZones),
		challengeJSON,
		stats.CreatedAt,
		stats.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create player stats", zap.Stringer("playerID", stats.PlayerID), zap.Error(err))
		return fmt.Errorf("failed to create player stats: %w", err)
	}
	return nil
}

func (r *pgPlayerStatsRepository) Save(ctx context.Context, querier interfaces.DBTX, stats *models.PlayerStats) error {
	logFields := []zap.Field{zap.Stringer("playerID", stats.PlayerID)}

	streaksJSON, err := json.Marshal(stats.Stats.BattlesWonStreaks)
	if err != nil {
		return fmt.Errorf("failed to marshal streaks: %w", err)
	}

	tag, err := querierOr(r.pool, querier).Exec(ctx, savePlayerStatsQuery,
		stats.PlayerID,
		stats.MaxHealth,
		stats.CurrentHealth,
		stats.Coins,
		stats.Level,
		stats.Experience,
		stats.Stats.BattlesWon,
		stats.Stats.BattlesLost,
		stats.Stats.CheatDetections,
		stats.Stats.BattlesWonStreak,
		streaksJSON,
		stats.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save player stats", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to save player stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPlayerNotFound
	}
	return nil
}

func (r *pgPlayerStatsRepository) UnlockZone(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID, zoneKey string) (bool, error) {
	q := querierOr(r.pool, querier)
	logFields := []zap.Field{zap.Stringer("playerID", playerID), zap.String("zone", zoneKey)}

	tag, err := q.Exec(ctx, unlockZoneQuery, playerID, zoneKey)
	if err != nil {
		r.logger.Error("Failed to unlock zone", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to unlock zone: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info("Zone unlocked", logFields...)
		return true, nil
	}

	// Ни одной строки: зона уже открыта или игрока нет
	var exists bool
	if err := q.QueryRow(ctx, playerStatsExistsQuery, playerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check player stats: %w", err)
	}
	if !exists {
		return false, models.ErrPlayerNotFound
	}
	return false, nil
}

func (r *pgPlayerStatsRepository) SetChallenge(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID, challenge *models.ChallengeConfig) error {
	challengeJSON, err := marshalNullableJSON(challenge, challenge == nil)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}
	tag, err := querierOr(r.pool, querier).Exec(ctx, setChallengeQuery, playerID, challengeJSON)
	if err != nil {
		r.logger.Error("Failed to set challenge", zap.Stringer("playerID", playerID), zap.Error(err))
		return fmt.Errorf("failed to set challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPlayerNotFound
	}
	return nil
}
