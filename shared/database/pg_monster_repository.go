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
	"go.uber.org/zap"
)

var _ interfaces.MonsterRepository = (*pgMonsterRepository)(nil)

type pgMonsterRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgMonsterRepository создает репозиторий монстров.
func NewPgMonsterRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.MonsterRepository {
	return &pgMonsterRepository{
		pool:   pool,
		logger: logger.Named("PgMonsterRepo"),
	}
}

const createMonsterQuery = `
INSERT INTO monsters (id, template_id, name, biome, tier, clicks_required, attack_damage, is_boss,
    is_corrupted, buffs, special_attacks, escape_timer_seconds, loot_table_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getMonsterQuery = `
SELECT id, template_id, name, biome, tier, clicks_required, attack_damage, is_boss,
    is_corrupted, buffs, special_attacks, escape_timer_seconds, loot_table_id, created_at
FROM monsters WHERE id = $1`

const updateClicksRequiredQuery = `
UPDATE monsters SET clicks_required = $3
WHERE id = $1 AND clicks_required = $2`

func (r *pgMonsterRepository) Create(ctx context.Context, querier interfaces.DBTX, m *models.Monster) error {
	buffsJSON, err := json.Marshal(nonNilBuffs(m.Buffs))
	if err != nil {
		return fmt.Errorf("failed to marshal buffs: %w", err)
	}
	attacksJSON, err := json.Marshal(nonNilAttacks(m.SpecialAttacks))
	if err != nil {
		return fmt.Errorf("failed to marshal special attacks: %w", err)
	}

	_, err = querierOr(r.pool, querier).Exec(ctx, createMonsterQuery,
		m.ID, m.TemplateID, m.Name, m.Biome.String(), m.Tier, m.ClicksRequired, m.AttackDamage,
		m.IsBoss, m.IsCorrupted, buffsJSON, attacksJSON, m.EscapeTimerSeconds, m.LootTableID, m.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create monster", zap.Stringer("monsterID", m.ID), zap.Error(err))
		return fmt.Errorf("failed to create monster: %w", err)
	}
	return nil
}

func (r *pgMonsterRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.Monster, error) {
	var (
		m           models.Monster
		biome       string
		buffsJSON   []byte
		attacksJSON []byte
	)
	err := querierOr(r.pool, querier).QueryRow(ctx, getMonsterQuery, id).Scan(
		&m.ID, &m.TemplateID, &m.Name, &biome, &m.Tier, &m.ClicksRequired, &m.AttackDamage,
		&m.IsBoss, &m.IsCorrupted, &buffsJSON, &attacksJSON, &m.EscapeTimerSeconds, &m.LootTableID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get monster", zap.Stringer("monsterID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get monster: %w", err)
	}

	if m.Biome, err = models.ParseBiome(biome); err != nil {
		return nil, fmt.Errorf("monster %s: %w", id, err)
	}
	if err := unmarshalIfPresent(buffsJSON, &m.Buffs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buffs: %w", err)
	}
	if err := unmarshalIfPresent(attacksJSON, &m.SpecialAttacks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal special attacks: %w", err)
	}
	return &m, nil
}

func (r *pgMonsterRepository) UpdateClicksRequired(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, expected, newValue int) error {
	logFields := []zap.Field{zap.Stringer("monsterID", id), zap.Int("expected", expected), zap.Int("new", newValue)}

	tag, err := querierOr(r.pool, querier).Exec(ctx, updateClicksRequiredQuery, id, expected, newValue)
	if err != nil {
		r.logger.Error("Failed to update clicks required", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update clicks required: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Clicks required changed concurrently", logFields...)
		return models.ErrConflict
	}
	return nil
}

func nonNilBuffs(b []models.MonsterBuff) []models.MonsterBuff {
	if b == nil {
		return []models.MonsterBuff{}
	}
	return b
}

func nonNilAttacks(a []models.SpecialAttack) []models.SpecialAttack {
	if a == nil {
		return []models.SpecialAttack{}
	}
	return a
}
