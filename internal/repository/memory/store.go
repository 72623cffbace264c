// Package memory implements the repository interfaces on in-process maps.
// It backs the "memory" storage driver and the service tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNoSQL = errors.New("memory store does not execute SQL")

// Store хранит все сущности. Транзакции сериализуются одним мьютексом,
// при ошибке состояние восстанавливается из снимка.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]models.BattleSession
	monsters map[uuid.UUID]models.Monster
	stats    map[uuid.UUID]models.PlayerStats
	history  []models.BattleHistory
	outbox   []models.OutboxEvent
}

var _ interfaces.Transactor = (*Store)(nil)

// NewStore создает пустое хранилище.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]models.BattleSession),
		monsters: make(map[uuid.UUID]models.Monster),
		stats:    make(map[uuid.UUID]models.PlayerStats),
	}
}

// txHandle передается в репозитории внутри WithTransaction.
type txHandle struct {
	store *Store
}

func (t *txHandle) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoSQL
}

func (t *txHandle) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errNoSQL
}

func (t *txHandle) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errNoSQL }

type snapshot struct {
	sessions map[uuid.UUID]models.BattleSession
	monsters map[uuid.UUID]models.Monster
	stats    map[uuid.UUID]models.PlayerStats
	history  []models.BattleHistory
	outbox   []models.OutboxEvent
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		sessions: make(map[uuid.UUID]models.BattleSession, len(s.sessions)),
		monsters: make(map[uuid.UUID]models.Monster, len(s.monsters)),
		stats:    make(map[uuid.UUID]models.PlayerStats, len(s.stats)),
		history:  append([]models.BattleHistory(nil), s.history...),
		outbox:   append([]models.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v.Clone()
	}
	for k, v := range s.monsters {
		snap.monsters[k] = v.Clone()
	}
	for k, v := range s.stats {
		snap.stats[k] = v.Clone()
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.sessions = snap.sessions
	s.monsters = snap.monsters
	s.stats = snap.stats
	s.history = snap.history
	s.outbox = snap.outbox
}

// WithTransaction выполняет fn атомарно: при ошибке или панике изменения откатываются.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx interfaces.DBTX) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err = fn(ctx, &txHandle{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lock берет мьютекс, если вызов сделан вне транзакции этого хранилища.
func (s *Store) lock(querier interfaces.DBTX) func() {
	if tx, ok := querier.(*txHandle); ok && tx.store == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Sessions возвращает репозиторий сессий.
func (s *Store) Sessions() interfaces.BattleSessionRepository { return &sessionRepo{s} }

// Monsters возвращает репозиторий монстров.
func (s *Store) Monsters() interfaces.MonsterRepository { return &monsterRepo{s} }

// PlayerStats возвращает репозиторий статистики.
func (s *Store) PlayerStats() interfaces.PlayerStatsRepository { return &statsRepo{s} }

// Outbox возвращает репозиторий outbox-событий.
func (s *Store) Outbox() interfaces.OutboxRepository { return &outboxRepo{s} }

// History возвращает копию всей истории; используется в тестах.
func (s *Store) History() []models.BattleHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.BattleHistory(nil), s.history...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
