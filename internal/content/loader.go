package content

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

// Load читает таблицы контента из YAML/JSON файла.
// Пустой путь - встроенные таблицы.
func Load(path string, logger *zap.Logger) (*Tables, error) {
	log := logger.Named("ContentLoader")
	if path == "" {
		log.Info("CONTENT_FILE not set, using built-in content tables")
		return Default()
	}

	var t Tables
	if err := cleanenv.ReadConfig(path, &t); err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	if err := Validate(&t); err != nil {
		return nil, fmt.Errorf("invalid content file %s: %w", path, err)
	}
	if err := t.Build(); err != nil {
		return nil, fmt.Errorf("invalid content references in %s: %w", path, err)
	}

	log.Info("Content tables loaded",
		zap.String("path", path),
		zap.Int("monsters", len(t.Monsters)),
		zap.Int("items", len(t.Items)),
		zap.Int("lootTables", len(t.LootTables)),
	)
	return &t, nil
}

// Validate проверяет поля таблиц по тегам validate.
func Validate(t *Tables) error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(t)
}
