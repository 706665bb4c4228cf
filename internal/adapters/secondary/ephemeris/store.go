package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/admin/astro/rashi-api/internal/ports/storage"
)

// ModuleName имя модуля в логах и статусе
const ModuleName = "ephemeris"

// ErrNoEphemerisFiles каталог существует, но в нём нет файлов
var ErrNoEphemerisFiles = errors.New("ephemeris directory has no files")

// Store каталог эфемерид на локальном диске с необязательной подгрузкой из S3
type Store struct {
	cfg    *Config
	source storage.IS3Client
	log    *slog.Logger
	getwd  func() (string, error)
}

// NewStore source может быть nil, тогда каталог только проверяется
func NewStore(cfg *Config, source storage.IS3Client, log *slog.Logger) *Store {
	return &Store{
		cfg:    cfg,
		source: source,
		log:    log,
		getwd:  os.Getwd,
	}
}

// Resolve возвращает абсолютный путь каталога относительно рабочей директории процесса
func (s *Store) Resolve() (string, error) {
	if filepath.IsAbs(s.cfg.Path) {
		return filepath.Clean(s.cfg.Path), nil
	}
	wd, err := s.getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, s.cfg.Path), nil
}

// Acquire подготавливает каталог и возвращает его путь. Ошибка означает, что в каталоге
// нет ни одного файла; путь при этом всё равно возвращается.
func (s *Store) Acquire(ctx context.Context) (string, error) {
	dir, err := s.Resolve()
	if err != nil {
		return "", err
	}

	if s.source != nil {
		synced, err := s.Sync(ctx, dir)
		if err != nil {
			s.log.Warn("failed to sync ephemeris from s3", "error", err, "dir", dir)
		} else if synced > 0 {
			s.log.Info("ephemeris files downloaded", "count", synced, "dir", dir)
		}
	}

	if err := checkDir(dir); err != nil {
		return dir, err
	}
	return dir, nil
}

// CanSync true, если настроен источник в S3
func (s *Store) CanSync() bool {
	return s.source != nil
}

// Refresh докачивает новые файлы из S3 в рабочий каталог
func (s *Store) Refresh(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, nil
	}
	dir, err := s.Resolve()
	if err != nil {
		return 0, err
	}
	return s.Sync(ctx, dir)
}

// Sync скачивает в dir объекты из S3, которых нет на диске или чей размер изменился
func (s *Store) Sync(ctx context.Context, dir string) (int, error) {
	objects, err := s.source.ListObjects(ctx, s.cfg.S3Prefix)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create ephemeris dir: %w", err)
	}

	synced := 0
	for _, obj := range objects {
		rel := relativeName(obj.Key, s.cfg.S3Prefix)
		if rel == "" {
			continue
		}

		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(dst); err == nil && info.Size() == obj.Size {
			continue
		}

		if err := s.download(ctx, obj.Key, dst); err != nil {
			return synced, fmt.Errorf("failed to sync %s: %w", rel, err)
		}
		synced++
	}

	return synced, nil
}

// relativeName путь объекта внутри каталога; «..» не выводит за его пределы
func relativeName(key, prefix string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
	return path.Clean("/" + rel)[1:]
}

// download пишет объект во временный файл рядом с dst и переименовывает его
func (s *Store) download(ctx context.Context, key, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".ephe-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := s.source.Download(ctx, key, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("ephemeris directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ephemeris path %s is not a directory", dir)
	}

	found := false
	err = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan ephemeris directory: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNoEphemerisFiles, dir)
	}
	return nil
}
