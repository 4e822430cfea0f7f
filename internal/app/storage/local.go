package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const defaultFilePermissions = 0o644

// LocalStore хранит изображения в каталоге на диске, раздается через gin Static
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &LocalStore{
		root:      root,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Root возвращает каталог, который нужно раздавать как статику
func (l *LocalStore) Root() string {
	return l.root
}

// URLPrefix возвращает префикс URL для раздачи файлов
func (l *LocalStore) URLPrefix() string {
	return l.urlPrefix
}

func (l *LocalStore) Save(_ context.Context, data []byte) (string, error) {
	key, _ := objectKey(data)

	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(dst, data, defaultFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logrus.Debugf("File %s saved to %s", key, dst)
	return key, nil
}

func (l *LocalStore) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalStore) URL(_ context.Context, key string) (string, error) {
	return l.urlPrefix + "/" + strings.TrimPrefix(path.Clean("/"+key), "/"), nil
}

// path не дает выйти за пределы каталога хранилища
func (l *LocalStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}
