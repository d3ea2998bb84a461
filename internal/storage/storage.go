package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// BlobStore хранилище бинарных файлов; Upload возвращает URL, по которому
// файл можно получить
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
}

// ObjectKey строит ключ объекта для изображения медикамента:
// medicines/{unix-millis}_{имя файла}
func ObjectKey(filename string) string {
	return fmt.Sprintf("medicines/%d_%s", time.Now().UnixMilli(), filepath.Base(filename))
}

// LocalStore кладёт файлы на диск и раздаёт их по baseURL
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ BlobStore = (*LocalStore)(nil)

// Dir корневой каталог хранилища
func (l *LocalStore) Dir() string { return l.dir }

func (l *LocalStore) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	dst := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return l.baseURL + "/" + path.Clean(key), nil
}
