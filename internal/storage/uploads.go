package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// アップロード画像の保存先。保存したらURLパスを返す。
type UploadStore struct {
	dir        string
	publicPath string
}

func NewUploadStore(dir string, publicPath string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadStore{dir: dir, publicPath: publicPath}, nil
}

// ファイル名はuuidで付け直す（衝突・パス操作対策）。
func (s *UploadStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join(s.publicPath, name), nil
}
