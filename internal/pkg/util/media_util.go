package util

import (
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

// GetSafeContentType 通过文件头嗅探真实的 Content-Type，不信任客户端声明
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])

	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return contentType, nil
}

// GetImageDimensions 解码图片并返回宽高
func GetImageDimensions(reader io.ReadSeeker) (int, int, error) {
	img, err := imaging.Decode(reader)
	if err != nil {
		return 0, 0, err
	}

	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}
