package storage

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

// Имя файла контрольных сумм внутри архива
const backupChecksumsName = "CHECKSUMS.txt"

// CreateBackup упаковывает директорию сохранения в tar.gz архив.
// В конец архива добавляется список xxhash-сумм всех файлов, по
// которому восстановленное сохранение можно проверить на битость.
func CreateBackup(saveDir, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("ошибка создания файла архива: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	checksums := make(map[string]uint64)

	err = filepath.Walk(saveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(saveDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("ошибка чтения %s: %w", rel, err)
		}
		checksums[rel] = xxhash.Sum64(data)

		header := &tar.Header{
			Name:    rel,
			Mode:    0644,
			Size:    int64(len(data)),
			ModTime: info.ModTime(),
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		_, err = tw.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка упаковки сохранения: %w", err)
	}

	if err := writeChecksums(tw, checksums); err != nil {
		return fmt.Errorf("ошибка записи контрольных сумм: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("ошибка завершения архива: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("ошибка завершения сжатия: %w", err)
	}
	return out.Close()
}

func writeChecksums(tw *tar.Writer, checksums map[string]uint64) error {
	names := make([]string, 0, len(checksums))
	for name := range checksums {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%016x  %s\n", checksums[name], name)
	}
	content := sb.String()

	header := &tar.Header{
		Name: backupChecksumsName,
		Mode: 0644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := io.WriteString(tw, content)
	return err
}

// VerifyBackup читает архив и сверяет содержимое с его списком
// контрольных сумм
func VerifyBackup(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ошибка открытия архива: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("ошибка чтения сжатия: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	actual := make(map[string]uint64)
	var checksumData []byte

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ошибка чтения архива: %w", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("ошибка чтения %s: %w", header.Name, err)
		}
		if header.Name == backupChecksumsName {
			checksumData = data
			continue
		}
		actual[header.Name] = xxhash.Sum64(data)
	}

	if checksumData == nil {
		return fmt.Errorf("в архиве нет файла %s", backupChecksumsName)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(checksumData)), "\n") {
		var sum uint64
		var name string
		if _, err := fmt.Sscanf(line, "%x  %s", &sum, &name); err != nil {
			return fmt.Errorf("непригодная строка контрольной суммы: %q", line)
		}
		if actual[name] != sum {
			return fmt.Errorf("файл %s повреждён: сумма %016x вместо %016x", name, actual[name], sum)
		}
	}
	return nil
}
