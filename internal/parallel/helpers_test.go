package parallel

import (
	"os"

	"uniqcount/internal/record"
)

func writeRaw(path string, b []byte) error { return os.WriteFile(path, b, 0o644) }

func decodeFile(path string, dst record.Counts) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = record.Decode(dst, b)
	return err
}
