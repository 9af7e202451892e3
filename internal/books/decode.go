package books

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// envelope is the {"data": ...} wrapper some deployments of the service use.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrap returns the payload inside a data envelope, or raw unchanged when the
// body is not wrapped.
func unwrap(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return trimmed, nil
	}
	return env.Data, nil
}

func decodeBookList(raw []byte) ([]Book, error) {
	payload, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	var list []Book
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, fmt.Errorf("book list: %w", err)
	}

	out := make([]Book, 0, len(list))
	for i, b := range list {
		if err := b.Validate(); err != nil {
			slog.Warn("dropping invalid book from list",
				slog.String("op", "books.decodeBookList"),
				slog.Int("index", i),
				slog.Int64("id", b.ID),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// decodeBook parses a single record. The second return distinguishes a parse
// error from a validation error.
func decodeBook(raw []byte) (Book, Kind, error) {
	payload, err := unwrap(raw)
	if err != nil {
		return Book{}, KindDecode, err
	}
	var b Book
	if err := json.Unmarshal(payload, &b); err != nil {
		return Book{}, KindDecode, fmt.Errorf("book: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Book{}, KindInvalid, err
	}
	return b, KindUnknown, nil
}
