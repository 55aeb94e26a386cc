package persistence

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/config"
	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

const fieldsPerRow = 5

// FileStore reads and writes the flat ticket file.
// Rows are id,event,username,YYYYMMDD,priority with no header.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore binds a store to the configured path.
func NewFileStore(cfg config.StoreConfig, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: cfg.Path, logger: logger}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load imports every row. A missing file is an empty collection.
func (s *FileStore) Load(ctx context.Context) ([]domain.Ticket, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("ticket file not found; starting empty", zap.String("path", s.path))
			return []domain.Ticket{}, nil
		}
		return nil, fmt.Errorf("open ticket file: %w", err)
	}
	defer f.Close()

	tickets, err := ReadTickets(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tickets imported", zap.String("path", s.path), zap.Int("count", len(tickets)))
	return tickets, nil
}

// Save writes tickets to a temp file next to the target and renames it into place.
func (s *FileStore) Save(ctx context.Context, tickets []domain.Ticket) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp ticket file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp ticket file: %w", err)
	}
	if err := WriteTickets(ctx, tmp, tickets); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ticket file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ticket file: %w", err)
	}
	s.logger.Info("tickets saved", zap.String("path", s.path), zap.Int("count", len(tickets)))
	return nil
}

// ReadTickets parses rows from r. Identifiers must be unique.
func ReadTickets(ctx context.Context, r io.Reader) ([]domain.Ticket, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	tickets := []domain.Ticket{}
	seen := map[string]int{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return tickets, nil
		}
		if err != nil {
			return nil, apperrors.NewValidationError("malformed ticket file", map[string]any{"error": err.Error()})
		}
		line, _ := reader.FieldPos(0)

		ticket, err := ParseRow(record)
		if err != nil {
			de := apperrors.ToDomainError(err)
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d: %s", line, de.Message), de.Details)
		}
		if prev, dup := seen[ticket.ID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("line %d: duplicate ticket id", line), map[string]any{
				"ticket_id":  ticket.ID,
				"first_line": prev,
			})
		}
		seen[ticket.ID] = line
		tickets = append(tickets, ticket)
	}
}

// WriteTickets serializes tickets to w, one row each.
func WriteTickets(ctx context.Context, w io.Writer, tickets []domain.Ticket) error {
	writer := csv.NewWriter(w)
	for _, t := range tickets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(FormatRow(t)); err != nil {
			return fmt.Errorf("write ticket %s: %w", t.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ParseRow decodes one persisted record.
func ParseRow(record []string) (domain.Ticket, error) {
	if len(record) != fieldsPerRow {
		return domain.Ticket{}, apperrors.NewValidationError("wrong number of fields", map[string]any{
			"want": fieldsPerRow,
			"got":  len(record),
		})
	}
	date, err := domain.ParseDate(record[3])
	if err != nil {
		return domain.Ticket{}, err
	}
	priority, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return domain.Ticket{}, apperrors.NewValidationError("invalid priority", map[string]any{"priority": record[4]})
	}
	return domain.Ticket{
		ID:       record[0],
		EventID:  record[1],
		Username: record[2],
		Date:     date,
		Priority: priority,
	}, nil
}

// FormatRow encodes one ticket as a persisted record.
func FormatRow(t domain.Ticket) []string {
	return []string{
		t.ID,
		t.EventID,
		t.Username,
		domain.FormatDate(t.Date),
		strconv.Itoa(t.Priority),
	}
}
