package persistence

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-booking/internal/config"
	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

func TestParseRow_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"tick001", "concert", "admin", "20241014", "5"},
		{"tick002", "expo, hall B", "alice", "20240229", "-3"},
		{"tick003", `say "hi"`, "bob", "20251231", "0"},
	}
	for _, row := range rows {
		ticket, err := ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, row, FormatRow(ticket))
	}
}

func TestParseRow_Rejects(t *testing.T) {
	cases := map[string][]string{
		"short":        {"tick001", "concert", "admin", "20241014"},
		"bad date":     {"tick001", "concert", "admin", "20241332", "1"},
		"bad priority": {"tick001", "concert", "admin", "20241014", "high"},
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRow(row)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
		})
	}
}

func TestReadWriteTickets_RoundTrip(t *testing.T) {
	input := "tick001,concert,admin,20241014,5\r\n" +
		"tick002,\"expo, hall B\",alice,20240229,-3\r\n" +
		"\r\n" +
		"tick003,opera,bob,20251231, 2\r\n"

	tickets, err := ReadTickets(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, "expo, hall B", tickets[1].EventID)
	assert.Equal(t, 2, tickets[2].Priority)

	var buf bytes.Buffer
	require.NoError(t, WriteTickets(context.Background(), &buf, tickets))
	assert.Equal(t, "tick001,concert,admin,20241014,5\n"+
		"tick002,\"expo, hall B\",alice,20240229,-3\n"+
		"tick003,opera,bob,20251231,2\n", buf.String())
}

func TestReadTickets_ReportsLine(t *testing.T) {
	input := "tick001,concert,admin,20241014,5\ntick002,concert,admin,2024,5\n"
	_, err := ReadTickets(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadTickets_RejectsDuplicateIDs(t *testing.T) {
	input := "tick001,concert,admin,20241014,5\ntick001,opera,bob,20241015,1\n"
	_, err := ReadTickets(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, 1, de.Details["first_line"])
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(config.StoreConfig{Path: filepath.Join(t.TempDir(), "tickets.txt")}, zap.NewNop())
	tickets, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.txt")
	store := NewFileStore(config.StoreConfig{Path: path}, zap.NewNop())

	date, err := domain.ParseDate("20241014")
	require.NoError(t, err)
	want := []domain.Ticket{
		{ID: "tick001", EventID: "concert", Username: "admin", Date: date, Priority: 5},
		{ID: "tick002", EventID: "opera", Username: "alice", Date: date, Priority: 0},
	}
	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up after rename")

	require.NoError(t, store.Save(context.Background(), nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
