package service

import (
	"context"
	"fmt"
	"testing"

	"file-insight/internal/model"
	"file-insight/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestStore() *storage.Store {
	return storage.New(afero.NewMemMapFs())
}

// fakeCompleter records what it was asked and answers with text or err.
type fakeCompleter struct {
	text         string
	err          error
	calls        int
	last         []model.ChatMessage
	unconfigured bool
}

func (f *fakeCompleter) Complete(_ context.Context, messages []model.ChatMessage) (string, error) {
	f.calls++
	f.last = messages
	return f.text, f.err
}

func (f *fakeCompleter) Configured() bool { return !f.unconfigured }
