package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM products", 3 }

	testCases := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantCount int
	}{
		{name: "Error is logged", level: gormlogger.Warn, begin: time.Now(), err: errors.New("boom"), wantMsg: "query failed", wantCount: 1},
		{name: "Record not found is ignored", level: gormlogger.Warn, begin: time.Now(), err: gormlogger.ErrRecordNotFound, wantCount: 0},
		{name: "Slow query is logged", level: gormlogger.Warn, begin: time.Now().Add(-time.Second), wantMsg: "slow query", wantCount: 1},
		{name: "Fast query below info is silent", level: gormlogger.Warn, begin: time.Now(), wantCount: 0},
		{name: "Silent level logs nothing", level: gormlogger.Silent, begin: time.Now(), err: errors.New("boom"), wantCount: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			l := NewGormLogger(zap.New(core)).LogMode(tc.level)

			l.Trace(context.Background(), tc.begin, query, tc.err)

			assert.Equal(t, tc.wantCount, logs.Len())
			if tc.wantCount > 0 {
				entry := logs.All()[0]
				assert.Equal(t, tc.wantMsg, entry.Message)
				assert.Equal(t, "SELECT * FROM products", entry.ContextMap()["sql"])
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
