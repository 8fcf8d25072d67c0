package redisclient

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"

	"github.com/mohit83k/radiusd/internal/logger"
)

type recordLogger struct {
	infos  []string
	errs   []error
	fields map[string]any
}

func (l *recordLogger) Debug(string)    {}
func (l *recordLogger) Warn(string)     {}
func (l *recordLogger) Info(msg string) { l.infos = append(l.infos, msg) }
func (l *recordLogger) Error(err error) { l.errs = append(l.errs, err) }
func (l *recordLogger) WithFields(f map[string]any) logger.Logger {
	l.fields = f
	return l
}

func TestAccountingWatcher_HandleEvent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	log := &recordLogger{}
	w := NewAccountingWatcher(db, log)

	key := "radius:acct:alice:s1:20250621T100000"
	mock.ExpectGet(key).SetVal(`{"username":"alice","acct_status_type":"Start","acct_session_id":"s1"}`)

	w.handleEvent(context.Background(), "radius:user:alice")
	w.handleEvent(context.Background(), key)

	if len(log.infos) != 1 || log.fields["username"] != "alice" || log.fields["session"] != "s1" {
		t.Errorf("unexpected log output: %v %v", log.infos, log.fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAccountingWatcher_MissingKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	log := &recordLogger{}
	w := NewAccountingWatcher(db, log)

	mock.ExpectGet("radius:acct:gone").RedisNil()
	w.handleEvent(context.Background(), "radius:acct:gone")

	if len(log.errs) != 1 || len(log.infos) != 0 {
		t.Errorf("expected one error log, got infos=%v errs=%v", log.infos, log.errs)
	}
}
