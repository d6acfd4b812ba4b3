package api

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"menu-planner/domain"
)

var (
	lastTimestamp int64
)

// nextTimestampRange reserves n strictly increasing timestamps and returns the
// first one. It returns 0 when n is not positive.
func nextTimestampRange(n int) int64 {
	if n <= 0 {
		return 0
	}
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastTimestamp)
		if now <= last {
			now = last + 1
		}
		end := now + int64(n) - 1
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, end) {
			return now
		}
	}
}

// finalizeCommands assigns idempotency keys where missing, copies them to the
// command IDs and stamps sequential timestamps. It returns the keys in order.
func finalizeCommands(cmds []domain.Command) []string {
	keys := make([]string, len(cmds))
	start := nextTimestampRange(len(cmds))
	for i := range cmds {
		if cmds[i].IdempotencyKey == "" {
			cmds[i].IdempotencyKey = uuid.NewString()
		}
		cmds[i].ID = cmds[i].IdempotencyKey
		cmds[i].Timestamp = start + int64(i)
		keys[i] = cmds[i].IdempotencyKey
	}
	return keys
}
